// Package service implements the CLI commands on top of the feed controller.
package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Galinha2/super-nova-2177/internal/backend"
	apperrors "github.com/Galinha2/super-nova-2177/internal/errors"
	"github.com/Galinha2/super-nova-2177/internal/feed"
	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/pkg/api"
	"github.com/Galinha2/super-nova-2177/pkg/notify"
	"github.com/Galinha2/super-nova-2177/pkg/output"
	"github.com/Galinha2/super-nova-2177/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// FeedService provides feed reading and writing for the CLI
type FeedService struct {
	sel     *backend.Selection
	session *session.Session
	ctrl    *feed.Controller
}

// NewFeedService creates a feed service on an opened backend
func NewFeedService(sel *backend.Selection, sess *session.Session) *FeedService {
	ctrl := feed.NewController(sel.Backend, sel.Uploader,
		feed.WithStateListener(func(s feed.State) {
			notify.Debug("feed "+s.Phase.String(), "spec", s.Spec.String(), "seq", s.Seq)
		}),
	)
	return &FeedService{sel: sel, session: sess, ctrl: ctrl}
}

// Controller exposes the underlying feed controller
func (fs *FeedService) Controller() *feed.Controller {
	return fs.ctrl
}

// List loads one feed page for spec and prints it
func (fs *FeedService) List(ctx context.Context, spec feed.FilterSpec) error {
	logger.Log.Debug("Listing feed", zap.String("spec", spec.String()), logger.WithMode(fs.sel.Mode))
	if err := fs.ctrl.SetFilter(ctx, spec); err != nil {
		return err
	}
	return output.PrintProposals(fs.ctrl.Items())
}

// Watch reads commands from in, one per line, and reprints the feed after
// each. A plain line is the new search text; ":mode <m>" changes the mode,
// ":refresh" re-fetches and ":quit" stops.
func (fs *FeedService) Watch(ctx context.Context, in io.Reader, spec feed.FilterSpec) error {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	fs.report(fs.List(ctx, spec))

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprintf(output.Out, "[%s] search> ", fs.ctrl.State().Spec)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		var err error
		switch {
		case line == ":quit" || line == ":q":
			return nil
		case line == ":refresh":
			err = fs.ctrl.Refresh(ctx)
		case strings.HasPrefix(line, ":mode"):
			current := fs.ctrl.State().Spec
			err = fs.ctrl.SetFilter(ctx, feed.NewFilterSpec(strings.TrimSpace(strings.TrimPrefix(line, ":mode")), current.SearchText))
		default:
			err = fs.ctrl.SetSearch(ctx, line)
		}
		if err != nil {
			fs.report(err)
			continue
		}
		fs.report(output.PrintProposals(fs.ctrl.Items()))
	}
}

func (fs *FeedService) report(err error) {
	if err == nil || errors.Is(err, feed.ErrSuperseded) {
		return
	}
	notify.Errors(err)
}

// Vote votes as the session profile. Voting the current choice again
// retracts it. It returns the resulting choice.
func (fs *FeedService) Vote(ctx context.Context, proposalID string, choice models.Choice) (models.Choice, error) {
	if err := fs.load(ctx, proposalID); err != nil {
		return models.ChoiceNone, err
	}
	result, err := fs.ctrl.Vote(ctx, proposalID, fs.session.Profile(), choice)
	if err != nil {
		return result, err
	}
	switch result {
	case models.ChoiceNone:
		notify.Success("Vote removed", "proposal", proposalID)
	default:
		notify.Success("Vote recorded", "proposal", proposalID, "choice", result.String())
	}
	return result, nil
}

// Comment comments as the session profile
func (fs *FeedService) Comment(ctx context.Context, proposalID, text string) (*models.Comment, error) {
	c, err := fs.ctrl.Comment(ctx, proposalID, fs.session.Profile(), text)
	if err != nil {
		return nil, err
	}
	notify.Success("Comment added", "proposal", proposalID)
	return c, nil
}

// load puts the current copy of one proposal into the store so the
// mutator can see the voter's existing vote
func (fs *FeedService) load(ctx context.Context, proposalID string) error {
	p, err := fs.sel.Get(ctx, proposalID)
	if err != nil {
		if apperrors.IsNotFound(err) || api.IsNotFound(err) {
			return fmt.Errorf("proposal %s not found", proposalID)
		}
		return err
	}
	fs.ctrl.Store().ReplaceAll([]models.Proposal{*p})
	return nil
}
