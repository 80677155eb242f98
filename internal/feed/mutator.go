package feed

import (
	"context"
	"io"
	"strings"
	"time"

	apperrors "github.com/Galinha2/super-nova-2177/internal/errors"
	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/internal/metrics"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// VotePolicy decides what happens to an optimistic vote whose remote write failed
type VotePolicy int

const (
	// KeepOptimistic leaves the local vote in place and reports the error
	KeepOptimistic VotePolicy = iota
	// RollbackOnFailure restores the voter's previous state and reports the error
	RollbackOnFailure
)

// PendingPrefix marks provisional ids of posts awaiting server confirmation
const PendingPrefix = "pending-"

// Attachment is the media selection of a draft. Exactly one of URL or
// Content is expected; Content is uploaded before the post is created.
type Attachment struct {
	Kind     models.MediaKind
	URL      string
	Filename string
	Content  io.Reader
}

// Draft is a post being published
type Draft struct {
	Title  string
	Body   string
	Author models.Identity
	Media  *Attachment
}

// Mutator applies votes, comments and new posts to the store immediately
// and then writes them to the backend.
type Mutator struct {
	store    *Store
	backend  Writer
	uploader MediaUploader
	policy   VotePolicy
	now      func() time.Time
}

// NewMutator creates a mutator. uploader may be nil when attachments are never local files.
func NewMutator(store *Store, backend Writer, uploader MediaUploader, policy VotePolicy) *Mutator {
	return &Mutator{
		store:    store,
		backend:  backend,
		uploader: uploader,
		policy:   policy,
		now:      time.Now,
	}
}

// Vote casts or retracts a vote and returns the voter's resulting choice.
// Voting for the current choice again retracts it.
func (m *Mutator) Vote(ctx context.Context, proposalID string, voter models.Identity, choice models.Choice) (models.Choice, error) {
	voter.Name = strings.TrimSpace(voter.Name)
	if err := validation.Voter(voter); err != nil {
		recordMutation("vote", "invalid")
		return models.ChoiceNone, apperrors.Validation(apperrors.KindMissingIdentity, err)
	}

	previous := models.ChoiceNone
	result := choice
	var likes, dislikes []models.Vote
	found := m.store.Patch(proposalID, func(p models.Proposal) models.Proposal {
		likes, dislikes = p.Likes, p.Dislikes
		previous = p.VoteOf(voter.Name)
		if previous == choice {
			result = models.ChoiceNone
			return p.WithoutVoter(voter.Name)
		}
		return p.WithVote(voter, choice)
	})

	var err error
	if result == models.ChoiceNone {
		err = m.backend.RetractVote(ctx, proposalID, voter.Name)
	} else {
		err = m.backend.CastVote(ctx, proposalID, voter, choice)
	}
	if err != nil {
		logger.Log.Warn("Vote write failed",
			logger.WithProposalID(proposalID),
			logger.WithVoter(voter.Name),
			zap.Bool("in_feed", found),
			zap.Error(err),
		)
		if found && m.policy == RollbackOnFailure {
			m.store.Patch(proposalID, func(p models.Proposal) models.Proposal {
				p.Likes, p.Dislikes = likes, dislikes
				return p
			})
			result = previous
		}
		recordMutation("vote", "remote_error")
		return result, apperrors.Remote(apperrors.KindRemoteWriteFailed, "Your vote could not be saved", err)
	}

	recordMutation("vote", "ok")
	return result, nil
}

// Comment validates and writes a comment, then appends it to the local copy
func (m *Mutator) Comment(ctx context.Context, proposalID string, author models.Identity, text string) (*models.Comment, error) {
	if err := validation.Comment(proposalID, author, text); err != nil {
		recordMutation("comment", "invalid")
		return nil, apperrors.Validation(apperrors.KindInvalidComment, err)
	}

	comment := models.Comment{
		User:    author.Name,
		UserImg: author.AvatarURL,
		Species: author.Species,
		Comment: strings.TrimSpace(text),
	}

	if err := m.backend.AddComment(ctx, proposalID, comment); err != nil {
		logger.Log.Warn("Comment write failed", logger.WithProposalID(proposalID), zap.Error(err))
		recordMutation("comment", "remote_error")
		return nil, apperrors.Remote(apperrors.KindRemoteWriteFailed, "Your comment could not be saved", err)
	}

	m.store.Patch(proposalID, func(p models.Proposal) models.Proposal {
		return p.WithComment(comment)
	})
	recordMutation("comment", "ok")
	return &comment, nil
}

// Publish validates the draft, uploads any local media, and creates the post.
// A provisional copy is shown at the front of the feed while the create is in
// flight and replaced by the server's record once it succeeds.
func (m *Mutator) Publish(ctx context.Context, d Draft) (*models.Proposal, error) {
	if err := validateDraft(d); err != nil {
		recordMutation("publish", "invalid")
		return nil, apperrors.Validation(apperrors.KindInvalidPost, err)
	}

	media := models.Media{}
	if d.Media != nil {
		url := strings.TrimSpace(d.Media.URL)
		if d.Media.Content != nil {
			uploaded, err := m.upload(ctx, d.Media)
			if err != nil {
				recordMutation("publish", "upload_error")
				return nil, err
			}
			url = uploaded
		}
		media = media.With(d.Media.Kind, url)
	}

	draft := models.ProposalDraft{
		Title:  strings.TrimSpace(d.Title),
		Body:   strings.TrimSpace(d.Body),
		Author: d.Author,
		Media:  media,
	}

	provisional := draft.Proposal()
	provisional.ID = PendingPrefix + uuid.NewString()
	provisional.CreatedAt = m.now()
	m.store.Prepend(provisional)

	created, err := m.backend.CreateProposal(ctx, draft)
	m.store.Remove(provisional.ID)
	if err != nil {
		logger.Log.Warn("Publish failed", zap.String("title", draft.Title), zap.Error(err))
		recordMutation("publish", "remote_error")
		return nil, apperrors.Remote(apperrors.KindRemoteWriteFailed, "Your post could not be published", err)
	}

	m.store.Prepend(*created)
	recordMutation("publish", "ok")
	return created, nil
}

func (m *Mutator) upload(ctx context.Context, a *Attachment) (string, error) {
	if m.uploader == nil {
		return "", apperrors.Remote(apperrors.KindMediaUploadFailed, "Media upload is not configured", nil)
	}
	url, err := m.uploader.UploadMedia(ctx, a.Kind, a.Filename, a.Content)
	if err != nil {
		logger.Log.Warn("Media upload failed", zap.String("filename", a.Filename), zap.Error(err))
		return "", apperrors.Remote(apperrors.KindMediaUploadFailed, "Media upload failed", err)
	}
	return url, nil
}

func validateDraft(d Draft) error {
	hasMedia := false
	var errs error
	if d.Media != nil {
		hasURL := strings.TrimSpace(d.Media.URL) != ""
		hasContent := d.Media.Content != nil
		if err := validation.Attachment(d.Media.Kind, hasURL, hasContent); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			hasMedia = true
		}
	}
	return multierr.Combine(validation.Post(validation.PostInput{
		Title:    d.Title,
		Body:     d.Body,
		Author:   d.Author,
		HasMedia: hasMedia,
	}), errs)
}

func recordMutation(kind, outcome string) {
	metrics.Get().FeedMutationsTotal.WithLabelValues(kind, outcome).Inc()
}
