package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Galinha2/super-nova-2177/internal/feed"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/pkg/notify"
)

// PublishOptions are the publish command flags. Image and File may be a
// URL or a local path; a local path is uploaded first.
type PublishOptions struct {
	Title string
	Body  string
	Image string
	Video string
	Link  string
	File  string
}

// Publish creates a post as the session profile
func (fs *FeedService) Publish(ctx context.Context, opts PublishOptions) (*models.Proposal, error) {
	att, closer, err := opts.attachment()
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}

	p, err := fs.ctrl.Publish(ctx, feed.Draft{
		Title:  opts.Title,
		Body:   opts.Body,
		Author: fs.session.Profile(),
		Media:  att,
	})
	if err != nil {
		return nil, err
	}
	notify.Success("Proposal published", "id", p.ID)
	return p, nil
}

func (o PublishOptions) attachment() (*feed.Attachment, io.Closer, error) {
	var chosen []struct {
		kind  models.MediaKind
		value string
	}
	for _, m := range []struct {
		kind  models.MediaKind
		value string
	}{
		{models.MediaImage, o.Image},
		{models.MediaVideo, o.Video},
		{models.MediaLink, o.Link},
		{models.MediaFile, o.File},
	} {
		if v := strings.TrimSpace(m.value); v != "" {
			m.value = v
			chosen = append(chosen, m)
		}
	}

	switch len(chosen) {
	case 0:
		return nil, nil, nil
	case 1:
	default:
		return nil, nil, fmt.Errorf("choose only one of --image, --video, --link or --file")
	}

	m := chosen[0]
	if !m.kind.Uploadable() || isURL(m.value) {
		return &feed.Attachment{Kind: m.kind, URL: m.value}, nil, nil
	}

	f, err := os.Open(m.value)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", m.value, err)
	}
	return &feed.Attachment{Kind: m.kind, Filename: filepath.Base(m.value), Content: f}, f, nil
}

func isURL(s string) bool {
	s = strings.ToLower(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
