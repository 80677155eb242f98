package backend

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	apperrors "github.com/Galinha2/super-nova-2177/internal/errors"
	"github.com/Galinha2/super-nova-2177/internal/feed"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/internal/seed"
	"github.com/google/uuid"
)

// DemoMediaBase prefixes the URLs the demo backend hands out for uploads
const DemoMediaBase = "https://demo.supernova.local/media"

// Demo serves generated proposals from memory. Writes are kept for the
// lifetime of the value so the demo stays interactive.
type Demo struct {
	mu    sync.RWMutex
	items []models.Proposal
	now   func() time.Time
}

var (
	_ feed.Backend       = (*Demo)(nil)
	_ feed.MediaUploader = (*Demo)(nil)
)

// NewDemo generates count proposals from seed
func NewDemo(seedValue uint64, count int) *Demo {
	return NewDemoWith(seed.NewGenerator(seedValue).Proposals(count))
}

// NewDemoWith serves the given proposals
func NewDemoWith(items []models.Proposal) *Demo {
	out := make([]models.Proposal, len(items))
	for i, p := range items {
		out[i] = p.Clone()
	}
	return &Demo{items: out, now: time.Now}
}

// ListProposals applies q in memory
func (d *Demo) ListProposals(ctx context.Context, q feed.Query) ([]models.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := q.Apply(d.items)
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out, nil
}

// CreateProposal stores the draft under a new time-ordered ID
func (d *Demo) CreateProposal(ctx context.Context, draft models.ProposalDraft) (*models.Proposal, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	p := draft.Proposal()
	p.ID = id.String()
	p.CreatedAt = d.now()
	p.UpdatedAt = p.CreatedAt

	d.mu.Lock()
	d.items = append(d.items, p)
	d.mu.Unlock()

	out := p.Clone()
	return &out, nil
}

// CastVote moves voter into the chosen list
func (d *Demo) CastVote(ctx context.Context, proposalID string, voter models.Identity, choice models.Choice) error {
	return d.update(proposalID, func(p models.Proposal) models.Proposal {
		return p.WithVote(voter, choice)
	})
}

// RetractVote removes voter from both lists
func (d *Demo) RetractVote(ctx context.Context, proposalID, voter string) error {
	return d.update(proposalID, func(p models.Proposal) models.Proposal {
		return p.WithoutVoter(voter)
	})
}

// AddComment appends comment
func (d *Demo) AddComment(ctx context.Context, proposalID string, comment models.Comment) error {
	return d.update(proposalID, func(p models.Proposal) models.Proposal {
		return p.WithComment(comment)
	})
}

// Get returns one proposal
func (d *Demo) Get(ctx context.Context, proposalID string) (*models.Proposal, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.items {
		if p.ID == proposalID {
			out := p.Clone()
			return &out, nil
		}
	}
	return nil, apperrors.NotFound("proposal")
}

// UploadMedia discards the content and returns a stable fake URL
func (d *Demo) UploadMedia(ctx context.Context, kind models.MediaKind, filename string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s/%s", DemoMediaBase, kind, uuid.NewString(), path.Base(filename)), nil
}

func (d *Demo) update(proposalID string, fn func(models.Proposal) models.Proposal) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.items {
		if p.ID == proposalID {
			next := fn(p)
			next.UpdatedAt = d.now()
			d.items[i] = next
			return nil
		}
	}
	return apperrors.NotFound("proposal")
}
