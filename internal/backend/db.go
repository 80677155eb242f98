package backend

import (
	"context"
	"errors"

	apperrors "github.com/Galinha2/super-nova-2177/internal/errors"
	"github.com/Galinha2/super-nova-2177/internal/feed"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/internal/repository"
)

// DB reads and writes proposals directly in the database. Votes and
// comments are written by reading the current lists, changing them and
// writing them back, so two clients writing the same proposal at once can
// lose one of the writes.
type DB struct {
	repo repository.ProposalRepository
}

var _ feed.Backend = (*DB)(nil)

// NewDB creates a database backend
func NewDB(repo repository.ProposalRepository) *DB {
	return &DB{repo: repo}
}

// ListProposals runs q against the proposals table
func (b *DB) ListProposals(ctx context.Context, q feed.Query) ([]models.Proposal, error) {
	return b.repo.List(ctx, q, 0)
}

// CreateProposal inserts the draft; the database assigns ID and timestamp
func (b *DB) CreateProposal(ctx context.Context, draft models.ProposalDraft) (*models.Proposal, error) {
	p := draft.Proposal()
	if err := b.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CastVote rewrites both vote lists with voter in the chosen one
func (b *DB) CastVote(ctx context.Context, proposalID string, voter models.Identity, choice models.Choice) error {
	p, err := b.get(ctx, proposalID)
	if err != nil {
		return err
	}
	next := p.WithVote(voter, choice)
	return b.repo.ReplaceVotes(ctx, proposalID, next.Likes, next.Dislikes)
}

// RetractVote rewrites both vote lists without voter
func (b *DB) RetractVote(ctx context.Context, proposalID, voter string) error {
	p, err := b.get(ctx, proposalID)
	if err != nil {
		return err
	}
	next := p.WithoutVoter(voter)
	return b.repo.ReplaceVotes(ctx, proposalID, next.Likes, next.Dislikes)
}

// AddComment rewrites the comment list with comment appended
func (b *DB) AddComment(ctx context.Context, proposalID string, comment models.Comment) error {
	p, err := b.get(ctx, proposalID)
	if err != nil {
		return err
	}
	return b.repo.ReplaceComments(ctx, proposalID, p.WithComment(comment).Comments)
}

// Get returns one proposal
func (b *DB) Get(ctx context.Context, proposalID string) (*models.Proposal, error) {
	return b.get(ctx, proposalID)
}

func (b *DB) get(ctx context.Context, proposalID string) (*models.Proposal, error) {
	p, err := b.repo.Get(ctx, proposalID)
	if errors.Is(err, repository.ErrProposalNotFound) {
		return nil, apperrors.NotFound("proposal")
	}
	return p, err
}
