package feed

import (
	"context"
	"io"

	"github.com/Galinha2/super-nova-2177/internal/models"
)

// Reader fetches feed pages
type Reader interface {
	ListProposals(ctx context.Context, q Query) ([]models.Proposal, error)
}

// Writer performs the remote half of optimistic mutations
type Writer interface {
	CreateProposal(ctx context.Context, draft models.ProposalDraft) (*models.Proposal, error)
	CastVote(ctx context.Context, proposalID string, voter models.Identity, choice models.Choice) error
	RetractVote(ctx context.Context, proposalID, voter string) error
	AddComment(ctx context.Context, proposalID string, comment models.Comment) error
}

// Backend is a complete remote data source
type Backend interface {
	Reader
	Writer
}

// MediaUploader stores a binary attachment and returns its durable URL
type MediaUploader interface {
	UploadMedia(ctx context.Context, kind models.MediaKind, filename string, body io.Reader) (string, error)
}
