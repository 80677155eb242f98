package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/feed"
	"github.com/Galinha2/super-nova-2177/internal/metrics"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrVoteNotFound     = errors.New("vote not found")
	ErrInvalidInput     = errors.New("invalid input")
)

// ProposalRepository handles all database operations for proposals
type ProposalRepository interface {
	List(ctx context.Context, q feed.Query, limit int) ([]models.Proposal, error)
	Get(ctx context.Context, id string) (*models.Proposal, error)
	Create(ctx context.Context, p *models.Proposal) error
	Count(ctx context.Context) (int64, error)

	// Serialized read-modify-write of one proposal
	ApplyVote(ctx context.Context, id string, voter models.Identity, choice models.Choice) (*models.Proposal, error)
	RemoveVote(ctx context.Context, id, voter string) (*models.Proposal, error)
	AppendComment(ctx context.Context, id string, c models.Comment) (*models.Proposal, error)

	// Full replacement of the denormalized collections
	ReplaceVotes(ctx context.Context, id string, likes, dislikes []models.Vote) error
	ReplaceComments(ctx context.Context, id string, comments []models.Comment) error
}

// proposalRepository implements ProposalRepository with gorm
type proposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a new proposal repository
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

// List returns proposals matching q in q's order. limit <= 0 means no limit.
func (r *proposalRepository) List(ctx context.Context, q feed.Query, limit int) (out []models.Proposal, err error) {
	defer observe("list", time.Now(), &err)

	dir := "DESC"
	if !q.Descending {
		dir = "ASC"
	}

	tx := r.db.WithContext(ctx).Model(&models.Proposal{})
	if q.Species != "" {
		tx = tx.Where("author_species = ?", q.Species)
	}
	if q.TitleContains != "" {
		tx = tx.Where("LOWER(title) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(q.TitleContains))+"%")
	}
	tx = tx.Order(orderExpression(r.db.Dialector.Name(), q.OrderBy) + " " + dir).Order("id " + dir)
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return out, nil
}

// Get gets a proposal by ID
func (r *proposalRepository) Get(ctx context.Context, id string) (_ *models.Proposal, err error) {
	defer observe("get", time.Now(), &err)

	var p models.Proposal
	err = r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProposalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new proposal; ID and CreatedAt are assigned here
func (r *proposalRepository) Create(ctx context.Context, p *models.Proposal) (err error) {
	if p == nil {
		return ErrInvalidInput
	}
	defer observe("create", time.Now(), &err)
	return r.db.WithContext(ctx).Create(p).Error
}

// Count returns the number of proposals
func (r *proposalRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Proposal{}).Count(&n).Error
	return n, err
}

// ApplyVote puts voter in the list matching choice, removing any earlier vote
func (r *proposalRepository) ApplyVote(ctx context.Context, id string, voter models.Identity, choice models.Choice) (*models.Proposal, error) {
	return r.update(ctx, "apply_vote", id, func(p models.Proposal) (models.Proposal, error) {
		return p.WithVote(voter, choice), nil
	})
}

// RemoveVote drops voter from both lists. ErrVoteNotFound if there was nothing to remove.
func (r *proposalRepository) RemoveVote(ctx context.Context, id, voter string) (*models.Proposal, error) {
	return r.update(ctx, "remove_vote", id, func(p models.Proposal) (models.Proposal, error) {
		if !p.HasVoter(voter) {
			return p, ErrVoteNotFound
		}
		return p.WithoutVoter(voter), nil
	})
}

// AppendComment adds c to the end of the proposal's comments
func (r *proposalRepository) AppendComment(ctx context.Context, id string, c models.Comment) (*models.Proposal, error) {
	return r.update(ctx, "append_comment", id, func(p models.Proposal) (models.Proposal, error) {
		return p.WithComment(c), nil
	})
}

// ReplaceVotes overwrites both vote collections
func (r *proposalRepository) ReplaceVotes(ctx context.Context, id string, likes, dislikes []models.Vote) error {
	_, err := r.update(ctx, "replace_votes", id, func(p models.Proposal) (models.Proposal, error) {
		p.Likes = likes
		p.Dislikes = dislikes
		return p, nil
	})
	return err
}

// ReplaceComments overwrites the comment collection
func (r *proposalRepository) ReplaceComments(ctx context.Context, id string, comments []models.Comment) error {
	_, err := r.update(ctx, "replace_comments", id, func(p models.Proposal) (models.Proposal, error) {
		p.Comments = comments
		return p, nil
	})
	return err
}

// update loads, transforms and saves one proposal inside a transaction.
// Postgres locks the row; sqlite serializes writers on its own.
func (r *proposalRepository) update(ctx context.Context, op, id string, fn func(models.Proposal) (models.Proposal, error)) (_ *models.Proposal, err error) {
	defer observe(op, time.Now(), &err)

	var out models.Proposal
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var p models.Proposal
		err := q.Where("id = ?", id).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProposalNotFound
		}
		if err != nil {
			return err
		}

		next, err := fn(p)
		if err != nil {
			return err
		}
		next.ID = p.ID
		if err := tx.Select("likes", "dislikes", "comments", "updated_at").Save(&next).Error; err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// orderExpression returns the SQL sort key for field. Vote and comment
// counts are derived from the JSON collections.
func orderExpression(dialect string, field feed.OrderField) string {
	length := func(col string) string {
		if dialect == "postgres" {
			return fmt.Sprintf("json_array_length(COALESCE(NULLIF(%s, ''), '[]')::json)", col)
		}
		return fmt.Sprintf("json_array_length(COALESCE(%s, '[]'))", col)
	}

	switch field {
	case feed.OrderLikes:
		return length("likes")
	case feed.OrderEngagement:
		return "(" + length("likes") + " + " + length("comments") + ")"
	default:
		return "created_at"
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// observe records the duration and outcome of op. Not-found results are
// answers, not failures.
func observe(op string, start time.Time, errp *error) {
	m := metrics.Get()
	m.DatabaseQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	status := "ok"
	if err := *errp; err != nil && !errors.Is(err, ErrProposalNotFound) && !errors.Is(err, ErrVoteNotFound) {
		status = "error"
	}
	m.DatabaseQueriesTotal.WithLabelValues(op, status).Inc()
}
