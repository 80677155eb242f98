package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db   *gorm.DB
	repo repository.ProposalRepository
	gen  *Generator
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, seed uint64) *Seeder {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Seeder{
		db:   db,
		repo: repository.NewProposalRepository(db),
		gen:  NewGenerator(seed),
	}
}

// SeedDev fills the database with count generated proposals
func (s *Seeder) SeedDev(ctx context.Context, count int) error {
	logger.Log.Info("Creating proposals...", zap.Int("count", count))
	for i, p := range s.gen.Proposals(count) {
		p.ID = ""
		if err := s.repo.Create(ctx, &p); err != nil {
			return fmt.Errorf("failed to seed proposal %d: %w", i+1, err)
		}
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	logger.Log.Info("Development seed complete", zap.Int("created", count), zap.Int64("total", total))
	return nil
}

// SeedTest inserts a small fixed set of proposals, skipping ones already present
func (s *Seeder) SeedTest(ctx context.Context) error {
	fixtures := []models.Proposal{
		{
			Title:  "Improve UI design",
			Body:   "Make the feed cards easier to scan",
			Author: models.Identity{Name: "Alice Johnson", Species: models.SpeciesHuman},
			Likes:  []models.Vote{{Voter: "Bob Smith", Species: models.SpeciesCompany}},
		},
		{
			Title:    "Optimize performance",
			Author:   models.Identity{Name: "Charlie Lee", Species: models.SpeciesAI},
			Media:    models.Media{Link: "https://example.com"},
			Dislikes: []models.Vote{{Voter: "Alice Johnson", Species: models.SpeciesHuman}},
		},
		{
			Title:    "Add new feature",
			Body:     "Let companies attach files to proposals",
			Author:   models.Identity{Name: "Bob Smith", Species: models.SpeciesCompany},
			Comments: []models.Comment{{User: "Charlie Lee", Species: models.SpeciesAI, Comment: "Agreed"}},
		},
	}

	for _, p := range fixtures {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.Proposal{}).Where("title = ? AND author_name = ?", p.Title, p.Author.Name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if err := s.repo.Create(ctx, &p); err != nil {
			return fmt.Errorf("failed to create test proposal %q: %w", p.Title, err)
		}
	}
	logger.Log.Info("Test seed complete")
	return nil
}

// Clean removes every proposal
func (s *Seeder) Clean(ctx context.Context) error {
	res := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Proposal{})
	if res.Error != nil {
		return fmt.Errorf("failed to clean proposals: %w", res.Error)
	}
	logger.Log.Info("Removed proposals", zap.Int64("count", res.RowsAffected))
	return nil
}
