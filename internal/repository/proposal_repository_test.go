package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/feed"
	"github.com/Galinha2/super-nova-2177/internal/metrics"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ProposalRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo ProposalRepository
	ctx  context.Context
}

func (s *ProposalRepositoryTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)
	sqlDB, err := db.DB()
	require.NoError(s.T(), err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(s.T(), db.AutoMigrate(&models.Proposal{}))

	s.db = db
	s.repo = NewProposalRepository(db)
	s.ctx = context.Background()
}

func (s *ProposalRepositoryTestSuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (s *ProposalRepositoryTestSuite) create(title string, species models.Species, likes int, comments int, at time.Time) *models.Proposal {
	p := &models.Proposal{
		Title:     title,
		Author:    models.Identity{Name: "author", Species: species},
		CreatedAt: at,
	}
	for i := 0; i < likes; i++ {
		p.Likes = append(p.Likes, models.Vote{Voter: "v" + string(rune('a'+i)), Species: models.SpeciesHuman})
	}
	for i := 0; i < comments; i++ {
		p.Comments = append(p.Comments, models.Comment{User: "c", Comment: "hi"})
	}
	require.NoError(s.T(), s.repo.Create(s.ctx, p))
	return p
}

func (s *ProposalRepositoryTestSuite) titles(items []models.Proposal) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Title
	}
	return out
}

func (s *ProposalRepositoryTestSuite) TestCreateAssignsID() {
	p := s.create("Improve UI design", models.SpeciesHuman, 0, 0, time.Now())
	s.NotEmpty(p.ID)

	got, err := s.repo.Get(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Improve UI design", got.Title)
	s.Equal(models.SpeciesHuman, got.Author.Species)
	s.NotNil(got.Likes)
	s.Empty(got.Likes)
}

func (s *ProposalRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, "missing")
	s.ErrorIs(err, ErrProposalNotFound)
}

func (s *ProposalRepositoryTestSuite) TestListOrdering() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.create("old", models.SpeciesHuman, 1, 5, base)
	s.create("mid", models.SpeciesAI, 3, 0, base.Add(time.Hour))
	s.create("new", models.SpeciesCompany, 2, 0, base.Add(2*time.Hour))

	cases := []struct {
		name string
		spec feed.FilterSpec
		want []string
	}{
		{"latest", feed.NewFilterSpec("latest", ""), []string{"new", "mid", "old"}},
		{"oldest", feed.NewFilterSpec("oldest", ""), []string{"old", "mid", "new"}},
		{"top liked", feed.NewFilterSpec("topLikes", ""), []string{"mid", "new", "old"}},
		{"less liked", feed.NewFilterSpec("lessLikes", ""), []string{"old", "new", "mid"}},
		{"popular", feed.NewFilterSpec("popular", ""), []string{"old", "mid", "new"}},
		{"species", feed.NewFilterSpec("ai", ""), []string{"mid"}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			items, err := s.repo.List(s.ctx, feed.Build(tc.spec), 0)
			s.Require().NoError(err)
			s.Equal(tc.want, s.titles(items))
		})
	}
}

func (s *ProposalRepositoryTestSuite) TestListSearchEscapesWildcards() {
	now := time.Now()
	s.create("Add new Feature", models.SpeciesHuman, 0, 0, now)
	s.create("100% uptime", models.SpeciesHuman, 0, 0, now.Add(time.Second))
	s.create("1000 uptime", models.SpeciesHuman, 0, 0, now.Add(2*time.Second))

	items, err := s.repo.List(s.ctx, feed.Query{OrderBy: feed.OrderCreatedAt, Descending: true, TitleContains: "FEATURE"}, 0)
	s.Require().NoError(err)
	s.Equal([]string{"Add new Feature"}, s.titles(items))

	items, err = s.repo.List(s.ctx, feed.Query{OrderBy: feed.OrderCreatedAt, Descending: true, TitleContains: "0%"}, 0)
	s.Require().NoError(err)
	s.Equal([]string{"100% uptime"}, s.titles(items))
}

func (s *ProposalRepositoryTestSuite) TestListLimit() {
	now := time.Now()
	for i := 0; i < 5; i++ {
		s.create("p", models.SpeciesHuman, 0, 0, now.Add(time.Duration(i)*time.Second))
	}
	items, err := s.repo.List(s.ctx, feed.DefaultQuery(), 2)
	s.Require().NoError(err)
	s.Len(items, 2)

	n, err := s.repo.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(5), n)
}

func (s *ProposalRepositoryTestSuite) TestApplyVoteMovesVoter() {
	p := s.create("vote me", models.SpeciesHuman, 0, 0, time.Now())
	voter := models.Identity{Name: "alice", Species: models.SpeciesAI}

	got, err := s.repo.ApplyVote(s.ctx, p.ID, voter, models.ChoiceUp)
	s.Require().NoError(err)
	s.Equal(1, got.LikeCount())

	got, err = s.repo.ApplyVote(s.ctx, p.ID, voter, models.ChoiceDown)
	s.Require().NoError(err)
	s.Equal(0, got.LikeCount())
	s.Equal(1, got.DislikeCount())

	stored, err := s.repo.Get(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal([]models.Vote{{Voter: "alice", Species: models.SpeciesAI}}, stored.Dislikes)
	s.Empty(stored.Likes)
	s.Equal("vote me", stored.Title)
}

func (s *ProposalRepositoryTestSuite) TestRemoveVote() {
	p := s.create("retract", models.SpeciesHuman, 0, 0, time.Now())
	_, err := s.repo.RemoveVote(s.ctx, p.ID, "alice")
	s.ErrorIs(err, ErrVoteNotFound)

	_, err = s.repo.ApplyVote(s.ctx, p.ID, models.Identity{Name: "alice", Species: models.SpeciesHuman}, models.ChoiceUp)
	s.Require().NoError(err)
	got, err := s.repo.RemoveVote(s.ctx, p.ID, "alice")
	s.Require().NoError(err)
	s.Equal(0, got.LikeCount())

	_, err = s.repo.RemoveVote(s.ctx, "missing", "alice")
	s.ErrorIs(err, ErrProposalNotFound)
}

func (s *ProposalRepositoryTestSuite) TestAppendComment() {
	p := s.create("discuss", models.SpeciesHuman, 0, 1, time.Now())
	got, err := s.repo.AppendComment(s.ctx, p.ID, models.Comment{User: "bob", Comment: "second"})
	s.Require().NoError(err)
	s.Len(got.Comments, 2)
	s.Equal("second", got.Comments[1].Comment)
}

func (s *ProposalRepositoryTestSuite) TestReplaceCollections() {
	p := s.create("replace", models.SpeciesHuman, 2, 2, time.Now())

	s.Require().NoError(s.repo.ReplaceVotes(s.ctx, p.ID, nil, []models.Vote{{Voter: "x", Species: models.SpeciesAI}}))
	s.Require().NoError(s.repo.ReplaceComments(s.ctx, p.ID, []models.Comment{{User: "only", Comment: "one"}}))

	got, err := s.repo.Get(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(got.Likes)
	s.Len(got.Dislikes, 1)
	s.Len(got.Comments, 1)

	s.ErrorIs(s.repo.ReplaceComments(s.ctx, "missing", nil), ErrProposalNotFound)
}

func (s *ProposalRepositoryTestSuite) TestQueryMetricsCountOutcomeOnce() {
	m := metrics.Get()
	count := func(op, status string) float64 {
		return testutil.ToFloat64(m.DatabaseQueriesTotal.WithLabelValues(op, status))
	}

	okBefore, errBefore := count("get", "ok"), count("get", "error")
	_, err := s.repo.Get(s.ctx, "missing")
	s.ErrorIs(err, ErrProposalNotFound)
	s.Equal(okBefore+1, count("get", "ok"))
	s.Equal(errBefore, count("get", "error"))

	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	okBefore, errBefore = count("get", "ok"), count("get", "error")
	_, err = s.repo.Get(s.ctx, "any")
	s.Error(err)
	s.Equal(okBefore, count("get", "ok"))
	s.Equal(errBefore+1, count("get", "error"))

	okBefore, errBefore = count("list", "ok"), count("list", "error")
	_, err = s.repo.List(s.ctx, feed.DefaultQuery(), 0)
	s.Error(err)
	s.Equal(okBefore, count("list", "ok"))
	s.Equal(errBefore+1, count("list", "error"))
}

func TestProposalRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ProposalRepositoryTestSuite))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}

func TestOrderExpression(t *testing.T) {
	assert.Equal(t, "created_at", orderExpression("sqlite", feed.OrderCreatedAt))
	assert.Contains(t, orderExpression("postgres", feed.OrderLikes), "::json")
	assert.NotContains(t, orderExpression("sqlite", feed.OrderLikes), "::json")
	assert.Contains(t, orderExpression("sqlite", feed.OrderEngagement), "comments")
}
