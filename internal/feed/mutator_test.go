package feed

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/Galinha2/super-nova-2177/internal/errors"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MutatorTestSuite struct {
	suite.Suite
	store   *Store
	backend *fakeBackend
	upload  *fakeUploader
	mutator *Mutator
	alice   models.Identity
}

func (s *MutatorTestSuite) SetupTest() {
	s.store = NewStore()
	s.store.ReplaceAll([]models.Proposal{{ID: "A", Title: "Post A"}, {ID: "B", Title: "Post B"}})
	s.backend = newFakeBackend()
	s.upload = &fakeUploader{}
	s.mutator = NewMutator(s.store, s.backend, s.upload, KeepOptimistic)
	s.alice = models.Identity{Name: "alice", Species: models.SpeciesHuman, AvatarURL: "https://img/alice.png"}
}

func (s *MutatorTestSuite) post(id string) models.Proposal {
	p, ok := s.store.Lookup(id)
	s.Require().True(ok)
	return p
}

func (s *MutatorTestSuite) TestVoteUpThenDown() {
	ctx := context.Background()

	choice, err := s.mutator.Vote(ctx, "A", s.alice, models.ChoiceUp)
	s.Require().NoError(err)
	s.Equal(models.ChoiceUp, choice)
	s.Equal([]models.Vote{{Voter: "alice", Species: models.SpeciesHuman}}, s.post("A").Likes)
	s.Empty(s.post("A").Dislikes)

	choice, err = s.mutator.Vote(ctx, "A", s.alice, models.ChoiceDown)
	s.Require().NoError(err)
	s.Equal(models.ChoiceDown, choice)
	s.Empty(s.post("A").Likes)
	s.Equal([]models.Vote{{Voter: "alice", Species: models.SpeciesHuman}}, s.post("A").Dislikes)

	s.Equal([]string{"A:alice:up", "A:alice:down"}, s.backend.casts)
}

func (s *MutatorTestSuite) TestSameVoteTwiceRetracts() {
	ctx := context.Background()

	_, err := s.mutator.Vote(ctx, "A", s.alice, models.ChoiceUp)
	s.Require().NoError(err)
	choice, err := s.mutator.Vote(ctx, "A", s.alice, models.ChoiceUp)
	s.Require().NoError(err)

	s.Equal(models.ChoiceNone, choice)
	s.Empty(s.post("A").Likes)
	s.Empty(s.post("A").Dislikes)
	s.Equal([]string{"A:alice"}, s.backend.retracts)
}

func (s *MutatorTestSuite) TestVoteMissingIdentity() {
	_, err := s.mutator.Vote(context.Background(), "A", models.Identity{Name: "alice"}, models.ChoiceUp)

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrMissingIdentity))
	s.Empty(s.post("A").Likes)
	s.Empty(s.backend.casts)
}

func (s *MutatorTestSuite) TestVoteRemoteFailureKeepsOptimisticState() {
	s.backend.writeErr = errBackendDown

	choice, err := s.mutator.Vote(context.Background(), "A", s.alice, models.ChoiceUp)
	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrRemoteWriteFailed))
	s.True(errors.Is(err, errBackendDown))
	s.Equal(models.ChoiceUp, choice)
	s.Len(s.post("A").Likes, 1)
}

func (s *MutatorTestSuite) TestVoteRemoteFailureRollsBackWhenConfigured() {
	m := NewMutator(s.store, s.backend, nil, RollbackOnFailure)
	_, err := m.Vote(context.Background(), "A", s.alice, models.ChoiceDown)
	s.Require().NoError(err)

	s.backend.writeErr = errBackendDown
	choice, err := m.Vote(context.Background(), "A", s.alice, models.ChoiceUp)
	s.Require().Error(err)
	s.Equal(models.ChoiceDown, choice)
	s.Empty(s.post("A").Likes)
	s.Len(s.post("A").Dislikes, 1)
}

func (s *MutatorTestSuite) TestVoteRollbackRestoresExactLists() {
	likes := []models.Vote{
		{Voter: "bob", Species: models.SpeciesCompany},
		{Voter: "alice", Species: models.SpeciesAI},
		{Voter: "carol", Species: models.SpeciesHuman},
	}
	s.store.Patch("A", func(p models.Proposal) models.Proposal {
		p.Likes = likes
		return p
	})
	m := NewMutator(s.store, s.backend, nil, RollbackOnFailure)

	s.backend.writeErr = errBackendDown
	choice, err := m.Vote(context.Background(), "A", s.alice, models.ChoiceUp)
	s.Require().Error(err)
	s.Equal(models.ChoiceUp, choice)
	s.Equal(likes, s.post("A").Likes)
	s.Empty(s.post("A").Dislikes)
}

func (s *MutatorTestSuite) TestVoteTrimsVoterName() {
	ctx := context.Background()
	padded := s.alice
	padded.Name = "  alice "

	_, err := s.mutator.Vote(ctx, "A", padded, models.ChoiceUp)
	s.Require().NoError(err)
	s.Equal("alice", s.post("A").Likes[0].Voter)
	s.Equal([]string{"A:alice:up"}, s.backend.casts)

	choice, err := s.mutator.Vote(ctx, "A", s.alice, models.ChoiceUp)
	s.Require().NoError(err)
	s.Equal(models.ChoiceNone, choice)
	s.Empty(s.post("A").Likes)
}

func (s *MutatorTestSuite) TestVoteOnPostOutsideFeedStillWritesRemotely() {
	_, err := s.mutator.Vote(context.Background(), "Z", s.alice, models.ChoiceUp)
	s.Require().NoError(err)
	s.Equal([]string{"Z:alice:up"}, s.backend.casts)
}

func (s *MutatorTestSuite) TestCommentBlankText() {
	_, err := s.mutator.Comment(context.Background(), "A", s.alice, "   ")

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrInvalidComment))
	s.Contains(apperrors.Messages(err), validation.MsgCommentEmpty)
	s.Empty(s.post("A").Comments)
	s.Empty(s.backend.comments)
}

func (s *MutatorTestSuite) TestCommentListsEveryFailure() {
	_, err := s.mutator.Comment(context.Background(), "", models.Identity{}, "")
	s.Equal([]string{
		validation.MsgUserNameMissing,
		validation.MsgProposalIDMissing,
		validation.MsgCommentEmpty,
	}, apperrors.Messages(err))
}

func (s *MutatorTestSuite) TestCommentAppendsAfterRemoteWrite() {
	c, err := s.mutator.Comment(context.Background(), "A", s.alice, "  great idea ")
	s.Require().NoError(err)
	s.Equal("great idea", c.Comment)

	comments := s.post("A").Comments
	s.Require().Len(comments, 1)
	s.Equal(models.Comment{User: "alice", UserImg: "https://img/alice.png", Species: models.SpeciesHuman, Comment: "great idea"}, comments[0])
	s.Len(s.backend.comments, 1)
}

func (s *MutatorTestSuite) TestCommentRemoteFailureLeavesStore() {
	s.backend.writeErr = errBackendDown
	_, err := s.mutator.Comment(context.Background(), "A", s.alice, "hello")
	s.True(errors.Is(err, apperrors.ErrRemoteWriteFailed))
	s.Empty(s.post("A").Comments)
}

func (s *MutatorTestSuite) TestPublishEmptyTitleAndNoContent() {
	before := s.store.Get()
	_, err := s.mutator.Publish(context.Background(), Draft{Title: "  ", Author: s.alice})

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrInvalidPost))
	s.Equal([]string{validation.MsgTitleRequired, validation.MsgContentRequired}, apperrors.Messages(err))
	s.Equal(before, s.store.Get())
	s.Empty(s.backend.created)
}

func (s *MutatorTestSuite) TestPublishCollectsIdentityFailures() {
	_, err := s.mutator.Publish(context.Background(), Draft{Title: "t", Body: "b"})
	s.Equal([]string{validation.MsgUsernameRequired, validation.MsgSpeciesRequired}, apperrors.Messages(err))
}

func (s *MutatorTestSuite) TestPublishPrependsServerRecord() {
	p, err := s.mutator.Publish(context.Background(), Draft{Title: "Community garden", Body: "Let's plant", Author: s.alice})
	s.Require().NoError(err)
	s.Equal("srv-1", p.ID)
	s.Equal([]string{"srv-1", "A", "B"}, ids(s.store.Get()))
}

func (s *MutatorTestSuite) TestPublishUploadsMediaFirst() {
	p, err := s.mutator.Publish(context.Background(), Draft{
		Title:  "Map",
		Author: s.alice,
		Media:  &Attachment{Kind: models.MediaImage, Filename: "map.png", Content: strings.NewReader("png")},
	})
	s.Require().NoError(err)
	s.Equal(1, s.upload.calls)
	s.Equal("https://cdn.example/image/map.png", p.Media.Image)
	s.Require().Len(s.backend.created, 1)
	s.Equal("https://cdn.example/image/map.png", s.backend.created[0].Media.Image)
}

func (s *MutatorTestSuite) TestPublishUploadFailureCreatesNothing() {
	s.upload.err = errors.New("bucket gone")
	before := s.store.Get()

	_, err := s.mutator.Publish(context.Background(), Draft{
		Title:  "Map",
		Author: s.alice,
		Media:  &Attachment{Kind: models.MediaFile, Filename: "plan.pdf", Content: strings.NewReader("pdf")},
	})
	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrMediaUploadFailed))
	s.Empty(s.backend.created)
	s.Equal(before, s.store.Get())
}

func (s *MutatorTestSuite) TestPublishRemoteFailureRemovesProvisionalPost() {
	s.backend.writeErr = errBackendDown
	_, err := s.mutator.Publish(context.Background(), Draft{Title: "t", Body: "b", Author: s.alice})

	s.True(errors.Is(err, apperrors.ErrRemoteWriteFailed))
	s.Equal([]string{"A", "B"}, ids(s.store.Get()))
}

func (s *MutatorTestSuite) TestPublishShowsProvisionalPostWhileInFlight() {
	s.backend.createHit = make(chan struct{})
	done := make(chan error)
	go func() {
		_, err := s.mutator.Publish(context.Background(), Draft{Title: "t", Body: "b", Author: s.alice})
		done <- err
	}()

	<-s.backend.createHit
	items := s.store.Get()
	s.Require().Len(items, 3)
	s.True(strings.HasPrefix(items[0].ID, PendingPrefix))
	s.backend.createHit <- struct{}{}

	s.Require().NoError(<-done)
	s.Equal([]string{"srv-1", "A", "B"}, ids(s.store.Get()))
}

func TestMutatorTestSuite(t *testing.T) {
	suite.Run(t, new(MutatorTestSuite))
}

func TestVoteSequencesNeverDuplicateVoter(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]models.Proposal{{ID: "A"}})
	m := NewMutator(store, newFakeBackend(), nil, KeepOptimistic)
	voter := models.Identity{Name: "alice", Species: models.SpeciesAI}

	seq := []models.Choice{models.ChoiceUp, models.ChoiceUp, models.ChoiceDown, models.ChoiceUp, models.ChoiceDown, models.ChoiceDown, models.ChoiceUp}
	for _, c := range seq {
		_, err := m.Vote(context.Background(), "A", voter, c)
		require.NoError(t, err)

		p, _ := store.Lookup("A")
		n := 0
		for _, v := range append(p.Likes, p.Dislikes...) {
			if v.Voter == "alice" {
				n++
			}
		}
		assert.LessOrEqual(t, n, 1)
	}
}
