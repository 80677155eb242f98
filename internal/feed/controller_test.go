package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/Galinha2/super-nova-2177/internal/errors"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFeed() []models.Proposal {
	return []models.Proposal{
		proposal("a", "Hello council", models.SpeciesHuman, 3*time.Hour, 0),
		proposal("b", "Solar grid", models.SpeciesCompany, 2*time.Hour, 4),
		proposal("c", "hello agents", models.SpeciesAI, time.Hour, 2),
	}
}

func TestController_StartsIdle(t *testing.T) {
	c := NewController(newFakeBackend(), nil)
	assert.Equal(t, PhaseIdle, c.State().Phase)
	assert.Empty(t, c.Items())
}

func TestController_LoadsAndReplacesStore(t *testing.T) {
	backend := newFakeBackend(sampleFeed()...)
	var phases []Phase
	c := NewController(backend, nil, WithStateListener(func(s State) {
		phases = append(phases, s.Phase)
	}))

	require.NoError(t, c.SetFilter(context.Background(), FilterSpec{Mode: ModeTopLiked}))
	assert.Equal(t, PhaseReady, c.State().Phase)
	assert.Equal(t, []string{"b", "c", "a"}, ids(c.Items()))
	assert.Equal(t, []Phase{PhaseLoading, PhaseReady}, phases)
	assert.Equal(t, Query{OrderBy: OrderLikes, Descending: true}, backend.queries[0])
}

func TestController_SameSpecDoesNotRefetch(t *testing.T) {
	backend := newFakeBackend(sampleFeed()...)
	c := NewController(backend, nil)
	ctx := context.Background()

	require.NoError(t, c.SetFilter(ctx, FilterSpec{Mode: ModeLatest, SearchText: "hello"}))
	require.NoError(t, c.SetFilter(ctx, FilterSpec{Mode: ModeLatest, SearchText: "  hello "}))
	assert.Len(t, backend.queries, 1)

	require.NoError(t, c.Refresh(ctx))
	assert.Len(t, backend.queries, 2)
}

func TestController_SearchChangeRefetches(t *testing.T) {
	backend := newFakeBackend(sampleFeed()...)
	c := NewController(backend, nil)
	ctx := context.Background()

	require.NoError(t, c.SetFilter(ctx, Latest()))
	require.NoError(t, c.SetSearch(ctx, "HELLO"))
	assert.Equal(t, []string{"c", "a"}, ids(c.Items()))
	assert.Equal(t, "HELLO", c.State().Spec.SearchText)
}

func TestController_FetchFailureKeepsItems(t *testing.T) {
	backend := newFakeBackend(sampleFeed()...)
	c := NewController(backend, nil)
	ctx := context.Background()
	require.NoError(t, c.SetFilter(ctx, Latest()))
	require.Equal(t, 3, c.Store().Len())

	backend.listErr = errBackendDown
	err := c.SetFilter(ctx, FilterSpec{Mode: ModeOldest})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFetchFailed))

	st := c.State()
	assert.Equal(t, PhaseErrored, st.Phase)
	assert.Equal(t, ModeOldest, st.Spec.Mode)
	assert.Equal(t, 3, c.Store().Len())

	backend.listErr = nil
	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, PhaseReady, c.State().Phase)
	assert.Equal(t, []string{"a", "b", "c"}, ids(c.Items()))
}

func TestController_LatestRequestWins(t *testing.T) {
	backend := newFakeBackend(sampleFeed()...)
	slow := backend.gate("hello")
	c := NewController(backend, nil)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- c.SetFilter(ctx, FilterSpec{Mode: ModeLatest, SearchText: "hello"})
	}()

	require.Eventually(t, func() bool {
		return c.State().Phase == PhaseLoading
	}, time.Second, time.Millisecond)

	require.NoError(t, c.SetFilter(ctx, FilterSpec{Mode: ModeLatest, SearchText: "solar"}))
	close(slow)

	assert.ErrorIs(t, <-firstDone, ErrSuperseded)
	assert.Equal(t, []string{"b"}, ids(c.Items()))
	assert.Equal(t, "solar", c.State().Spec.SearchText)
	assert.Equal(t, PhaseReady, c.State().Phase)
}

func TestController_SupersededResultArrivingLateIsIgnored(t *testing.T) {
	backend := newFakeBackend(sampleFeed()...)
	first := backend.gate("hello")
	second := backend.gate("solar")
	c := NewController(backend, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0] = c.SetFilter(ctx, FilterSpec{Mode: ModeLatest, SearchText: "hello"})
	}()
	require.Eventually(t, func() bool { return c.State().Seq == 1 }, time.Second, time.Millisecond)
	go func() {
		defer wg.Done()
		results[1] = c.SetFilter(ctx, FilterSpec{Mode: ModeLatest, SearchText: "solar"})
	}()
	require.Eventually(t, func() bool { return c.State().Seq == 2 }, time.Second, time.Millisecond)

	close(second)
	close(first)
	wg.Wait()

	assert.ErrorIs(t, results[0], ErrSuperseded)
	assert.NoError(t, results[1])
	assert.Equal(t, []string{"b"}, ids(c.Items()))
}

func TestController_MutationsDoNotChangePhase(t *testing.T) {
	backend := newFakeBackend(sampleFeed()...)
	c := NewController(backend, nil)
	ctx := context.Background()
	voter := models.Identity{Name: "alice", Species: models.SpeciesHuman}

	// allowed before any fetch
	_, err := c.Vote(ctx, "a", voter, models.ChoiceUp)
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, c.State().Phase)

	require.NoError(t, c.SetFilter(ctx, Latest()))
	_, err = c.Vote(ctx, "a", voter, models.ChoiceUp)
	require.NoError(t, err)
	_, err = c.Comment(ctx, "a", voter, "first")
	require.NoError(t, err)
	_, err = c.Publish(ctx, Draft{Title: "new", Body: "text", Author: voter})
	require.NoError(t, err)

	assert.Equal(t, PhaseReady, c.State().Phase)
	p, ok := c.Store().Lookup("a")
	require.True(t, ok)
	assert.Len(t, p.Likes, 1)
	assert.Len(t, p.Comments, 1)
	assert.Equal(t, "srv-1", c.Items()[0].ID)
}

func TestController_RollbackPolicyOption(t *testing.T) {
	backend := newFakeBackend(sampleFeed()...)
	c := NewController(backend, nil, WithVotePolicy(RollbackOnFailure))
	ctx := context.Background()
	require.NoError(t, c.SetFilter(ctx, Latest()))

	backend.writeErr = errBackendDown
	_, err := c.Vote(ctx, "a", models.Identity{Name: "alice", Species: models.SpeciesAI}, models.ChoiceUp)
	require.Error(t, err)

	p, _ := c.Store().Lookup("a")
	assert.Empty(t, p.Likes)
}

func TestController_RefreshDuringPublishKeepsOneCopy(t *testing.T) {
	backend := newFakeBackend(sampleFeed()...)
	c := NewController(backend, nil)
	ctx := context.Background()
	require.NoError(t, c.SetFilter(ctx, Latest()))

	backend.onCreate = func(models.Proposal) {
		require.NoError(t, c.Refresh(ctx))
	}
	author := models.Identity{Name: "alice", Species: models.SpeciesHuman}
	created, err := c.Publish(ctx, Draft{Title: "new", Body: "text", Author: author})
	require.NoError(t, err)

	seen := 0
	for _, p := range c.Items() {
		if p.ID == created.ID {
			seen++
		}
		assert.False(t, strings.HasPrefix(p.ID, PendingPrefix))
	}
	assert.Equal(t, 1, seen)
	assert.Equal(t, created.ID, c.Items()[0].ID)
	assert.Len(t, c.Items(), 4)
}
