package feed

import (
	"sync"
	"testing"

	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReplaceAllThenGet(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.Get())

	s.ReplaceAll([]models.Proposal{{ID: "A"}, {ID: "B"}})
	assert.Equal(t, []string{"A", "B"}, ids(s.Get()))
}

func TestStore_GetReturnsSnapshot(t *testing.T) {
	s := NewStore()
	s.ReplaceAll([]models.Proposal{{ID: "A", Likes: []models.Vote{{Voter: "bob"}}}})

	snap := s.Get()
	snap[0].Likes[0].Voter = "mallory"
	snap[0].Title = "changed"

	p, ok := s.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "bob", p.Likes[0].Voter)
	assert.Empty(t, p.Title)
}

func TestStore_PatchMissingIsNoop(t *testing.T) {
	s := NewStore()
	s.ReplaceAll([]models.Proposal{{ID: "A"}})

	called := false
	ok := s.Patch("Z", func(p models.Proposal) models.Proposal {
		called = true
		return p
	})
	assert.False(t, ok)
	assert.False(t, called)
	assert.Equal(t, []string{"A"}, ids(s.Get()))
}

func TestStore_PatchKeepsOrderAndID(t *testing.T) {
	s := NewStore()
	s.ReplaceAll([]models.Proposal{{ID: "A"}, {ID: "B"}, {ID: "C"}})

	ok := s.Patch("B", func(p models.Proposal) models.Proposal {
		p.Title = "patched"
		p.ID = "ignored"
		return p
	})
	require.True(t, ok)

	got := s.Get()
	assert.Equal(t, []string{"A", "B", "C"}, ids(got))
	assert.Equal(t, "patched", got[1].Title)
}

func TestStore_PrependAndRemove(t *testing.T) {
	s := NewStore()
	s.ReplaceAll([]models.Proposal{{ID: "A"}})

	s.Prepend(models.Proposal{ID: "N"})
	assert.Equal(t, []string{"N", "A"}, ids(s.Get()))

	assert.True(t, s.Remove("N"))
	assert.False(t, s.Remove("N"))
	assert.Equal(t, []string{"A"}, ids(s.Get()))
	assert.Equal(t, 1, s.Len())
}

func TestStore_PrependReplacesEntryWithSameID(t *testing.T) {
	s := NewStore()
	s.ReplaceAll([]models.Proposal{{ID: "A"}, {ID: "N", Title: "fetched"}, {ID: "B"}})

	s.Prepend(models.Proposal{ID: "N", Title: "created"})

	got := s.Get()
	assert.Equal(t, []string{"N", "A", "B"}, ids(got))
	assert.Equal(t, "created", got[0].Title)
}

func TestStore_ConcurrentReadersSeeWholeFeeds(t *testing.T) {
	s := NewStore()
	first := []models.Proposal{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}}
	second := []models.Proposal{{ID: "b1"}, {ID: "b2"}}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if i%2 == 0 {
				s.ReplaceAll(first)
			} else {
				s.ReplaceAll(second)
			}
		}
		close(stop)
	}()

	for {
		select {
		case <-stop:
			wg.Wait()
			return
		default:
		}
		got := ids(s.Get())
		if len(got) > 0 {
			ok := assert.ObjectsAreEqual([]string{"a1", "a2", "a3"}, got) ||
				assert.ObjectsAreEqual([]string{"b1", "b2"}, got)
			require.True(t, ok, "interleaved snapshot %v", got)
		}
	}
}
