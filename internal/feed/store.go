package feed

import (
	"sync"

	"github.com/Galinha2/super-nova-2177/internal/models"
)

// Store holds the currently displayed feed. Readers always see either the
// old or the new contents of a ReplaceAll, never a mix.
type Store struct {
	mu    sync.RWMutex
	items []models.Proposal
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// ReplaceAll swaps the whole feed
func (s *Store) ReplaceAll(items []models.Proposal) {
	next := make([]models.Proposal, len(items))
	for i, p := range items {
		next[i] = p.Clone()
	}

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()
}

// Get returns a snapshot of the feed in display order
func (s *Store) Get() []models.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Proposal, len(s.items))
	for i, p := range s.items {
		out[i] = p.Clone()
	}
	return out
}

// Lookup returns a copy of the proposal with the given id
func (s *Store) Lookup(id string) (models.Proposal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.items[i].Clone(), true
	}
	return models.Proposal{}, false
}

// Len returns the number of proposals in the feed
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Patch replaces the proposal with fn(proposal). It returns false and does
// nothing when id is not in the feed, which happens when a fetch has
// replaced the feed since the caller looked.
func (s *Store) Patch(id string, fn func(models.Proposal) models.Proposal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	next := fn(s.items[i].Clone())
	next.ID = id
	s.items[i] = next
	return true
}

// Prepend inserts p at the front of the feed. An entry already holding p's
// id is dropped, so a fetch that raced ahead of a create leaves one copy.
func (s *Store) Prepend(p models.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Proposal, 0, len(s.items)+1)
	next = append(next, p.Clone())
	for _, item := range s.items {
		if item.ID != p.ID {
			next = append(next, item)
		}
	}
	s.items = next
}

// Remove drops the proposal with the given id
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	next := make([]models.Proposal, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	s.items = next
	return true
}

func (s *Store) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
