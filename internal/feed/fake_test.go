package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/models"
)

// fakeBackend serves an in-memory list and records writes.
// A query whose search text is in gates blocks until the gate is closed.
type fakeBackend struct {
	mu        sync.Mutex
	items     []models.Proposal
	listErr   error
	writeErr  error
	gates     map[string]chan struct{}
	queries   []Query
	casts     []string
	retracts  []string
	comments  []models.Comment
	created   []models.ProposalDraft
	nextID    int
	createHit chan struct{}
	// onCreate runs after a successful create, before it returns
	onCreate func(models.Proposal)
}

func newFakeBackend(items ...models.Proposal) *fakeBackend {
	return &fakeBackend{items: items, gates: map[string]chan struct{}{}}
}

func (f *fakeBackend) gate(search string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[search] = ch
	return ch
}

func (f *fakeBackend) ListProposals(ctx context.Context, q Query) ([]models.Proposal, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	gate := f.gates[q.TitleContains]
	err := f.listErr
	items := q.Apply(f.items)
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (f *fakeBackend) CreateProposal(ctx context.Context, d models.ProposalDraft) (*models.Proposal, error) {
	if f.createHit != nil {
		f.createHit <- struct{}{}
		<-f.createHit
	}
	f.mu.Lock()
	if f.writeErr != nil {
		f.mu.Unlock()
		return nil, f.writeErr
	}
	f.created = append(f.created, d)
	f.nextID++
	p := d.Proposal()
	p.ID = fmt.Sprintf("srv-%d", f.nextID)
	p.CreatedAt = time.Now()
	f.items = append(f.items, p)
	hook := f.onCreate
	f.mu.Unlock()

	if hook != nil {
		hook(p)
	}
	return &p, nil
}

func (f *fakeBackend) CastVote(ctx context.Context, id string, voter models.Identity, choice models.Choice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.casts = append(f.casts, id+":"+voter.Name+":"+choice.String())
	return nil
}

func (f *fakeBackend) RetractVote(ctx context.Context, id, voter string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.retracts = append(f.retracts, id+":"+voter)
	return nil
}

func (f *fakeBackend) AddComment(ctx context.Context, id string, c models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.comments = append(f.comments, c)
	return nil
}

type fakeUploader struct {
	err      error
	calls    int
	lastName string
}

func (u *fakeUploader) UploadMedia(ctx context.Context, kind models.MediaKind, name string, body io.Reader) (string, error) {
	u.calls++
	u.lastName = name
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	return "https://cdn.example/" + string(kind) + "/" + name, nil
}

var errBackendDown = errors.New("backend unavailable")

func proposal(id, title string, species models.Species, age time.Duration, likes int) models.Proposal {
	p := models.Proposal{
		ID:        id,
		Title:     title,
		Author:    models.Identity{Name: "author-" + id, Species: species},
		CreatedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).Add(-age),
	}
	for i := 0; i < likes; i++ {
		p.Likes = append(p.Likes, models.Vote{Voter: fmt.Sprintf("v%d", i), Species: models.SpeciesHuman})
	}
	return p
}
