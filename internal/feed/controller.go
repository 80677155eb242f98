package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/Galinha2/super-nova-2177/internal/errors"
	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/internal/metrics"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"go.uber.org/zap"
)

// ErrSuperseded is returned by a fetch whose result was discarded because a
// newer filter change or refresh was issued while it was in flight.
var ErrSuperseded = errors.New("feed request superseded by a newer one")

// Phase is the controller's lifecycle state
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseErrored:
		return "errored"
	default:
		return "idle"
	}
}

// State is a snapshot of the controller
type State struct {
	Phase Phase
	Spec  FilterSpec
	// Err is set in PhaseErrored
	Err error
	// Seq identifies the request that produced this state
	Seq uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithVotePolicy selects what happens to optimistic votes on remote failure
func WithVotePolicy(p VotePolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithStateListener registers fn to be called after every state transition
func WithStateListener(fn func(State)) Option {
	return func(c *Controller) {
		c.listeners = append(c.listeners, fn)
	}
}

// WithStore shares an existing store instead of creating one
func WithStore(s *Store) Option {
	return func(c *Controller) {
		c.store = s
	}
}

// Controller fetches the feed for the current FilterSpec and delegates user
// interactions to a Mutator. When requests overlap, the latest one wins.
type Controller struct {
	mu        sync.Mutex
	backend   Backend
	store     *Store
	mutator   *Mutator
	policy    VotePolicy
	state     State
	seq       uint64
	cancel    context.CancelFunc
	listeners []func(State)
}

// NewController creates a controller in PhaseIdle. uploader may be nil.
func NewController(backend Backend, uploader MediaUploader, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		state:   State{Phase: PhaseIdle, Spec: Latest()},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = NewStore()
	}
	c.mutator = NewMutator(c.store, backend, uploader, c.policy)
	return c
}

// Store exposes the feed contents
func (c *Controller) Store() *Store {
	return c.store
}

// Items returns the current feed snapshot
func (c *Controller) Items() []models.Proposal {
	return c.store.Get()
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetFilter fetches the feed for spec unless it equals the spec already
// loading or loaded. It blocks until the fetch settles and returns
// ErrSuperseded if a newer request replaced it in the meantime.
func (c *Controller) SetFilter(ctx context.Context, spec FilterSpec) error {
	spec = spec.Normalize()

	c.mu.Lock()
	if c.state.Spec == spec && (c.state.Phase == PhaseLoading || c.state.Phase == PhaseReady) {
		c.mu.Unlock()
		return nil
	}
	return c.fetchLocked(ctx, spec)
}

// SetSearch changes only the search text of the current spec
func (c *Controller) SetSearch(ctx context.Context, text string) error {
	c.mu.Lock()
	spec := c.state.Spec
	c.mu.Unlock()
	return c.SetFilter(ctx, spec.WithSearch(text))
}

// Refresh re-fetches the current spec unconditionally. It is the only way
// to retry after a failure; the controller never retries on its own.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	return c.fetchLocked(ctx, c.state.Spec)
}

// fetchLocked is entered with c.mu held and releases it
func (c *Controller) fetchLocked(ctx context.Context, spec FilterSpec) error {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	loading := State{Phase: PhaseLoading, Spec: spec, Seq: seq}
	c.state = loading
	listeners := c.listeners
	c.mu.Unlock()
	notify(listeners, loading)

	query := Build(spec)
	start := time.Now()
	items, err := c.backend.ListProposals(fetchCtx, query)
	elapsed := time.Since(start)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		cancel()
		metrics.Get().FeedFetchSuperseded.Inc()
		logger.Log.Debug("Discarding superseded feed result",
			zap.Uint64("seq", seq),
			logger.WithMode(string(spec.Mode)),
		)
		return ErrSuperseded
	}
	c.cancel = nil
	cancel()

	var next State
	if err != nil {
		next = State{
			Phase: PhaseErrored,
			Spec:  spec,
			Seq:   seq,
			Err:   apperrors.Remote(apperrors.KindFetchFailed, "Could not load proposals", err),
		}
		metrics.Get().FeedFetchDuration.WithLabelValues(string(spec.Mode), "error").Observe(elapsed.Seconds())
		logger.Log.Warn("Feed fetch failed",
			logger.WithMode(string(spec.Mode)),
			zap.String("search", spec.SearchText),
			zap.Error(err),
		)
	} else {
		c.store.ReplaceAll(items)
		next = State{Phase: PhaseReady, Spec: spec, Seq: seq}
		metrics.Get().FeedFetchDuration.WithLabelValues(string(spec.Mode), "ok").Observe(elapsed.Seconds())
		logger.Log.Debug("Feed loaded",
			logger.WithMode(string(spec.Mode)),
			zap.Int("count", len(items)),
			zap.Duration("elapsed", elapsed),
		)
	}
	c.state = next
	listeners = c.listeners
	c.mu.Unlock()

	notify(listeners, next)
	return next.Err
}

// Vote delegates to the mutator; it never changes the controller state
func (c *Controller) Vote(ctx context.Context, proposalID string, voter models.Identity, choice models.Choice) (models.Choice, error) {
	return c.mutator.Vote(ctx, proposalID, voter, choice)
}

// Comment delegates to the mutator
func (c *Controller) Comment(ctx context.Context, proposalID string, author models.Identity, text string) (*models.Comment, error) {
	return c.mutator.Comment(ctx, proposalID, author, text)
}

// Publish delegates to the mutator
func (c *Controller) Publish(ctx context.Context, d Draft) (*models.Proposal, error) {
	return c.mutator.Publish(ctx, d)
}

func notify(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}
