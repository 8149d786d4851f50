// Package reqcache holds the per-screen request state shared by every
// data-bearing view: the last value, a loading flag and the classified error.
package reqcache

import (
	"context"
	"errors"
	"sync"

	"github.com/matheus3301/padesk/internal/apiclient"
	"github.com/matheus3301/padesk/internal/logging"
	"go.uber.org/zap"
)

// ErrRetired is returned by Request once the cache has been closed.
var ErrRetired = errors.New("request cache retired")

// State is a snapshot of a cache. Data is nil until the first success.
type State[T any] struct {
	Data    *T
	Loading bool
	Error   *apiclient.ErrorInfo
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	name   string
	logger *zap.Logger
}

// WithName labels the cache in logs.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Cache wraps one asynchronous operation and keeps its latest outcome.
// Concurrent requests are neither queued nor deduplicated: the last one to
// settle decides the visible state.
type Cache[T any] struct {
	mu        sync.RWMutex
	state     State[T]
	retired   bool
	observers map[int]func(State[T])
	nextObs   int

	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	refreshCh chan struct{}
}

// New creates a cache whose lifetime is bound to parent. Closing the cache, or
// cancelling parent, cancels every in-flight operation.
func New[T any](parent context.Context, opts ...Option) *Cache[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(parent)
	logger := logging.OrNop(o.logger)
	if o.name != "" {
		logger = logger.With(zap.String("cache", o.name))
	}
	return &Cache[T]{
		observers: make(map[int]func(State[T])),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
		refreshCh: make(chan struct{}, 1),
	}
}

// Request runs op and records its outcome. Loading is set before op starts.
// On failure the classified error is stored, the previous Data is kept, and
// the original error is returned unchanged.
func (c *Cache[T]) Request(ctx context.Context, op func(context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	if c.retired {
		c.mu.Unlock()
		return zero, ErrRetired
	}
	c.state = State[T]{Data: c.state.Data, Loading: true}
	snap := c.state
	c.mu.Unlock()
	c.notify(snap)

	opCtx, stop := c.scope(ctx)
	v, err := op(opCtx)
	stop()

	c.mu.Lock()
	if c.retired {
		c.mu.Unlock()
		c.logger.Debug("discarding settlement of retired cache", zap.Error(err))
		return zero, ErrRetired
	}
	if err != nil {
		c.state = State[T]{Data: c.state.Data, Error: apiclient.Classify(err)}
	} else {
		c.state = State[T]{Data: &v}
	}
	snap = c.state
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug("request failed",
			zap.Stringer("kind", snap.Error.Kind),
			zap.String("message", snap.Error.Message),
		)
	}
	c.notify(snap)
	return v, err
}

// scope derives the operation's context: cancelled by the caller's ctx or by
// the cache's lifetime, whichever ends first.
func (c *Cache[T]) scope(ctx context.Context) (context.Context, func()) {
	opCtx, cancel := context.WithCancel(ctx)
	stopAfter := context.AfterFunc(c.ctx, cancel)
	return opCtx, func() {
		stopAfter()
		cancel()
	}
}

// State returns the current snapshot.
func (c *Cache[T]) State() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// SetState replaces the state synchronously without touching the network.
// It is reserved for optimistic reconciliation.
func (c *Cache[T]) SetState(fn func(State[T]) State[T]) {
	c.mu.Lock()
	if c.retired {
		c.mu.Unlock()
		return
	}
	c.state = fn(c.state)
	snap := c.state
	c.mu.Unlock()
	c.notify(snap)
}

// Observe registers fn to be called with every new state and returns a
// function that removes it. fn runs on the goroutine that changed the state.
func (c *Cache[T]) Observe(fn func(State[T])) func() {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// Changes returns a channel signalled after each state change. Signals coalesce.
func (c *Cache[T]) Changes() <-chan struct{} {
	return c.refreshCh
}

// Close retires the cache: in-flight operations are cancelled and their
// results discarded. Later requests fail with ErrRetired.
func (c *Cache[T]) Close() {
	c.mu.Lock()
	c.retired = true
	c.mu.Unlock()
	c.cancel()
}

func (c *Cache[T]) notify(s State[T]) {
	c.mu.RLock()
	fns := make([]func(State[T]), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(s)
	}
	select {
	case c.refreshCh <- struct{}{}:
	default:
	}
}
