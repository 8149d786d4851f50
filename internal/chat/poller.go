package chat

import (
	"context"
	"sync"
	"time"

	"github.com/matheus3301/padesk/internal/logging"
	"github.com/matheus3301/padesk/internal/metrics"
	"go.uber.org/zap"
)

// Poller refreshes the conversation list and the open thread on an interval.
type Poller struct {
	engine   *Engine
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger

	mu      sync.Mutex
	active  string
	cancel  context.CancelFunc
	trigger chan struct{}
	done    chan struct{}
}

// NewPoller creates a poller. It does nothing until Start.
func NewPoller(e *Engine, interval time.Duration, m *metrics.Metrics, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Poller{
		engine:   e,
		interval: interval,
		metrics:  m,
		logger:   logging.OrNop(logger),
		trigger:  make(chan struct{}, 1),
	}
}

// Start polls immediately and then every interval until Stop or ctx ends.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)
}

// Stop stops polling and waits for an in-flight cycle to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// SetActive selects the conversation whose messages are polled and triggers
// a cycle. An empty id polls the list only.
func (p *Poller) SetActive(conversationID string) {
	p.mu.Lock()
	p.active = conversationID
	p.mu.Unlock()
	p.Trigger()
}

// Trigger requests a cycle without waiting for the next tick.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-p.trigger:
			p.poll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	_, err := p.engine.FetchConversations(ctx)
	ok := err == nil
	if active != "" {
		if _, err := p.engine.FetchMessages(ctx, active); err != nil {
			ok = false
		}
	}
	if ctx.Err() != nil {
		return
	}
	p.metrics.ObservePoll(ok)
	if !ok {
		p.logger.Debug("poll cycle failed", zap.String("active", active))
	}
}
