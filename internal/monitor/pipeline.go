package monitor

import (
	"context"
	"log/slog"
	"sync"

	"vigil/internal/event"
	"vigil/internal/platform/metrics"
)

// Pipeline is the single write path for observation events. Detector callbacks
// publish onto a bounded channel; one consumer debounces per session and kind,
// then appends survivors to the event store. The bounded channel is the
// backpressure point, and closing the context is the cancellation point.
//
// A failed append is logged and dropped while the cooldown state still
// updates: losing one throttled event does not compromise the session, and a
// recurring condition is caught on its next qualifying observation.
type Pipeline struct {
	store    event.Store
	firehose *Firehose
	logger   *slog.Logger
	metrics  *metrics.Metrics
	inbox    chan event.Observation

	mu         sync.Mutex
	debouncers map[string]*Debouncer
}

func NewPipeline(store event.Store, firehose *Firehose, logger *slog.Logger, m *metrics.Metrics, buffer int) *Pipeline {
	if buffer <= 0 {
		buffer = 256
	}
	return &Pipeline{
		store:      store,
		firehose:   firehose,
		logger:     logger,
		metrics:    m,
		inbox:      make(chan event.Observation, buffer),
		debouncers: make(map[string]*Debouncer),
	}
}

// Publish enqueues a raw observation. It blocks when the buffer is full so
// backpressure propagates to the producer instead of buffering unboundedly.
func (p *Pipeline) Publish(ctx context.Context, obs event.Observation) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.inbox <- obs:
		return nil
	}
}

// EndSession discards the session's debounce state.
func (p *Pipeline) EndSession(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.debouncers, sessionID)
}

// Run consumes the inbox until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case obs := <-p.inbox:
			p.process(ctx, obs)
		}
	}
}

func (p *Pipeline) process(ctx context.Context, obs event.Observation) {
	if p.firehose != nil {
		p.firehose.Publish(ctx, obs)
	}

	if !p.debouncer(obs.SessionID).Allow(obs.Kind, obs.OccurredAt) {
		p.metrics.IncEventThrottled()
		return
	}

	if err := p.store.Append(ctx, obs); err != nil {
		p.logger.ErrorContext(ctx, "failed to append observation event",
			"session_id", obs.SessionID,
			"kind", string(obs.Kind),
			"error", err,
		)
		return
	}
	p.metrics.IncEventAppended(string(obs.Kind))
}

func (p *Pipeline) debouncer(sessionID string) *Debouncer {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.debouncers[sessionID]
	if !ok {
		d = NewDebouncer()
		p.debouncers[sessionID] = d
	}
	return d
}
