package events

import (
	"context"
	"sync"
	"time"

	"blogapi/internal/middleware"
	"blogapi/internal/observability"
)

const publishTimeout = 5 * time.Second

// Emitter publishes in the background so a slow or failed sink never fails a request.
type Emitter struct {
	publisher Publisher
	wg        sync.WaitGroup
}

// NewEmitter wraps publisher. A nil publisher behaves like Noop.
func NewEmitter(publisher Publisher) *Emitter {
	if publisher == nil {
		publisher = Noop{}
	}
	return &Emitter{publisher: publisher}
}

// Emit queues one event. Failures are logged and counted, never returned.
func (e *Emitter) Emit(ctx context.Context, t Type, payload any) {
	event := New(t, payload)
	ctx = context.WithoutCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		outcome := "ok"
		if err := e.publisher.Publish(pubCtx, event); err != nil {
			outcome = "error"
			middleware.Logger.WarnContext(ctx, "failed to publish event",
				"type", string(t), "sink", e.publisher.Name(), "error", err)
		}
		observability.EventsPublished.WithLabelValues(e.publisher.Name(), string(t), outcome).Inc()
	}()
}

// Wait blocks until every queued event has been handed to the sink.
func (e *Emitter) Wait() {
	e.wg.Wait()
}

// Close drains pending events and closes the sink.
func (e *Emitter) Close() error {
	e.wg.Wait()
	return e.publisher.Close()
}
