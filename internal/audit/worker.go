package audit

import (
	"context"
	"log/slog"
)

// Sink delivers events to an external system (Kafka in production).
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

// Worker drains the publisher inbox into a sink. Delivery errors are logged
// and the worker keeps going; persisted events remain the source of truth.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Deliver(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit delivery failed",
					"event_id", event.ID,
					"event_type", string(event.Type),
					"error", err.Error(),
				)
			}
		}
	}
}
