package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/emitter_mock.go -package=mocks humanproof/internal/audit Emitter

// Emitter is what domain services depend on. Audit failures are logged, not
// propagated, so a slow or broken sink never vetoes a committed operation.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Publisher persists events and hands them to the background worker for
// external delivery. It is append-only; nothing reads back through it
// except the actor-scoped listing.
type Publisher struct {
	store  Store
	logger *slog.Logger
	inbox  chan Event
}

// NewPublisher builds a publisher with a buffered inbox. The inbox is
// drained by a Worker; when no worker runs (tests, minimal deployments)
// pass bufferSize 0 and events are only persisted.
func NewPublisher(store Store, logger *slog.Logger, bufferSize int) *Publisher {
	var inbox chan Event
	if bufferSize > 0 {
		inbox = make(chan Event, bufferSize)
	}
	return &Publisher{store: store, logger: logger, inbox: inbox}
}

// Inbox exposes the delivery channel for the Worker.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	if p.inbox == nil {
		return nil
	}
	select {
	case p.inbox <- event:
	default:
		// Delivery is best-effort; the persisted copy is the source of truth.
		p.logger.WarnContext(ctx, "audit inbox full, dropping delivery",
			"event_id", event.ID,
			"event_type", string(event.Type),
		)
	}
	return nil
}

// List returns the persisted events for one actor.
func (p *Publisher) List(ctx context.Context, actor string) ([]Event, error) {
	return p.store.ListByActor(ctx, actor)
}
