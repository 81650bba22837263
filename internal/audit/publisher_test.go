package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type PublisherSuite struct {
	suite.Suite
	store  *InMemoryStore
	logger *slog.Logger
}

func (s *PublisherSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) TestEmit() {
	ctx := context.Background()

	s.Run("stamps id and timestamp", func() {
		p := NewPublisher(s.store, s.logger, 0)
		s.Require().NoError(p.Emit(ctx, Event{Type: EventHumanRegistered, Actor: "aa"}))

		events, err := p.List(ctx, "aa")
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.NotEmpty(events[0].ID)
		s.False(events[0].Timestamp.IsZero())
	})

	s.Run("forwards to inbox when buffered", func() {
		p := NewPublisher(s.store, s.logger, 4)
		s.Require().NoError(p.Emit(ctx, Event{Type: EventSessionCreated, Actor: "bb"}))
		select {
		case e := <-p.Inbox():
			s.Equal(EventSessionCreated, e.Type)
		default:
			s.Fail("expected event on inbox")
		}
	})

	s.Run("full inbox drops delivery but keeps the persisted copy", func() {
		p := NewPublisher(s.store, s.logger, 1)
		s.Require().NoError(p.Emit(ctx, Event{Type: EventSessionCreated, Actor: "cc"}))
		s.Require().NoError(p.Emit(ctx, Event{Type: EventSessionClosed, Actor: "cc"}))

		events, err := p.List(ctx, "cc")
		s.Require().NoError(err)
		s.Len(events, 2)
	})

	s.Run("scopes listing by actor", func() {
		p := NewPublisher(s.store, s.logger, 0)
		s.Require().NoError(p.Emit(ctx, Event{Type: EventHumanVerified, Actor: "dd", Subject: "ee"}))
		events, err := p.List(ctx, "ee")
		s.Require().NoError(err)
		s.Empty(events)
	})
}

type recordingSink struct {
	mu        sync.Mutex
	delivered []Event
	fail      bool
}

func (r *recordingSink) Deliver(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		r.fail = false
		return errors.New("sink down")
	}
	r.delivered = append(r.delivered, event)
	return nil
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delivered)
}

func (s *PublisherSuite) TestWorkerDrainsInbox() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPublisher(s.store, s.logger, 8)
	sink := &recordingSink{fail: true}
	worker := NewWorker(sink, p.Inbox(), s.logger)

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// First delivery fails, worker must keep draining the rest.
	for i := 0; i < 3; i++ {
		s.Require().NoError(p.Emit(ctx, Event{Type: EventInteractionRecorded, Actor: "aa"}))
	}

	s.Eventually(func() bool { return sink.count() == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	s.Require().ErrorIs(<-done, context.Canceled)
}
