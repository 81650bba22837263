// Package service implements the ledger state machine: identity
// registration, verification, session lifecycle, and interaction accrual.
// Every operation reloads persisted state, revalidates its invariants, and
// commits all mutations through one atomic store update; nothing is kept in
// process between calls.
package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"humanproof/internal/audit"
	"humanproof/internal/ledger/metrics"
	"humanproof/internal/ledger/record"
	"humanproof/internal/ledger/store"
	"humanproof/internal/platform/middleware"
	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
	"humanproof/pkg/platform/sentinel"
)

// Clock supplies the trusted wall-clock timestamp. Injected for testability.
type Clock func() time.Time

// Service owns the seven ledger operations plus the read paths.
type Service struct {
	store   store.Store
	audit   audit.Emitter
	metrics *metrics.Metrics
	clock   Clock
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithAudit attaches an audit emitter. Without one, mutations still commit
// but leave no audit trail.
func WithAudit(emitter audit.Emitter) Option {
	return func(s *Service) { s.audit = emitter }
}

// WithMetrics attaches ledger metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		clock:  time.Now,
		tracer: otel.Tracer("humanproof/ledger"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// run wraps one operation with a span and outcome metrics. The outcome
// label is "ok" or the domain error code, so dashboards can split
// rejections from infrastructure failures.
func (s *Service) run(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "ledger."+op)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, outcome)
	}
	s.metrics.RecordOperation(op, outcome, time.Since(start))
	return err
}

// emit records an audit event for a committed mutation. Best-effort: a
// failed emit never rolls back a committed operation, and the publisher
// logs its own delivery problems.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if event.Client == "" {
		event.Client = middleware.GetClientDescriptor(ctx)
	}
	_ = s.audit.Emit(ctx, event)
}

func (s *Service) loadRegistry(tx store.ReadTx) (record.Registry, error) {
	payload, err := tx.Get(record.RegistryAddress())
	if errors.Is(err, sentinel.ErrNotFound) {
		return record.Registry{}, dErrors.New(dErrors.CodeNotFound, "registry not initialized")
	}
	if err != nil {
		return record.Registry{}, dErrors.Wrap(dErrors.CodeInternal, "load registry", err)
	}
	reg, err := record.DecodeRegistry(payload)
	if err != nil {
		return record.Registry{}, dErrors.Wrap(dErrors.CodeInternal, "decode registry", err)
	}
	return reg, nil
}

func (s *Service) loadHuman(tx store.ReadTx, wallet domain.Wallet) (record.HumanRecord, error) {
	payload, err := tx.Get(record.HumanAddress(wallet))
	if errors.Is(err, sentinel.ErrNotFound) {
		return record.HumanRecord{}, dErrors.New(dErrors.CodeNotFound, "human record not found")
	}
	if err != nil {
		return record.HumanRecord{}, dErrors.Wrap(dErrors.CodeInternal, "load human record", err)
	}
	human, err := record.DecodeHuman(payload)
	if err != nil {
		return record.HumanRecord{}, dErrors.Wrap(dErrors.CodeInternal, "decode human record", err)
	}
	return human, nil
}

func (s *Service) loadSession(tx store.ReadTx, human record.HumanRecord, index uint64) (record.Session, record.Address, error) {
	addr := record.SessionAddress(record.HumanAddress(human.Wallet), index)
	payload, err := tx.Get(addr)
	if errors.Is(err, sentinel.ErrNotFound) {
		return record.Session{}, addr, dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	if err != nil {
		return record.Session{}, addr, dErrors.Wrap(dErrors.CodeInternal, "load session", err)
	}
	sess, err := record.DecodeSession(payload)
	if err != nil {
		return record.Session{}, addr, dErrors.Wrap(dErrors.CodeInternal, "decode session", err)
	}
	return sess, addr, nil
}
