package service

import (
	"context"
	"errors"
	"strconv"

	"humanproof/internal/audit"
	"humanproof/internal/ledger/record"
	"humanproof/internal/ledger/store"
	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
	"humanproof/pkg/platform/sentinel"
)

// InitializeParams carries the one-time platform configuration.
type InitializeParams struct {
	VerificationFee           uint64
	MinBehavioralScore        uint8
	MaxSessionDuration        int64
	MaxInteractionsPerSession uint32
}

// Initialize creates the single Registry record with the caller as
// authority. The store's must-not-pre-exist creation rule makes a second
// call fail with a conflict.
func (s *Service) Initialize(ctx context.Context, caller domain.Wallet, params InitializeParams) (record.Registry, error) {
	var reg record.Registry
	err := s.run(ctx, "initialize", func(ctx context.Context) error {
		if params.MinBehavioralScore > 100 {
			return dErrors.New(dErrors.CodeInvalidVerificationLevel, "minimum behavioral score above 100")
		}
		if params.MaxSessionDuration <= 0 {
			return dErrors.New(dErrors.CodeSessionDurationExceeded, "maximum session duration must be positive")
		}

		reg = record.Registry{
			Authority:                 caller,
			VerificationFee:           params.VerificationFee,
			MinBehavioralScore:        params.MinBehavioralScore,
			MaxSessionDuration:        params.MaxSessionDuration,
			MaxInteractionsPerSession: params.MaxInteractionsPerSession,
		}

		err := s.store.Update(ctx, func(tx store.Tx) error {
			return tx.Create(record.RegistryAddress(), record.EncodeRegistry(reg))
		})
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "registry already initialized")
		}
		return err
	})
	if err != nil {
		return record.Registry{}, err
	}

	s.emit(ctx, audit.Event{
		Type:  audit.EventRegistryInitialized,
		Actor: caller.String(),
		Detail: map[string]string{
			"verification_fee":     strconv.FormatUint(reg.VerificationFee, 10),
			"min_behavioral_score": strconv.FormatUint(uint64(reg.MinBehavioralScore), 10),
			"max_session_duration": strconv.FormatInt(reg.MaxSessionDuration, 10),
			"max_interactions":     strconv.FormatUint(uint64(reg.MaxInteractionsPerSession), 10),
		},
	})
	return reg, nil
}

// GetRegistry returns the current registry record.
func (s *Service) GetRegistry(ctx context.Context) (record.Registry, error) {
	var reg record.Registry
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		var err error
		reg, err = s.loadRegistry(tx)
		return err
	})
	return reg, err
}

// Stats is the platform-wide counter snapshot.
type Stats struct {
	TotalVerifiedHumans  uint64
	TotalSessionsCreated uint64
	TotalInteractions    uint64
	Paused               bool
}

// GetStats returns the lifetime totals tracked on the registry.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	reg, err := s.GetRegistry(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalVerifiedHumans:  reg.TotalVerifiedHumans,
		TotalSessionsCreated: reg.TotalSessionsCreated,
		TotalInteractions:    reg.TotalInteractions,
		Paused:               reg.Paused,
	}, nil
}
