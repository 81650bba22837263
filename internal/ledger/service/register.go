package service

import (
	"context"
	"errors"

	"humanproof/internal/audit"
	"humanproof/internal/ledger/funds"
	"humanproof/internal/ledger/record"
	"humanproof/internal/ledger/store"
	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
	"humanproof/pkg/platform/sentinel"
)

// RegisterParams carries a wallet's registration inputs. The nonce is
// caller-supplied randomness; the fingerprint hash commits to an
// off-platform behavioral fingerprint without revealing it.
type RegisterParams struct {
	ChallengeNonce  domain.Hash32
	FingerprintHash domain.Hash32
	FeeReceiver     domain.Wallet
}

// RegisterHuman creates a pending identity record for the caller's wallet.
// When a verification fee is configured it moves in the same commit that
// creates the record: a failed transfer registers nothing, and a duplicate
// registration moves nothing.
func (s *Service) RegisterHuman(ctx context.Context, caller domain.Wallet, params RegisterParams) (record.HumanRecord, error) {
	var human record.HumanRecord
	err := s.run(ctx, "register_human", func(ctx context.Context) error {
		now := s.clock().Unix()

		err := s.store.Update(ctx, func(tx store.Tx) error {
			reg, err := s.loadRegistry(tx)
			if err != nil {
				return err
			}
			if reg.Paused {
				return dErrors.New(dErrors.CodeRegistryPaused, "registrations are paused")
			}
			if reg.VerificationFee > 0 {
				if params.FeeReceiver != reg.Authority {
					return dErrors.New(dErrors.CodeAuthorityMismatch, "fee receiver is not the registry authority")
				}
				if err := funds.Transfer(tx, caller, params.FeeReceiver, reg.VerificationFee); err != nil {
					return err
				}
			}

			human = record.HumanRecord{
				Wallet:          caller,
				FingerprintHash: params.FingerprintHash,
				ChallengeNonce:  params.ChallengeNonce,
				LastActiveAt:    now,
			}
			if err := tx.Create(record.HumanAddress(caller), record.EncodeHuman(human)); err != nil {
				if errors.Is(err, sentinel.ErrConflict) {
					return dErrors.New(dErrors.CodeConflict, "wallet already registered")
				}
				return err
			}
			return nil
		})
		return err
	})
	if err != nil {
		return record.HumanRecord{}, err
	}

	s.emit(ctx, audit.Event{
		Type:    audit.EventHumanRegistered,
		Actor:   caller.String(),
		Subject: caller.String(),
	})
	return human, nil
}
