package service

import (
	"context"
	"strconv"

	"humanproof/internal/audit"
	"humanproof/internal/ledger/funds"
	"humanproof/internal/ledger/store"
	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
)

// Deposit credits a wallet's balance. Only the registry authority may mint
// platform currency; ordinary funding arrives out of band.
func (s *Service) Deposit(ctx context.Context, caller, wallet domain.Wallet, amount uint64) error {
	err := s.run(ctx, "deposit", func(ctx context.Context) error {
		return s.store.Update(ctx, func(tx store.Tx) error {
			reg, err := s.loadRegistry(tx)
			if err != nil {
				return err
			}
			if caller != reg.Authority {
				return dErrors.New(dErrors.CodeUnauthorized, "only the authority may deposit")
			}
			return funds.Deposit(tx, wallet, amount)
		})
	})
	if err != nil {
		return err
	}

	s.emit(ctx, audit.Event{
		Type:    audit.EventFundsDeposited,
		Actor:   caller.String(),
		Subject: wallet.String(),
		Detail: map[string]string{
			"amount": strconv.FormatUint(amount, 10),
		},
	})
	return nil
}

// GetBalance returns a wallet's current balance.
func (s *Service) GetBalance(ctx context.Context, wallet domain.Wallet) (uint64, error) {
	var v uint64
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		var err error
		v, err = funds.Balance(tx, wallet)
		return err
	})
	return v, err
}
