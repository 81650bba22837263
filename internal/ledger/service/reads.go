package service

import (
	"context"
	"errors"

	"humanproof/internal/ledger/record"
	"humanproof/internal/ledger/store"
	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
	"humanproof/pkg/platform/sentinel"
)

// GetHuman returns a wallet's identity record.
func (s *Service) GetHuman(ctx context.Context, wallet domain.Wallet) (record.HumanRecord, error) {
	var human record.HumanRecord
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		var err error
		human, err = s.loadHuman(tx, wallet)
		return err
	})
	return human, err
}

// GetSession returns one of a wallet's sessions by index.
func (s *Service) GetSession(ctx context.Context, wallet domain.Wallet, index uint64) (record.Session, error) {
	var sess record.Session
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		human, err := s.loadHuman(tx, wallet)
		if err != nil {
			return err
		}
		sess, _, err = s.loadSession(tx, human, index)
		return err
	})
	return sess, err
}

// GetInteraction returns one interaction from a wallet's session.
func (s *Service) GetInteraction(ctx context.Context, wallet domain.Wallet, sessionIndex uint64, interactionIndex uint32) (record.Interaction, error) {
	var interaction record.Interaction
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		sessAddr := record.SessionAddress(record.HumanAddress(wallet), sessionIndex)
		payload, err := tx.Get(record.InteractionAddress(sessAddr, interactionIndex))
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "interaction not found")
		}
		if err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "load interaction", err)
		}
		interaction, err = record.DecodeInteraction(payload)
		if err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "decode interaction", err)
		}
		return nil
	})
	return interaction, err
}
