package service

import (
	"context"
	"strconv"

	"humanproof/internal/audit"
	"humanproof/internal/ledger/arith"
	"humanproof/internal/ledger/record"
	"humanproof/internal/ledger/store"
	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
)

// InteractionParams carries one engagement record's inputs. The content
// hash commits to the exchanged content; the score arrives from the
// companion backend and is trusted only within its 0-100 range.
type InteractionParams struct {
	ContentHash     domain.Hash32
	InteractionType uint8
	Score           uint8
	DurationSeconds uint32
}

// RecordInteraction appends one immutable interaction to an open session
// and propagates counters to the session, the human record, and the
// registry in the same commit.
func (s *Service) RecordInteraction(ctx context.Context, caller domain.Wallet, sessionIndex uint64, params InteractionParams) (record.Interaction, error) {
	var (
		interaction record.Interaction
		increment   uint64
	)
	err := s.run(ctx, "record_interaction", func(ctx context.Context) error {
		now := s.clock().Unix()

		return s.store.Update(ctx, func(tx store.Tx) error {
			reg, err := s.loadRegistry(tx)
			if err != nil {
				return err
			}

			human, err := s.loadHuman(tx, caller)
			if err != nil {
				return err
			}
			if !human.Active {
				return dErrors.New(dErrors.CodeHumanRecordRevoked, "human record is not active")
			}

			sess, sessAddr, err := s.loadSession(tx, human, sessionIndex)
			if err != nil {
				return err
			}
			if !sess.Active {
				return dErrors.New(dErrors.CodeSessionInactive, "session is not active")
			}
			if sess.Owner != caller {
				return dErrors.New(dErrors.CodeUnauthorized, "caller does not own this session")
			}
			if sess.ExpiresAt <= now {
				return dErrors.New(dErrors.CodeSessionExpired, "session has expired")
			}
			if sess.InteractionCount >= reg.MaxInteractionsPerSession {
				return dErrors.New(dErrors.CodeInteractionLimitReached, "session interaction limit reached")
			}
			if params.InteractionType > 3 {
				return dErrors.New(dErrors.CodeInvalidContentHash, "interaction type out of range")
			}
			if params.Score > 100 {
				return dErrors.New(dErrors.CodeInvalidVerificationLevel, "interaction score above 100")
			}
			if params.ContentHash.Zero() {
				return dErrors.New(dErrors.CodeInvalidContentHash, "content hash must not be zero")
			}

			interaction = record.Interaction{
				Session:     sessAddr,
				User:        caller,
				Index:       sess.InteractionCount,
				Timestamp:   now,
				ContentHash: params.ContentHash,
				Type:        params.InteractionType,
				Score:       params.Score,
				Duration:    params.DurationSeconds,
			}
			if err := tx.Create(record.InteractionAddress(sessAddr, interaction.Index), record.EncodeInteraction(interaction)); err != nil {
				return err
			}

			sess.InteractionCount, err = arith.AddU32(sess.InteractionCount, 1)
			if err != nil {
				return err
			}
			sess.LastInteractionAt = now

			increment = ScoreIncrement(params.Score, params.InteractionType, params.DurationSeconds)
			sess.Score, err = arith.AddU64(sess.Score, increment)
			if err != nil {
				return err
			}

			human.TotalInteractions, err = arith.AddU64(human.TotalInteractions, 1)
			if err != nil {
				return err
			}
			human.LastActiveAt = now

			reg.TotalInteractions, err = arith.AddU64(reg.TotalInteractions, 1)
			if err != nil {
				return err
			}

			if err := tx.Put(sessAddr, record.EncodeSession(sess)); err != nil {
				return err
			}
			if err := tx.Put(record.HumanAddress(caller), record.EncodeHuman(human)); err != nil {
				return err
			}
			return tx.Put(record.RegistryAddress(), record.EncodeRegistry(reg))
		})
	})
	if err != nil {
		return record.Interaction{}, err
	}

	s.metrics.ObserveInteractionScore(increment)
	s.emit(ctx, audit.Event{
		Type:    audit.EventInteractionRecorded,
		Actor:   caller.String(),
		Subject: caller.String(),
		Detail: map[string]string{
			"session_index":     strconv.FormatUint(sessionIndex, 10),
			"interaction_index": strconv.FormatUint(uint64(interaction.Index), 10),
			"interaction_type":  strconv.FormatUint(uint64(interaction.Type), 10),
			"score_increment":   strconv.FormatUint(increment, 10),
		},
	})
	return interaction, nil
}
