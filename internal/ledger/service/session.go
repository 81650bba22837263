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

// CreateSessionParams selects the companion personality and opening topic.
type CreateSessionParams struct {
	PersonalityID uint8
	InitialTopic  domain.Hash32
}

// CreateSession opens a time-boxed session for the caller's verified
// identity. The session index comes from the human's counter and is never
// reused; expiry is fixed at creation from the registry's maximum duration.
func (s *Service) CreateSession(ctx context.Context, caller domain.Wallet, params CreateSessionParams) (record.Session, error) {
	var sess record.Session
	err := s.run(ctx, "create_session", func(ctx context.Context) error {
		now := s.clock().Unix()

		return s.store.Update(ctx, func(tx store.Tx) error {
			reg, err := s.loadRegistry(tx)
			if err != nil {
				return err
			}
			if reg.Paused {
				return dErrors.New(dErrors.CodeRegistryPaused, "session creation is paused")
			}

			human, err := s.loadHuman(tx, caller)
			if err != nil {
				return err
			}
			if !human.Active {
				return dErrors.New(dErrors.CodeHumanRecordRevoked, "human record is not active")
			}
			if human.Wallet != caller {
				return dErrors.New(dErrors.CodeUnauthorized, "caller does not own this record")
			}

			expiresAt, err := arith.AddI64(now, reg.MaxSessionDuration)
			if err != nil {
				return err
			}

			humanAddr := record.HumanAddress(caller)
			sess = record.Session{
				Human:             humanAddr,
				Owner:             caller,
				Index:             human.SessionCount,
				CreatedAt:         now,
				LastInteractionAt: now,
				ExpiresAt:         expiresAt,
				Active:            true,
				PersonalityID:     params.PersonalityID,
				CurrentTopic:      params.InitialTopic,
			}
			if err := tx.Create(record.SessionAddress(humanAddr, sess.Index), record.EncodeSession(sess)); err != nil {
				return err
			}

			human.SessionCount, err = arith.AddU64(human.SessionCount, 1)
			if err != nil {
				return err
			}
			human.LastActiveAt = now

			reg.TotalSessionsCreated, err = arith.AddU64(reg.TotalSessionsCreated, 1)
			if err != nil {
				return err
			}

			if err := tx.Put(humanAddr, record.EncodeHuman(human)); err != nil {
				return err
			}
			return tx.Put(record.RegistryAddress(), record.EncodeRegistry(reg))
		})
	})
	if err != nil {
		return record.Session{}, err
	}

	s.emit(ctx, audit.Event{
		Type:    audit.EventSessionCreated,
		Actor:   caller.String(),
		Subject: caller.String(),
		Detail: map[string]string{
			"session_index":  strconv.FormatUint(sess.Index, 10),
			"personality_id": strconv.FormatUint(uint64(sess.PersonalityID), 10),
		},
	})
	return sess, nil
}

// CloseSession deactivates an active session and folds its accumulated
// score into the owner's learning score. A second close is rejected: the
// active flag gates it.
func (s *Service) CloseSession(ctx context.Context, caller domain.Wallet, index uint64) (record.Session, error) {
	var sess record.Session
	err := s.run(ctx, "close_session", func(ctx context.Context) error {
		now := s.clock().Unix()

		return s.store.Update(ctx, func(tx store.Tx) error {
			human, err := s.loadHuman(tx, caller)
			if err != nil {
				return err
			}

			var sessAddr record.Address
			sess, sessAddr, err = s.loadSession(tx, human, index)
			if err != nil {
				return err
			}
			if !sess.Active {
				return dErrors.New(dErrors.CodeSessionInactive, "session is already closed")
			}
			if sess.Owner != caller {
				return dErrors.New(dErrors.CodeUnauthorized, "caller does not own this session")
			}

			sess.Active = false
			sess.LastInteractionAt = now

			human.LearningScore, err = arith.AddU64(human.LearningScore, sess.Score)
			if err != nil {
				return err
			}

			if err := tx.Put(sessAddr, record.EncodeSession(sess)); err != nil {
				return err
			}
			return tx.Put(record.HumanAddress(caller), record.EncodeHuman(human))
		})
	})
	if err != nil {
		return record.Session{}, err
	}

	s.emit(ctx, audit.Event{
		Type:    audit.EventSessionClosed,
		Actor:   caller.String(),
		Subject: caller.String(),
		Detail: map[string]string{
			"session_index": strconv.FormatUint(sess.Index, 10),
			"session_score": strconv.FormatUint(sess.Score, 10),
		},
	})
	return sess, nil
}

// ExtendSession pushes an active, unexpired session's expiry out by the
// requested duration, bounded by twice the registry's maximum measured
// from now. Only the expiry changes.
func (s *Service) ExtendSession(ctx context.Context, caller domain.Wallet, index uint64, additional int64) (record.Session, error) {
	var sess record.Session
	err := s.run(ctx, "extend_session", func(ctx context.Context) error {
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

			var sessAddr record.Address
			sess, sessAddr, err = s.loadSession(tx, human, index)
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

			newExpiry, err := arith.AddI64(sess.ExpiresAt, additional)
			if err != nil {
				return err
			}
			doubled, err := arith.MulI64(reg.MaxSessionDuration, 2)
			if err != nil {
				return err
			}
			maxAllowed, err := arith.AddI64(now, doubled)
			if err != nil {
				return err
			}
			if newExpiry > maxAllowed {
				return dErrors.New(dErrors.CodeSessionDurationExceeded, "extension exceeds maximum session window")
			}

			sess.ExpiresAt = newExpiry
			return tx.Put(sessAddr, record.EncodeSession(sess))
		})
	})
	if err != nil {
		return record.Session{}, err
	}

	s.emit(ctx, audit.Event{
		Type:    audit.EventSessionExtended,
		Actor:   caller.String(),
		Subject: caller.String(),
		Detail: map[string]string{
			"session_index": strconv.FormatUint(sess.Index, 10),
			"expires_at":    strconv.FormatInt(sess.ExpiresAt, 10),
		},
	})
	return sess, nil
}
