package service

import (
	"context"
	"strconv"

	"humanproof/internal/audit"
	"humanproof/internal/ledger/arith"
	"humanproof/internal/ledger/proof"
	"humanproof/internal/ledger/record"
	"humanproof/internal/ledger/store"
	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
)

// VerifyParams carries a verifier's attestation for a pending identity.
type VerifyParams struct {
	ChallengeResponse domain.Hash32
	BehavioralScore   uint8
	VerificationLevel uint8
}

// VerifyHuman activates a registered, still-inactive identity. The caller
// becomes the recorded verifier. The challenge response must match the
// deterministic function of the stored nonce and fingerprint exactly;
// activation happens at most once per wallet.
func (s *Service) VerifyHuman(ctx context.Context, verifier, wallet domain.Wallet, params VerifyParams) (record.HumanRecord, error) {
	var human record.HumanRecord
	err := s.run(ctx, "verify_human", func(ctx context.Context) error {
		now := s.clock().Unix()

		return s.store.Update(ctx, func(tx store.Tx) error {
			reg, err := s.loadRegistry(tx)
			if err != nil {
				return err
			}
			if reg.Paused {
				return dErrors.New(dErrors.CodeRegistryPaused, "verifications are paused")
			}

			human, err = s.loadHuman(tx, wallet)
			if err != nil {
				return err
			}
			if human.Active {
				return dErrors.New(dErrors.CodeAlreadyVerified, "wallet is already verified")
			}
			if params.VerificationLevel < 1 || params.VerificationLevel > 3 {
				return dErrors.New(dErrors.CodeInvalidVerificationLevel, "verification level must be 1-3")
			}
			if params.BehavioralScore < reg.MinBehavioralScore {
				return dErrors.New(dErrors.CodeBehavioralScoreTooLow, "behavioral score below registry minimum")
			}

			expected := proof.ChallengeResponse(human.ChallengeNonce, human.FingerprintHash)
			if params.ChallengeResponse != expected {
				return dErrors.New(dErrors.CodeChallengeMismatch, "challenge response does not match")
			}

			human.VerifiedBy = verifier
			human.VerifiedAt = now
			human.VerificationLevel = params.VerificationLevel
			human.Active = true
			human.LastActiveAt = now

			reg.TotalVerifiedHumans, err = arith.AddU64(reg.TotalVerifiedHumans, 1)
			if err != nil {
				return err
			}

			if err := tx.Put(record.HumanAddress(wallet), record.EncodeHuman(human)); err != nil {
				return err
			}
			return tx.Put(record.RegistryAddress(), record.EncodeRegistry(reg))
		})
	})
	if err != nil {
		return record.HumanRecord{}, err
	}

	s.emit(ctx, audit.Event{
		Type:    audit.EventHumanVerified,
		Actor:   verifier.String(),
		Subject: wallet.String(),
		Detail: map[string]string{
			"verification_level": strconv.FormatUint(uint64(params.VerificationLevel), 10),
			"behavioral_score":   strconv.FormatUint(uint64(params.BehavioralScore), 10),
		},
	})
	return human, nil
}
