package record

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"humanproof/pkg/domain"
)

// RecordCodecSuite pins the persisted byte layouts. A size or round-trip
// failure here means a breaking storage migration, not a bug to paper over.
type RecordCodecSuite struct {
	suite.Suite
}

func TestRecordCodecSuite(t *testing.T) {
	suite.Run(t, new(RecordCodecSuite))
}

func (s *RecordCodecSuite) TestPersistedSizes() {
	s.Run("registry", func() {
		s.Equal(RegistrySize, len(EncodeRegistry(Registry{})))
		s.Equal(142, RegistrySize)
	})
	s.Run("human", func() {
		s.Equal(HumanSize, len(EncodeHuman(HumanRecord{})))
		s.Equal(202, HumanSize)
	})
	s.Run("session", func() {
		s.Equal(SessionSize, len(EncodeSession(Session{})))
		s.Equal(158, SessionSize)
	})
	s.Run("interaction", func() {
		s.Equal(InteractionSize, len(EncodeInteraction(Interaction{})))
		s.Equal(114, InteractionSize)
	})
	s.Run("balance", func() {
		s.Equal(BalanceSize, len(EncodeBalance(0)))
	})
}

func wallet(b byte) domain.Wallet {
	var w domain.Wallet
	for i := range w {
		w[i] = b
	}
	return w
}

func hash(b byte) domain.Hash32 {
	var h domain.Hash32
	for i := range h {
		h[i] = b
	}
	return h
}

func (s *RecordCodecSuite) TestRegistryRoundTrip() {
	in := Registry{
		Authority:                 wallet(0xAA),
		VerificationFee:           5_000,
		TotalVerifiedHumans:       7,
		TotalSessionsCreated:      11,
		TotalInteractions:         13,
		Paused:                    true,
		MinBehavioralScore:        70,
		MaxSessionDuration:        3600,
		MaxInteractionsPerSession: 100,
	}
	out, err := DecodeRegistry(EncodeRegistry(in))
	s.Require().NoError(err)
	s.Equal(in, out)
}

func (s *RecordCodecSuite) TestHumanRoundTrip() {
	in := HumanRecord{
		Wallet:            wallet(0x01),
		VerifiedBy:        wallet(0x02),
		VerifiedAt:        1_700_000_000,
		VerificationLevel: 2,
		FingerprintHash:   hash(0x0F),
		Active:            true,
		SessionCount:      3,
		TotalInteractions: 42,
		LastActiveAt:      1_700_000_100,
		LearningScore:     999,
		ChallengeNonce:    hash(0xF0),
	}
	out, err := DecodeHuman(EncodeHuman(in))
	s.Require().NoError(err)
	s.Equal(in, out)
}

func (s *RecordCodecSuite) TestSessionRoundTrip() {
	in := Session{
		Human:             HumanAddress(wallet(0x01)),
		Owner:             wallet(0x01),
		Index:             4,
		CreatedAt:         1_700_000_000,
		LastInteractionAt: 1_700_000_050,
		ExpiresAt:         1_700_003_600,
		Active:            true,
		InteractionCount:  9,
		PersonalityID:     17,
		CurrentTopic:      hash(0x33),
		Score:             1234,
	}
	out, err := DecodeSession(EncodeSession(in))
	s.Require().NoError(err)
	s.Equal(in, out)
}

func (s *RecordCodecSuite) TestInteractionRoundTrip() {
	in := Interaction{
		Session:     SessionAddress(HumanAddress(wallet(0x01)), 0),
		User:        wallet(0x01),
		Index:       5,
		Timestamp:   1_700_000_000,
		ContentHash: hash(0x7C),
		Type:        2,
		Score:       88,
		Duration:    125,
	}
	out, err := DecodeInteraction(EncodeInteraction(in))
	s.Require().NoError(err)
	s.Equal(in, out)
}

func (s *RecordCodecSuite) TestDecodeRejectsWrongSize() {
	_, err := DecodeRegistry(make([]byte, RegistrySize-1))
	s.Error(err)
	_, err = DecodeHuman(make([]byte, HumanSize+1))
	s.Error(err)
	_, err = DecodeSession(nil)
	s.Error(err)
	_, err = DecodeInteraction(make([]byte, 1))
	s.Error(err)
	_, err = DecodeBalance(make([]byte, 7))
	s.Error(err)
}

func (s *RecordCodecSuite) TestBalanceRoundTrip() {
	v, err := DecodeBalance(EncodeBalance(987_654_321))
	s.Require().NoError(err)
	s.Equal(uint64(987_654_321), v)
}
