package handler

import (
	"humanproof/internal/ledger/record"
	"humanproof/internal/ledger/service"
)

// Wire representations. All 32-byte values travel as lowercase hex;
// timestamps are unix seconds.

type registryResponse struct {
	Authority                 string `json:"authority"`
	VerificationFee           uint64 `json:"verification_fee"`
	MinBehavioralScore        uint8  `json:"min_behavioral_score"`
	MaxSessionDuration        int64  `json:"max_session_duration"`
	MaxInteractionsPerSession uint32 `json:"max_interactions_per_session"`
	TotalVerifiedHumans       uint64 `json:"total_verified_humans"`
	TotalSessionsCreated      uint64 `json:"total_sessions_created"`
	TotalInteractions         uint64 `json:"total_interactions"`
	Paused                    bool   `json:"paused"`
}

func toRegistryResponse(reg record.Registry) registryResponse {
	return registryResponse{
		Authority:                 reg.Authority.String(),
		VerificationFee:           reg.VerificationFee,
		MinBehavioralScore:        reg.MinBehavioralScore,
		MaxSessionDuration:        reg.MaxSessionDuration,
		MaxInteractionsPerSession: reg.MaxInteractionsPerSession,
		TotalVerifiedHumans:       reg.TotalVerifiedHumans,
		TotalSessionsCreated:      reg.TotalSessionsCreated,
		TotalInteractions:         reg.TotalInteractions,
		Paused:                    reg.Paused,
	}
}

type statsResponse struct {
	TotalVerifiedHumans  uint64 `json:"total_verified_humans"`
	TotalSessionsCreated uint64 `json:"total_sessions_created"`
	TotalInteractions    uint64 `json:"total_interactions"`
	Paused               bool   `json:"paused"`
}

func toStatsResponse(stats service.Stats) statsResponse {
	return statsResponse(stats)
}

type humanResponse struct {
	Wallet            string `json:"wallet"`
	VerifiedBy        string `json:"verified_by,omitempty"`
	VerifiedAt        int64  `json:"verified_at,omitempty"`
	VerificationLevel uint8  `json:"verification_level"`
	FingerprintHash   string `json:"fingerprint_hash"`
	SessionCount      uint64 `json:"session_count"`
	TotalInteractions uint64 `json:"total_interactions"`
	LearningScore     uint64 `json:"learning_score"`
	Active            bool   `json:"active"`
	LastActiveAt      int64  `json:"last_active_at"`
}

func toHumanResponse(human record.HumanRecord) humanResponse {
	resp := humanResponse{
		Wallet:            human.Wallet.String(),
		VerifiedAt:        human.VerifiedAt,
		VerificationLevel: human.VerificationLevel,
		FingerprintHash:   human.FingerprintHash.String(),
		SessionCount:      human.SessionCount,
		TotalInteractions: human.TotalInteractions,
		LearningScore:     human.LearningScore,
		Active:            human.Active,
		LastActiveAt:      human.LastActiveAt,
	}
	if !human.VerifiedBy.Zero() {
		resp.VerifiedBy = human.VerifiedBy.String()
	}
	return resp
}

type sessionResponse struct {
	Owner             string `json:"owner"`
	Index             uint64 `json:"index"`
	CreatedAt         int64  `json:"created_at"`
	LastInteractionAt int64  `json:"last_interaction_at"`
	ExpiresAt         int64  `json:"expires_at"`
	InteractionCount  uint32 `json:"interaction_count"`
	Score             uint64 `json:"score"`
	Active            bool   `json:"active"`
	PersonalityID     uint8  `json:"personality_id"`
	CurrentTopic      string `json:"current_topic"`
}

func toSessionResponse(sess record.Session) sessionResponse {
	return sessionResponse{
		Owner:             sess.Owner.String(),
		Index:             sess.Index,
		CreatedAt:         sess.CreatedAt,
		LastInteractionAt: sess.LastInteractionAt,
		ExpiresAt:         sess.ExpiresAt,
		InteractionCount:  sess.InteractionCount,
		Score:             sess.Score,
		Active:            sess.Active,
		PersonalityID:     sess.PersonalityID,
		CurrentTopic:      sess.CurrentTopic.String(),
	}
}

type interactionResponse struct {
	User        string `json:"user"`
	Index       uint32 `json:"index"`
	Timestamp   int64  `json:"timestamp"`
	ContentHash string `json:"content_hash"`
	Type        uint8  `json:"type"`
	Score       uint8  `json:"score"`
	Duration    uint32 `json:"duration_seconds"`
}

func toInteractionResponse(i record.Interaction) interactionResponse {
	return interactionResponse{
		User:        i.User.String(),
		Index:       i.Index,
		Timestamp:   i.Timestamp,
		ContentHash: i.ContentHash.String(),
		Type:        i.Type,
		Score:       i.Score,
		Duration:    i.Duration,
	}
}
