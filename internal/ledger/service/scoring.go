package service

// Interaction types. Multipliers reward structured learning activity over
// free-form chat.
const (
	InteractionChat     uint8 = 0
	InteractionQuiz     uint8 = 1
	InteractionExercise uint8 = 2
	InteractionReview   uint8 = 3
)

const (
	// durationBonusCap bounds the duration bonus: past five minutes more
	// time earns nothing extra.
	durationBonusCap = 300
	// durationBonusStep grants one point per 30 seconds of capped duration.
	durationBonusStep = 30
)

// ScoreIncrement computes the session score earned by one interaction.
//
//	increment = floor(score * multiplier / 100) + min(duration, 300) / 30
//
// The weighted term saturates rather than wraps. With an 8-bit score and
// multipliers at most 300 it cannot overflow 64 bits; saturation only
// matters if the constants ever change.
func ScoreIncrement(score uint8, interactionType uint8, durationSeconds uint32) uint64 {
	base := uint64(score)

	var multiplier uint64
	switch interactionType {
	case InteractionChat:
		multiplier = 100
	case InteractionQuiz:
		multiplier = 200
	case InteractionExercise:
		multiplier = 300
	case InteractionReview:
		multiplier = 150
	default:
		multiplier = 100
	}

	cappedDuration := uint64(durationSeconds)
	if cappedDuration > durationBonusCap {
		cappedDuration = durationBonusCap
	}
	durationBonus := cappedDuration / durationBonusStep

	weighted := saturatingMul(base, multiplier) / 100
	return saturatingAdd(weighted, durationBonus)
}

func saturatingMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	r := a * b
	if r/b != a {
		return ^uint64(0)
	}
	return r
}

func saturatingAdd(a, b uint64) uint64 {
	r := a + b
	if r < a {
		return ^uint64(0)
	}
	return r
}
