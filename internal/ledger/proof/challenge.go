// Package proof implements the deterministic challenge-response function
// binding a registration's nonce to its fingerprint commitment. Off-platform
// provers must reproduce it byte for byte, so the algorithm is frozen.
package proof

import "humanproof/pkg/domain"

// ChallengeResponse computes the expected 32-byte response for a stored
// challenge nonce and fingerprint commitment.
//
// The mixing rounds update the state in place, left to right: a cell's
// neighbors may already hold this round's values when it is computed. That
// order dependence is part of the function's definition, not an accident;
// a read-only-snapshot variant produces different output and will not
// verify against existing provers.
func ChallengeResponse(nonce, fingerprint domain.Hash32) domain.Hash32 {
	var r domain.Hash32
	for i := 0; i < 32; i++ {
		r[i] = nonce[i] ^ fingerprint[i]
		r[i] += nonce[(i+7)%32]
		r[i] ^= fingerprint[(i+13)%32]
	}

	for round := 0; round < 4; round++ {
		for i := 0; i < 32; i++ {
			prev := r[(i+31)%32]
			next := r[(i+1)%32]
			r[i] = r[i] + prev*next + byte(round)
		}
	}

	return r
}
