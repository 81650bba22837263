package domain

import (
	"encoding/hex"

	dErrors "humanproof/pkg/domain-errors"
)

// Wallet is a 32-byte account identity. Wallets arrive as lowercase hex at
// trust boundaries and are parsed exactly once; everything past the
// transport layer works with the fixed-width value.
type Wallet [32]byte

// Zero reports whether the wallet is the all-zero sentinel.
func (w Wallet) Zero() bool { return w == Wallet{} }

// String returns the canonical lowercase-hex form.
func (w Wallet) String() string { return hex.EncodeToString(w[:]) }

// ParseWallet validates and decodes a hex wallet string.
func ParseWallet(s string) (Wallet, error) {
	var w Wallet
	if len(s) != 64 {
		return w, dErrors.New(dErrors.CodeInvalidInput, "wallet must be 64 hex characters")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return w, dErrors.Wrap(dErrors.CodeInvalidInput, "wallet is not valid hex", err)
	}
	copy(w[:], raw)
	if w.Zero() {
		return w, dErrors.New(dErrors.CodeInvalidInput, "wallet must not be all zeroes")
	}
	return w, nil
}

// Hash32 is a fixed 32-byte opaque value: challenge nonces, fingerprint
// commitments, content hashes, and topic tags all share this shape.
type Hash32 [32]byte

// Zero reports whether the hash is the all-zero sentinel.
func (h Hash32) Zero() bool { return h == Hash32{} }

// String returns the canonical lowercase-hex form.
func (h Hash32) String() string { return hex.EncodeToString(h[:]) }

// ParseHash32 validates and decodes a hex-encoded 32-byte value. The
// all-zero value parses successfully; callers that treat it as a sentinel
// reject it themselves.
func ParseHash32(s string) (Hash32, error) {
	var h Hash32
	if len(s) != 64 {
		return h, dErrors.New(dErrors.CodeInvalidInput, "value must be 64 hex characters")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, dErrors.Wrap(dErrors.CodeInvalidInput, "value is not valid hex", err)
	}
	copy(h[:], raw)
	return h, nil
}
