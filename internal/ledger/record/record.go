// Package record defines the four durable record types, their fixed-width
// byte layouts, and the deterministic addressing scheme. Layouts are
// little-endian with single-byte booleans and reserved tail padding;
// persisted sizes are exact so any format change is a deliberate migration.
package record

import (
	"encoding/binary"
	"fmt"

	"humanproof/pkg/domain"
)

// Registry is the single global configuration and counter record.
type Registry struct {
	// Authority may pause registrations and update fees; it is also the
	// only permitted fee receiver.
	Authority domain.Wallet
	// VerificationFee is charged, in base currency units, on registration.
	VerificationFee uint64
	// Lifetime totals. Monotonic; overflow aborts the mutating operation.
	TotalVerifiedHumans  uint64
	TotalSessionsCreated uint64
	TotalInteractions    uint64
	// Paused blocks new registrations, verifications, and sessions.
	Paused bool
	// MinBehavioralScore is the verification threshold (0-100).
	MinBehavioralScore uint8
	// MaxSessionDuration bounds session lifetime, in seconds.
	MaxSessionDuration int64
	// MaxInteractionsPerSession caps interaction records per session.
	MaxInteractionsPerSession uint32
	reserved                  [64]byte
}

// HumanRecord tracks one wallet's identity through registration and
// verification, plus its lifetime engagement counters.
type HumanRecord struct {
	Wallet domain.Wallet
	// VerifiedBy is the verifier identity; zero until verified.
	VerifiedBy domain.Wallet
	// VerifiedAt is a Unix timestamp; zero until verified.
	VerifiedAt int64
	// VerificationLevel is 0 until verified, else 1-3.
	VerificationLevel uint8
	// FingerprintHash commits to the off-platform behavioral fingerprint.
	FingerprintHash domain.Hash32
	Active          bool
	// SessionCount assigns the next session index; never reused.
	SessionCount      uint64
	TotalInteractions uint64
	LastActiveAt      int64
	LearningScore     uint64
	// ChallengeNonce is set once at registration and never reused.
	ChallengeNonce domain.Hash32
	reserved       [32]byte
}

// Session is one time-boxed companion session owned by a verified human.
type Session struct {
	// Human is the parent HumanRecord's address, held for validation only;
	// parents never enumerate children.
	Human             Address
	Owner             domain.Wallet
	Index             uint64
	CreatedAt         int64
	LastInteractionAt int64
	ExpiresAt         int64
	Active            bool
	InteractionCount  uint32
	PersonalityID     uint8
	CurrentTopic      domain.Hash32
	Score             uint64
	reserved          [16]byte
}

// Interaction is one append-only engagement record within a session.
type Interaction struct {
	Session     Address
	User        domain.Wallet
	Index       uint32
	Timestamp   int64
	ContentHash domain.Hash32
	Type        uint8
	Score       uint8
	Duration    uint32
}

// Exact persisted sizes in bytes. Tests pin these; changing one is a
// breaking migration.
const (
	RegistrySize    = 32 + 8 + 8 + 8 + 8 + 1 + 1 + 8 + 4 + 64
	HumanSize       = 32 + 32 + 8 + 1 + 32 + 1 + 8 + 8 + 8 + 8 + 32 + 32
	SessionSize     = 32 + 32 + 8 + 8 + 8 + 8 + 1 + 4 + 1 + 32 + 8 + 16
	InteractionSize = 32 + 32 + 4 + 8 + 32 + 1 + 1 + 4
	BalanceSize     = 8
)

type writer struct{ buf []byte }

func (w *writer) bytes(b []byte) { w.buf = append(w.buf, b...) }
func (w *writer) u8(v uint8)     { w.buf = append(w.buf, v) }
func (w *writer) u32(v uint32)   { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *writer) u64(v uint64)   { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }
func (w *writer) i64(v int64)    { w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v)) }
func (w *writer) boolean(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) bytes(n int) []byte {
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}
func (r *reader) u8() uint8     { b := r.buf[r.off]; r.off++; return b }
func (r *reader) u32() uint32   { return binary.LittleEndian.Uint32(r.bytes(4)) }
func (r *reader) u64() uint64   { return binary.LittleEndian.Uint64(r.bytes(8)) }
func (r *reader) i64() int64    { return int64(r.u64()) }
func (r *reader) boolean() bool { return r.u8() != 0 }

func checkSize(kind string, got, want int) error {
	if got != want {
		return fmt.Errorf("decode %s: got %d bytes, want %d", kind, got, want)
	}
	return nil
}

// EncodeRegistry serializes r into its fixed RegistrySize layout.
func EncodeRegistry(r Registry) []byte {
	w := writer{buf: make([]byte, 0, RegistrySize)}
	w.bytes(r.Authority[:])
	w.u64(r.VerificationFee)
	w.u64(r.TotalVerifiedHumans)
	w.u64(r.TotalSessionsCreated)
	w.u64(r.TotalInteractions)
	w.boolean(r.Paused)
	w.u8(r.MinBehavioralScore)
	w.i64(r.MaxSessionDuration)
	w.u32(r.MaxInteractionsPerSession)
	w.bytes(r.reserved[:])
	return w.buf
}

// DecodeRegistry deserializes a RegistrySize payload.
func DecodeRegistry(b []byte) (Registry, error) {
	var out Registry
	if err := checkSize("registry", len(b), RegistrySize); err != nil {
		return out, err
	}
	r := reader{buf: b}
	copy(out.Authority[:], r.bytes(32))
	out.VerificationFee = r.u64()
	out.TotalVerifiedHumans = r.u64()
	out.TotalSessionsCreated = r.u64()
	out.TotalInteractions = r.u64()
	out.Paused = r.boolean()
	out.MinBehavioralScore = r.u8()
	out.MaxSessionDuration = r.i64()
	out.MaxInteractionsPerSession = r.u32()
	copy(out.reserved[:], r.bytes(64))
	return out, nil
}

// EncodeHuman serializes h into its fixed HumanSize layout.
func EncodeHuman(h HumanRecord) []byte {
	w := writer{buf: make([]byte, 0, HumanSize)}
	w.bytes(h.Wallet[:])
	w.bytes(h.VerifiedBy[:])
	w.i64(h.VerifiedAt)
	w.u8(h.VerificationLevel)
	w.bytes(h.FingerprintHash[:])
	w.boolean(h.Active)
	w.u64(h.SessionCount)
	w.u64(h.TotalInteractions)
	w.i64(h.LastActiveAt)
	w.u64(h.LearningScore)
	w.bytes(h.ChallengeNonce[:])
	w.bytes(h.reserved[:])
	return w.buf
}

// DecodeHuman deserializes a HumanSize payload.
func DecodeHuman(b []byte) (HumanRecord, error) {
	var out HumanRecord
	if err := checkSize("human", len(b), HumanSize); err != nil {
		return out, err
	}
	r := reader{buf: b}
	copy(out.Wallet[:], r.bytes(32))
	copy(out.VerifiedBy[:], r.bytes(32))
	out.VerifiedAt = r.i64()
	out.VerificationLevel = r.u8()
	copy(out.FingerprintHash[:], r.bytes(32))
	out.Active = r.boolean()
	out.SessionCount = r.u64()
	out.TotalInteractions = r.u64()
	out.LastActiveAt = r.i64()
	out.LearningScore = r.u64()
	copy(out.ChallengeNonce[:], r.bytes(32))
	copy(out.reserved[:], r.bytes(32))
	return out, nil
}

// EncodeSession serializes s into its fixed SessionSize layout.
func EncodeSession(s Session) []byte {
	w := writer{buf: make([]byte, 0, SessionSize)}
	w.bytes(s.Human[:])
	w.bytes(s.Owner[:])
	w.u64(s.Index)
	w.i64(s.CreatedAt)
	w.i64(s.LastInteractionAt)
	w.i64(s.ExpiresAt)
	w.boolean(s.Active)
	w.u32(s.InteractionCount)
	w.u8(s.PersonalityID)
	w.bytes(s.CurrentTopic[:])
	w.u64(s.Score)
	w.bytes(s.reserved[:])
	return w.buf
}

// DecodeSession deserializes a SessionSize payload.
func DecodeSession(b []byte) (Session, error) {
	var out Session
	if err := checkSize("session", len(b), SessionSize); err != nil {
		return out, err
	}
	r := reader{buf: b}
	copy(out.Human[:], r.bytes(32))
	copy(out.Owner[:], r.bytes(32))
	out.Index = r.u64()
	out.CreatedAt = r.i64()
	out.LastInteractionAt = r.i64()
	out.ExpiresAt = r.i64()
	out.Active = r.boolean()
	out.InteractionCount = r.u32()
	out.PersonalityID = r.u8()
	copy(out.CurrentTopic[:], r.bytes(32))
	out.Score = r.u64()
	copy(out.reserved[:], r.bytes(16))
	return out, nil
}

// EncodeInteraction serializes i into its fixed InteractionSize layout.
func EncodeInteraction(i Interaction) []byte {
	w := writer{buf: make([]byte, 0, InteractionSize)}
	w.bytes(i.Session[:])
	w.bytes(i.User[:])
	w.u32(i.Index)
	w.i64(i.Timestamp)
	w.bytes(i.ContentHash[:])
	w.u8(i.Type)
	w.u8(i.Score)
	w.u32(i.Duration)
	return w.buf
}

// DecodeInteraction deserializes an InteractionSize payload.
func DecodeInteraction(b []byte) (Interaction, error) {
	var out Interaction
	if err := checkSize("interaction", len(b), InteractionSize); err != nil {
		return out, err
	}
	r := reader{buf: b}
	copy(out.Session[:], r.bytes(32))
	copy(out.User[:], r.bytes(32))
	out.Index = r.u32()
	out.Timestamp = r.i64()
	copy(out.ContentHash[:], r.bytes(32))
	out.Type = r.u8()
	out.Score = r.u8()
	out.Duration = r.u32()
	return out, nil
}

// EncodeBalance serializes a native-currency balance.
func EncodeBalance(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(make([]byte, 0, BalanceSize), v)
}

// DecodeBalance deserializes a balance payload.
func DecodeBalance(b []byte) (uint64, error) {
	if err := checkSize("balance", len(b), BalanceSize); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
