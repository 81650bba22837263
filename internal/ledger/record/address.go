package record

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"humanproof/pkg/domain"
)

// Address is the deterministic storage location of one record. It is a pure
// function of a namespace tag and the parent keys, so any reader can
// recompute a child's address from the parent without a stored collection.
type Address [32]byte

func (a Address) String() string { return hex.EncodeToString(a[:]) }

// Namespace tags. Changing a tag orphans every record derived under it, so
// these are frozen.
const (
	tagRegistry    = "registry"
	tagHuman       = "human"
	tagSession     = "session"
	tagInteraction = "interaction"
	tagBalance     = "balance"
)

func derive(parts ...[]byte) Address {
	h := sha3.New256()
	for _, p := range parts {
		h.Write(p)
	}
	var a Address
	h.Sum(a[:0])
	return a
}

// RegistryAddress returns the fixed address of the single Registry record.
func RegistryAddress() Address {
	return derive([]byte(tagRegistry))
}

// HumanAddress returns the address of a wallet's HumanRecord.
func HumanAddress(wallet domain.Wallet) Address {
	return derive([]byte(tagHuman), wallet[:])
}

// SessionAddress returns the address of a human's session by index.
func SessionAddress(human Address, index uint64) Address {
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], index)
	return derive([]byte(tagSession), human[:], idx[:])
}

// InteractionAddress returns the address of a session's interaction by index.
func InteractionAddress(session Address, index uint32) Address {
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)
	return derive([]byte(tagInteraction), session[:], idx[:])
}

// BalanceAddress returns the address of a wallet's native-currency balance.
func BalanceAddress(wallet domain.Wallet) Address {
	return derive([]byte(tagBalance), wallet[:])
}
