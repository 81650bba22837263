// Package store provides the durable record store: addressed byte payloads
// with atomic multi-record commits. Implementations are interface-driven so
// the ledger service stays testable against the in-memory store while
// postgres or redis back production.
package store

import (
	"context"

	"humanproof/internal/ledger/record"
)

// ReadTx is the read view inside a transaction.
type ReadTx interface {
	// Get returns the payload at addr, or sentinel.ErrNotFound.
	Get(addr record.Address) ([]byte, error)
}

// Tx is the mutable view inside an Update. Writes are visible to subsequent
// Gets in the same transaction and invisible to everyone else until commit.
type Tx interface {
	ReadTx

	// Create writes a payload at a previously empty address. Returns
	// sentinel.ErrConflict if any record already exists there, including
	// one staged earlier in this transaction.
	Create(addr record.Address, payload []byte) error

	// Put overwrites the payload at addr, creating it if absent.
	Put(addr record.Address, payload []byte) error
}

// Store is an atomically-committed record store. Update applies every write
// staged by fn, or none of them: a failed operation leaves no trace.
type Store interface {
	View(ctx context.Context, fn func(ReadTx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
}
