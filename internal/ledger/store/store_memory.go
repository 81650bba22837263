package store

import (
	"context"
	"sync"

	"humanproof/internal/ledger/record"
	"humanproof/pkg/platform/sentinel"
)

// Memory is the in-process store used by tests and local development. A
// single mutex serializes transactions; writes are staged in an overlay and
// applied only when the transaction function returns nil.
type Memory struct {
	mu      sync.RWMutex
	records map[record.Address][]byte
}

func NewMemory() *Memory {
	return &Memory{records: make(map[record.Address][]byte)}
}

type memoryTx struct {
	base   map[record.Address][]byte
	staged map[record.Address][]byte
}

func (t *memoryTx) Get(addr record.Address) ([]byte, error) {
	if p, ok := t.staged[addr]; ok {
		return append([]byte(nil), p...), nil
	}
	p, ok := t.base[addr]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]byte(nil), p...), nil
}

func (t *memoryTx) Create(addr record.Address, payload []byte) error {
	if _, ok := t.staged[addr]; ok {
		return sentinel.ErrConflict
	}
	if _, ok := t.base[addr]; ok {
		return sentinel.ErrConflict
	}
	t.staged[addr] = append([]byte(nil), payload...)
	return nil
}

func (t *memoryTx) Put(addr record.Address, payload []byte) error {
	t.staged[addr] = append([]byte(nil), payload...)
	return nil
}

func (m *Memory) View(_ context.Context, fn func(ReadTx) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memoryTx{base: m.records, staged: map[record.Address][]byte{}})
}

func (m *Memory) Update(_ context.Context, fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memoryTx{base: m.records, staged: map[record.Address][]byte{}}
	if err := fn(tx); err != nil {
		return err
	}
	for addr, payload := range tx.staged {
		m.records[addr] = payload
	}
	return nil
}
