package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"humanproof/internal/ledger/record"
	"humanproof/pkg/platform/sentinel"
)

// Postgres persists records in a single address-keyed table. Update maps
// directly onto a SQL transaction: reads take row locks, writes land in the
// same transaction, and commit-or-rollback gives the all-or-nothing
// guarantee the ledger requires.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the records table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			address    BYTEA PRIMARY KEY,
			payload    BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate records table: %w", err)
	}
	return nil
}

type postgresTx struct {
	ctx     context.Context
	tx      *sql.Tx
	locking bool
}

func (t *postgresTx) Get(addr record.Address) ([]byte, error) {
	query := `SELECT payload FROM records WHERE address = $1`
	if t.locking {
		query += ` FOR UPDATE`
	}
	var payload []byte
	err := t.tx.QueryRowContext(t.ctx, query, addr[:]).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return payload, nil
}

func (t *postgresTx) Create(addr record.Address, payload []byte) error {
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO records (address, payload) VALUES ($1, $2)`,
		addr[:], payload)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

func (t *postgresTx) Put(addr record.Address, payload []byte) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO records (address, payload) VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = now()
	`, addr[:], payload)
	if err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

func (p *Postgres) View(ctx context.Context, fn func(ReadTx) error) error {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin read tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(&postgresTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *Postgres) Update(ctx context.Context, fn func(Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&postgresTx{ctx: ctx, tx: tx, locking: true}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
