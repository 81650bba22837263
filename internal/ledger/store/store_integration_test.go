//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humanproof/internal/ledger/record"
	"humanproof/internal/ledger/store"
	"humanproof/pkg/domain"
	"humanproof/pkg/platform/sentinel"
	"humanproof/pkg/testutil/containers"
)

func addrFor(b byte) record.Address {
	var w domain.Wallet
	for i := range w {
		w[i] = b
	}
	return record.HumanAddress(w)
}

// exerciseStore runs the contract every backend must honor: creation is
// exclusive, reads see committed state, and a failed update commits nothing.
func exerciseStore(t *testing.T, s store.Store) {
	ctx := context.Background()

	t.Run("get before create is not found", func(t *testing.T) {
		err := s.View(ctx, func(tx store.ReadTx) error {
			_, err := tx.Get(addrFor(0x01))
			return err
		})
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("create then read back", func(t *testing.T) {
		require.NoError(t, s.Update(ctx, func(tx store.Tx) error {
			return tx.Create(addrFor(0x01), []byte("payload-1"))
		}))
		var got []byte
		require.NoError(t, s.View(ctx, func(tx store.ReadTx) error {
			var err error
			got, err = tx.Get(addrFor(0x01))
			return err
		}))
		assert.Equal(t, []byte("payload-1"), got)
	})

	t.Run("second create conflicts", func(t *testing.T) {
		err := s.Update(ctx, func(tx store.Tx) error {
			return tx.Create(addrFor(0x01), []byte("other"))
		})
		require.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, s.Update(ctx, func(tx store.Tx) error {
			return tx.Put(addrFor(0x01), []byte("payload-2"))
		}))
		var got []byte
		require.NoError(t, s.View(ctx, func(tx store.ReadTx) error {
			var err error
			got, err = tx.Get(addrFor(0x01))
			return err
		}))
		assert.Equal(t, []byte("payload-2"), got)
	})

	t.Run("failed update commits nothing", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.Update(ctx, func(tx store.Tx) error {
			if err := tx.Put(addrFor(0x01), []byte("rolled-back")); err != nil {
				return err
			}
			if err := tx.Create(addrFor(0x02), []byte("rolled-back")); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		var got []byte
		require.NoError(t, s.View(ctx, func(tx store.ReadTx) error {
			var err error
			got, err = tx.Get(addrFor(0x01))
			return err
		}))
		assert.Equal(t, []byte("payload-2"), got)

		err = s.View(ctx, func(tx store.ReadTx) error {
			_, err := tx.Get(addrFor(0x02))
			return err
		})
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("update reads its own writes", func(t *testing.T) {
		require.NoError(t, s.Update(ctx, func(tx store.Tx) error {
			if err := tx.Create(addrFor(0x03), []byte("staged")); err != nil {
				return err
			}
			got, err := tx.Get(addrFor(0x03))
			if err != nil {
				return err
			}
			assert.Equal(t, []byte("staged"), got)
			return nil
		}))
	})
}

func TestPostgresStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)

	s := store.NewPostgres(pg.DB)
	require.NoError(t, s.Migrate(context.Background()))

	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	rc := containers.NewRedisContainer(t)

	exerciseStore(t, store.NewRedis(rc.Client))
}
