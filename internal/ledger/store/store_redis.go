package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"humanproof/internal/ledger/record"
	"humanproof/pkg/platform/sentinel"
)

const (
	redisKeyPrefix   = "hp:rec:"
	redisLockKey     = "hp:rec:lock"
	redisLockTTL     = 5 * time.Second
	redisLockBackoff = 10 * time.Millisecond
)

// releaseScript deletes the lock only if we still hold it; an expired lock
// taken over by another writer must not be released from here.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// Redis persists records as address-keyed string values. The whole store is
// serialized through one lock key; staged writes are flushed with a single
// pipeline after the transaction function succeeds, so a failed operation
// writes nothing.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func redisKey(addr record.Address) string {
	return redisKeyPrefix + addr.String()
}

type redisTx struct {
	ctx    context.Context
	client *redis.Client
	staged map[record.Address][]byte
}

func (t *redisTx) Get(addr record.Address) ([]byte, error) {
	if t.staged != nil {
		if p, ok := t.staged[addr]; ok {
			return append([]byte(nil), p...), nil
		}
	}
	payload, err := t.client.Get(t.ctx, redisKey(addr)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return payload, nil
}

func (t *redisTx) Create(addr record.Address, payload []byte) error {
	if _, ok := t.staged[addr]; ok {
		return sentinel.ErrConflict
	}
	exists, err := t.client.Exists(t.ctx, redisKey(addr)).Result()
	if err != nil {
		return fmt.Errorf("check record existence: %w", err)
	}
	if exists > 0 {
		return sentinel.ErrConflict
	}
	t.staged[addr] = append([]byte(nil), payload...)
	return nil
}

func (t *redisTx) Put(addr record.Address, payload []byte) error {
	t.staged[addr] = append([]byte(nil), payload...)
	return nil
}

func (r *Redis) View(ctx context.Context, fn func(ReadTx) error) error {
	return fn(&redisTx{ctx: ctx, client: r.client})
}

func (r *Redis) Update(ctx context.Context, fn func(Tx) error) error {
	token := uuid.NewString()
	if err := r.acquireLock(ctx, token); err != nil {
		return err
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, r.client, []string{redisLockKey}, token).Err()
	}()

	tx := &redisTx{ctx: ctx, client: r.client, staged: map[record.Address][]byte{}}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.staged) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for addr, payload := range tx.staged {
		pipe.Set(ctx, redisKey(addr), payload, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("commit staged records: %w", err)
	}
	return nil
}

func (r *Redis) acquireLock(ctx context.Context, token string) error {
	for {
		ok, err := r.client.SetNX(ctx, redisLockKey, token, redisLockTTL).Result()
		if err != nil {
			return fmt.Errorf("acquire store lock: %w", err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("acquire store lock: %w", ctx.Err())
		case <-time.After(redisLockBackoff):
		}
	}
}
