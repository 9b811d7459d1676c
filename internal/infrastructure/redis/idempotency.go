// Package redis keeps idempotency keys in Redis so retries are recognised
// across replicas.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felipeshurrab/Harmonia/internal/application"
	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "idem:"
	pending   = "pending"
)

var _ application.IdempotencyStore = (*IdempotencyStore)(nil)

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

type IdempotencyStore struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewIdempotencyStore(rdb goredis.UniversalClient, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// Reserve claims key with SET NX. A key that vanished between the SET and the
// GET is reported as still pending.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, string, error) {
	k := keyPrefix + key
	ok, err := s.rdb.SetNX(ctx, k, pending, s.ttl).Result()
	if err != nil {
		return false, "", fmt.Errorf("reserve %s: %w", key, err)
	}
	if ok {
		return true, "", nil
	}

	v, err := s.rdb.Get(ctx, k).Result()
	switch {
	case errors.Is(err, goredis.Nil):
		return false, "", nil
	case err != nil:
		return false, "", fmt.Errorf("read %s: %w", key, err)
	case v == pending:
		return false, "", nil
	default:
		return false, v, nil
	}
}

func (s *IdempotencyStore) Complete(ctx context.Context, key, result string) error {
	if err := s.rdb.Set(ctx, keyPrefix+key, result, s.ttl).Err(); err != nil {
		return fmt.Errorf("complete %s: %w", key, err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}
