package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the table under one Redis key. Give each player its own
// key when several players share a server; the engine does no locking.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore returns a store for key on client.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Name() string { return "redis:" + r.key }

func (r *RedisStore) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get %s: %w", ErrStoreIO, r.key, err)
	}
	return data, nil
}

func (r *RedisStore) Write(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %w", ErrStoreIO, r.key, err)
	}
	return nil
}
