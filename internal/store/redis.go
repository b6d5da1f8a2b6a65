package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"nadcal/internal/event"
)

// RedisBackend stores each collection as one JSON document under
// Prefix+key.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

func NewRedisBackend(addr string, dbIndex int, prefix string) *RedisBackend {
	return &RedisBackend{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: dbIndex}),
		prefix: prefix,
	}
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) redisKey(key string) string {
	return b.prefix + key
}

func (b *RedisBackend) Read(ctx context.Context, key string) ([]event.Event, error) {
	raw, err := b.client.Get(ctx, b.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeCollection(raw)
}

func (b *RedisBackend) Write(ctx context.Context, key string, events []event.Event) error {
	raw, err := encodeCollection(events)
	if err != nil {
		return err
	}
	if err := b.client.Set(ctx, b.redisKey(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (b *RedisBackend) Close() error { return b.client.Close() }
