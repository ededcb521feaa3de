package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores entries in redis so multiple service instances
// share one cache. Keys carry a server-side expiry matching the TTL as
// a safety net; the authoritative staleness check is still the Store's
// read-time evaluation.
type RedisBackend struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisBackend creates a redis-backed cache store.
func NewRedisBackend(client *redis.Client, prefix string, ttl time.Duration) *RedisBackend {
	if prefix == "" {
		prefix = "pricer:eval"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisBackend{client: client, prefix: prefix, ttl: ttl}
}

func (b *RedisBackend) Get(ctx context.Context, key string) (*Entry, bool, error) {
	data, err := b.client.Get(ctx, b.makeKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("unmarshal entry: %w", err)
	}
	return &entry, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	// Pad the server-side expiry slightly so the read-time check is the
	// one that decides, not a redis eviction race.
	if err := b.client.Set(ctx, b.makeKey(key), data, b.ttl+time.Minute).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.makeKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Len counts stored entries with a cursor scan over the key prefix.
func (b *RedisBackend) Len(ctx context.Context) int {
	var count int
	var cursor uint64
	for {
		keys, next, err := b.client.Scan(ctx, cursor, b.prefix+":*", 500).Result()
		if err != nil {
			return count
		}
		count += len(keys)
		if next == 0 {
			return count
		}
		cursor = next
	}
}

func (b *RedisBackend) makeKey(key string) string {
	return fmt.Sprintf("%s:%s", b.prefix, key)
}
