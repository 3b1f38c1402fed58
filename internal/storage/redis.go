package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisConnectTimeout = 5 * time.Second
	redisScanCount      = 100
)

// RedisDocuments implements DocumentStore on Redis strings under a key prefix.
//
// The quota counts logical keys (without the prefix) plus values, the same
// cost as the other backends. Usage is computed by scanning the prefix, which
// is adequate for the handful of documents the core keeps.
type RedisDocuments struct {
	client *redis.Client
	prefix string
	quota  int64
}

// NewRedisDocuments connects to redisURL and verifies the connection.
func NewRedisDocuments(ctx context.Context, redisURL, prefix string, quota int64) (*RedisDocuments, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisDocumentsWithClient(client, prefix, quota), nil
}

// NewRedisDocumentsWithClient creates a store from an existing Redis client.
func NewRedisDocumentsWithClient(client *redis.Client, prefix string, quota int64) *RedisDocuments {
	return &RedisDocuments{client: client, prefix: prefix, quota: quota}
}

func (s *RedisDocuments) key(k string) string {
	return s.prefix + k
}

// Get returns the value stored under key.
func (s *RedisDocuments) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get document %q: %w", key, err)
	}
	return v, nil
}

// Set stores value under key within the quota.
func (s *RedisDocuments) Set(ctx context.Context, key, value string) error {
	used, err := s.Usage(ctx)
	if err != nil {
		return err
	}

	old, err := s.client.Get(ctx, s.key(key)).Result()
	switch {
	case err == nil:
		used -= entrySize(key, old)
	case !errors.Is(err, redis.Nil):
		return fmt.Errorf("get document %q: %w", key, err)
	}

	next := used + entrySize(key, value)
	if next > s.quota {
		return fmt.Errorf("%w: writing %q needs %d of %d bytes", ErrQuotaExceeded, key, next, s.quota)
	}

	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set document %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *RedisDocuments) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}

// Usage scans the prefix and totals key and value sizes.
func (s *RedisDocuments) Usage(ctx context.Context) (int64, error) {
	var (
		used   int64
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", redisScanCount).Result()
		if err != nil {
			return 0, fmt.Errorf("scan documents: %w", err)
		}
		for _, k := range keys {
			n, err := s.client.StrLen(ctx, k).Result()
			if err != nil {
				return 0, fmt.Errorf("strlen %q: %w", k, err)
			}
			used += int64(len(k)-len(s.prefix)) + n
		}
		if next == 0 {
			return used, nil
		}
		cursor = next
	}
}

// Ping checks if Redis is reachable.
func (s *RedisDocuments) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisDocuments) Close() error {
	return s.client.Close()
}
