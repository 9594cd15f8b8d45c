// Package redis implements a kv Store on Redis strings. Every key is
// namespaced as "<namespace>:<key>" so several libraries can share a server.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"slidecore/internal/kv/core"
)

// Store keeps each value as a Redis string.
type Store struct {
	rdb       *redis.Client
	namespace string
}

// New creates a store for opts under namespace. The namespace must not be empty.
func New(opts *redis.Options, namespace string) (*Store, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}
	return &Store{rdb: redis.NewClient(opts), namespace: namespace}, nil
}

// Key returns the namespaced Redis key for key.
func (s *Store) Key(key string) string {
	return s.namespace + ":" + key
}

// Ping verifies Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Driver returns the driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverRedis }

// Get reads the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.rdb.Get(ctx, s.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from Redis: %w", key, err)
	}
	return v, nil
}

// Set writes value under key without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s to Redis: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Del(ctx, s.Key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete %s from Redis: %w", key, err)
	}
	return n > 0, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}
