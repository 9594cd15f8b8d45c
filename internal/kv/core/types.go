// Package core defines the key-value storage contract shared by every
// slidecore storage backend.
package core

import (
	"context"
	"errors"
)

// Driver identifies a key-value backend.
type Driver string

// Supported drivers.
const (
	DriverMemory   Driver = "memory"
	DriverFS       Driver = "fs"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
	DriverBolt     Driver = "bolt"
	DriverS3       Driver = "s3"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store persists opaque values under string keys. Set overwrites. Delete
// reports whether a value existed. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) (bool, error)
	Driver() Driver
	Close() error
}
