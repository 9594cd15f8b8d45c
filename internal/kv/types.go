// Package kv re-exports the key-value storage contract and opens the
// configured backend.
package kv

import (
	"slidecore/internal/kv/core"
)

type (
	// Driver identifies a key-value backend.
	Driver = core.Driver
	// Store is the interface implemented by every backend.
	Store = core.Store
)

const (
	DriverMemory   = core.DriverMemory
	DriverFS       = core.DriverFS
	DriverSQLite   = core.DriverSQLite
	DriverPostgres = core.DriverPostgres
	DriverRedis    = core.DriverRedis
	DriverBolt     = core.DriverBolt
	DriverS3       = core.DriverS3
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = core.ErrNotFound
