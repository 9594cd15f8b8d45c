package kv

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"slidecore/internal/config"
	"slidecore/internal/infra/kv/bolt"
	"slidecore/internal/infra/kv/fs"
	"slidecore/internal/infra/kv/memory"
	"slidecore/internal/infra/kv/postgres"
	redisstore "slidecore/internal/infra/kv/redis"
	"slidecore/internal/infra/kv/s3"
	"slidecore/internal/infra/kv/sqlite"
)

// Open selects a Store implementation from cfg.Driver:
//
//	fs (default)  one file per key under FSRoot
//	memory        process memory, lost on exit
//	sqlite        SQLitePath
//	postgres      PostgresDSN
//	redis         Redis.Addr, keys namespaced by Redis.Namespace
//	bolt          BoltPath
//	s3            S3.Bucket (+ region, endpoint, prefix, credentials)
func Open(ctx context.Context, cfg config.Storage) (Store, error) {
	driver := Driver(cfg.Driver)
	if driver == "" {
		driver = DriverFS
	}
	switch driver {
	case DriverFS:
		return fs.New(cfg.FSRoot)
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return sqlite.New(ctx, cfg.SQLitePath)
	case DriverPostgres:
		return postgres.New(ctx, cfg.PostgresDSN)
	case DriverRedis:
		return redisstore.New(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.Namespace)
	case DriverBolt:
		return bolt.Open(cfg.BoltPath)
	case DriverS3:
		return s3.New(ctx, s3.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			SessionToken:    cfg.S3.SessionToken,
			PathStyle:       cfg.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
}

// NewMemory returns an empty in-memory Store.
func NewMemory() Store {
	return memory.New()
}
