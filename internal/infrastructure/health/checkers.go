package health

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/cellarhouse/storefront-cache/internal/core/ports"
	infraDB "github.com/cellarhouse/storefront-cache/internal/infrastructure/db"
)

// probeKey is written and removed by the key-value round trip check.
const probeKey = "__healthcheck__"

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return d.db.Driver }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.DB.PingContext(ctx) }

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client redis.UniversalClient }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// kvStoreHealthChecker writes, reads back and removes a probe key.
type kvStoreHealthChecker struct {
	name string
	kv   ports.KVStore
}

func (k *kvStoreHealthChecker) Name() string { return k.name }

func (k *kvStoreHealthChecker) Check(ctx context.Context) error {
	if err := k.kv.Set(ctx, probeKey, "ok"); err != nil {
		return err
	}
	v, ok, err := k.kv.Get(ctx, probeKey)
	if err != nil {
		return err
	}
	if !ok || v != "ok" {
		return fmt.Errorf("probe key not readable after write")
	}
	return k.kv.Remove(ctx, probeKey)
}

// NewDBHealthChecker creates a health checker for the database, named after its driver.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client redis.UniversalClient) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// NewKVStoreHealthChecker checks a store by round-tripping a probe key.
func NewKVStoreHealthChecker(name string, kv ports.KVStore) ports.HealthChecker {
	return &kvStoreHealthChecker{name: name, kv: kv}
}
