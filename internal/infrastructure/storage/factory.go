// Package storage opens the configured durable key-value backend.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cellarhouse/storefront-cache/configs"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/db"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/health"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/memory"
	infraRedis "github.com/cellarhouse/storefront-cache/internal/infrastructure/redis"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/repositories"
)

// Backend is an opened KVStore together with its health checks and cleanup.
type Backend struct {
	Name     string
	Store    ports.KVStore
	Checkers []ports.HealthChecker

	closers []func() error
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open connects to the backend named by cfg.Store.Backend.
func Open(ctx context.Context, cfg *configs.Config, logger *logrus.Logger) (*Backend, error) {
	switch cfg.Store.Backend {
	case configs.BackendRedis:
		client, err := infraRedis.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Name:     configs.BackendRedis,
			Store:    infraRedis.NewKVStore(client, cfg.Store.KeyPrefix),
			Checkers: []ports.HealthChecker{health.NewRedisHealthChecker(client)},
			closers:  []func() error{client.Close},
		}, nil

	case configs.BackendPostgres:
		database, err := db.NewDatabaseWithConfig(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(cfg.Store.MigrationsPath); err != nil {
			_ = database.Close()
			return nil, err
		}
		if logger != nil {
			logger.WithFields(logrus.Fields{"path": cfg.Store.MigrationsPath}).Info("database migrations applied")
		}
		return sqlBackend(configs.BackendPostgres, database), nil

	case configs.BackendSQLite:
		database, err := db.NewSQLiteDatabase(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		b := sqlBackend(configs.BackendSQLite, database)
		if err := b.Store.(*repositories.SQLKVStore).EnsureSchema(ctx); err != nil {
			_ = database.Close()
			return nil, err
		}
		return b, nil

	case configs.BackendMemory:
		store := memory.NewKVStore()
		if logger != nil {
			logger.Warn("using in-memory store; cached data is lost on restart")
		}
		return &Backend{
			Name:     configs.BackendMemory,
			Store:    store,
			Checkers: []ports.HealthChecker{health.NewKVStoreHealthChecker(configs.BackendMemory, store)},
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func sqlBackend(name string, database *db.Database) *Backend {
	return &Backend{
		Name:     name,
		Store:    repositories.NewSQLKVStore(database),
		Checkers: []ports.HealthChecker{health.NewDBHealthChecker(database)},
		closers:  []func() error{database.Close},
	}
}
