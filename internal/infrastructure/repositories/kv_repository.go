package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cellarhouse/storefront-cache/internal/core/ports"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/db"
)

const kvTable = "storefront_kv"

const createKVTable = `
	CREATE TABLE IF NOT EXISTS storefront_kv (
		cache_key   TEXT PRIMARY KEY,
		cache_value TEXT NOT NULL,
		updated_at  BIGINT NOT NULL
	)`

// SQLKVStore implements ports.KVStore on a single key/value table.
// The same statements run on postgres and sqlite; placeholders are rebound per driver.
type SQLKVStore struct {
	db  *db.Database
	now func() time.Time
}

var _ ports.KVStore = (*SQLKVStore)(nil)

// NewSQLKVStore creates a SQL-backed durable store.
func NewSQLKVStore(database *db.Database) *SQLKVStore {
	return &SQLKVStore{db: database, now: time.Now}
}

// EnsureSchema creates the table when it does not exist. Postgres deployments normally
// get it from migrations instead.
func (r *SQLKVStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.DB.ExecContext(ctx, createKVTable); err != nil {
		return fmt.Errorf("failed to create %s: %w", kvTable, err)
	}
	return nil
}

// Get retrieves a value by key
func (r *SQLKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := r.db.DB.Rebind(`SELECT cache_value FROM storefront_kv WHERE cache_key = ?`)
	err := r.db.DB.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces a value
func (r *SQLKVStore) Set(ctx context.Context, key, value string) error {
	query := r.db.DB.Rebind(`
		INSERT INTO storefront_kv (cache_key, cache_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET cache_value = excluded.cache_value, updated_at = excluded.updated_at`)
	if _, err := r.db.DB.ExecContext(ctx, query, key, value, r.now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Remove deletes a key
func (r *SQLKVStore) Remove(ctx context.Context, key string) error {
	query := r.db.DB.Rebind(`DELETE FROM storefront_kv WHERE cache_key = ?`)
	if _, err := r.db.DB.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// MultiRemove deletes all keys in one statement
func (r *SQLKVStore) MultiRemove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM storefront_kv WHERE cache_key IN (?)`, keys)
	if err != nil {
		return fmt.Errorf("failed to build multi remove: %w", err)
	}
	if _, err := r.db.DB.ExecContext(ctx, r.db.DB.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to remove %d keys: %w", len(keys), err)
	}
	return nil
}
