package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("CATALOG_CACHE_TTL", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.CatalogTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.RecommendationTTL)
	assert.Equal(t, 10, cfg.Cache.RecentlyViewedLimit)
	assert.Contains(t, cfg.Database.DSN, "dbname=")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("CATALOG_CACHE_TTL", "90m")
	t.Setenv("RECENTLY_VIEWED_LIMIT", "4")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://shop.example, ,https://admin.example")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, 90*time.Minute, cfg.Cache.CatalogTTL)
	assert.Equal(t, 4, cfg.Cache.RecentlyViewedLimit)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "dynamo")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_RejectsNonPositiveWindows(t *testing.T) {
	cfg := &Config{
		Store: StoreConfig{Backend: BackendMemory},
		Cache: CacheConfig{CatalogTTL: time.Hour, RecommendationTTL: 0, RecentlyViewedLimit: 10},
	}
	assert.Error(t, cfg.Validate())

	cfg.Cache.RecommendationTTL = time.Minute
	assert.NoError(t, cfg.Validate())
}
