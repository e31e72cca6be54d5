package health_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraDB "github.com/cellarhouse/storefront-cache/internal/infrastructure/db"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/health"
	"github.com/cellarhouse/storefront-cache/internal/mocks"
)

func TestRedisHealthChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	hc := health.NewRedisHealthChecker(client)
	assert.Equal(t, "redis", hc.Name())
	assert.NoError(t, hc.Check(context.Background()))

	mr.Close()
	assert.Error(t, hc.Check(context.Background()))
}

func TestDBHealthChecker(t *testing.T) {
	database, err := infraDB.NewSQLiteDatabase(":memory:")
	require.NoError(t, err)
	defer database.Close()

	hc := health.NewDBHealthChecker(database)
	assert.Equal(t, "sqlite", hc.Name())
	assert.NoError(t, hc.Check(context.Background()))
}

func TestKVStoreHealthChecker(t *testing.T) {
	kv := mocks.NewKVStoreMock()
	hc := health.NewKVStoreHealthChecker("memory", kv)

	require.NoError(t, hc.Check(context.Background()))
	assert.Equal(t, 0, kv.Backing.Len())

	kv.SetFn = func(ctx context.Context, key, value string) error { return errors.New("read only") }
	assert.Error(t, hc.Check(context.Background()))
}
