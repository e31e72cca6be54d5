package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarhouse/storefront-cache/internal/infrastructure/redis"
)

func newStore(t *testing.T, prefix string) (*redis.KVStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewKVStore(client, prefix), mr
}

func TestKVStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t, "storefront")

	_, ok, err := store.Get(ctx, "CACHED_PRODUCTS")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "CACHED_PRODUCTS", `[{"id":"p1"}]`))
	v, ok, err := store.Get(ctx, "CACHED_PRODUCTS")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"p1"}]`, v)

	raw, err := mr.Get("storefront:CACHED_PRODUCTS")
	require.NoError(t, err)
	assert.Equal(t, v, raw)
	assert.Zero(t, mr.TTL("storefront:CACHED_PRODUCTS"))

	require.NoError(t, store.Remove(ctx, "CACHED_PRODUCTS"))
	require.NoError(t, store.Remove(ctx, "CACHED_PRODUCTS"))
	_, ok, err = store.Get(ctx, "CACHED_PRODUCTS")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVStore_MultiRemove(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t, "")
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, store.Set(ctx, k, k))
	}

	require.NoError(t, store.MultiRemove(ctx, []string{"a", "b", "missing"}))
	require.NoError(t, store.MultiRemove(ctx, nil))

	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
	assert.True(t, mr.Exists("c"))
}

func TestKVStore_ErrorsWhenServerDown(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t, "")
	mr.Close()

	_, _, err := store.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, store.Set(ctx, "k", "v"))
}
