package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/cellarhouse/storefront-cache/internal/application/services"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/snapshot"
	"github.com/cellarhouse/storefront-cache/internal/mocks"
)

var epoch = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func products(t *testing.T, raw string) []catalog.Product {
	t.Helper()
	var out []catalog.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func collections(t *testing.T, raw string) []catalog.Collection {
	t.Helper()
	var out []catalog.Collection
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func newSnapshotCache(kv *mocks.KVStoreMock, clock *mocks.Clock, metrics *mocks.CacheMetricsMock) *impl.SnapshotCache {
	cfg := &impl.SnapshotCacheConfig{Now: clock.Now}
	if metrics != nil {
		cfg.Metrics = metrics
	}
	return impl.NewSnapshotCache(kv, cfg, quietLogger())
}

func TestSnapshotCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	clock := mocks.NewClock(epoch)
	c := newSnapshotCache(kv, clock, nil)
	want := products(t, `[{"id":"p1","name":"Gin","stock":{"quantity":3,"inStock":true}},{"_id":"p2","tags":["a","b"],"priceData":{"price":12.5}}]`)

	require.NoError(t, c.WriteProducts(ctx, want))
	got := c.ReadProductsIfFresh(ctx)

	require.True(t, got.Hit())
	assert.Equal(t, want, got.Value)
	assert.Equal(t, epoch.UnixMilli(), got.WrittenAt.UnixMilli())
	assert.True(t, c.HasFreshProductCache(ctx))
}

func TestSnapshotCache_EmptyListRoundTrips(t *testing.T) {
	ctx := context.Background()
	c := newSnapshotCache(mocks.NewKVStoreMock(), mocks.NewClock(epoch), nil)

	require.NoError(t, c.WriteCollections(ctx, nil))
	got := c.ReadCollectionsIfFresh(ctx)

	require.True(t, got.Hit())
	assert.NotNil(t, got.Value)
	assert.Empty(t, got.Value)
}

func TestSnapshotCache_StaleAfterWindow(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	clock := mocks.NewClock(epoch)
	c := newSnapshotCache(kv, clock, nil)
	require.NoError(t, c.WriteProducts(ctx, products(t, `[{"id":"p1"}]`)))

	clock.Advance(impl.DefaultCatalogMaxAge - time.Millisecond)
	assert.True(t, c.ReadProductsIfFresh(ctx).Hit())

	clock.Advance(time.Millisecond)
	before := len(kv.Calls("get"))
	lookup := c.ReadProductsIfFresh(ctx)
	assert.Equal(t, snapshot.StatusStale, lookup.Status)
	assert.Nil(t, lookup.Value)
	assert.Equal(t, []string{impl.KeyProductsTimestamp}, kv.Calls("get")[before:], "payload must not be read when stale")
	assert.False(t, c.HasFreshProductCache(ctx))

	soft := c.ReadProducts(ctx)
	assert.Equal(t, snapshot.StatusStale, soft.Status)
	require.Len(t, soft.Value, 1)
	assert.Equal(t, "p1", soft.Value[0].ID())
}

func TestSnapshotCache_ProductsAndCollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	clock := mocks.NewClock(epoch)
	c := newSnapshotCache(mocks.NewKVStoreMock(), clock, nil)
	oldCollections := collections(t, `[{"id":"c1","slug":"whisky"}]`)
	require.NoError(t, c.WriteCollections(ctx, oldCollections))

	clock.Advance(time.Hour)
	require.NoError(t, c.WriteProducts(ctx, products(t, `[{"id":"p1"}]`)))

	got := c.ReadCollectionsIfFresh(ctx)
	require.True(t, got.Hit())
	assert.Equal(t, oldCollections, got.Value)
	assert.Equal(t, epoch.UnixMilli(), got.WrittenAt.UnixMilli())

	clock.Advance(impl.DefaultCatalogMaxAge - 30*time.Minute)
	assert.False(t, c.HasFreshCollectionCache(ctx))
	assert.True(t, c.HasFreshProductCache(ctx))
}

func TestSnapshotCache_HasFreshReadsOnlyTimestamp(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	c := newSnapshotCache(kv, mocks.NewClock(epoch), nil)
	require.NoError(t, c.WriteProducts(ctx, products(t, `[{"id":"p1"}]`)))

	assert.True(t, c.HasFreshProductCache(ctx))
	assert.Equal(t, []string{impl.KeyProductsTimestamp}, kv.Calls("get"))
}

func TestSnapshotCache_MissingOrCorruptDataIsMiss(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	metrics := &mocks.CacheMetricsMock{}
	c := newSnapshotCache(kv, mocks.NewClock(epoch), metrics)

	assert.Equal(t, snapshot.StatusMiss, c.ReadProductsIfFresh(ctx).Status)

	require.NoError(t, kv.Backing.Set(ctx, impl.KeyProducts, "{not json"))
	require.NoError(t, kv.Backing.Set(ctx, impl.KeyProductsTimestamp, snapshot.FormatTimestamp(epoch.UnixMilli())))
	lookup := c.ReadProductsIfFresh(ctx)
	assert.Equal(t, snapshot.StatusError, lookup.Status)
	assert.Nil(t, lookup.Value)
	assert.Equal(t, 1, metrics.Failures["products/decode"])

	require.NoError(t, kv.Backing.Set(ctx, impl.KeyProductsTimestamp, "garbage"))
	assert.Equal(t, snapshot.StatusMiss, c.ReadProductsIfFresh(ctx).Status)
	assert.False(t, c.HasFreshProductCache(ctx))
	assert.Equal(t, 2, metrics.Lookups["products/miss"])
}

func TestSnapshotCache_StorageFailuresDegradeToMiss(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	kv.GetFn = func(ctx context.Context, key string) (string, bool, error) { return "", false, errors.New("disk gone") }
	kv.SetFn = func(ctx context.Context, key, value string) error { return errors.New("disk full") }
	c := newSnapshotCache(kv, mocks.NewClock(epoch), nil)

	assert.Error(t, c.WriteProducts(ctx, products(t, `[{"id":"p1"}]`)))
	assert.Equal(t, snapshot.StatusError, c.ReadProductsIfFresh(ctx).Status)
	assert.Equal(t, snapshot.StatusError, c.ReadCollections(ctx).Status)
	assert.False(t, c.HasFreshProductCache(ctx))
	assert.False(t, c.Status(ctx).Products.Present)
}

func TestSnapshotCache_WriteStopsBeforeTimestampOnPayloadFailure(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	kv.SetFn = func(ctx context.Context, key, value string) error {
		if key == impl.KeyProducts {
			return errors.New("quota exceeded")
		}
		return kv.Backing.Set(ctx, key, value)
	}
	c := newSnapshotCache(kv, mocks.NewClock(epoch), nil)

	require.Error(t, c.WriteProducts(ctx, products(t, `[{"id":"p1"}]`)))
	assert.Equal(t, []string{impl.KeyProducts}, kv.Calls("set"))
	assert.False(t, c.HasFreshProductCache(ctx))
}

func TestSnapshotCache_ClearAllIsOneBatch(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	c := newSnapshotCache(kv, mocks.NewClock(epoch), nil)
	require.NoError(t, c.WriteProducts(ctx, products(t, `[{"id":"p1"}]`)))
	require.NoError(t, c.WriteCollections(ctx, collections(t, `[{"id":"c1"}]`)))
	require.NoError(t, kv.Backing.Set(ctx, "favorites", "[]"))

	require.NoError(t, c.ClearAll(ctx))

	assert.ElementsMatch(t, []string{impl.KeyProducts, impl.KeyProductsTimestamp, impl.KeyCollections, impl.KeyCollectionsTimestamp}, kv.Calls("multiRemove"))
	assert.Empty(t, kv.Calls("remove"))
	assert.Equal(t, 1, kv.Backing.Len())
	assert.Equal(t, snapshot.StatusMiss, c.ReadProducts(ctx).Status)
}

func TestSnapshotCache_ClearAllFailureIsReturned(t *testing.T) {
	kv := mocks.NewKVStoreMock()
	kv.MultiRemoveFn = func(ctx context.Context, keys []string) error { return errors.New("locked") }
	c := newSnapshotCache(kv, mocks.NewClock(epoch), nil)
	assert.Error(t, c.ClearAll(context.Background()))
}

func TestSnapshotCache_Status(t *testing.T) {
	ctx := context.Background()
	clock := mocks.NewClock(epoch)
	c := newSnapshotCache(mocks.NewKVStoreMock(), clock, nil)
	require.NoError(t, c.WriteProducts(ctx, products(t, `[{"id":"p1"}]`)))
	clock.Advance(2 * time.Hour)

	st := c.Status(ctx)

	assert.Equal(t, impl.DefaultCatalogMaxAge.Milliseconds(), st.MaxAgeMillis)
	assert.True(t, st.Products.Present)
	assert.True(t, st.Products.Fresh)
	assert.Equal(t, (2 * time.Hour).Milliseconds(), st.Products.AgeMillis)
	assert.Equal(t, epoch.Format(time.RFC3339), st.Products.WrittenAt)
	assert.False(t, st.Collections.Present)
}
