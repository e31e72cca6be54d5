package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/snapshot"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
)

// Storage keys of the catalog snapshots. Each payload has its own timestamp key.
const (
	KeyProducts             = "CACHED_PRODUCTS"
	KeyProductsTimestamp    = "CACHED_PRODUCTS_TIMESTAMP"
	KeyCollections          = "CACHED_COLLECTIONS"
	KeyCollectionsTimestamp = "CACHED_COLLECTIONS_TIMESTAMP"
)

// DefaultCatalogMaxAge is the freshness window of the catalog snapshots.
const DefaultCatalogMaxAge = 24 * time.Hour

// SnapshotCacheConfig groups the optional settings of SnapshotCache.
type SnapshotCacheConfig struct {
	MaxAge  time.Duration
	Now     func() time.Time
	Metrics ports.CacheMetrics
}

// SnapshotCache keeps the last full product and collection lists in a KVStore.
// Products and collections are stored and aged independently. Every read failure
// is reported as a miss; it never reaches the caller as an error.
type SnapshotCache struct {
	kv      ports.KVStore
	maxAge  time.Duration
	now     func() time.Time
	metrics ports.CacheMetrics
	logger  *logrus.Logger
}

var _ ports.SnapshotCache = (*SnapshotCache)(nil)

type snapshotKeys struct {
	name      string
	payload   string
	timestamp string
}

var (
	productKeys    = snapshotKeys{name: "products", payload: KeyProducts, timestamp: KeyProductsTimestamp}
	collectionKeys = snapshotKeys{name: "collections", payload: KeyCollections, timestamp: KeyCollectionsTimestamp}
)

func NewSnapshotCache(kv ports.KVStore, cfg *SnapshotCacheConfig, logger *logrus.Logger) *SnapshotCache {
	c := &SnapshotCache{kv: kv, maxAge: DefaultCatalogMaxAge, now: time.Now, metrics: ports.NopCacheMetrics{}, logger: logger}
	if cfg != nil {
		if cfg.MaxAge > 0 {
			c.maxAge = cfg.MaxAge
		}
		if cfg.Now != nil {
			c.now = cfg.Now
		}
		if cfg.Metrics != nil {
			c.metrics = cfg.Metrics
		}
	}
	return c
}

// MaxAge returns the freshness window.
func (c *SnapshotCache) MaxAge() time.Duration { return c.maxAge }

func (c *SnapshotCache) WriteProducts(ctx context.Context, products []catalog.Product) error {
	return writeSnapshot(ctx, c, productKeys, products)
}

func (c *SnapshotCache) ReadProductsIfFresh(ctx context.Context) snapshot.Lookup[[]catalog.Product] {
	return readSnapshot[catalog.Product](ctx, c, productKeys, true)
}

// ReadProducts returns whatever product snapshot is stored, however old.
func (c *SnapshotCache) ReadProducts(ctx context.Context) snapshot.Lookup[[]catalog.Product] {
	return readSnapshot[catalog.Product](ctx, c, productKeys, false)
}

// HasFreshProductCache checks the timestamp only, without decoding the payload.
func (c *SnapshotCache) HasFreshProductCache(ctx context.Context) bool {
	_, fresh := c.timestamp(ctx, productKeys)
	return fresh
}

func (c *SnapshotCache) WriteCollections(ctx context.Context, collections []catalog.Collection) error {
	return writeSnapshot(ctx, c, collectionKeys, collections)
}

func (c *SnapshotCache) ReadCollectionsIfFresh(ctx context.Context) snapshot.Lookup[[]catalog.Collection] {
	return readSnapshot[catalog.Collection](ctx, c, collectionKeys, true)
}

// ReadCollections returns whatever collection snapshot is stored, however old.
func (c *SnapshotCache) ReadCollections(ctx context.Context) snapshot.Lookup[[]catalog.Collection] {
	return readSnapshot[catalog.Collection](ctx, c, collectionKeys, false)
}

// HasFreshCollectionCache checks the timestamp only, without decoding the payload.
func (c *SnapshotCache) HasFreshCollectionCache(ctx context.Context) bool {
	_, fresh := c.timestamp(ctx, collectionKeys)
	return fresh
}

// ClearAll removes both snapshots and their timestamps in one batched delete.
func (c *SnapshotCache) ClearAll(ctx context.Context) error {
	keys := []string{KeyProducts, KeyProductsTimestamp, KeyCollections, KeyCollectionsTimestamp}
	if err := c.kv.MultiRemove(ctx, keys); err != nil {
		c.metrics.ObserveStoreError("snapshots", "clear")
		if c.logger != nil {
			c.logger.WithError(err).Error("failed to clear catalog snapshots")
		}
		return fmt.Errorf("failed to clear catalog snapshots: %w", err)
	}
	if c.logger != nil {
		c.logger.Info("catalog snapshots cleared")
	}
	return nil
}

// Status describes both snapshots from their timestamps.
func (c *SnapshotCache) Status(ctx context.Context) ports.SnapshotStatus {
	return ports.SnapshotStatus{
		MaxAgeMillis: c.maxAge.Milliseconds(),
		Products:     c.info(ctx, productKeys),
		Collections:  c.info(ctx, collectionKeys),
	}
}

func (c *SnapshotCache) info(ctx context.Context, keys snapshotKeys) ports.SnapshotInfo {
	info := ports.SnapshotInfo{Name: keys.name}
	written, fresh := c.timestamp(ctx, keys)
	if written == 0 {
		return info
	}
	info.Present = true
	info.Fresh = fresh
	info.WrittenAt = time.UnixMilli(written).UTC().Format(time.RFC3339)
	info.AgeMillis = snapshot.Age(written, c.now()).Milliseconds()
	return info
}

// timestamp returns the stored write time (0 when absent or unreadable) and its freshness.
func (c *SnapshotCache) timestamp(ctx context.Context, keys snapshotKeys) (int64, bool) {
	raw, ok, err := c.kv.Get(ctx, keys.timestamp)
	if err != nil {
		c.metrics.ObserveStoreError(keys.name, "get")
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"key": keys.timestamp}).WithError(err).Warn("failed to read snapshot timestamp")
		}
		return 0, false
	}
	if !ok {
		return 0, false
	}
	written, ok := snapshot.ParseTimestamp(raw)
	if !ok {
		return 0, false
	}
	return written, snapshot.IsFresh(written, c.maxAge, c.now())
}

func writeSnapshot[T any](ctx context.Context, c *SnapshotCache, keys snapshotKeys, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		c.metrics.ObserveStoreError(keys.name, "encode")
		return fmt.Errorf("failed to encode %s snapshot: %w", keys.name, err)
	}
	now := c.now()
	if err := c.kv.Set(ctx, keys.payload, string(payload)); err != nil {
		c.metrics.ObserveStoreError(keys.name, "set")
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"key": keys.payload}).WithError(err).Error("failed to write snapshot")
		}
		return fmt.Errorf("failed to write %s snapshot: %w", keys.name, err)
	}
	// The timestamp goes last so a half-written snapshot never looks fresh.
	if err := c.kv.Set(ctx, keys.timestamp, snapshot.FormatTimestamp(now.UnixMilli())); err != nil {
		c.metrics.ObserveStoreError(keys.name, "set")
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"key": keys.timestamp}).WithError(err).Error("failed to write snapshot timestamp")
		}
		return fmt.Errorf("failed to write %s snapshot timestamp: %w", keys.name, err)
	}
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"snapshot": keys.name, "count": len(items)}).Debug("snapshot written")
	}
	return nil
}

func readSnapshot[T any](ctx context.Context, c *SnapshotCache, keys snapshotKeys, freshOnly bool) snapshot.Lookup[[]T] {
	lookup := readSnapshotRaw[T](ctx, c, keys, freshOnly)
	c.metrics.ObserveLookup(keys.name, string(lookup.Status))
	return lookup
}

func readSnapshotRaw[T any](ctx context.Context, c *SnapshotCache, keys snapshotKeys, freshOnly bool) snapshot.Lookup[[]T] {
	rawTS, tsPresent, err := c.kv.Get(ctx, keys.timestamp)
	if err != nil {
		c.metrics.ObserveStoreError(keys.name, "get")
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"key": keys.timestamp}).WithError(err).Warn("failed to read snapshot timestamp")
		}
		return snapshot.Failed[[]T]()
	}
	var written int64
	if tsPresent {
		written, _ = snapshot.ParseTimestamp(rawTS)
	}
	fresh := snapshot.IsFresh(written, c.maxAge, c.now())
	if freshOnly && !fresh {
		// Stale data is never handed to a fresh-only caller, so the payload is not read.
		if written == 0 {
			return snapshot.Miss[[]T]()
		}
		return snapshot.Lookup[[]T]{Status: snapshot.StatusStale, WrittenAt: time.UnixMilli(written)}
	}

	raw, ok, err := c.kv.Get(ctx, keys.payload)
	if err != nil {
		c.metrics.ObserveStoreError(keys.name, "get")
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"key": keys.payload}).WithError(err).Warn("failed to read snapshot")
		}
		return snapshot.Failed[[]T]()
	}
	if !ok {
		return snapshot.Miss[[]T]()
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.metrics.ObserveStoreError(keys.name, "decode")
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"key": keys.payload}).WithError(err).Warn("discarding unreadable snapshot")
		}
		return snapshot.Failed[[]T]()
	}
	if items == nil {
		items = []T{}
	}

	lookup := snapshot.Lookup[[]T]{Value: items, Status: snapshot.StatusStale}
	if written > 0 {
		lookup.WrittenAt = time.UnixMilli(written)
	}
	if fresh {
		lookup.Status = snapshot.StatusHit
	}
	return lookup
}
