package services

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/snapshot"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
)

// DefaultBestSellerLimit is used when a caller asks for a non-positive number of best sellers.
const DefaultBestSellerLimit = 8

// CatalogServiceConfig groups the optional settings of CatalogService.
type CatalogServiceConfig struct {
	// Shuffle reorders the fallback recommendation candidates. Defaults to math/rand/v2.
	Shuffle func(n int, swap func(i, j int))
	Metrics ports.CacheMetrics
}

// CatalogService reads the catalog cache-aside: a fresh snapshot wins, otherwise the
// source is asked and the snapshot rewritten, and a stale snapshot covers source outages.
type CatalogService struct {
	source    ports.CatalogSource
	snapshots ports.SnapshotCache
	memo      *RecommendationCache
	shuffle   func(n int, swap func(i, j int))
	metrics   ports.CacheMetrics
	logger    *logrus.Logger

	// coalesces concurrent source loads of the same list
	sf singleflight.Group
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService(source ports.CatalogSource, snapshots ports.SnapshotCache, memo *RecommendationCache, cfg *CatalogServiceConfig, logger *logrus.Logger) *CatalogService {
	if memo == nil {
		memo = NewRecommendationCache(0, nil)
	}
	s := &CatalogService{source: source, snapshots: snapshots, memo: memo, shuffle: rand.Shuffle, metrics: ports.NopCacheMetrics{}, logger: logger}
	if cfg != nil {
		if cfg.Shuffle != nil {
			s.shuffle = cfg.Shuffle
		}
		if cfg.Metrics != nil {
			s.metrics = cfg.Metrics
		}
	}
	return s
}

func (s *CatalogService) Products(ctx context.Context, opts ports.LoadOptions) (ports.LoadResult[catalog.Product], error) {
	return loadAside(ctx, s, "products", opts,
		s.snapshots.ReadProductsIfFresh,
		s.snapshots.ReadProducts,
		s.source.ListProducts,
		s.snapshots.WriteProducts,
	)
}

func (s *CatalogService) Collections(ctx context.Context, opts ports.LoadOptions) (ports.LoadResult[catalog.Collection], error) {
	return loadAside(ctx, s, "collections", opts,
		s.snapshots.ReadCollectionsIfFresh,
		s.snapshots.ReadCollections,
		s.source.ListCollections,
		s.snapshots.WriteCollections,
	)
}

// ProductsWithInventory returns Products with live stock merged in. The merged list is
// not written back; when inventory cannot be fetched the unmerged list is returned.
func (s *CatalogService) ProductsWithInventory(ctx context.Context, opts ports.LoadOptions) (ports.LoadResult[catalog.Product], error) {
	res, err := s.Products(ctx, opts)
	if err != nil {
		return res, err
	}
	lines, err := s.source.ListInventory(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("inventory unavailable, serving catalog stock")
		}
		return res, nil
	}
	res.Items = catalog.MergeInventory(res.Items, catalog.RecordsFromLines(lines))
	return res, nil
}

// BestSellers serves the memoized list, then the source, then a shuffled pick from the
// stored catalog with in-stock products first. Whatever is returned is memoized.
func (s *CatalogService) BestSellers(ctx context.Context, limit int) (ports.LoadResult[catalog.Product], error) {
	if limit <= 0 {
		limit = DefaultBestSellerLimit
	}
	scope := ScopeBestSellers + ":" + strconv.Itoa(limit)
	if items, ok := s.memo.GetCached(scope, 0); ok {
		s.metrics.ObserveLookup("recommendations", string(snapshot.StatusHit))
		return ports.LoadResult[catalog.Product]{Items: items, Origin: ports.OriginMemo}, nil
	}
	s.metrics.ObserveLookup("recommendations", string(snapshot.StatusMiss))

	items, err := s.source.BestSellers(ctx, limit)
	if err == nil && len(items) > 0 {
		if len(items) > limit {
			items = items[:limit]
		}
		s.memo.Set(scope, items)
		return ports.LoadResult[catalog.Product]{Items: items, Origin: ports.OriginSource}, nil
	}
	if err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"limit": limit}).WithError(err).Warn("best sellers unavailable, using catalog fallback")
	}

	stored := s.snapshots.ReadProducts(ctx)
	if !stored.Usable() || len(stored.Value) == 0 {
		if err != nil {
			return ports.LoadResult[catalog.Product]{Items: []catalog.Product{}}, fmt.Errorf("%w: %w", catalog.ErrNoCatalog, err)
		}
		return ports.LoadResult[catalog.Product]{Items: []catalog.Product{}, Origin: ports.OriginSource}, nil
	}
	picked := s.fallbackPicks(stored.Value, limit)
	s.memo.Set(scope, picked)
	return ports.LoadResult[catalog.Product]{Items: picked, Origin: ports.OriginFallback}, nil
}

func (s *CatalogService) fallbackPicks(products []catalog.Product, limit int) []catalog.Product {
	pool := append([]catalog.Product(nil), products...)
	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	picked := make([]catalog.Product, 0, min(limit, len(pool)))
	for _, p := range pool {
		if len(picked) == limit {
			return picked
		}
		if p.Stock().InStock {
			picked = append(picked, p)
		}
	}
	for _, p := range pool {
		if len(picked) == limit {
			break
		}
		if !p.Stock().InStock {
			picked = append(picked, p)
		}
	}
	return picked
}

// Invalidate drops the catalog snapshots and every memoized recommendation.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	s.memo.InvalidateAll()
	if err := s.snapshots.ClearAll(ctx); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("catalog cache invalidated")
	}
	return nil
}

func (s *CatalogService) Status(ctx context.Context) ports.SnapshotStatus {
	return s.snapshots.Status(ctx)
}

// loadAside runs the cache-aside read shared by products and collections.
func loadAside[T any](
	ctx context.Context,
	s *CatalogService,
	name string,
	opts ports.LoadOptions,
	readFresh func(context.Context) snapshot.Lookup[[]T],
	readAny func(context.Context) snapshot.Lookup[[]T],
	fetch func(context.Context) ([]T, error),
	write func(context.Context, []T) error,
) (ports.LoadResult[T], error) {
	if !opts.ForceRefresh {
		if l := readFresh(ctx); l.Hit() {
			return ports.LoadResult[T]{Items: l.Value, Origin: ports.OriginCache}, nil
		}
	}

	res, err, shared := s.sf.Do(name, func() (any, error) {
		// the load is shared by every waiter, so one caller going away must not cancel it
		loadCtx := context.WithoutCancel(ctx)
		items, err := fetch(loadCtx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		// the snapshot write logs its own failure; the caller still gets the fresh list
		_ = write(loadCtx, items)
		return items, nil
	})
	if err == nil {
		items, ok := res.([]T)
		if !ok {
			return ports.LoadResult[T]{}, fmt.Errorf("unexpected type from singleflight result")
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"catalog": name, "count": len(items), "shared": shared}).Debug("catalog loaded from source")
		}
		return ports.LoadResult[T]{Items: items, Origin: ports.OriginSource}, nil
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"catalog": name}).WithError(err).Warn("catalog source failed")
	}
	if l := readAny(ctx); l.Usable() && l.Value != nil {
		return ports.LoadResult[T]{Items: l.Value, Origin: ports.OriginStaleCache}, nil
	}
	return ports.LoadResult[T]{Items: []T{}}, fmt.Errorf("%w: %s: %w", catalog.ErrNoCatalog, name, err)
}
