package ports

import (
	"context"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/snapshot"
)

// CatalogSource is the remote commerce platform, used only as the fetch path on a cache miss.
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListCollections(ctx context.Context) ([]catalog.Collection, error)
	ListInventory(ctx context.Context) ([]catalog.InventoryLine, error)
	BestSellers(ctx context.Context, limit int) ([]catalog.Product, error)
}

// SnapshotCache stores the last known catalog with a freshness window.
type SnapshotCache interface {
	WriteProducts(ctx context.Context, products []catalog.Product) error
	ReadProductsIfFresh(ctx context.Context) snapshot.Lookup[[]catalog.Product]
	ReadProducts(ctx context.Context) snapshot.Lookup[[]catalog.Product]
	HasFreshProductCache(ctx context.Context) bool
	WriteCollections(ctx context.Context, collections []catalog.Collection) error
	ReadCollectionsIfFresh(ctx context.Context) snapshot.Lookup[[]catalog.Collection]
	ReadCollections(ctx context.Context) snapshot.Lookup[[]catalog.Collection]
	HasFreshCollectionCache(ctx context.Context) bool
	ClearAll(ctx context.Context) error
	Status(ctx context.Context) SnapshotStatus
}

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	Name      string `json:"name"`
	Present   bool   `json:"present"`
	WrittenAt string `json:"writtenAt,omitempty"`
	AgeMillis int64  `json:"ageMillis,omitempty"`
	Fresh     bool   `json:"fresh"`
}

// SnapshotStatus describes the catalog snapshots.
type SnapshotStatus struct {
	MaxAgeMillis int64        `json:"maxAgeMillis"`
	Products     SnapshotInfo `json:"products"`
	Collections  SnapshotInfo `json:"collections"`
}

// Origin says where a catalog read was served from.
type Origin string

const (
	OriginCache      Origin = "cache"
	OriginSource     Origin = "source"
	OriginStaleCache Origin = "stale-cache"
	OriginMemo       Origin = "memo"
	OriginFallback   Origin = "fallback"
)

// LoadOptions controls a cache-aside catalog read.
type LoadOptions struct {
	// ForceRefresh skips the snapshot and goes to the source.
	ForceRefresh bool
}

// LoadResult is a catalog read together with where it came from.
type LoadResult[T any] struct {
	Items  []T
	Origin Origin
}

// CatalogService serves catalog reads through the snapshot cache.
type CatalogService interface {
	Products(ctx context.Context, opts LoadOptions) (LoadResult[catalog.Product], error)
	Collections(ctx context.Context, opts LoadOptions) (LoadResult[catalog.Collection], error)
	ProductsWithInventory(ctx context.Context, opts LoadOptions) (LoadResult[catalog.Product], error)
	BestSellers(ctx context.Context, limit int) (LoadResult[catalog.Product], error)
	Invalidate(ctx context.Context) error
	Status(ctx context.Context) SnapshotStatus
}
