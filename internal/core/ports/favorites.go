package ports

import (
	"context"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/favorite"
)

// FavoritesService is a durable wishlist with in-process change notifications.
type FavoritesService interface {
	GetAll(ctx context.Context) []favorite.Item
	Contains(ctx context.Context, id string) bool
	Add(ctx context.Context, p catalog.Product) ([]favorite.Item, error)
	Remove(ctx context.Context, id string) ([]favorite.Item, error)
	Toggle(ctx context.Context, p catalog.Product) ([]favorite.Item, error)
	Count(ctx context.Context) int
	ClearAll(ctx context.Context) error
	// Subscribe registers fn for every confirmed change and returns its unsubscribe func.
	Subscribe(fn func([]favorite.Item)) (unsubscribe func())
}

// FavoritesResolver returns the wishlist of one member. An empty member id selects the device wishlist.
type FavoritesResolver interface {
	ForMember(memberID string) FavoritesService
}
