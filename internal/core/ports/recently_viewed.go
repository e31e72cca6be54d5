package ports

import (
	"context"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/recent"
)

// RecentlyViewedService is a bounded, most-recent-first list of viewed products.
// Consumers re-read it; it does not notify.
type RecentlyViewedService interface {
	GetAll(ctx context.Context) []recent.Entry
	AddView(ctx context.Context, p catalog.Product) ([]recent.Entry, error)
	ClearAll(ctx context.Context) error
}

// RecentlyViewedResolver returns the list of one member.
type RecentlyViewedResolver interface {
	ForMember(memberID string) RecentlyViewedService
}
