package recent

import (
	"time"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/favorite"
)

// DefaultLimit bounds the recently-viewed list.
const DefaultLimit = 10

// FormattedPrice mirrors the platform's display strings.
type FormattedPrice struct {
	Price           string `json:"price,omitempty"`
	DiscountedPrice string `json:"discountedPrice,omitempty"`
}

// PriceData is the subset of pricing kept for a viewed product.
type PriceData struct {
	Currency        string          `json:"currency,omitempty"`
	Price           *float64        `json:"price,omitempty"`
	DiscountedPrice *float64        `json:"discountedPrice,omitempty"`
	Formatted       *FormattedPrice `json:"formatted,omitempty"`
}

// Stock is the subset of stock kept for a viewed product.
type Stock struct {
	InStock         bool   `json:"inStock"`
	Quantity        *int   `json:"quantity,omitempty"`
	InventoryStatus string `json:"inventoryStatus,omitempty"`
}

// Entry is a lightweight snapshot of a product the member looked at.
type Entry struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PriceData     PriceData `json:"priceData"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	Stock         Stock     `json:"stock"`
	CollectionIDs []string  `json:"collectionIds,omitempty"`
	ViewedAt      int64     `json:"viewedAt"`
}

// FromProduct projects a product viewed at now.
func FromProduct(p catalog.Product, now time.Time) Entry {
	s := p.Stock()
	return Entry{
		ID:            p.ID(),
		Name:          p.Name(),
		PriceData:     priceData(p),
		ImageURL:      favorite.ImageURL(p),
		Stock:         Stock{InStock: s.InStock, Quantity: s.Quantity, InventoryStatus: s.InventoryStatus},
		CollectionIDs: p.CollectionIDs(),
		ViewedAt:      now.UnixMilli(),
	}
}

func priceData(p catalog.Product) PriceData {
	var pd PriceData
	if v, ok := p.Field("priceData", "currency"); ok {
		pd.Currency = catalog.String(v)
	}
	if v, ok := p.Field("priceData", "price"); ok {
		if f, ok := catalog.Float(v); ok {
			pd.Price = &f
		}
	}
	if v, ok := p.Field("priceData", "discountedPrice"); ok {
		if f, ok := catalog.Float(v); ok {
			pd.DiscountedPrice = &f
		}
	}
	price, _ := p.Field("priceData", "formatted", "price")
	discounted, _ := p.Field("priceData", "formatted", "discountedPrice")
	if catalog.String(price) != "" || catalog.String(discounted) != "" {
		pd.Formatted = &FormattedPrice{Price: catalog.String(price), DiscountedPrice: catalog.String(discounted)}
	}
	return pd
}

// Prepend puts e at the front of entries, drops any older entry with the same id
// and truncates to limit. entries is not modified.
func Prepend(entries []Entry, e Entry, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out := make([]Entry, 0, min(len(entries)+1, limit))
	out = append(out, e)
	for _, existing := range entries {
		if len(out) == limit {
			break
		}
		if existing.ID == e.ID {
			continue
		}
		out = append(out, existing)
	}
	return out
}
