package favorite

import (
	"fmt"
	"time"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
)

// AddedAtLayout is the ISO-8601 layout used for AddedAt.
const AddedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Item is a product saved to the member's wishlist. A wishlist holds at most one Item per ID.
type Item struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	DiscountedPrice string `json:"discountedPrice"`
	Image           string `json:"image"`
	Slug            string `json:"slug"`
	InStock         bool   `json:"inStock"`
	StockQuantity   *int   `json:"stockQuantity"`
	AddedAt         string `json:"addedAt"`
}

// FromProduct projects a catalog product onto a wishlist item.
// DiscountedPrice stays empty unless the product has one that differs from Price.
func FromProduct(p catalog.Product, now time.Time) Item {
	price := formattedPrice(p, "price")
	discounted := formattedPrice(p, "discountedPrice")
	if discounted == price {
		discounted = ""
	}
	stock := p.Stock()
	return Item{
		ID:              p.ID(),
		Name:            p.Name(),
		Price:           price,
		DiscountedPrice: discounted,
		Image:           ImageURL(p),
		Slug:            p.Slug(),
		InStock:         stock.InStock,
		StockQuantity:   stock.Quantity,
		AddedAt:         now.UTC().Format(AddedAtLayout),
	}
}

// ImageURL returns the main media url, falling back to a flat "image" field.
func ImageURL(p catalog.Product) string {
	if v, ok := p.Field("media", "mainMedia", "image", "url"); ok {
		if s := catalog.String(v); s != "" {
			return s
		}
	}
	if s := catalog.String(p["image"]); s != "" {
		return s
	}
	if v, ok := p.Field("image", "url"); ok {
		return catalog.String(v)
	}
	return ""
}

// formattedPrice prefers the platform's formatted string and falls back to the raw amount.
func formattedPrice(p catalog.Product, field string) string {
	if v, ok := p.Field("priceData", "formatted", field); ok {
		if s := catalog.String(v); s != "" {
			return s
		}
	}
	if v, ok := p.Field("priceData", field); ok {
		if f, ok := catalog.Float(v); ok {
			return fmt.Sprintf("%.2f", f)
		}
	}
	return ""
}

// IndexOf returns the position of id in items, or -1.
func IndexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Without returns a new slice with every item matching id removed.
func Without(items []Item, id string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
