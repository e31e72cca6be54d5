package catalog

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// ErrNoCatalog is returned when neither the remote source nor the local snapshot can serve a read.
var ErrNoCatalog = errors.New("catalog unavailable")

// Product is an opaque product document from the commerce platform. Only the id and
// the stock object are interpreted here; every other field is carried through as-is.
type Product map[string]any

// Stock is a typed view of a product's stock object.
type Stock struct {
	InStock         bool   `json:"inStock"`
	Quantity        *int   `json:"quantity,omitempty"`
	TrackQuantity   bool   `json:"trackQuantity"`
	InventoryStatus string `json:"inventoryStatus,omitempty"`
}

// ID returns the product id, accepting both "id" and the platform's "_id".
func (p Product) ID() string {
	if id := String(p["id"]); id != "" {
		return id
	}
	return String(p["_id"])
}

// Name returns the display name.
func (p Product) Name() string { return String(p["name"]) }

// Slug returns the URL slug.
func (p Product) Slug() string { return String(p["slug"]) }

// StockFields returns the raw stock object, or nil when the product carries none.
func (p Product) StockFields() map[string]any {
	m, _ := p["stock"].(map[string]any)
	return m
}

// HasStock reports whether the product carries a stock object.
func (p Product) HasStock() bool { return p.StockFields() != nil }

// Stock decodes the stock object. A product without one reads as in stock and untracked.
func (p Product) Stock() Stock {
	raw := p.StockFields()
	if raw == nil {
		return Stock{InStock: true}
	}
	s := Stock{
		TrackQuantity:   Bool(raw["trackQuantity"]),
		InventoryStatus: String(raw["inventoryStatus"]),
	}
	if v, ok := raw["inStock"]; ok {
		s.InStock = Bool(v)
	} else {
		s.InStock = s.InventoryStatus != "OUT_OF_STOCK"
	}
	if q, ok := Int(raw["quantity"]); ok {
		s.Quantity = &q
	}
	return s
}

// CollectionIDs returns the ids of the collections the product belongs to.
func (p Product) CollectionIDs() []string {
	raw, ok := p["collectionIds"].([]any)
	if !ok {
		if ids, ok := p["collectionIds"].([]string); ok {
			return append([]string(nil), ids...)
		}
		return nil
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s := String(v); s != "" {
			ids = append(ids, s)
		}
	}
	return ids
}

// Field walks nested objects along path and returns the value found, if any.
func (p Product) Field(path ...string) (any, bool) {
	var cur any = map[string]any(p)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns v when it is a string, otherwise "".
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Bool returns v when it is a bool, otherwise false.
func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

// Int converts the numeric shapes a decoded JSON document can hold to an int.
func Int(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// Float converts the numeric shapes a decoded JSON document can hold to a float64.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
