package catalog

// MergeInventory overlays fresh stock fields onto cached products.
//
// Matching products are returned as new documents whose stock object is a shallow copy
// with inStock, quantity and trackQuantity overwritten; every other stock field is kept.
// Products without a record are returned as the same map value. The inputs are never
// modified, and an empty inventory returns cached itself.
func MergeInventory(cached []Product, fresh []InventoryRecord) []Product {
	if len(fresh) == 0 || len(cached) == 0 {
		return cached
	}
	byID := make(map[string]InventoryRecord, len(fresh))
	for _, r := range fresh {
		byID[r.ProductID] = r
	}

	merged := make([]Product, len(cached))
	for i, p := range cached {
		rec, ok := byID[p.ID()]
		if !ok {
			merged[i] = p
			continue
		}
		merged[i] = withInventory(p, rec)
	}
	return merged
}

func withInventory(p Product, rec InventoryRecord) Product {
	stock := make(map[string]any, len(p.StockFields())+3)
	for k, v := range p.StockFields() {
		stock[k] = v
	}
	stock["inStock"] = rec.InStock
	stock["trackQuantity"] = rec.TrackQuantity
	if rec.Quantity != nil {
		stock["quantity"] = *rec.Quantity
	} else {
		delete(stock, "quantity")
	}

	out := make(Product, len(p))
	for k, v := range p {
		out[k] = v
	}
	out["stock"] = stock
	return out
}
