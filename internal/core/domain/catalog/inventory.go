package catalog

// InventoryLine is one raw inventory item as listed by the commerce platform.
type InventoryLine struct {
	ProductID     string `json:"productId"`
	TrackQuantity bool   `json:"trackQuantity"`
	Quantity      *int   `json:"quantity,omitempty"`
}

// InventoryRecord holds the fast-changing stock fields of one product.
// Records are fetched on every inventory refresh and never cached.
type InventoryRecord struct {
	ProductID     string
	InStock       bool
	Quantity      *int
	TrackQuantity bool
}

// NewInventoryRecord derives a record from a raw line. Untracked items are always in stock.
func NewInventoryRecord(line InventoryLine) InventoryRecord {
	inStock := true
	if line.TrackQuantity {
		inStock = line.Quantity != nil && *line.Quantity > 0
	}
	return InventoryRecord{
		ProductID:     line.ProductID,
		InStock:       inStock,
		Quantity:      line.Quantity,
		TrackQuantity: line.TrackQuantity,
	}
}

// RecordsFromLines converts raw lines, dropping lines without a product id.
func RecordsFromLines(lines []InventoryLine) []InventoryRecord {
	records := make([]InventoryRecord, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == "" {
			continue
		}
		records = append(records, NewInventoryRecord(l))
	}
	return records
}
