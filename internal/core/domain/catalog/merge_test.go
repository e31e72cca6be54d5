package catalog_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
)

func decodeProducts(t *testing.T, raw string) []catalog.Product {
	t.Helper()
	var out []catalog.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func intPtr(v int) *int { return &v }

func samePointer(a, b catalog.Product) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestMergeInventory_PreservesUntouchedStockFields(t *testing.T) {
	cached := decodeProducts(t, `[{"id":"p1","name":"Islay Single Malt","stock":{"quantity":5,"inStock":true,"someOtherField":"x"}}]`)
	records := []catalog.InventoryRecord{catalog.NewInventoryRecord(catalog.InventoryLine{ProductID: "p1", TrackQuantity: true, Quantity: intPtr(0)})}

	merged := catalog.MergeInventory(cached, records)

	require.Len(t, merged, 1)
	stock := merged[0].StockFields()
	q, ok := catalog.Int(stock["quantity"])
	require.True(t, ok)
	assert.Equal(t, 0, q)
	assert.Equal(t, false, stock["inStock"])
	assert.Equal(t, true, stock["trackQuantity"])
	assert.Equal(t, "x", stock["someOtherField"])
	assert.Equal(t, "Islay Single Malt", merged[0].Name())
}

func TestMergeInventory_DoesNotMutateInput(t *testing.T) {
	cached := decodeProducts(t, `[{"id":"p1","stock":{"quantity":5,"inStock":true}}]`)
	records := []catalog.InventoryRecord{{ProductID: "p1", InStock: false, Quantity: intPtr(0), TrackQuantity: true}}

	merged := catalog.MergeInventory(cached, records)

	assert.Equal(t, true, cached[0].StockFields()["inStock"])
	assert.Equal(t, float64(5), cached[0].StockFields()["quantity"])
	assert.False(t, samePointer(cached[0], merged[0]))
}

func TestMergeInventory_PassThroughUnmatched(t *testing.T) {
	cached := decodeProducts(t, `[{"id":"p1","stock":{"quantity":5}},{"_id":"p2","stock":{"quantity":2}}]`)
	records := []catalog.InventoryRecord{{ProductID: "p2", InStock: true, Quantity: intPtr(9), TrackQuantity: true}}

	merged := catalog.MergeInventory(cached, records)

	require.Len(t, merged, 2)
	assert.True(t, samePointer(cached[0], merged[0]), "unmatched product must be passed through")
	assert.Equal(t, cached[0], merged[0])
	q, _ := catalog.Int(merged[1].StockFields()["quantity"])
	assert.Equal(t, 9, q)
}

func TestMergeInventory_EmptyInventoryShortCircuits(t *testing.T) {
	cached := decodeProducts(t, `[{"id":"p1"}]`)
	merged := catalog.MergeInventory(cached, nil)
	require.Len(t, merged, 1)
	assert.Same(t, &cached[0], &merged[0])
}

func TestMergeInventory_NilQuantityDropsKey(t *testing.T) {
	cached := decodeProducts(t, `[{"id":"p1","stock":{"quantity":5,"inventoryStatus":"IN_STOCK"}}]`)
	records := []catalog.InventoryRecord{catalog.NewInventoryRecord(catalog.InventoryLine{ProductID: "p1"})}

	merged := catalog.MergeInventory(cached, records)

	_, present := merged[0].StockFields()["quantity"]
	assert.False(t, present)
	assert.Equal(t, "IN_STOCK", merged[0].StockFields()["inventoryStatus"])
	assert.Equal(t, true, merged[0].StockFields()["inStock"])
}

func TestMergeInventory_ProductWithoutStockGainsOne(t *testing.T) {
	cached := decodeProducts(t, `[{"id":"p1","name":"Rosé"}]`)
	records := []catalog.InventoryRecord{{ProductID: "p1", InStock: true, Quantity: intPtr(3), TrackQuantity: true}}

	merged := catalog.MergeInventory(cached, records)

	s := merged[0].Stock()
	require.NotNil(t, s.Quantity)
	assert.Equal(t, 3, *s.Quantity)
	assert.True(t, s.InStock)
	assert.Nil(t, cached[0].StockFields())
}
