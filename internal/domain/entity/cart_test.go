package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id, price string) Product {
	return Product{ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price), Image: id + ".jpg"}
}

func TestCart_AddProductMergesByID(t *testing.T) {
	cart := NewCart()

	first := cart.AddProduct(testProduct("A1", "5.00"))
	second := cart.AddProduct(testProduct("A1", "5.00"))
	cart.AddProduct(testProduct("B2", "1.10"))

	assert.Equal(t, 1, first.Quantity)
	assert.Equal(t, 2, second.Quantity)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.ItemCount())
	assert.Equal(t, "11.10", cart.Total().StringFixed(2))
}

func TestCart_RemoveItem(t *testing.T) {
	cart := NewCart()
	cart.AddProduct(testProduct("A1", "1"))
	cart.AddProduct(testProduct("B2", "2"))
	cart.AddProduct(testProduct("C3", "3"))

	assert.False(t, cart.RemoveItem("ZZZ"))
	assert.True(t, cart.RemoveItem("B2"))

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "A1", cart.Items[0].ID)
	assert.Equal(t, "C3", cart.Items[1].ID)
}

func TestCart_SetQuantity(t *testing.T) {
	cart := NewCart()
	cart.AddProduct(testProduct("A1", "1.50"))

	assert.True(t, cart.SetQuantity("A1", 3))
	assert.Equal(t, "4.50", cart.Total().StringFixed(2))
	assert.False(t, cart.SetQuantity("ZZZ", 3))
	assert.True(t, cart.SetQuantity("A1", -1))
	assert.Empty(t, cart.Items)
}

func TestCart_SnapshotIsACopy(t *testing.T) {
	cart := NewCart()
	cart.AddProduct(testProduct("A1", "1"))

	snapshot := cart.Snapshot()
	snapshot[0].Quantity = 99

	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCart_Summary(t *testing.T) {
	cart := NewCart()
	cart.AddProduct(testProduct("A1", "0.1"))
	cart.AddProduct(testProduct("A1", "0.1"))
	cart.AddProduct(testProduct("B2", "0.2"))

	summary := cart.Summary("$")

	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, 2, summary.LineCount)
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("0.4")))
	assert.Equal(t, "$0.40", summary.FormattedTotal)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$10.00", FormatPrice(decimal.NewFromInt(10), "$"))
	assert.Equal(t, "€0.05", FormatPrice(decimal.RequireFromString("0.049"), "€"))
}
