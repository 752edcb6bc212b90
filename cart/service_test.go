package cart

import (
	"testing"

	"velora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineP1(qty int) models.CartItem {
	return models.CartItem{
		ItemID:    "line-p1",
		ProductID: "p1",
		VariantID: "v1",
		Size:      "M",
		Color:     "black",
		Price:     100000,
		Quantity:  qty,
	}
}

func TestMergeItemCombinesSameLine(t *testing.T) {
	c := &models.Cart{Items: []models.CartItem{}}

	require.NoError(t, mergeItem(c, lineP1(2), 10))
	require.NoError(t, mergeItem(c, lineP1(3), 10))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)

	c.Recalculate()
	assert.Equal(t, 500000.0, c.Subtotal)
}

func TestMergeItemStockCheckRunsAgainstMergedQuantity(t *testing.T) {
	c := &models.Cart{Items: []models.CartItem{}}

	require.NoError(t, mergeItem(c, lineP1(2), 4))

	err := mergeItem(c, lineP1(3), 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// the failed merge leaves the cart untouched
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestMergeItemDifferentSizeAppendsNewLine(t *testing.T) {
	c := &models.Cart{Items: []models.CartItem{}}

	require.NoError(t, mergeItem(c, lineP1(2), 10))

	other := lineP1(1)
	other.Size = "L"
	require.NoError(t, mergeItem(c, other, 10))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[1].Quantity)
}

func TestMergeItemNewLineExceedingStock(t *testing.T) {
	c := &models.Cart{Items: []models.CartItem{}}

	err := mergeItem(c, lineP1(5), 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, c.Items)
}

func TestMergeItemRefreshesPriceOnMerge(t *testing.T) {
	c := &models.Cart{Items: []models.CartItem{}}

	require.NoError(t, mergeItem(c, lineP1(1), 10))

	repriced := lineP1(1)
	repriced.Price = 80000
	require.NoError(t, mergeItem(c, repriced, 10))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 80000.0, c.Items[0].Price)
}
