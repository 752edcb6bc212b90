package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartRecalculate(t *testing.T) {
	c := Cart{
		Items: []CartItem{
			{Price: 100000, Quantity: 2},
			{Price: 50000, Quantity: 1},
		},
		Discount: 25000,
	}
	c.Recalculate()

	assert.Equal(t, 250000.0, c.Subtotal)
	assert.Equal(t, 225000.0, c.Total)
}

func TestCartRecalculateEmpty(t *testing.T) {
	c := Cart{}
	c.Recalculate()

	assert.Equal(t, 0.0, c.Subtotal)
	assert.Equal(t, 0.0, c.Total)
}

func TestCartItemSameLine(t *testing.T) {
	a := CartItem{ProductID: "p1", VariantID: "v1", Size: "42", Color: "black"}

	b := a
	b.ItemID = "different-id"
	b.Price = 999
	assert.True(t, a.SameLine(b), "identity ignores itemId and price")

	c := a
	c.Size = "43"
	assert.False(t, a.SameLine(c))

	d := a
	d.VariantID = ""
	assert.False(t, a.SameLine(d))
}

func TestProductEffectivePrice(t *testing.T) {
	p := Product{Price: 500000, SalePrice: 450000}
	assert.Equal(t, 450000.0, p.EffectivePrice())

	p.SalePrice = 0
	assert.Equal(t, 500000.0, p.EffectivePrice())
}

func TestProductFindVariant(t *testing.T) {
	p := Product{Variants: []Variant{
		{VariantID: "v1"},
		{VariantID: "v2"},
	}}

	v := p.FindVariant("v2")
	if assert.NotNil(t, v) {
		assert.Equal(t, "v2", v.VariantID)
	}
	assert.Nil(t, p.FindVariant("ghost"))
}
