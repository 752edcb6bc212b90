package models

import "time"

// CartItem is a single line in a user's cart. Identical lines are defined
// by the (productId, variantId, size, color) tuple; adding a matching line
// merges quantities instead of duplicating.
type CartItem struct {
	ItemID    string  `json:"itemId" bson:"itemId"`
	ProductID string  `json:"productId" bson:"productId"`
	VariantID string  `json:"variantId,omitempty" bson:"variantId,omitempty"`
	Name      string  `json:"name" bson:"name"`
	Slug      string  `json:"slug,omitempty" bson:"slug,omitempty"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
	Size      string  `json:"size,omitempty" bson:"size,omitempty"`
	Color     string  `json:"color,omitempty" bson:"color,omitempty"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// SameLine reports whether two items belong to the same cart line.
func (i CartItem) SameLine(other CartItem) bool {
	return i.ProductID == other.ProductID &&
		i.VariantID == other.VariantID &&
		i.Size == other.Size &&
		i.Color == other.Color
}

// Cart is one document per user. Totals are recomputed after every
// mutation: subtotal is the sum of price*qty, total = subtotal - discount.
type Cart struct {
	UserID     string     `json:"userId" bson:"userId"`
	Items      []CartItem `json:"items" bson:"items"`
	CouponCode string     `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	Subtotal   float64    `json:"subtotal" bson:"subtotal"`
	Discount   float64    `json:"discount" bson:"discount"`
	Total      float64    `json:"total" bson:"total"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
}

// Recalculate re-derives subtotal and total from the current items.
func (c *Cart) Recalculate() {
	c.Subtotal = 0
	for _, it := range c.Items {
		c.Subtotal += it.Price * float64(it.Quantity)
	}
	c.Total = c.Subtotal - c.Discount
}
