package models

// Variant is a sellable variation of a product with its own stock and
// optionally its own price.
type Variant struct {
	VariantID string  `json:"variantId"`
	Name      string  `json:"name,omitempty"`
	SKU       string  `json:"sku,omitempty"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Stock     int     `json:"stock"`
}

// Product is the catalog service's view of a sellable item. The catalog
// owns this data; the storefront only snapshots it into carts and orders.
type Product struct {
	ProductID  string    `json:"productId"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug,omitempty"`
	CategoryID string    `json:"categoryId,omitempty"`
	Price      float64   `json:"price"`
	SalePrice  float64   `json:"salePrice,omitempty"`
	Stock      int       `json:"stock"`
	Image      string    `json:"image,omitempty"`
	Variants   []Variant `json:"variants,omitempty"`
}

// EffectivePrice returns the sale price when one is set.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}

// FindVariant returns the variant with the given id, or nil.
func (p *Product) FindVariant(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].VariantID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}
