package cart

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"velora/catalog"
	"velora/coupon"
	"velora/db"
	"velora/models"
	"velora/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Service owns all cart mutations. Every mutation recomputes totals so
// total == subtotal - discount holds after each call.
type Service struct {
	catalog catalog.Service
}

func NewService(cat catalog.Service) *Service {
	return &Service{catalog: cat}
}

// GetOrCreate returns the user's cart, creating an empty one on first
// access. As a side effect it refreshes price/name/image for every line
// from the catalog; products that no longer resolve keep their cached
// values so the cart stays usable.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		now := time.Now()
		c = models.Cart{
			UserID:    userID,
			Items:     []models.CartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := db.CartCollection.InsertOne(ctx, c); err != nil && !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
		return &c, nil
	}
	if err != nil {
		return nil, err
	}

	s.refreshPrices(ctx, &c)
	c.Recalculate()
	if err := s.save(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// refreshPrices pulls current catalog data into each line. A failed
// lookup leaves the stale snapshot in place without failing the read.
func (s *Service) refreshPrices(ctx context.Context, c *models.Cart) {
	for i := range c.Items {
		item := &c.Items[i]
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			log.Printf("refreshPrices: product %s unavailable, keeping cached data: %v", item.ProductID, err)
			continue
		}
		price := product.EffectivePrice()
		if item.VariantID != "" {
			if variant := product.FindVariant(item.VariantID); variant != nil && variant.Price > 0 {
				price = variant.Price
			}
		}
		item.Price = price
		item.Name = product.Name
		if product.Image != "" {
			item.Image = product.Image
		}
	}
}

// AddRequest carries the add-to-cart payload.
type AddRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// AddItem validates product, variant and stock, then merges or appends
// the line. The stock check runs against the merged quantity.
func (s *Service) AddItem(ctx context.Context, userID string, req AddRequest) (*models.Cart, error) {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	stock := product.Stock
	price := product.EffectivePrice()
	if req.VariantID != "" {
		variant := product.FindVariant(req.VariantID)
		if variant == nil {
			return nil, ErrVariantNotFound
		}
		stock = variant.Stock
		if variant.Price > 0 {
			price = variant.Price
		}
	}

	newItem := models.CartItem{
		ItemID:    utils.GetUUID(),
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Name:      product.Name,
		Slug:      product.Slug,
		Image:     product.Image,
		Size:      req.Size,
		Color:     req.Color,
		Price:     price,
		Quantity:  req.Quantity,
	}

	if err := mergeItem(c, newItem, stock); err != nil {
		return nil, err
	}

	c.Recalculate()
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// mergeItem folds the new line into an existing one matching on the
// product/variant/size/color tuple, or appends it. The stock check runs
// against the quantity after merging; on failure the cart is unchanged.
func mergeItem(c *models.Cart, item models.CartItem, stock int) error {
	for i := range c.Items {
		if c.Items[i].SameLine(item) {
			if c.Items[i].Quantity+item.Quantity > stock {
				return ErrInsufficientStock
			}
			c.Items[i].Quantity += item.Quantity
			c.Items[i].Price = item.Price
			return nil
		}
	}
	if item.Quantity > stock {
		return ErrInsufficientStock
	}
	c.Items = append(c.Items, item)
	return nil
}

// UpdateItem sets a line's quantity. Zero or negative removes the line;
// otherwise the new quantity is re-validated against current stock.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error) {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrItemNotFound
	}

	if quantity <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		item := &c.Items[idx]
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		stock := product.Stock
		if item.VariantID != "" {
			if variant := product.FindVariant(item.VariantID); variant != nil {
				stock = variant.Stock
			}
		}
		if quantity > stock {
			return nil, ErrInsufficientStock
		}
		item.Quantity = quantity
	}

	c.Recalculate()
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem deletes one line from the cart.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := c.Items[:0]
	found := false
	for _, it := range c.Items {
		if it.ItemID == itemID {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return nil, ErrItemNotFound
	}
	c.Items = kept

	c.Recalculate()
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart and resets coupon state. Called by the order
// service after a successful checkout, and by the clear endpoint.
func (s *Service) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.Items = []models.CartItem{}
	c.CouponCode = ""
	c.Discount = 0
	c.Recalculate()
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyCoupon stores the code and recomputes the discount through the
// evaluator. Usage counters are not touched here; they are committed
// when an order is created.
func (s *Service) ApplyCoupon(ctx context.Context, userID, code string) (*models.Cart, *coupon.Result, error) {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	cpn, err := coupon.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			return c, &coupon.Result{Valid: false, Message: "Invalid coupon code"}, nil
		}
		return nil, nil, err
	}

	items := make([]coupon.LineRef, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, coupon.LineRef{
			ProductID: it.ProductID,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	result := coupon.Evaluate(cpn, userID, c.Subtotal, 0, items, time.Now())
	if !result.Valid {
		return c, &result, nil
	}

	c.CouponCode = strings.ToUpper(strings.TrimSpace(code))
	c.Discount = result.Discount
	c.Recalculate()
	if err := s.save(ctx, c); err != nil {
		return nil, nil, err
	}
	return c, &result, nil
}

// RemoveCoupon clears the code and discount.
func (s *Service) RemoveCoupon(ctx context.Context, userID string) (*models.Cart, error) {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.CouponCode = ""
	c.Discount = 0
	c.Recalculate()
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// save replaces the whole cart document. Concurrent mutations on the
// same cart resolve last-writer-wins; totals always match the items of
// whichever write landed.
func (s *Service) save(ctx context.Context, c *models.Cart) error {
	c.UpdatedAt = time.Now()
	_, err := db.CartCollection.ReplaceOne(ctx,
		bson.M{"userId": c.UserID}, c,
		options.Replace().SetUpsert(true),
	)
	return err
}
