package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"velora/config"
	"velora/models"
)

// ErrProductNotFound is returned when the catalog has no product with
// the requested id.
var ErrProductNotFound = errors.New("product not found")

// Service is the storefront's only window into the product catalog.
// Cart and order logic depend on this interface, never on the concrete
// HTTP client, so tests can substitute fakes.
type Service interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	DeductStock(ctx context.Context, productID, variantID string, quantity int) error
	RestoreStock(ctx context.Context, productID, variantID string, quantity int) error
}

// Client talks to the headless CMS REST API that owns products and
// per-variant stock.
type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
}

func NewClient(cfg config.Catalog) *Client {
	return &Client{
		baseURL:  cfg.URL,
		apiToken: cfg.APIToken,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// CMS response envelopes. The CMS wraps every resource in a data object
// with the fields under attributes.
type productEnvelope struct {
	Data *productData `json:"data"`
}

type productData struct {
	ID         string            `json:"id"`
	Attributes productAttributes `json:"attributes"`
}

type productAttributes struct {
	Name       string           `json:"name"`
	Slug       string           `json:"slug"`
	CategoryID string           `json:"categoryId"`
	Price      float64          `json:"price"`
	SalePrice  float64          `json:"salePrice"`
	Stock      int              `json:"stock"`
	Image      string           `json:"image"`
	Variants   []models.Variant `json:"variants"`
}

// GetProduct fetches a product including per-variant stock.
func (c *Client) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	url := fmt.Sprintf("%s/api/products/%s?populate=*", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var envelope productEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("catalog response decode: %w", err)
	}
	if envelope.Data == nil {
		return nil, ErrProductNotFound
	}

	attrs := envelope.Data.Attributes
	return &models.Product{
		ProductID:  envelope.Data.ID,
		Name:       attrs.Name,
		Slug:       attrs.Slug,
		CategoryID: attrs.CategoryID,
		Price:      attrs.Price,
		SalePrice:  attrs.SalePrice,
		Stock:      attrs.Stock,
		Image:      attrs.Image,
		Variants:   attrs.Variants,
	}, nil
}

// DeductStock decreases stock for a product or one of its variants,
// floored at zero. Callers treat failures as non-fatal.
func (c *Client) DeductStock(ctx context.Context, productID, variantID string, quantity int) error {
	return c.adjustStock(ctx, productID, variantID, -quantity)
}

// RestoreStock increases stock, used when a cancelled order compensates
// an earlier deduction.
func (c *Client) RestoreStock(ctx context.Context, productID, variantID string, quantity int) error {
	return c.adjustStock(ctx, productID, variantID, quantity)
}

// adjustStock is a read-modify-write against the CMS. The CMS has no
// atomic increment, so the new absolute stock value is computed here and
// written back with a PUT.
func (c *Client) adjustStock(ctx context.Context, productID, variantID string, delta int) error {
	product, err := c.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	var payload map[string]any
	if variantID != "" {
		variant := product.FindVariant(variantID)
		if variant == nil {
			return fmt.Errorf("variant %s not found on product %s", variantID, productID)
		}
		variant.Stock = clampStock(variant.Stock + delta)
		payload = map[string]any{"variants": product.Variants}
	} else {
		payload = map[string]any{"stock": clampStock(product.Stock + delta)}
	}

	body, err := json.Marshal(map[string]any{"data": payload})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog stock update failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog stock update returned status %d", resp.StatusCode)
	}

	log.Printf("catalog: adjusted stock for product %s variant %q by %+d", productID, variantID, delta)
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}

func clampStock(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
