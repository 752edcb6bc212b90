package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"velora/config"
	"velora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(config.Catalog{URL: srv.URL, APIToken: "test-token"})
	return c, srv
}

func productJSON(stock int, variants []models.Variant) productEnvelope {
	return productEnvelope{
		Data: &productData{
			ID: "p1",
			Attributes: productAttributes{
				Name:      "Sneaker",
				Slug:      "sneaker",
				Price:     500000,
				SalePrice: 450000,
				Stock:     stock,
				Variants:  variants,
			},
		},
	}
}

func TestGetProduct(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/p1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(productJSON(7, nil))
	}))
	defer srv.Close()

	p, err := c.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ProductID)
	assert.Equal(t, "Sneaker", p.Name)
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, 450000.0, p.EffectivePrice())
}

func TestGetProductNotFound(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := c.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetProductNullData(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	_, err := c.GetProduct(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeductStockWritesNewValue(t *testing.T) {
	var written map[string]map[string]any

	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(productJSON(10, nil))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&written))
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	require.NoError(t, c.DeductStock(context.Background(), "p1", "", 3))
	assert.Equal(t, 7.0, written["data"]["stock"])
}

func TestDeductStockFloorsAtZero(t *testing.T) {
	var written map[string]map[string]any

	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(productJSON(2, nil))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&written))
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	require.NoError(t, c.DeductStock(context.Background(), "p1", "", 5))
	assert.Equal(t, 0.0, written["data"]["stock"])
}

func TestDeductStockVariant(t *testing.T) {
	variants := []models.Variant{
		{VariantID: "v1", Size: "42", Color: "black", Stock: 4},
		{VariantID: "v2", Size: "43", Color: "black", Stock: 9},
	}
	var written struct {
		Data struct {
			Variants []models.Variant `json:"variants"`
		} `json:"data"`
	}

	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(productJSON(0, variants))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&written))
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	require.NoError(t, c.DeductStock(context.Background(), "p1", "v1", 3))
	require.Len(t, written.Data.Variants, 2)
	assert.Equal(t, 1, written.Data.Variants[0].Stock)
	assert.Equal(t, 9, written.Data.Variants[1].Stock, "sibling variant untouched")
}

func TestDeductStockUnknownVariant(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(productJSON(5, nil))
	}))
	defer srv.Close()

	err := c.DeductStock(context.Background(), "p1", "ghost", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variant ghost not found")
}

func TestRestoreStock(t *testing.T) {
	var written map[string]map[string]any

	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(productJSON(3, nil))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&written))
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	require.NoError(t, c.RestoreStock(context.Background(), "p1", "", 2))
	assert.Equal(t, 5.0, written["data"]["stock"])
}
