package payment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"velora/config"
	"velora/models"
)

// ErrInvalidMethod is returned for payment methods the adapter does not
// know. Validation error, never retried.
var ErrInvalidMethod = errors.New("invalid payment method")

// Gateway builds outbound payment URLs and verifies inbound callback
// signatures for both supported gateways. Stateless per call; all
// credentials come from the injected config.
type Gateway struct {
	vnpay config.VNPay
	momo  config.MoMo
	http  *http.Client
	now   func() time.Time
}

func NewGateway(vnpay config.VNPay, momo config.MoMo) *Gateway {
	return &Gateway{
		vnpay: vnpay,
		momo:  momo,
		http:  &http.Client{Timeout: 15 * time.Second},
		now:   time.Now,
	}
}

// CreatePaymentURL dispatches to the gateway named by method.
func (g *Gateway) CreatePaymentURL(ctx context.Context, order *models.Order, method, clientIP string) (string, error) {
	switch method {
	case models.MethodVNPay:
		return g.createVNPayURL(order, clientIP), nil
	case models.MethodMoMo:
		return g.createMoMoURL(ctx, order)
	default:
		return "", ErrInvalidMethod
	}
}
