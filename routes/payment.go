package routes

import (
	"velora/order"
	"velora/payment"

	"github.com/julienschmidt/httprouter"
)

// AddPaymentRoutes wires gateway callbacks and IPN endpoints. These are
// called by VNPay and MoMo, not by browsers, so no auth middleware.
func AddPaymentRoutes(router *httprouter.Router, gateway *payment.Gateway, orders *order.Service, frontendURL string) {
	h := payment.NewHandlers(gateway, orders, frontendURL)

	router.GET("/api/v1/payments/vnpay/callback", h.VNPayCallback)
	router.POST("/api/v1/payments/vnpay/ipn", h.VNPayIPN)
	router.GET("/api/v1/payments/momo/callback", h.MoMoCallback)
	router.POST("/api/v1/payments/momo/ipn", h.MoMoIPNHandler)
}
