package routes

import (
	"velora/cart"
	"velora/middleware"
	"velora/ratelim"

	"github.com/julienschmidt/httprouter"
)

// AddCartRoutes wires the cart handlers to the router.
func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, svc *cart.Service) {
	h := cart.NewHandlers(svc)

	authed := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
	)

	router.GET("/api/v1/cart", authed(h.GetCart))
	router.POST("/api/v1/cart/items", authed(h.AddItem))
	router.PATCH("/api/v1/cart/items/:itemId", authed(h.UpdateItem))
	router.DELETE("/api/v1/cart/items/:itemId", authed(h.RemoveItem))
	router.DELETE("/api/v1/cart", authed(h.ClearCart))
	router.POST("/api/v1/cart/coupon", authed(h.ApplyCoupon))
	router.DELETE("/api/v1/cart/coupon", authed(h.RemoveCoupon))
}
