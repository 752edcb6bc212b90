package routes

import (
	"net/http"

	"velora/middleware"
	"velora/order"
	"velora/ratelim"

	"github.com/julienschmidt/httprouter"
)

// AddOrderRoutes wires checkout and order management handlers.
func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, svc *order.Service) {
	h := order.NewHandlers(svc)

	authed := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
	)
	admin := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRole("admin"),
	)

	router.POST("/api/v1/orders", authed(h.CreateOrder))
	router.GET("/api/v1/orders", admin(h.AllOrders))

	// httprouter cannot mix the static my-orders segment with the
	// :orderNumber wildcard, so the param route dispatches.
	router.GET("/api/v1/orders/:orderNumber", authed(
		func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			if ps.ByName("orderNumber") == "my-orders" {
				h.MyOrders(w, r, ps)
				return
			}
			h.GetOrder(w, r, ps)
		}))

	router.POST("/api/v1/orders/:orderNumber/cancel", authed(h.CancelOrder))
	router.POST("/api/v1/orders/:orderNumber/payment-url", authed(h.RetryPaymentURL))
	router.PATCH("/api/v1/orders/:orderNumber/status", admin(h.UpdateStatus))
}
