package routes

import (
	"net/http"

	"velora/cart"
	"velora/catalog"
	"velora/config"
	"velora/notifications"
	"velora/order"
	"velora/payment"
	"velora/ratelim"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
)

// SetupRouter builds the services from config, wires every route group
// and returns the router.
func SetupRouter(cfg *config.Config, hub *notifications.Hub) *httprouter.Router {
	router := httprouter.New()
	rateLimiter := ratelim.NewRateLimiter()

	catalogClient := catalog.NewClient(cfg.Catalog)
	cartService := cart.NewService(catalogClient)
	gateway := payment.NewGateway(cfg.VNPay, cfg.MoMo)
	orderService := order.NewService(catalogClient, cartService, gateway, cfg.Shipping, cfg.StrictStock)

	AddCartRoutes(router, rateLimiter, cartService)
	AddCouponRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter, orderService)
	AddPaymentRoutes(router, gateway, orderService, cfg.FrontendURL)
	AddNotificationRoutes(router, rateLimiter, hub)
	AddReviewRoutes(router, rateLimiter)
	AddWishlistRoutes(router, rateLimiter)

	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "ok"})
	})

	return router
}
