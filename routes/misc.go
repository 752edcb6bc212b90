package routes

import (
	"velora/middleware"
	"velora/notifications"
	"velora/ratelim"
	"velora/reviews"
	"velora/wishlist"

	"github.com/julienschmidt/httprouter"
)

// AddNotificationRoutes wires the notification feed and WebSocket stream.
func AddNotificationRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *notifications.Hub) {
	authed := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
	)

	router.GET("/api/v1/notifications", authed(notifications.GetNotifications))
	router.PUT("/api/v1/notifications/:notificationId/read", authed(notifications.MarkRead))
	router.GET("/ws/notifications", notifications.WebSocketHandler(hub))
}

// AddReviewRoutes wires product review handlers.
func AddReviewRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
	)
	admin := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRole("admin"),
	)

	public := middleware.Chain(
		rateLimiter.Limit,
		middleware.OptionalAuth,
	)

	router.GET("/api/v1/reviews/:productId", public(reviews.GetReviews))
	router.POST("/api/v1/reviews/:productId", authed(reviews.AddReview))
	router.DELETE("/api/v1/reviews/:productId/:reviewId", authed(reviews.DeleteReview))
	router.POST("/api/v1/reviews/:productId/:reviewId/reply", admin(reviews.AdminReply))
}

// AddWishlistRoutes wires wishlist handlers.
func AddWishlistRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
	)

	router.GET("/api/v1/wishlist", authed(wishlist.GetWishlist))
	router.POST("/api/v1/wishlist/toggle", authed(wishlist.ToggleWishlist))
	router.DELETE("/api/v1/wishlist/:productId", authed(wishlist.RemoveFromWishlist))
}
