package routes

import (
	"velora/coupon"
	"velora/middleware"
	"velora/ratelim"

	"github.com/julienschmidt/httprouter"
)

// AddCouponRoutes wires coupon validation and the admin CRUD surface.
func AddCouponRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
	)
	admin := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRole("admin"),
	)

	router.POST("/api/v1/coupons/validate", authed(coupon.ValidateCoupon))

	router.POST("/api/v1/coupons", admin(coupon.CreateCoupon))
	router.GET("/api/v1/coupons", admin(coupon.GetCoupons))
	router.GET("/api/v1/coupons/:couponId", admin(coupon.GetCoupon))
	router.PATCH("/api/v1/coupons/:couponId", admin(coupon.UpdateCoupon))
	router.DELETE("/api/v1/coupons/:couponId", admin(coupon.DeleteCoupon))
}
