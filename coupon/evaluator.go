package coupon

import (
	"fmt"
	"time"

	"velora/models"
)

// LineRef is the slice of a cart line the evaluator needs to decide
// product/category applicability.
type LineRef struct {
	ProductID  string  `json:"productId"`
	CategoryID string  `json:"categoryId,omitempty"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// Result of a coupon evaluation. Discount is an absolute amount, already
// clamped to the order total.
type Result struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message,omitempty"`
}

func invalid(msg string) Result {
	return Result{Valid: false, Discount: 0, Message: msg}
}

// Evaluate decides validity and discount for a coupon against an order
// context. Pure: no storage access, no side effects. Checks run in a
// fixed order and short-circuit on the first failure.
func Evaluate(c *models.Coupon, userID string, orderTotal, shippingFee float64, items []LineRef, now time.Time) Result {
	if c == nil {
		return invalid("Invalid coupon code")
	}

	if !c.IsActive {
		return invalid("Coupon is not active")
	}

	if now.Before(c.StartDate) {
		return invalid("Coupon is not yet valid")
	}
	if now.After(c.EndDate) {
		return invalid("Coupon has expired")
	}

	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return invalid("Coupon usage limit reached")
	}

	perUser := c.UsageLimitPerUser
	if perUser <= 0 {
		perUser = 1
	}
	userUsage := 0
	for _, id := range c.UsedBy {
		if id == userID {
			userUsage++
		}
	}
	if userUsage >= perUser {
		return invalid("You have already used this coupon")
	}

	if orderTotal < c.MinOrderValue {
		return invalid(fmt.Sprintf("Minimum order value is %.0f", c.MinOrderValue))
	}

	if len(c.ApplicableProducts) > 0 || len(c.ApplicableCategories) > 0 {
		if !anyItemQualifies(c, items) {
			return invalid("Coupon is not applicable to items in your cart")
		}
	}

	var discount float64
	switch c.DiscountType {
	case models.DiscountPercentage:
		discount = orderTotal * c.DiscountValue / 100
		if c.MaxDiscountAmount > 0 && discount > c.MaxDiscountAmount {
			discount = c.MaxDiscountAmount
		}
	case models.DiscountFixed:
		discount = c.DiscountValue
	case models.DiscountFreeShipping:
		discount = shippingFee
	default:
		return invalid("Unknown discount type")
	}

	if discount > orderTotal {
		discount = orderTotal
	}
	if discount < 0 {
		discount = 0
	}

	return Result{Valid: true, Discount: discount}
}

// anyItemQualifies checks the applicability rules: an item must not be
// excluded, and must match the product list when one is configured,
// falling back to the category list otherwise.
func anyItemQualifies(c *models.Coupon, items []LineRef) bool {
	for _, item := range items {
		if contains(c.ExcludedProducts, item.ProductID) {
			continue
		}
		if len(c.ApplicableProducts) > 0 {
			if contains(c.ApplicableProducts, item.ProductID) {
				return true
			}
			continue
		}
		if len(c.ApplicableCategories) > 0 {
			if item.CategoryID != "" && contains(c.ApplicableCategories, item.CategoryID) {
				return true
			}
			continue
		}
		return true
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
