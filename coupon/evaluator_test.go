package coupon

import (
	"testing"
	"time"

	"velora/models"

	"github.com/stretchr/testify/assert"
)

func baseCoupon() *models.Coupon {
	now := time.Now()
	return &models.Coupon{
		CouponID:      "c1",
		Code:          "SALE10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		StartDate:     now.Add(-24 * time.Hour),
		EndDate:       now.Add(24 * time.Hour),
		IsActive:      true,
	}
}

func TestEvaluatePercentageDiscount(t *testing.T) {
	res := Evaluate(baseCoupon(), "u1", 500000, 0, nil, time.Now())
	assert.True(t, res.Valid)
	assert.Equal(t, 50000.0, res.Discount)
}

func TestEvaluatePercentageCap(t *testing.T) {
	c := baseCoupon()
	c.MaxDiscountAmount = 20000
	res := Evaluate(c, "u1", 500000, 0, nil, time.Now())
	assert.True(t, res.Valid)
	assert.Equal(t, 20000.0, res.Discount)
}

func TestEvaluateFixedClampedToTotal(t *testing.T) {
	c := baseCoupon()
	c.DiscountType = models.DiscountFixed
	c.DiscountValue = 100000
	res := Evaluate(c, "u1", 60000, 0, nil, time.Now())
	assert.True(t, res.Valid)
	assert.Equal(t, 60000.0, res.Discount)
}

func TestEvaluateFreeShipping(t *testing.T) {
	c := baseCoupon()
	c.DiscountType = models.DiscountFreeShipping
	res := Evaluate(c, "u1", 200000, 30000, nil, time.Now())
	assert.True(t, res.Valid)
	assert.Equal(t, 30000.0, res.Discount)
}

func TestEvaluateInactive(t *testing.T) {
	c := baseCoupon()
	c.IsActive = false
	res := Evaluate(c, "u1", 500000, 0, nil, time.Now())
	assert.False(t, res.Valid)
	assert.Equal(t, "Coupon is not active", res.Message)
}

func TestEvaluateDateWindow(t *testing.T) {
	c := baseCoupon()
	res := Evaluate(c, "u1", 500000, 0, nil, c.StartDate.Add(-time.Hour))
	assert.False(t, res.Valid)
	assert.Equal(t, "Coupon is not yet valid", res.Message)

	res = Evaluate(c, "u1", 500000, 0, nil, c.EndDate.Add(time.Hour))
	assert.False(t, res.Valid)
	assert.Equal(t, "Coupon has expired", res.Message)
}

func TestEvaluateUsageLimit(t *testing.T) {
	c := baseCoupon()
	c.UsageLimit = 5
	c.UsedCount = 5
	res := Evaluate(c, "u1", 500000, 0, nil, time.Now())
	assert.False(t, res.Valid)
	assert.Equal(t, "Coupon usage limit reached", res.Message)
}

func TestEvaluatePerUserLimitDefaultsToOne(t *testing.T) {
	c := baseCoupon()
	c.UsedBy = []string{"u1"}
	res := Evaluate(c, "u1", 500000, 0, nil, time.Now())
	assert.False(t, res.Valid)
	assert.Equal(t, "You have already used this coupon", res.Message)

	// another user is unaffected
	res = Evaluate(c, "u2", 500000, 0, nil, time.Now())
	assert.True(t, res.Valid)
}

func TestEvaluateMinOrderValue(t *testing.T) {
	c := baseCoupon()
	c.MinOrderValue = 100000
	res := Evaluate(c, "u1", 99999, 0, nil, time.Now())
	assert.False(t, res.Valid)

	res = Evaluate(c, "u1", 100000, 0, nil, time.Now())
	assert.True(t, res.Valid)
}

// Checks short-circuit in a fixed order; an inactive coupon reports
// inactivity even when the date window has also passed.
func TestEvaluateCheckOrder(t *testing.T) {
	c := baseCoupon()
	c.IsActive = false
	c.EndDate = time.Now().Add(-time.Hour)
	res := Evaluate(c, "u1", 500000, 0, nil, time.Now())
	assert.Equal(t, "Coupon is not active", res.Message)
}

func TestEvaluateApplicableProducts(t *testing.T) {
	c := baseCoupon()
	c.ApplicableProducts = []string{"p1"}

	items := []LineRef{{ProductID: "p2", Price: 1000, Quantity: 1}}
	res := Evaluate(c, "u1", 1000, 0, items, time.Now())
	assert.False(t, res.Valid)

	items = append(items, LineRef{ProductID: "p1", Price: 2000, Quantity: 1})
	res = Evaluate(c, "u1", 3000, 0, items, time.Now())
	assert.True(t, res.Valid)
}

func TestEvaluateExcludedProducts(t *testing.T) {
	c := baseCoupon()
	c.ApplicableProducts = []string{"p1"}
	c.ExcludedProducts = []string{"p1"}

	items := []LineRef{{ProductID: "p1", Price: 1000, Quantity: 1}}
	res := Evaluate(c, "u1", 1000, 0, items, time.Now())
	assert.False(t, res.Valid)
}

func TestEvaluateApplicableCategories(t *testing.T) {
	c := baseCoupon()
	c.ApplicableCategories = []string{"shoes"}

	items := []LineRef{{ProductID: "p1", CategoryID: "hats", Price: 1000, Quantity: 1}}
	res := Evaluate(c, "u1", 1000, 0, items, time.Now())
	assert.False(t, res.Valid)

	items[0].CategoryID = "shoes"
	res = Evaluate(c, "u1", 1000, 0, items, time.Now())
	assert.True(t, res.Valid)
}

func TestEvaluateNilCoupon(t *testing.T) {
	res := Evaluate(nil, "u1", 1000, 0, nil, time.Now())
	assert.False(t, res.Valid)
}

func TestEvaluateUnknownDiscountType(t *testing.T) {
	c := baseCoupon()
	c.DiscountType = "bogus"
	res := Evaluate(c, "u1", 1000, 0, nil, time.Now())
	assert.False(t, res.Valid)
}
