package models

import "time"

// Coupon discount types.
const (
	DiscountPercentage   = "percentage"
	DiscountFixed        = "fixed"
	DiscountFreeShipping = "free_shipping"
)

type Coupon struct {
	CouponID             string    `json:"couponId" bson:"couponId"`
	Code                 string    `json:"code" bson:"code"`
	Name                 string    `json:"name" bson:"name"`
	Description          string    `json:"description,omitempty" bson:"description,omitempty"`
	DiscountType         string    `json:"discountType" bson:"discountType"`
	DiscountValue        float64   `json:"discountValue" bson:"discountValue"`
	MinOrderValue        float64   `json:"minOrderValue" bson:"minOrderValue"`
	MaxDiscountAmount    float64   `json:"maxDiscountAmount,omitempty" bson:"maxDiscountAmount,omitempty"`
	StartDate            time.Time `json:"startDate" bson:"startDate"`
	EndDate              time.Time `json:"endDate" bson:"endDate"`
	UsageLimit           int       `json:"usageLimit,omitempty" bson:"usageLimit,omitempty"`
	UsedCount            int       `json:"usedCount" bson:"usedCount"`
	UsageLimitPerUser    int       `json:"usageLimitPerUser" bson:"usageLimitPerUser"`
	UsedBy               []string  `json:"usedBy" bson:"usedBy"`
	ApplicableProducts   []string  `json:"applicableProducts" bson:"applicableProducts"`
	ApplicableCategories []string  `json:"applicableCategories" bson:"applicableCategories"`
	ExcludedProducts     []string  `json:"excludedProducts" bson:"excludedProducts"`
	IsActive             bool      `json:"isActive" bson:"isActive"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt" bson:"updatedAt"`
}
