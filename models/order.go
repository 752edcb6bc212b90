package models

import "time"

// Order status values. Transitions are enforced by the order service;
// cancelled and refunded are terminal.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
	OrderRefunded   = "refunded"
)

// Payment status values.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment methods accepted at checkout.
const (
	MethodCOD   = "cod"
	MethodVNPay = "vnpay"
	MethodMoMo  = "momo"
)

// OrderItem is a snapshot of a cart line frozen at order creation.
// Prices never track later catalog changes.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	VariantID string  `json:"variantId,omitempty" bson:"variantId,omitempty"`
	Name      string  `json:"name" bson:"name"`
	Slug      string  `json:"slug,omitempty" bson:"slug,omitempty"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
	Size      string  `json:"size,omitempty" bson:"size,omitempty"`
	Color     string  `json:"color,omitempty" bson:"color,omitempty"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

type Address struct {
	FullName string `json:"fullName" bson:"fullName"`
	Phone    string `json:"phone" bson:"phone"`
	Province string `json:"province,omitempty" bson:"province,omitempty"`
	District string `json:"district,omitempty" bson:"district,omitempty"`
	Ward     string `json:"ward,omitempty" bson:"ward,omitempty"`
	City     string `json:"city" bson:"city"`
	Address  string `json:"address" bson:"address"`
}

// StatusChange is one entry in an order's append-only status history.
type StatusChange struct {
	Status    string    `json:"status" bson:"status"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
	CreatedBy string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Order invariant: Total = Subtotal - Discount + ShippingFee.
type Order struct {
	OrderNumber     string         `json:"orderNumber" bson:"orderNumber"`
	UserID          string         `json:"userId" bson:"userId"`
	Items           []OrderItem    `json:"items" bson:"items"`
	Subtotal        float64        `json:"subtotal" bson:"subtotal"`
	Discount        float64        `json:"discount" bson:"discount"`
	ShippingFee     float64        `json:"shippingFee" bson:"shippingFee"`
	Total           float64        `json:"total" bson:"total"`
	CouponCode      string         `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	ShippingAddress Address        `json:"shippingAddress" bson:"shippingAddress"`
	BillingAddress  Address        `json:"billingAddress" bson:"billingAddress"`
	PaymentMethod   string         `json:"paymentMethod" bson:"paymentMethod"`
	Status          string         `json:"status" bson:"status"`
	PaymentStatus   string         `json:"paymentStatus" bson:"paymentStatus"`
	PaymentURL      string         `json:"paymentUrl,omitempty" bson:"paymentUrl,omitempty"`
	TransactionID   string         `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	TrackingNumber  string         `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	TrackingURL     string         `json:"trackingUrl,omitempty" bson:"trackingUrl,omitempty"`
	Notes           string         `json:"notes,omitempty" bson:"notes,omitempty"`
	StatusHistory   []StatusChange `json:"statusHistory" bson:"statusHistory"`
	PaidAt          *time.Time     `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CancelledAt     *time.Time     `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt" bson:"updatedAt"`
}
