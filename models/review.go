package models

import "time"

type Review struct {
	ReviewID   string    `json:"reviewId" bson:"reviewId"`
	ProductID  string    `json:"productId" bson:"productId"`
	UserID     string    `json:"userId" bson:"userId"`
	Rating     int       `json:"rating" bson:"rating"`
	Comment    string    `json:"comment,omitempty" bson:"comment,omitempty"`
	AdminReply string    `json:"adminReply,omitempty" bson:"adminReply,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Wishlist struct {
	UserID     string    `json:"userId" bson:"userId"`
	ProductIDs []string  `json:"productIds" bson:"productIds"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Notification struct {
	NotificationID string    `json:"notificationId" bson:"notificationId"`
	UserID         string    `json:"userId" bson:"userId"`
	Type           string    `json:"type" bson:"type"`
	Title          string    `json:"title" bson:"title"`
	Message        string    `json:"message" bson:"message"`
	OrderNumber    string    `json:"orderNumber,omitempty" bson:"orderNumber,omitempty"`
	Read           bool      `json:"read" bson:"read"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// OrderEvent is the payload published to Redis when an order or its
// payment changes state. The notification worker consumes it.
type OrderEvent struct {
	Type        string  `json:"type"`
	UserID      string  `json:"userId"`
	OrderNumber string  `json:"orderNumber"`
	Status      string  `json:"status,omitempty"`
	Total       float64 `json:"total,omitempty"`
}
