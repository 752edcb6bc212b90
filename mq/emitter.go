package mq

import (
	"context"
	"encoding/json"
	"log"

	"velora/models"
	"velora/rdx"
)

// Channel carrying order lifecycle events to the notification worker.
const OrderEventsChannel = "order-events"

// Event types understood by the notification worker.
const (
	EventOrderCreated   = "order_created"
	EventOrderCancelled = "order_cancelled"
	EventStatusChanged  = "status_changed"
	EventPaymentUpdated = "payment_updated"
)

// Emit publishes an order event to Redis. Fire-and-forget: failures are
// logged and never affect the triggering request.
func Emit(ctx context.Context, event models.OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, OrderEventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s for order %s: %v", event.Type, event.OrderNumber, err)
	}
}
