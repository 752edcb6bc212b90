package order

import (
	"fmt"

	"velora/models"
)

// transitions is the full legal state machine. Cancelled and refunded
// are terminal: no outgoing edges.
var transitions = map[string][]string{
	models.OrderPending:    {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed:  {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
	models.OrderDelivered:  {models.OrderCompleted, models.OrderRefunded},
	models.OrderCompleted:  {models.OrderRefunded},
	models.OrderCancelled:  {},
	models.OrderRefunded:   {},
}

// InvalidTransitionError names both states of a rejected transition.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// ValidateTransition returns nil when the move from one status to the
// other is a legal edge.
func ValidateTransition(from, to string) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

// IsKnownStatus reports whether s is one of the defined order states.
func IsKnownStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// restoresStock reports whether cancelling from this state must
// compensate with a stock restoration.
func restoresStock(from string) bool {
	return from == models.OrderPending || from == models.OrderConfirmed || from == models.OrderProcessing
}
