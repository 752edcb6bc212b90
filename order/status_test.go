package order

import (
	"errors"
	"testing"

	"velora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransitionLegalEdges(t *testing.T) {
	legal := [][2]string{
		{models.OrderPending, models.OrderConfirmed},
		{models.OrderPending, models.OrderCancelled},
		{models.OrderConfirmed, models.OrderProcessing},
		{models.OrderConfirmed, models.OrderCancelled},
		{models.OrderProcessing, models.OrderShipped},
		{models.OrderProcessing, models.OrderCancelled},
		{models.OrderShipped, models.OrderDelivered},
		{models.OrderDelivered, models.OrderCompleted},
		{models.OrderDelivered, models.OrderRefunded},
		{models.OrderCompleted, models.OrderRefunded},
	}
	for _, edge := range legal {
		assert.NoError(t, ValidateTransition(edge[0], edge[1]), "%s to %s", edge[0], edge[1])
	}
}

func TestValidateTransitionRejectsIllegalEdges(t *testing.T) {
	illegal := [][2]string{
		{models.OrderPending, models.OrderShipped},
		{models.OrderPending, models.OrderDelivered},
		{models.OrderShipped, models.OrderCancelled},
		{models.OrderDelivered, models.OrderCancelled},
		{models.OrderCancelled, models.OrderPending},
		{models.OrderRefunded, models.OrderPending},
		{models.OrderConfirmed, models.OrderConfirmed},
	}
	for _, edge := range illegal {
		err := ValidateTransition(edge[0], edge[1])
		require.Error(t, err, "%s to %s", edge[0], edge[1])

		var ite *InvalidTransitionError
		require.True(t, errors.As(err, &ite))
		assert.Equal(t, edge[0], ite.From)
		assert.Equal(t, edge[1], ite.To)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []string{
		models.OrderPending, models.OrderConfirmed, models.OrderProcessing,
		models.OrderShipped, models.OrderDelivered, models.OrderCompleted,
		models.OrderCancelled, models.OrderRefunded,
	}
	for _, to := range all {
		assert.Error(t, ValidateTransition(models.OrderCancelled, to))
		assert.Error(t, ValidateTransition(models.OrderRefunded, to))
	}
}

func TestIsKnownStatus(t *testing.T) {
	assert.True(t, IsKnownStatus(models.OrderPending))
	assert.True(t, IsKnownStatus(models.OrderRefunded))
	assert.False(t, IsKnownStatus("archived"))
	assert.False(t, IsKnownStatus(""))
}

func TestRestoresStock(t *testing.T) {
	assert.True(t, restoresStock(models.OrderPending))
	assert.True(t, restoresStock(models.OrderConfirmed))
	assert.True(t, restoresStock(models.OrderProcessing))
	assert.False(t, restoresStock(models.OrderShipped))
	assert.False(t, restoresStock(models.OrderDelivered))
}
