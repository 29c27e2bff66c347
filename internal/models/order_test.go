package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_CheminNominal(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusProcessing))
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusShipped))
	assert.True(t, CanTransition(OrderStatusShipped, OrderStatusDelivered))
	assert.True(t, CanTransition(OrderStatusDelivered, OrderStatusRefunded))
}

func TestCanTransition_Annulation(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusCancelled))

	// Une commande expédiée ne peut plus être annulée
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusCancelled))
}

func TestCanTransition_RetoursInterdits(t *testing.T) {
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusProcessing))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusPending))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusProcessing))
}

func TestCanTransition_RefundedEstTerminal(t *testing.T) {
	for _, to := range []string{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded,
	} {
		assert.False(t, CanTransition(OrderStatusRefunded, to), "refunded → %s devrait être interdit", to)
	}
}

func TestCanTransition_MemeStatut(t *testing.T) {
	assert.False(t, CanTransition(OrderStatusProcessing, OrderStatusProcessing))
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusPending))
	assert.True(t, ValidOrderStatus(OrderStatusRefunded))
	assert.False(t, ValidOrderStatus("expédiée"))
	assert.False(t, ValidOrderStatus(""))
}

func TestShippingAddress_Complete(t *testing.T) {
	addr := ShippingAddress{Street: "Rue de la Loi 16", City: "Bruxelles", State: "Bruxelles-Capitale", Zip: "1000"}
	assert.True(t, addr.Complete())

	assert.False(t, ShippingAddress{City: "Bruxelles", State: "BXL", Zip: "1000"}.Complete())
	assert.False(t, ShippingAddress{Street: "Rue X", State: "BXL", Zip: "1000"}.Complete())
	assert.False(t, ShippingAddress{Street: "Rue X", City: "Bruxelles", Zip: "1000"}.Complete())
	assert.False(t, ShippingAddress{Street: "Rue X", City: "Bruxelles", State: "BXL"}.Complete())
}
