package utils

import (
	"testing"

	"nutriko_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func confirmationFixture() (models.Order, []models.OrderItem) {
	discount := 10.0
	order := models.Order{
		Subtotal: 60,
		Discount: discount,
		Shipping: 0,
		Total:    50,
		AppliedOffer: &models.AppliedOffer{
			Code:           "BIENVENUE10",
			DiscountAmount: discount,
		},
		ShippingAddress: models.ShippingAddress{
			Street: "Rue de la Loi 16",
			City:   "Bruxelles",
			Zip:    "1000",
		},
	}
	items := []models.OrderItem{
		{Name: "Whey Isolate", Size: "1 kg", Flavor: "vanille", Quantity: 2, UnitPrice: 30},
	}
	return order, items
}

func TestGenerateOrderConfirmationHTML(t *testing.T) {
	order, items := confirmationFixture()

	html := GenerateOrderConfirmationHTML(order, items)

	assert.Contains(t, html, "Whey Isolate — 1 kg vanille")
	assert.Contains(t, html, "BIENVENUE10")
	assert.Contains(t, html, "-10.00€")
	assert.Contains(t, html, "50.00€")
	assert.Contains(t, html, "Bruxelles")
}

func TestGenerateOrderConfirmationHTML_SansReduction(t *testing.T) {
	order, items := confirmationFixture()
	order.AppliedOffer = nil
	order.Discount = 0
	order.Total = 60

	html := GenerateOrderConfirmationHTML(order, items)

	assert.NotContains(t, html, "BIENVENUE10")
	assert.Contains(t, html, "60.00€")
}

func TestStatusEmail_SujetsParStatut(t *testing.T) {
	// Chaque statut notifiable doit avoir son propre sujet
	seen := map[string]bool{}
	for _, status := range []string{
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusRefunded,
	} {
		subject := getStatusEmailSubject(status)
		assert.NotEmpty(t, subject)
		assert.False(t, seen[subject], "sujet dupliqué pour %s", status)
		seen[subject] = true
	}
}
