package pricing

import (
	"testing"

	"nutriko_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestUnitPrice_VariantSalePriceWins(t *testing.T) {
	p := models.Product{Price: 30, SalePrice: f(25)}
	v := &models.ProductVariant{Price: 20, SalePrice: f(17.5)}

	assert.Equal(t, 17.5, UnitPrice(p, v))
}

func TestUnitPrice_VariantWithoutSalePrice(t *testing.T) {
	p := models.Product{Price: 30, SalePrice: f(25)}
	v := &models.ProductVariant{Price: 20}

	assert.Equal(t, 20.0, UnitPrice(p, v))
}

func TestUnitPrice_ProductFallback(t *testing.T) {
	p := models.Product{Price: 30}

	assert.Equal(t, 30.0, UnitPrice(p, nil))

	p.SalePrice = f(25)
	assert.Equal(t, 25.0, UnitPrice(p, nil))
}

func TestUnitPrice_ZeroSalePriceIgnored(t *testing.T) {
	p := models.Product{Price: 30, SalePrice: f(0)}

	assert.Equal(t, 30.0, UnitPrice(p, nil))
}

func TestSubtotal(t *testing.T) {
	lines := []Line{
		{Quantity: 2, UnitPrice: 19.90},
		{Quantity: 1, UnitPrice: 45.00},
	}

	assert.InDelta(t, 84.80, Subtotal(lines), 0.0001)
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestShipping_FreeAboveThreshold(t *testing.T) {
	assert.Equal(t, 0.0, Shipping(50, DefaultFreeShippingThreshold, DefaultShippingFlatFee))
	assert.Equal(t, 0.0, Shipping(120, DefaultFreeShippingThreshold, DefaultShippingFlatFee))
	assert.Equal(t, DefaultShippingFlatFee, Shipping(49.99, DefaultFreeShippingThreshold, DefaultShippingFlatFee))
}

func TestFinalTotal_NeverNegative(t *testing.T) {
	assert.Equal(t, 0.0, FinalTotal(30, 50, 0))
	assert.InDelta(t, 34.90, FinalTotal(40, 10, 4.90), 0.0001)
}

func TestCents_ArrondiAuPlusProche(t *testing.T) {
	// 4.35 n'est pas représentable exactement: 4.35*100 = 434.999...,
	// la troncature facturerait un centime de moins.
	assert.Equal(t, int64(435), Cents(4.35))
	assert.Equal(t, int64(490), Cents(4.90))
	assert.Equal(t, int64(5000), Cents(50))
	assert.Equal(t, int64(0), Cents(0))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(84.80, 84.8000001))
	assert.True(t, WithinTolerance(84.79, 84.80))
	assert.False(t, WithinTolerance(84.00, 84.80))
}

// Le total persisté doit rester reproductible à partir des lignes
// figées, indépendamment des changements ultérieurs du catalogue.
func TestTotals_RoundTripFromFrozenItems(t *testing.T) {
	items := []models.OrderItem{
		{Quantity: 2, UnitPrice: 19.90},
		{Quantity: 3, UnitPrice: 12.50},
	}

	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}

	subtotal := Subtotal(lines)
	require.InDelta(t, 77.30, subtotal, 0.0001)

	shipping := Shipping(subtotal, DefaultFreeShippingThreshold, DefaultShippingFlatFee)
	total := FinalTotal(subtotal, 10, shipping)

	// recalcul indépendant
	recomputed := FinalTotal(Subtotal(lines), 10, Shipping(Subtotal(lines), DefaultFreeShippingThreshold, DefaultShippingFlatFee))
	assert.Equal(t, total, recomputed)
}
