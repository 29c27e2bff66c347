package pricing

import (
	"testing"
	"time"

	"nutriko_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeOffer(typ string, value float64) models.Offer {
	return models.Offer{
		ID:       gocql.TimeUUID(),
		Code:     "PROMO",
		Type:     typ,
		Value:    value,
		IsActive: true,
	}
}

func TestEvaluateOffer_Percentage(t *testing.T) {
	offer := activeOffer(models.OfferTypePercentage, 20)

	res, err := EvaluateOffer(offer, 1000, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 200.0, res.DiscountAmount)
	assert.Equal(t, 800.0, res.FinalTotal)
	assert.Equal(t, "PROMO", res.Offer.Code)
	assert.Equal(t, 200.0, res.Offer.DiscountAmount)
}

func TestEvaluateOffer_FixedClampedToSubtotal(t *testing.T) {
	offer := activeOffer(models.OfferTypeFixed, 50)

	res, err := EvaluateOffer(offer, 30, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 30.0, res.DiscountAmount)
	assert.Equal(t, 0.0, res.FinalTotal)
}

func TestEvaluateOffer_DiscountNeverExceedsSubtotal(t *testing.T) {
	subtotals := []float64{0, 1, 29.99, 100, 12345.67}
	offers := []models.Offer{
		activeOffer(models.OfferTypePercentage, 100),
		activeOffer(models.OfferTypeFixed, 99999),
		activeOffer(models.OfferTypePercentage, 7.5),
	}

	for _, offer := range offers {
		for _, st := range subtotals {
			res, err := EvaluateOffer(offer, st, time.Now())
			require.NoError(t, err)
			assert.LessOrEqual(t, res.DiscountAmount, st)
			assert.GreaterOrEqual(t, res.FinalTotal, 0.0)
		}
	}
}

func TestEvaluateOffer_MaxDiscountCap(t *testing.T) {
	offer := activeOffer(models.OfferTypePercentage, 50)
	offer.MaxDiscount = f(100)

	res, err := EvaluateOffer(offer, 1000, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 100.0, res.DiscountAmount)
}

func TestEvaluateOffer_Inactive(t *testing.T) {
	offer := activeOffer(models.OfferTypeFixed, 10)
	offer.IsActive = false

	_, err := EvaluateOffer(offer, 100, time.Now())

	assert.ErrorIs(t, err, ErrOfferInactive)
}

func TestEvaluateOffer_ExpiredIsNotInvalidCode(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	offer := activeOffer(models.OfferTypePercentage, 10)
	offer.ExpiresAt = &past

	_, err := EvaluateOffer(offer, 100, time.Now())

	assert.ErrorIs(t, err, ErrOfferExpired)
	assert.NotErrorIs(t, err, ErrInvalidCode)
}

func TestEvaluateOffer_NotYetActive(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	offer := activeOffer(models.OfferTypePercentage, 10)
	offer.StartsAt = &future

	_, err := EvaluateOffer(offer, 100, time.Now())

	assert.ErrorIs(t, err, ErrOfferNotYetActive)
}

func TestEvaluateOffer_BelowMinimumCarriesAmount(t *testing.T) {
	offer := activeOffer(models.OfferTypeFixed, 5)
	offer.MinOrderAmount = 75

	_, err := EvaluateOffer(offer, 50, time.Now())

	var belowMin *BelowMinimumError
	require.ErrorAs(t, err, &belowMin)
	assert.Equal(t, 75.0, belowMin.Minimum)
	assert.Contains(t, err.Error(), "75.00")
}

func TestEvaluateOffer_UsageLimit(t *testing.T) {
	offer := activeOffer(models.OfferTypeFixed, 5)
	offer.MaxUses = 10
	offer.UsedCount = 10

	_, err := EvaluateOffer(offer, 100, time.Now())
	assert.ErrorIs(t, err, ErrUsageLimitReached)

	// 0 = illimité
	offer.MaxUses = 0
	offer.UsedCount = 100000
	_, err = EvaluateOffer(offer, 100, time.Now())
	assert.NoError(t, err)
}

func TestEvaluateOffer_UnknownType(t *testing.T) {
	offer := activeOffer("free_shipping", 0)

	_, err := EvaluateOffer(offer, 100, time.Now())

	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestEvaluateOffer_NoSideEffects(t *testing.T) {
	offer := activeOffer(models.OfferTypePercentage, 20)
	offer.MaxUses = 5
	offer.UsedCount = 2

	_, err := EvaluateOffer(offer, 100, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 2, offer.UsedCount)
}
