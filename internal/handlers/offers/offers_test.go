package offers

import (
	"testing"

	"nutriko_back_end/internal/pricing"

	"github.com/stretchr/testify/assert"
)

// Chaque raison de refus doit produire un message distinct: un code
// expiré n'est pas un code inconnu.
func TestOfferErrorMessage_MessagesDistincts(t *testing.T) {
	errs := []error{
		pricing.ErrOfferInactive,
		pricing.ErrOfferNotYetActive,
		pricing.ErrOfferExpired,
		pricing.ErrUsageLimitReached,
		&pricing.BelowMinimumError{Minimum: 75},
		pricing.ErrInvalidCode,
	}

	seen := map[string]bool{}
	for _, err := range errs {
		msg := offerErrorMessage(err)
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "message dupliqué: %q", msg)
		seen[msg] = true
	}
}

func TestOfferErrorMessage_MinimumDansLeMessage(t *testing.T) {
	msg := offerErrorMessage(&pricing.BelowMinimumError{Minimum: 75})
	assert.Contains(t, msg, "75.00")
}

func TestOfferErrorMessage_ExpireVsInvalide(t *testing.T) {
	expired := offerErrorMessage(pricing.ErrOfferExpired)
	invalid := offerErrorMessage(pricing.ErrInvalidCode)

	assert.Contains(t, expired, "expiré")
	assert.NotEqual(t, expired, invalid)
}
