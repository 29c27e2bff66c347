package orders

import (
	"errors"
	"net/http"
	"testing"

	"nutriko_back_end/internal/pricing"

	"github.com/stretchr/testify/assert"
)

func TestCheckoutErrorResponse_ErreursMetier(t *testing.T) {
	// Les refus liés au contenu du panier ou au code promo sont des
	// 400 avec un message lisible, jamais des 500.
	for _, err := range []error{
		errProductGone,
		errVariantGone,
		pricing.ErrInvalidCode,
		pricing.ErrOfferExpired,
		pricing.ErrUsageLimitReached,
		&pricing.BelowMinimumError{Minimum: 50},
	} {
		status, msg := checkoutErrorResponse(err)
		assert.Equal(t, http.StatusBadRequest, status, "erreur: %v", err)
		assert.NotEmpty(t, msg)
	}
}

func TestCheckoutErrorResponse_ErreurInconnue(t *testing.T) {
	status, msg := checkoutErrorResponse(errors.New("timeout scylla"))

	assert.Equal(t, http.StatusInternalServerError, status)
	// Le détail technique ne doit pas fuiter vers le client
	assert.NotContains(t, msg, "scylla")
}

func TestCheckoutErrorResponse_MinimumCommande(t *testing.T) {
	_, msg := checkoutErrorResponse(&pricing.BelowMinimumError{Minimum: 50})
	assert.Contains(t, msg, "50.00")
}
