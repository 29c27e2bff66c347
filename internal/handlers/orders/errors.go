package orders

import (
	"errors"
	"net/http"

	"nutriko_back_end/internal/pricing"
)

var (
	errProductGone = errors.New("un produit du panier n'est plus disponible")
	errVariantGone = errors.New("une variante du panier n'est plus disponible")
)

// checkoutErrorResponse mappe chaque échec de tarification sur un
// statut HTTP et un message client distinct.
func checkoutErrorResponse(err error) (int, string) {
	var belowMin *pricing.BelowMinimumError
	switch {
	case errors.Is(err, errProductGone), errors.Is(err, errVariantGone):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, pricing.ErrInvalidCode):
		return http.StatusBadRequest, "Code promo invalide"
	case errors.Is(err, pricing.ErrOfferInactive):
		return http.StatusBadRequest, "Ce code promo n'est plus actif"
	case errors.Is(err, pricing.ErrOfferNotYetActive):
		return http.StatusBadRequest, "Ce code promo n'est pas encore actif"
	case errors.Is(err, pricing.ErrOfferExpired):
		return http.StatusBadRequest, "Ce code promo a expiré"
	case errors.Is(err, pricing.ErrUsageLimitReached):
		return http.StatusBadRequest, "Ce code promo a atteint sa limite d'utilisation"
	case errors.As(err, &belowMin):
		return http.StatusBadRequest, belowMin.Error()
	default:
		return http.StatusInternalServerError, "Erreur lors du calcul de la commande"
	}
}
