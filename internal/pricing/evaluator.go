package pricing

import (
	"errors"
	"fmt"
	"time"

	"nutriko_back_end/internal/models"
)

// Erreurs d'éligibilité d'un code promo. Chaque cas est distinct pour
// que le client affiche le bon message (un code expiré n'est pas un
// code inconnu).
var (
	ErrInvalidCode       = errors.New("code promo invalide")
	ErrOfferInactive     = errors.New("ce code promo n'est plus actif")
	ErrOfferNotYetActive = errors.New("ce code promo n'est pas encore valide")
	ErrOfferExpired      = errors.New("ce code promo a expiré")
	ErrUsageLimitReached = errors.New("ce code promo a atteint sa limite d'utilisation")
)

// BelowMinimumError porte le montant minimum exigé, pour que le
// message utilisateur l'affiche.
type BelowMinimumError struct {
	Minimum float64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("montant minimum requis: %.2f€", e.Minimum)
}

// OfferResult est le résultat d'une évaluation réussie.
type OfferResult struct {
	Offer          models.AppliedOffer `json:"offer"`
	DiscountAmount float64             `json:"discount_amount"`
	FinalTotal     float64             `json:"final_total"`
}

// EvaluateOffer valide l'éligibilité d'une offre pour un sous-total
// donné et calcule la réduction. Aucun effet de bord : les compteurs
// d'utilisation ne bougent qu'à l'application, au checkout.
//
// Politique unique de limite d'utilisation : max_uses est vérifié ici,
// à la validation, et l'application est enregistrée de façon
// idempotente (offer_usage, IF NOT EXISTS).
func EvaluateOffer(offer models.Offer, subtotal float64, now time.Time) (OfferResult, error) {
	if !offer.IsActive {
		return OfferResult{}, ErrOfferInactive
	}
	if offer.StartsAt != nil && now.Before(*offer.StartsAt) {
		return OfferResult{}, ErrOfferNotYetActive
	}
	if offer.ExpiresAt != nil && now.After(*offer.ExpiresAt) {
		return OfferResult{}, ErrOfferExpired
	}
	if offer.MaxUses > 0 && offer.UsedCount >= offer.MaxUses {
		return OfferResult{}, ErrUsageLimitReached
	}
	if subtotal < offer.MinOrderAmount {
		return OfferResult{}, &BelowMinimumError{Minimum: offer.MinOrderAmount}
	}

	var discount float64
	switch offer.Type {
	case models.OfferTypePercentage:
		discount = subtotal * offer.Value / 100
		if offer.MaxDiscount != nil && discount > *offer.MaxDiscount {
			discount = *offer.MaxDiscount
		}
	case models.OfferTypeFixed:
		discount = offer.Value
	default:
		return OfferResult{}, ErrInvalidCode
	}

	// La réduction ne dépasse jamais le sous-total : la commande ne
	// peut être ni négative ni remboursée au-delà de 100%.
	if discount > subtotal {
		discount = subtotal
	}

	return OfferResult{
		Offer: models.AppliedOffer{
			ID:             offer.ID,
			Code:           offer.Code,
			Type:           offer.Type,
			Value:          offer.Value,
			DiscountAmount: discount,
		},
		DiscountAmount: discount,
		FinalTotal:     subtotal - discount,
	}, nil
}
