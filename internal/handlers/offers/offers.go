package offers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

const offerColumns = `offer_id, code, type, value, min_order_amount, max_discount, max_uses, used_count, starts_at, expires_at, is_active, created_by, created_at, updated_at`

func scanOffer(scanner interface {
	Scan(...interface{}) error
}, o *models.Offer) error {
	return scanner.Scan(&o.ID, &o.Code, &o.Type, &o.Value, &o.MinOrderAmount, &o.MaxDiscount,
		&o.MaxUses, &o.UsedCount, &o.StartsAt, &o.ExpiresAt, &o.IsActive,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
}

// FindOfferByCode retrouve une offre via la table de lookup
// offers_by_code (codes stockés en majuscules).
func FindOfferByCode(code string) (models.Offer, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.Offer{}, err
	}

	var offerID gocql.UUID
	if err := session.Query(`SELECT offer_id FROM offers_by_code WHERE code = ?`,
		strings.ToUpper(strings.TrimSpace(code))).Scan(&offerID); err != nil {
		return models.Offer{}, pricing.ErrInvalidCode
	}

	var o models.Offer
	q := session.Query(`SELECT `+offerColumns+` FROM offers WHERE offer_id = ?`, offerID)
	if err := scanOffer(q, &o); err != nil {
		return models.Offer{}, pricing.ErrInvalidCode
	}
	return o, nil
}

// 🎟️ POST /api/validate-offer-code-new
// Body: {"code": "...", "cartTotal": 123.45}
// Évaluation pure: aucun compteur n'est incrémenté ici.
func ValidateOfferCode(c *gin.Context) {
	var input struct {
		Code      string  `json:"code" binding:"required"`
		CartTotal float64 `json:"cartTotal"`
		Subtotal  float64 `json:"subtotal"` // ancien nom de champ, toujours accepté
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ 'code' manquant"})
		return
	}

	total := input.CartTotal
	if total == 0 {
		total = input.Subtotal
	}

	offer, err := FindOfferByCode(input.Code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"valid": false, "error": "Code promo invalide"})
		return
	}

	result, err := pricing.EvaluateOffer(offer, total, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": offerErrorMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":           true,
		"offer":           result.Offer,
		"discount_amount": result.DiscountAmount,
		"final_total":     result.FinalTotal,
	})
}

// offerErrorMessage traduit chaque raison de refus en message client
// distinct: un code expiré n'est pas un code inconnu.
func offerErrorMessage(err error) string {
	var belowMin *pricing.BelowMinimumError
	switch {
	case errors.As(err, &belowMin):
		return belowMin.Error()
	case errors.Is(err, pricing.ErrOfferInactive):
		return "Ce code promo n'est plus actif"
	case errors.Is(err, pricing.ErrOfferNotYetActive):
		return "Ce code promo n'est pas encore actif"
	case errors.Is(err, pricing.ErrOfferExpired):
		return "Ce code promo a expiré"
	case errors.Is(err, pricing.ErrUsageLimitReached):
		return "Ce code promo a atteint sa limite d'utilisation"
	default:
		return "Code promo invalide"
	}
}

// RecordOfferUsage enregistre l'application d'une offre à une commande
// de façon idempotente: la clé ((offer_id), order_id) + IF NOT EXISTS
// garantit qu'un retry de checkout ne compte jamais double.
func RecordOfferUsage(offer models.Offer, orderID gocql.UUID, userID string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	applied, err := session.Query(`INSERT INTO offer_usage (offer_id, order_id, user_id, used_at) VALUES (?, ?, ?, ?) IF NOT EXISTS`,
		offer.ID, orderID, userID, time.Now()).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return err
	}
	if !applied {
		// Déjà enregistré pour cette commande: rien à faire
		return nil
	}

	// Le compteur s'incrémente par compare-and-set relu à chaque essai:
	// deux commandes simultanées ne peuvent pas écraser l'incrément
	// l'une de l'autre.
	_, err = casIncrement(
		func() (int, error) {
			var count int
			err := session.Query(`SELECT used_count FROM offers WHERE offer_id = ?`, offer.ID).Scan(&count)
			return count, err
		},
		func(current, next int) (bool, error) {
			return session.Query(`UPDATE offers SET used_count = ?, updated_at = ? WHERE offer_id = ? IF used_count = ?`,
				next, time.Now(), offer.ID, current).MapScanCAS(map[string]interface{}{})
		},
	)
	return err
}

// maxCounterRetries borne le nombre d'essais du compare-and-set sur
// used_count avant d'abandonner.
const maxCounterRetries = 5

var errCounterContention = errors.New("compteur d'utilisation trop disputé, incrément abandonné")

// casIncrement relit la valeur courante puis tente d'écrire current+1
// conditionné à la valeur lue, jusqu'à succès ou épuisement des essais.
func casIncrement(read func() (int, error), cas func(current, next int) (bool, error)) (int, error) {
	for attempt := 0; attempt < maxCounterRetries; attempt++ {
		current, err := read()
		if err != nil {
			return 0, err
		}
		ok, err := cas(current, current+1)
		if err != nil {
			return 0, err
		}
		if ok {
			return current + 1, nil
		}
	}
	return 0, errCounterContention
}
