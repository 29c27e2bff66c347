package offers

import (
	"net/http"
	"strings"
	"time"

	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// 📋 GET /api/admin/offers
func ListOffers(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT ` + offerColumns + ` FROM offers`).Iter()

	var offers []models.Offer
	var o models.Offer

	for iter.Scan(&o.ID, &o.Code, &o.Type, &o.Value, &o.MinOrderAmount, &o.MaxDiscount,
		&o.MaxUses, &o.UsedCount, &o.StartsAt, &o.ExpiresAt, &o.IsActive,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt) {
		offers = append(offers, o)
		o = models.Offer{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture offres: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, offers)
}

// ➕ POST /api/admin/offers
func CreateOffer(c *gin.Context) {
	var input struct {
		Code           string     `json:"code" binding:"required"`
		Type           string     `json:"type" binding:"required"`
		Value          float64    `json:"value" binding:"required"`
		MinOrderAmount float64    `json:"min_order_amount"`
		MaxDiscount    *float64   `json:"max_discount"`
		MaxUses        int        `json:"max_uses"`
		StartsAt       *time.Time `json:"starts_at"`
		ExpiresAt      *time.Time `json:"expires_at"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Type != models.OfferTypePercentage && input.Type != models.OfferTypeFixed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type d'offre invalide ('percentage' ou 'fixed')"})
		return
	}
	if input.Value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La valeur doit être positive"})
		return
	}
	if input.Type == models.OfferTypePercentage && input.Value > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Un pourcentage ne peut pas dépasser 100"})
		return
	}
	if input.StartsAt != nil && input.ExpiresAt != nil && input.ExpiresAt.Before(*input.StartsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La date d'expiration précède la date de début"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	offer := models.Offer{
		ID:             gocql.TimeUUID(),
		Code:           strings.ToUpper(strings.TrimSpace(input.Code)),
		Type:           input.Type,
		Value:          input.Value,
		MinOrderAmount: input.MinOrderAmount,
		MaxDiscount:    input.MaxDiscount,
		MaxUses:        input.MaxUses,
		StartsAt:       input.StartsAt,
		ExpiresAt:      input.ExpiresAt,
		IsActive:       true,
		CreatedBy:      c.GetString("user_id"),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// ✅ Unicité du code garantie par la table de lookup (LWT)
	applied, err := session.Query(`INSERT INTO offers_by_code (code, offer_id) VALUES (?, ?) IF NOT EXISTS`,
		offer.Code, offer.ID).MapScanCAS(map[string]interface{}{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création offre: " + err.Error()})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce code promo existe déjà"})
		return
	}

	query := `INSERT INTO offers (` + offerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if err := session.Query(query, offer.ID, offer.Code, offer.Type, offer.Value, offer.MinOrderAmount,
		offer.MaxDiscount, offer.MaxUses, offer.UsedCount, offer.StartsAt, offer.ExpiresAt,
		offer.IsActive, offer.CreatedBy, offer.CreatedAt, offer.UpdatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création offre: " + err.Error()})
		return
	}

	utils.LogAction(c, "offer.create", utils.ResourceOffer, offer.ID.String(), nil, offer)

	c.JSON(http.StatusCreated, offer)
}

// ✏️ PUT /api/admin/offers/:id
// Le code lui-même est immuable; pour changer de code, créer une
// nouvelle offre.
func UpdateOffer(c *gin.Context) {
	offerID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID offre invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existing models.Offer
	q := session.Query(`SELECT `+offerColumns+` FROM offers WHERE offer_id = ?`, offerID)
	if err := scanOffer(q, &existing); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offre introuvable"})
		return
	}

	var input struct {
		Value          *float64   `json:"value"`
		MinOrderAmount *float64   `json:"min_order_amount"`
		MaxDiscount    *float64   `json:"max_discount"`
		MaxUses        *int       `json:"max_uses"`
		StartsAt       *time.Time `json:"starts_at"`
		ExpiresAt      *time.Time `json:"expires_at"`
		IsActive       *bool      `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updated := existing
	if input.Value != nil {
		if *input.Value <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "La valeur doit être positive"})
			return
		}
		if updated.Type == models.OfferTypePercentage && *input.Value > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Un pourcentage ne peut pas dépasser 100"})
			return
		}
		updated.Value = *input.Value
	}
	if input.MinOrderAmount != nil {
		updated.MinOrderAmount = *input.MinOrderAmount
	}
	if input.MaxDiscount != nil {
		updated.MaxDiscount = input.MaxDiscount
	}
	if input.MaxUses != nil {
		updated.MaxUses = *input.MaxUses
	}
	if input.StartsAt != nil {
		updated.StartsAt = input.StartsAt
	}
	if input.ExpiresAt != nil {
		updated.ExpiresAt = input.ExpiresAt
	}
	if input.IsActive != nil {
		updated.IsActive = *input.IsActive
	}
	updated.UpdatedAt = time.Now()

	query := `UPDATE offers SET value = ?, min_order_amount = ?, max_discount = ?, max_uses = ?, starts_at = ?, expires_at = ?, is_active = ?, updated_at = ? WHERE offer_id = ?`
	if err := session.Query(query, updated.Value, updated.MinOrderAmount, updated.MaxDiscount,
		updated.MaxUses, updated.StartsAt, updated.ExpiresAt, updated.IsActive,
		updated.UpdatedAt, offerID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour offre: " + err.Error()})
		return
	}

	utils.LogAction(c, "offer.update", utils.ResourceOffer, offerID.String(), existing, updated)

	c.JSON(http.StatusOK, updated)
}

// 🗑️ DELETE /api/admin/offers/:id
// Désactivation: l'historique d'utilisation et les commandes passées
// gardent leur instantané.
func DeleteOffer(c *gin.Context) {
	offerID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID offre invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existing models.Offer
	q := session.Query(`SELECT `+offerColumns+` FROM offers WHERE offer_id = ?`, offerID)
	if err := scanOffer(q, &existing); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offre introuvable"})
		return
	}

	if err := session.Query(`UPDATE offers SET is_active = false, updated_at = ? WHERE offer_id = ?`,
		time.Now(), offerID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression offre: " + err.Error()})
		return
	}

	utils.LogAction(c, "offer.delete", utils.ResourceOffer, offerID.String(), existing, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Offre désactivée"})
}
