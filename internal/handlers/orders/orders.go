package orders

import (
	"encoding/json"
	"net/http"
	"time"

	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// LoadOrder relit une commande complète (entête + lignes).
func LoadOrder(orderID gocql.UUID) (models.Order, []models.OrderItem, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.Order{}, nil, err
	}

	var o models.Order
	var addressJSON, offerJSON string

	err = session.Query(`SELECT order_id, user_id, status, payment_status, payment_method, payment_intent_id, subtotal, discount, shipping, total, shipping_address, applied_offer, items_count, created_at, updated_at
		FROM orders WHERE order_id = ?`, orderID).Scan(
		&o.ID, &o.UserID, &o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.PaymentIntentID,
		&o.Subtotal, &o.Discount, &o.Shipping, &o.Total, &addressJSON, &offerJSON,
		&o.ItemsCount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return models.Order{}, nil, err
	}

	if addressJSON != "" {
		json.Unmarshal([]byte(addressJSON), &o.ShippingAddress)
	}
	if offerJSON != "" {
		var applied models.AppliedOffer
		if json.Unmarshal([]byte(offerJSON), &applied) == nil {
			o.AppliedOffer = &applied
		}
	}

	iter := session.Query(`SELECT order_id, item_no, product_id, variant_id, name, size, flavor, quantity, unit_price
		FROM order_items WHERE order_id = ?`, orderID).Iter()

	var items []models.OrderItem
	var it models.OrderItem
	for iter.Scan(&it.OrderID, &it.ItemNo, &it.ProductID, &it.VariantID, &it.Name, &it.Size, &it.Flavor, &it.Quantity, &it.UnitPrice) {
		items = append(items, it)
		it = models.OrderItem{}
	}
	if err := iter.Close(); err != nil {
		return models.Order{}, nil, err
	}

	return o, items, nil
}

// 📋 GET /api/orders — commandes de l'utilisateur connecté
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// orders_by_user est clusterisé par created_at DESC: les commandes
	// arrivent déjà de la plus récente à la plus ancienne.
	iter := session.Query(`SELECT order_id, created_at, status, total, items_count FROM orders_by_user WHERE user_id = ?`, userID).Iter()

	type orderSummary struct {
		ID         gocql.UUID `json:"id"`
		CreatedAt  time.Time  `json:"created_at"`
		Status     string     `json:"status"`
		Total      float64    `json:"total"`
		ItemsCount int        `json:"items_count"`
	}

	var summaries []orderSummary
	var s orderSummary

	for iter.Scan(&s.ID, &s.CreatedAt, &s.Status, &s.Total, &s.ItemsCount) {
		summaries = append(summaries, s)
		s = orderSummary{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// 🔎 GET /api/orders/:id — propriétaire ou admin uniquement
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("role")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, items, err := LoadOrder(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if order.UserID != userID && role != "admin" {
		// 404 plutôt que 403: ne pas révéler l'existence de la commande
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": items,
	})
}

// 🧾 GET /api/orders/:id/items — lignes figées au moment de l'achat
func GetOrderItems(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("role")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, items, err := LoadOrder(orderID)
	if err != nil || (order.UserID != userID && role != "admin") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
