package orders

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"nutriko_back_end/internal/cache"
	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// 📋 GET /api/admin/orders — toutes les commandes, filtre ?status=
func ListAllOrders(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	statusFilter := c.Query("status")
	if statusFilter != "" && !models.ValidOrderStatus(statusFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu"})
		return
	}

	iter := session.Query(`SELECT order_id, user_id, status, payment_status, payment_method, subtotal, discount, shipping, total, applied_offer, items_count, created_at, updated_at FROM orders`).Iter()

	var list []models.Order
	var o models.Order
	var offerJSON string

	for iter.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.Subtotal, &o.Discount, &o.Shipping, &o.Total, &offerJSON,
		&o.ItemsCount, &o.CreatedAt, &o.UpdatedAt) {
		if statusFilter == "" || o.Status == statusFilter {
			if offerJSON != "" {
				var applied models.AppliedOffer
				if json.Unmarshal([]byte(offerJSON), &applied) == nil {
					o.AppliedOffer = &applied
				}
			}
			list = append(list, o)
		}
		o = models.Order{}
		offerJSON = ""
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list, "total": len(list)})
}

// 🚚 PUT /api/admin/orders/:id/status
// Body: {"status": "shipped"}
// Seules les transitions de la machine à états sont autorisées.
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ 'status' manquant"})
		return
	}

	if !models.ValidOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu: " + input.Status})
		return
	}

	order, _, err := LoadOrder(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if !models.CanTransition(order.Status, input.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Transition non autorisée: " + order.Status + " → " + input.Status,
		})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	batch := session.NewBatch(gocql.LoggedBatch)
	batch.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`, input.Status, now, orderID)
	batch.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ? AND order_id = ?`,
		input.Status, order.UserID, order.CreatedAt, orderID)

	if err := session.ExecuteBatch(batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut: " + err.Error()})
		return
	}

	utils.LogAction(c, "order.status_change", utils.ResourceOrder, orderID.String(), order.Status, input.Status)

	// 📧 Email de suivi asynchrone
	previous := order.Status
	order.Status = input.Status
	go func() {
		user, err := cache.GetUserFromCache(order.UserID)
		if err != nil {
			log.Printf("⚠️ Email utilisateur introuvable pour la commande %s", orderID)
			return
		}
		if err := utils.SendOrderStatusEmail(order, user.Email, input.Status); err != nil {
			log.Printf("❌ Erreur envoi email statut commande %s: %v", orderID, err)
		}
	}()

	log.Printf("🚚 Commande %s: %s → %s", orderID, previous, input.Status)

	c.JSON(http.StatusOK, gin.H{
		"message": "Statut mis à jour",
		"order":   order,
	})
}

// 🧾 GET /api/orders/:id/invoice — facture PDF (propriétaire ou admin)
func DownloadInvoice(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("role")

	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, _, err := LoadOrder(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if order.UserID != userID && role != "admin" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	pdf, err := utils.GenerateInvoicePDF(order)
	if err != nil {
		log.Printf("❌ Erreur génération facture %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération facture"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="facture-`+orderID.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
