package cart

import (
	"context"
	"log"
	"net/http"
	"time"

	"nutriko_back_end/internal/cache"
	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// La clé primaire de cart_items est ((user_id), product_id, variant_id):
// une seule ligne peut exister par tuple, l'ajout concurrent du même
// produit ne peut pas créer de doublon.

// 🛒 GET /api/cart
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	items, err := LoadCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	lines, subtotal, err := JoinCatalog(items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    lines,
		"count":    len(lines),
		"subtotal": subtotal,
	})
}

// 🟢 POST /api/cart
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		ProductID string `json:"productId" binding:"required"`
		VariantID string `json:"variantId"`
		Size      string `json:"size"`
		Flavor    string `json:"flavor"`
		Quantity  int    `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	parsed, err := uuid.Parse(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}
	productID := gocql.UUID(parsed)

	// 🧩 Le produit doit exister et être actif
	product, err := cache.GetProduct(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if !product.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Produit indisponible"})
		return
	}

	// L'absence de variante ne matche que l'absence : un produit à
	// variantes exige un variantId explicite, ou un couple
	// (size, flavor) résolu sur le catalogue.
	variantID := models.NoVariant
	if input.VariantID != "" {
		parsedVariant, err := uuid.Parse(input.VariantID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante invalide"})
			return
		}
		variantID = gocql.UUID(parsedVariant)
		if _, err := cache.FindVariant(productID, variantID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
			return
		}
	} else if input.Size != "" {
		variants, err := cache.GetVariants(productID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture variantes"})
			return
		}
		resolved := pricing.ResolveVariant(variants, input.Size, input.Flavor)
		if resolved == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Aucune variante (taille, arôme) correspondante"})
			return
		}
		variantID = resolved.ID
	} else if product.HasVariants {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ce produit requiert une variante"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()

	// 🔁 Ligne existante pour le tuple exact → on incrémente
	var existing models.CartItem
	err = session.Query(`SELECT item_id, quantity, added_at FROM cart_items WHERE user_id = ? AND product_id = ? AND variant_id = ?`,
		userID, productID, variantID).Scan(&existing.ItemID, &existing.Quantity, &existing.AddedAt)

	item, merged := mergeLine(existing, err == nil, userID, productID, variantID, input.Quantity, now)

	if merged {
		if err := session.Query(`UPDATE cart_items SET quantity = ?, updated_at = ? WHERE user_id = ? AND product_id = ? AND variant_id = ?`,
			item.Quantity, now, userID, productID, variantID).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour panier"})
			return
		}
	} else {
		if err := session.Query(`INSERT INTO cart_items (user_id, product_id, variant_id, item_id, quantity, added_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			userID, productID, variantID, item.ItemID, item.Quantity, now, now).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout panier"})
			return
		}
	}

	PublishCartEvent(userID, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit ajouté au panier",
		"item":    item,
	})
}

// ✏️ PUT /api/cart/:id
func UpdateQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	itemID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	item, found, err := findItem(userID, itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable dans le panier"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Politique documentée : quantité ≤ 0 = suppression de la ligne
	if input.Quantity <= 0 {
		if err := session.Query(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ? AND variant_id = ?`,
			userID, item.ProductID, item.VariantID).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression article"})
			return
		}

		PublishCartEvent(userID, "updated")
		c.JSON(http.StatusOK, gin.H{"message": "Article supprimé du panier"})
		return
	}

	if err := session.Query(`UPDATE cart_items SET quantity = ?, updated_at = ? WHERE user_id = ? AND product_id = ? AND variant_id = ?`,
		input.Quantity, time.Now(), userID, item.ProductID, item.VariantID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour quantité"})
		return
	}

	item.Quantity = input.Quantity
	PublishCartEvent(userID, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Quantité mise à jour",
		"item":    item,
	})
}

// ❌ DELETE /api/cart/:id
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	itemID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	item, found, err := findItem(userID, itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable dans le panier"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ? AND variant_id = ?`,
		userID, item.ProductID, item.VariantID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression article"})
		return
	}

	PublishCartEvent(userID, "updated")

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé du panier"})
}

// 🧹 DELETE /api/cart
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM cart_items WHERE user_id = ?`, userID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}

	PublishCartEvent(userID, "cleared")

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
}

// mergeLine calcule la ligne à écrire pour un ajout au panier : si le
// tuple (produit, variante) existe déjà, les quantités s'additionnent
// sur la ligne existante (item_id et added_at conservés), sinon une
// ligne neuve est créée. Le booléen retourné indique la fusion.
func mergeLine(existing models.CartItem, found bool, userID string, productID, variantID gocql.UUID, quantity int, now time.Time) (models.CartItem, bool) {
	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		UpdatedAt: now,
	}

	if found {
		item.ItemID = existing.ItemID
		item.Quantity = existing.Quantity + quantity
		item.AddedAt = existing.AddedAt
		return item, true
	}

	item.ItemID = gocql.TimeUUID()
	item.Quantity = quantity
	item.AddedAt = now
	return item, false
}

// =============================================
// HELPERS PARTAGÉS (checkout, websocket)
// =============================================

// LoadCart lit toutes les lignes du panier d'un utilisateur.
func LoadCart(userID string) ([]models.CartItem, error) {
	q, err := database.QueryCartByUser(userID)
	if err != nil {
		return nil, err
	}
	iter := q.Iter()
	defer iter.Close()

	var items []models.CartItem
	var it models.CartItem
	for iter.Scan(&it.ItemID, &it.UserID, &it.ProductID, &it.VariantID, &it.Quantity, &it.AddedAt, &it.UpdatedAt) {
		items = append(items, it)
		it = models.CartItem{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

// JoinCatalog enrichit les lignes du panier avec les données
// catalogue courantes. Jointure à la lecture : le prix affiché suit le
// catalogue jusqu'au checkout, qui le fige.
func JoinCatalog(items []models.CartItem) ([]models.CartLine, float64, error) {
	lines := make([]models.CartLine, 0, len(items))
	var subtotal float64

	for _, it := range items {
		product, err := cache.GetProduct(it.ProductID)
		if err != nil {
			// Produit supprimé du catalogue : la ligne est ignorée
			log.Printf("⚠️ Produit %s introuvable pour la ligne panier %s", it.ProductID, it.ItemID)
			continue
		}

		line := models.CartLine{
			ItemID:     it.ItemID,
			ProductID:  it.ProductID,
			Name:       product.Name,
			Quantity:   it.Quantity,
			HasVariant: it.HasVariant(),
		}
		if len(product.ImageURLs) > 0 {
			line.ImageURL = product.ImageURLs[0]
		}

		var variant *models.ProductVariant
		if it.HasVariant() {
			variant, err = cache.FindVariant(it.ProductID, it.VariantID)
			if err != nil {
				log.Printf("⚠️ Variante %s introuvable pour la ligne panier %s", it.VariantID, it.ItemID)
				continue
			}
			line.VariantID = it.VariantID
			line.Size = variant.Size
			line.Unit = variant.Unit
			line.Flavor = variant.Flavor
			line.Stock = variant.Stock
		} else {
			line.Stock = 0
		}

		line.UnitPrice = pricing.UnitPrice(*product, variant)
		line.LineTotal = line.UnitPrice * float64(it.Quantity)
		subtotal += line.LineTotal

		lines = append(lines, line)
	}

	return lines, subtotal, nil
}

// findItem retrouve une ligne par item_id dans la partition de
// l'utilisateur (un panier compte une poignée de lignes).
func findItem(userID string, itemID gocql.UUID) (models.CartItem, bool, error) {
	items, err := LoadCart(userID)
	if err != nil {
		return models.CartItem{}, false, err
	}
	for _, it := range items {
		if it.ItemID == itemID {
			return it, true, nil
		}
	}
	return models.CartItem{}, false, nil
}

// PublishCartEvent notifie les websockets du user d'un changement.
func PublishCartEvent(userID, event string) {
	if err := database.Redis.Publish(context.Background(), "cart:"+userID, event).Err(); err != nil {
		log.Printf("⚠️ Erreur publication événement panier: %v", err)
	}
}
