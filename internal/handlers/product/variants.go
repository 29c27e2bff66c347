package product

import (
	"net/http"
	"time"

	"nutriko_back_end/internal/cache"
	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// 📏 GET /api/products/:id/variants
func GetProductVariants(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	variants, err := cache.GetVariants(productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture variantes"})
		return
	}

	c.JSON(http.StatusOK, variants)
}

// ➕ POST /api/admin/products/:id/variants
func CreateVariant(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	if _, err := cache.GetProduct(productID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	var v models.ProductVariant
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if v.Size == "" || v.Unit == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs 'size' et 'unit' sont obligatoires"})
		return
	}
	if v.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix ne peut pas être négatif"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	v.ID = gocql.TimeUUID()
	v.ProductID = productID
	v.IsActive = true
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now

	// La clé primaire ((product_id), size, unit, flavor) garantit
	// l'unicité de la déclinaison; IF NOT EXISTS rejette le doublon
	// au lieu de l'écraser silencieusement.
	applied, err := session.Query(`INSERT INTO product_variants (product_id, size, unit, flavor, id, price, sale_price, stock, sku, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS`,
		productID, v.Size, v.Unit, v.Flavor, v.ID, v.Price, v.SalePrice, v.Stock, v.SKU,
		v.IsActive, v.CreatedAt, v.UpdatedAt).MapScanCAS(map[string]interface{}{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création variante: " + err.Error()})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Cette déclinaison (taille, unité, arôme) existe déjà"})
		return
	}

	// Le produit porte désormais des variantes
	if err := session.Query(`UPDATE products SET has_variants = true, updated_at = ? WHERE product_id = ?`,
		now, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit: " + err.Error()})
		return
	}

	cache.InvalidateProduct(productID)

	utils.LogAction(c, "variant.create", utils.ResourceVariant, v.ID.String(), nil, v)

	c.JSON(http.StatusCreated, v)
}

// ✏️ PUT /api/admin/products/:id/variants/:variantId
// Seuls prix, promo, stock, SKU et activation sont mutables.
// Changer (size, unit, flavor) = supprimer puis recréer.
func UpdateVariant(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	variantID, err := gocql.ParseUUID(c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante invalide"})
		return
	}

	existing, err := cache.FindVariant(productID, variantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
		return
	}

	var input struct {
		Price     *float64 `json:"price"`
		SalePrice *float64 `json:"sale_price"`
		Stock     *int     `json:"stock"`
		SKU       *string  `json:"sku"`
		IsActive  *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updated := *existing
	if input.Price != nil {
		if *input.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix ne peut pas être négatif"})
			return
		}
		updated.Price = *input.Price
	}
	if input.SalePrice != nil {
		if *input.SalePrice <= 0 {
			updated.SalePrice = nil
		} else {
			updated.SalePrice = input.SalePrice
		}
	}
	if input.Stock != nil {
		updated.Stock = *input.Stock
	}
	if input.SKU != nil {
		updated.SKU = *input.SKU
	}
	if input.IsActive != nil {
		updated.IsActive = *input.IsActive
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	updated.UpdatedAt = time.Now()

	if err := session.Query(`UPDATE product_variants SET price = ?, sale_price = ?, stock = ?, sku = ?, is_active = ?, updated_at = ? WHERE product_id = ? AND size = ? AND unit = ? AND flavor = ?`,
		updated.Price, updated.SalePrice, updated.Stock, updated.SKU, updated.IsActive, updated.UpdatedAt,
		productID, existing.Size, existing.Unit, existing.Flavor).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour variante: " + err.Error()})
		return
	}

	cache.InvalidateProduct(productID)

	utils.LogAction(c, "variant.update", utils.ResourceVariant, variantID.String(), existing, updated)

	c.JSON(http.StatusOK, updated)
}

// 🗑️ DELETE /api/admin/products/:id/variants/:variantId
func DeleteVariant(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	variantID, err := gocql.ParseUUID(c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante invalide"})
		return
	}

	existing, err := cache.FindVariant(productID, variantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM product_variants WHERE product_id = ? AND size = ? AND unit = ? AND flavor = ?`,
		productID, existing.Size, existing.Unit, existing.Flavor).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression variante: " + err.Error()})
		return
	}

	cache.InvalidateProduct(productID)

	// Dernière variante supprimée → le produit redevient simple
	remaining, err := cache.GetVariants(productID)
	if err == nil && len(remaining) == 0 {
		session.Query(`UPDATE products SET has_variants = false, updated_at = ? WHERE product_id = ?`,
			time.Now(), productID).Exec()
	}

	utils.LogAction(c, "variant.delete", utils.ResourceVariant, variantID.String(), existing, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Variante supprimée"})
}
