package product

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"nutriko_back_end/internal/cache"
	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/services"
	"nutriko_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify dérive un slug URL à partir du nom du produit.
func Slugify(name string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// ➕ POST /api/admin/products
func CreateProduct(c *gin.Context) {
	var p models.Product

	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if p.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}
	if p.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix ne peut pas être négatif"})
		return
	}
	if p.CategoryID == (gocql.UUID{}) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'category_id' est obligatoire"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// ✅ Vérifie la catégorie
	var categoryName string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, p.CategoryID).Scan(&categoryName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie introuvable"})
		return
	}

	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}

	// ✅ Unicité du slug via la table de lookup (LWT)
	p.ID = gocql.TimeUUID()
	applied, err := session.Query(`INSERT INTO products_by_slug (slug, product_id) VALUES (?, ?) IF NOT EXISTS`,
		p.Slug, p.ID).MapScanCAS(map[string]interface{}{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Un produit avec ce slug existe déjà"})
		return
	}

	now := time.Now()
	p.CreatedAt = &now
	p.UpdatedAt = &now
	p.IsActive = true

	query := `INSERT INTO products (product_id, name, slug, description, price, sale_price, category_id, image_urls, tags, is_featured, is_active, has_variants, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if err := session.Query(query, p.ID, p.Name, p.Slug, p.Description, p.Price, p.SalePrice,
		p.CategoryID, p.ImageURLs, p.Tags, p.IsFeatured, p.IsActive, p.HasVariants,
		p.CreatedAt, p.UpdatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	// 🔄 Indexation Elasticsearch (asynchrone, non bloquante)
	go services.IndexProduct(p)

	utils.LogAction(c, "product.create", utils.ResourceProduct, p.ID.String(), nil, p)

	c.JSON(http.StatusCreated, p)
}

// ✏️ PUT /api/admin/products/:id
func UpdateProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	existing, err := cache.GetProduct(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	var input struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Price       *float64  `json:"price"`
		SalePrice   *float64  `json:"sale_price"`
		CategoryID  *string   `json:"category_id"`
		ImageURLs   *[]string `json:"image_urls"`
		Tags        *[]string `json:"tags"`
		IsFeatured  *bool     `json:"is_featured"`
		IsActive    *bool     `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updated := *existing
	if input.Name != nil {
		updated.Name = *input.Name
	}
	if input.Description != nil {
		updated.Description = *input.Description
	}
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
	if input.CategoryID != nil {
		catUUID, err := gocql.ParseUUID(*input.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
			return
		}
		updated.CategoryID = catUUID
	}
	if input.ImageURLs != nil {
		updated.ImageURLs = *input.ImageURLs
	}
	if input.Tags != nil {
		updated.Tags = *input.Tags
	}
	if input.IsFeatured != nil {
		updated.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		updated.IsActive = *input.IsActive
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	updated.UpdatedAt = &now

	query := `UPDATE products SET name = ?, description = ?, price = ?, sale_price = ?, category_id = ?, image_urls = ?, tags = ?, is_featured = ?, is_active = ?, updated_at = ? WHERE product_id = ?`

	if err := session.Query(query, updated.Name, updated.Description, updated.Price, updated.SalePrice,
		updated.CategoryID, updated.ImageURLs, updated.Tags, updated.IsFeatured, updated.IsActive,
		updated.UpdatedAt, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit: " + err.Error()})
		return
	}

	cache.InvalidateProduct(productID)
	go services.IndexProduct(updated)

	utils.LogAction(c, "product.update", utils.ResourceProduct, productID.String(), existing, updated)

	c.JSON(http.StatusOK, updated)
}

// 🗑️ DELETE /api/admin/products/:id
// Désactivation plutôt que suppression: les commandes existantes
// gardent leurs lignes cohérentes.
func DeleteProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	existing, err := cache.GetProduct(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE products SET is_active = false, updated_at = ? WHERE product_id = ?`,
		time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit: " + err.Error()})
		return
	}

	cache.InvalidateProduct(productID)
	go services.RemoveProductFromIndex(productID.String())

	utils.LogAction(c, "product.delete", utils.ResourceProduct, productID.String(), existing, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Produit désactivé"})
}
