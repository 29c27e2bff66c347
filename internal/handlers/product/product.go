package product

import (
	"net/http"
	"strconv"
	"strings"

	"nutriko_back_end/internal/cache"
	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/pricing"
	"nutriko_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

const productColumns = `product_id, name, slug, description, price, sale_price, category_id, image_urls, tags, is_featured, is_active, has_variants, created_at, updated_at`

func scanProduct(iter *gocql.Iter, p *models.Product) bool {
	return iter.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.SalePrice,
		&p.CategoryID, &p.ImageURLs, &p.Tags, &p.IsFeatured, &p.IsActive, &p.HasVariants,
		&p.CreatedAt, &p.UpdatedAt)
}

// 📦 GET /api/products
// Filtres: ?category=<uuid> ?featured=true ?q=<texte> ?limit=&offset=
func GetAllProducts(c *gin.Context) {
	// 🔎 Recherche plein texte déléguée à Elasticsearch
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		SearchProducts(c)
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).Iter()

	var products []models.Product
	var p models.Product

	categoryFilter := c.Query("category")
	featuredOnly := c.Query("featured") == "true"

	for scanProduct(iter, &p) {
		if p.IsActive &&
			(categoryFilter == "" || p.CategoryID.String() == categoryFilter) &&
			(!featuredOnly || p.IsFeatured) {
			products = append(products, p)
		}
		p = models.Product{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	// 📄 Pagination en mémoire (catalogue de taille modeste)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "24"))
	if limit < 1 || limit > 100 {
		limit = 24
	}

	offset, _ := strconv.Atoi(c.Query("offset"))
	if offset == 0 {
		// ?page= accepté comme alternative à ?offset=
		if page, _ := strconv.Atoi(c.DefaultQuery("page", "1")); page > 1 {
			offset = (page - 1) * limit
		}
	}
	if offset < 0 {
		offset = 0
	}

	total := len(products)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products[start:end],
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// 📦 GET /api/products/:id
func GetProductByID(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	p, err := cache.GetProduct(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	variants := []models.ProductVariant{}
	if p.HasVariants {
		if v, err := cache.GetVariants(productID); err == nil {
			variants = v
		}
	}

	// La fiche pré-sélectionne la première déclinaison en stock
	c.JSON(http.StatusOK, gin.H{
		"product":         p,
		"variants":        variants,
		"default_variant": pricing.DefaultVariant(variants),
	})
}

// 📦 GET /api/products/slug/:slug
func GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var productID gocql.UUID
	if err := session.Query(`SELECT product_id FROM products_by_slug WHERE slug = ?`, slug).Scan(&productID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	p, err := cache.GetProduct(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	variants := []models.ProductVariant{}
	if p.HasVariants {
		if v, err := cache.GetVariants(productID); err == nil {
			variants = v
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"product":  p,
		"variants": variants,
	})
}

// ⭐ GET /api/products/featured
func GetFeaturedProducts(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).Iter()

	var products []models.Product
	var p models.Product

	for scanProduct(iter, &p) {
		if p.IsActive && p.IsFeatured {
			products = append(products, p)
		}
		p = models.Product{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

// 🔎 GET /api/products?q=... — Elasticsearch avec repli ScyllaDB
func SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	// 1️⃣ Elasticsearch en priorité
	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, gin.H{"products": results, "total": len(results)})
		return
	}

	// 2️⃣ Repli: filtrage en mémoire depuis ScyllaDB
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).Iter()

	var products []models.Product
	var p models.Product

	for scanProduct(iter, &p) {
		if p.IsActive && (containsIgnoreCase(p.Name, query) ||
			containsIgnoreCase(p.Description, query) ||
			containsTagsIgnoreCase(p.Tags, query)) {
			products = append(products, p)
		}
		p = models.Product{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsTagsIgnoreCase(tags []string, query string) bool {
	for _, tag := range tags {
		if containsIgnoreCase(tag, query) {
			return true
		}
	}
	return false
}
