package product

import (
	"context"
	"net/http"
	"time"

	"nutriko_back_end/internal/cache"
	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/services"
	"nutriko_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// 🖼️ POST /api/admin/products/:id/images
func UploadProductImage(c *gin.Context) {
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

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' manquant"})
		return
	}

	// 5 Mo max
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image trop volumineuse (5 Mo max)"})
		return
	}

	ctx := context.Background()
	imageURL, err := services.UploadProductImage(ctx, productID, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image: " + err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	urls := append(existing.ImageURLs, imageURL)
	if err := session.Query(`UPDATE products SET image_urls = ?, updated_at = ? WHERE product_id = ?`,
		urls, time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit: " + err.Error()})
		return
	}

	cache.InvalidateProduct(productID)

	utils.LogAction(c, "product.image_upload", utils.ResourceProduct, productID.String(), existing.ImageURLs, urls)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Image ajoutée",
		"image_url": imageURL,
	})
}

// 🗑️ DELETE /api/admin/products/:id/images
// Body: {"image_url": "..."}
func DeleteProductImage(c *gin.Context) {
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
		ImageURL string `json:"image_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ 'image_url' manquant"})
		return
	}

	urls := make([]string, 0, len(existing.ImageURLs))
	found := false
	for _, u := range existing.ImageURLs {
		if u == input.ImageURL {
			found = true
			continue
		}
		urls = append(urls, u)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image introuvable sur ce produit"})
		return
	}

	ctx := context.Background()
	if err := services.RemoveObject(ctx, input.ImageURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression MinIO: " + err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE products SET image_urls = ?, updated_at = ? WHERE product_id = ?`,
		urls, time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit: " + err.Error()})
		return
	}

	cache.InvalidateProduct(productID)

	utils.LogAction(c, "product.image_delete", utils.ResourceProduct, productID.String(), existing.ImageURLs, urls)

	c.JSON(http.StatusOK, gin.H{"message": "Image supprimée"})
}
