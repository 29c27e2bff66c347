package product

import (
	"net/http"
	"time"

	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// 🗂️ GET /api/categories
func GetCategories(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT category_id, name, slug, description, image_url, created_at FROM categories`).Iter()

	var categories []models.Category
	var cat models.Category

	for iter.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.ImageURL, &cat.CreatedAt) {
		categories = append(categories, cat)
		cat = models.Category{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// ➕ POST /api/admin/categories
func CreateCategory(c *gin.Context) {
	var cat models.Category

	if err := c.ShouldBindJSON(&cat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if cat.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}
	if cat.Slug == "" {
		cat.Slug = Slugify(cat.Name)
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	cat.ID = gocql.TimeUUID()
	now := time.Now()
	cat.CreatedAt = &now

	if err := session.Query(`INSERT INTO categories (category_id, name, slug, description, image_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Slug, cat.Description, cat.ImageURL, cat.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie: " + err.Error()})
		return
	}

	utils.LogAction(c, "category.create", utils.ResourceCategory, cat.ID.String(), nil, cat)

	c.JSON(http.StatusCreated, cat)
}

// ✏️ PUT /api/admin/categories/:id
func UpdateCategory(c *gin.Context) {
	categoryID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existing models.Category
	existing.ID = categoryID
	if err := session.Query(`SELECT name, slug, description, image_url FROM categories WHERE category_id = ?`,
		categoryID).Scan(&existing.Name, &existing.Slug, &existing.Description, &existing.ImageURL); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		ImageURL    *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updated := existing
	if input.Name != nil {
		updated.Name = *input.Name
	}
	if input.Description != nil {
		updated.Description = *input.Description
	}
	if input.ImageURL != nil {
		updated.ImageURL = *input.ImageURL
	}

	if err := session.Query(`UPDATE categories SET name = ?, description = ?, image_url = ? WHERE category_id = ?`,
		updated.Name, updated.Description, updated.ImageURL, categoryID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour catégorie: " + err.Error()})
		return
	}

	utils.LogAction(c, "category.update", utils.ResourceCategory, categoryID.String(), existing, updated)

	c.JSON(http.StatusOK, updated)
}

// 🗑️ DELETE /api/admin/categories/:id
func DeleteCategory(c *gin.Context) {
	categoryID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// ⚠️ Refuse la suppression si des produits référencent la catégorie
	iter := session.Query(`SELECT product_id, category_id FROM products`).Iter()
	var productID, catID gocql.UUID
	inUse := false
	for iter.Scan(&productID, &catID) {
		if catID == categoryID {
			inUse = true
		}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification produits: " + err.Error()})
		return
	}
	if inUse {
		c.JSON(http.StatusConflict, gin.H{"error": "Des produits utilisent encore cette catégorie"})
		return
	}

	if err := session.Query(`DELETE FROM categories WHERE category_id = ?`, categoryID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression catégorie: " + err.Error()})
		return
	}

	utils.LogAction(c, "category.delete", utils.ResourceCategory, categoryID.String(), nil, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée"})
}
