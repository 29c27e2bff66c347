package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"nutriko_back_end/internal/settings"
	"nutriko_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// 🎨 GET /api/settings — contenu public du site (bannières, thème...)
func GetSettings(c *gin.Context) {
	ctx := context.Background()

	list, err := settings.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture paramètres"})
		return
	}

	// Les valeurs sont des documents JSON: on les restitue telles
	// quelles, indexées par clé.
	out := gin.H{}
	for _, s := range list {
		var value interface{}
		if err := json.Unmarshal([]byte(s.Value), &value); err != nil {
			value = s.Value
		}
		out[s.Key] = value
	}

	c.JSON(http.StatusOK, out)
}

// 🎨 GET /api/settings/:key
func GetSetting(c *gin.Context) {
	key := c.Param("key")

	s, err := settings.Get(context.Background(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paramètre introuvable"})
		return
	}

	var value interface{}
	if err := json.Unmarshal([]byte(s.Value), &value); err != nil {
		value = s.Value
	}

	c.JSON(http.StatusOK, gin.H{
		"key":     s.Key,
		"value":   value,
		"version": s.Version,
	})
}

// ✏️ PUT /api/admin/settings/:key
// Body: {"value": <JSON>}
// La version est incrémentée par compare-and-set: une écriture
// concurrente reçoit 409 et doit relire.
func UpdateSetting(c *gin.Context) {
	key := c.Param("key")

	var input struct {
		Value json.RawMessage `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ 'value' manquant"})
		return
	}

	ctx := context.Background()
	var old interface{}
	if existing, err := settings.Get(ctx, key); err == nil {
		old = existing.Value
	}

	updated, err := settings.Set(ctx, key, string(input.Value), c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, settings.ErrVersionConflict) {
			utils.LogFailedAction(c, "setting.update", utils.ResourceSetting, key, "conflit de version")
			c.JSON(http.StatusConflict, gin.H{"error": "Le paramètre a été modifié entre-temps, rechargez et réessayez"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur écriture paramètre"})
		return
	}

	utils.LogAction(c, "setting.update", utils.ResourceSetting, key, old, updated.Value)

	c.JSON(http.StatusOK, updated)
}

// 📋 GET /api/admin/settings — vue back office avec versions
func ListSettings(c *gin.Context) {
	list, err := settings.List(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture paramètres"})
		return
	}

	c.JSON(http.StatusOK, list)
}
