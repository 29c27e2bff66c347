package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log"

	"nutriko_back_end/internal/cache"
	"nutriko_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// Chaque handler admin écrit sa propre entrée d'audit avec l'ancienne
// et la nouvelle valeur; une écriture ne produit qu'une seule entrée.

// AuditPriceChanges trace spécifiquement les changements de prix
// produit, avec l'ancien et le nouveau prix.
func AuditPriceChanges() gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var requestData map[string]interface{}
		if err := json.Unmarshal(bodyBytes, &requestData); err != nil {
			c.Next()
			return
		}

		newPrice, hasPrice := requestData["price"]
		if !hasPrice {
			c.Next()
			return
		}

		productID := c.Param("id")
		oldPrice, err := getProductPrice(productID)
		if err != nil {
			log.Printf("⚠️ Erreur récupération ancien prix: %v", err)
		}

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			utils.LogAction(c, utils.ActionProductPriceChange, utils.ResourceProduct, productID,
				map[string]interface{}{"price": oldPrice},
				map[string]interface{}{"price": newPrice})

			log.Printf("💰 Changement de prix audité: produit %s", productID)
		}
	}
}

func getProductPrice(productID string) (float64, error) {
	id, err := gocql.ParseUUID(productID)
	if err != nil {
		return 0, err
	}

	p, err := cache.GetProduct(id)
	if err != nil {
		return 0, err
	}
	return p.Price, nil
}
