package utils

import (
	"encoding/json"
	"log"
	"time"

	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// Actions et ressources auditées du back office.
const (
	ActionProductPriceChange = "product.price_change"

	ResourceProduct  = "product"
	ResourceVariant  = "variant"
	ResourceCategory = "category"
	ResourceOffer    = "offer"
	ResourceOrder    = "order"
	ResourceSetting  = "setting"
)

// LogAction enregistre une action dans les logs d'audit
func LogAction(c *gin.Context, action, resource, resourceID string, oldValue, newValue interface{}) {
	userID := c.GetString("user_id")
	userEmail := c.GetString("email")
	ip := c.ClientIP()
	userAgent := c.GetHeader("User-Agent")

	go func() {
		if err := logActionAsync(userID, userEmail, ip, userAgent, action, resource, resourceID, oldValue, newValue, true, ""); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// LogFailedAction enregistre une action échouée dans les logs d'audit
func LogFailedAction(c *gin.Context, action, resource, resourceID, errorMsg string) {
	userID := c.GetString("user_id")
	userEmail := c.GetString("email")
	ip := c.ClientIP()
	userAgent := c.GetHeader("User-Agent")

	go func() {
		if err := logActionAsync(userID, userEmail, ip, userAgent, action, resource, resourceID, nil, nil, false, errorMsg); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

func logActionAsync(userID, userEmail, ip, userAgent, action, resource, resourceID string, oldValue, newValue interface{}, success bool, errorMsg string) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	var oldValueStr, newValueStr string
	if oldValue != nil {
		if b, err := json.Marshal(oldValue); err == nil {
			oldValueStr = string(b)
		}
	}
	if newValue != nil {
		if b, err := json.Marshal(newValue); err == nil {
			newValueStr = string(b)
		}
	}

	entry := models.AuditLog{
		ID:         gocql.TimeUUID(),
		UserID:     userID,
		UserEmail:  userEmail,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		OldValue:   oldValueStr,
		NewValue:   newValueStr,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Success:    success,
		ErrorMsg:   errorMsg,
		Timestamp:  time.Now(),
	}

	return session.Query(`INSERT INTO audit_log (id, user_id, user_email, action, resource, resource_id, old_value, new_value, ip_address, user_agent, success, error_msg, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.UserEmail, entry.Action, entry.Resource,
		entry.ResourceID, entry.OldValue, entry.NewValue, entry.IPAddress,
		entry.UserAgent, entry.Success, entry.ErrorMsg, entry.Timestamp,
	).Exec()
}
