package admin

import (
	"net/http"
	"sort"
	"strconv"

	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// 🕵️ GET /api/admin/audit
// Filtres: ?user_id= ?action= ?resource= ?limit=
func GetAuditLogs(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	userID := c.Query("user_id")
	action := c.Query("action")
	resource := c.Query("resource")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 500 {
		limit = 100
	}

	iter := session.Query(`SELECT id, user_id, user_email, action, resource, resource_id, old_value, new_value, ip_address, user_agent, success, error_msg, timestamp FROM audit_log`).Iter()

	var logs []models.AuditLog
	var entry models.AuditLog

	for iter.Scan(&entry.ID, &entry.UserID, &entry.UserEmail, &entry.Action, &entry.Resource,
		&entry.ResourceID, &entry.OldValue, &entry.NewValue, &entry.IPAddress,
		&entry.UserAgent, &entry.Success, &entry.ErrorMsg, &entry.Timestamp) {
		if (userID == "" || entry.UserID == userID) &&
			(action == "" || entry.Action == action) &&
			(resource == "" || entry.Resource == resource) {
			logs = append(logs, entry)
		}
		entry = models.AuditLog{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture logs: " + err.Error()})
		return
	}

	// Du plus récent au plus ancien
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	if len(logs) > limit {
		logs = logs[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": len(logs),
	})
}
