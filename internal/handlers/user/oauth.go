package user

import (
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"nutriko_back_end/internal/database"
	"nutriko_back_end/internal/models"
	"nutriko_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
)

// ================== AUTH SOCIALE ==================

// 🌐 GET /api/auth/:provider
func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	if _, err := goth.GetProvider(provider); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider non supporté"})
		return
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// 🌐 GET /api/auth/:provider/callback
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Erreur OAuth %s: %v", provider, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if gothUser.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email absent du profil " + provider})
		return
	}

	user, err := upsertOAuthUser(provider, gothUser.Email, gothUser.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	c.Redirect(http.StatusTemporaryRedirect, frontendURL+"/auth/callback?token="+url.QueryEscape(token))
}

// upsertOAuthUser retrouve ou crée le compte lié à un email social.
// Le premier provider qui crée le compte fixe le mode de connexion.
func upsertOAuthUser(provider, email, name string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	session, err := database.GetUsersSession()
	if err != nil {
		return models.User{}, err
	}

	byEmail, err := database.QueryUserByEmail(email)
	if err != nil {
		return models.User{}, err
	}

	var userID string
	if err := byEmail.Scan(&userID); err == nil {
		byID, err := database.QueryUserByID(userID)
		if err != nil {
			return models.User{}, err
		}
		var user models.User
		user.ID = userID
		if err := byID.Scan(
			&user.Email, &user.Password, &user.Name, &user.Role, &user.Provider); err != nil {
			return models.User{}, err
		}
		return user, nil
	}

	user := models.User{
		ID:       provider + ":" + email,
		Email:    email,
		Name:     name,
		Role:     "customer",
		Provider: provider,
	}

	applied, err := session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
		email, user.ID).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return models.User{}, err
	}
	if !applied {
		// Créé entre-temps par une requête concurrente: relire
		retry, err := database.QueryUserByEmail(email)
		if err != nil {
			return models.User{}, err
		}
		if err := retry.Scan(&user.ID); err != nil {
			return models.User{}, err
		}
		byID, err := database.QueryUserByID(user.ID)
		if err != nil {
			return models.User{}, err
		}
		if err := byID.Scan(
			&user.Email, &user.Password, &user.Name, &user.Role, &user.Provider); err != nil {
			return models.User{}, err
		}
		return user, nil
	}

	if err := session.Query(`INSERT INTO users (user_id, email, password, name, role, provider) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, "", user.Name, user.Role, user.Provider).Exec(); err != nil {
		return models.User{}, err
	}

	log.Printf("✅ Compte %s créé via %s", email, provider)
	return user, nil
}
