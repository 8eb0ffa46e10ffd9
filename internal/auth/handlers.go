package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
	"gorm.io/gorm"

	"github.com/BekzhanK1/moodlog-backend/internal/models"
)

// HandleLogin initiates the Google OAuth flow
func HandleLogin(c *gin.Context) {
	// Gothic requires the "provider" query parameter
	q := c.Request.URL.Query()
	q.Add("provider", "google")
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// HandleCallback completes the OAuth flow, upserts the user, and stores info in session
func HandleCallback(db *gorm.DB, logger *slog.Logger, frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gothic requires the "provider" query parameter
		q := c.Request.URL.Query()
		q.Add("provider", "google")
		c.Request.URL.RawQuery = q.Encode()

		gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
		if err != nil {
			logger.Error("Auth error", "error", err.Error())
			c.Redirect(http.StatusFound, frontendURL+"/login?error=auth_failed")
			return
		}

		// Upsert user record in database
		now := time.Now()
		var user models.User
		result := db.Where("email = ?", gothUser.Email).First(&user)
		if result.Error == gorm.ErrRecordNotFound {
			user = models.User{
				Email:       gothUser.Email,
				Name:        gothUser.Name,
				LastLoginAt: &now,
			}
			db.Create(&user)
		} else if result.Error == nil {
			db.Model(&user).Updates(map[string]interface{}{
				"name":          gothUser.Name,
				"last_login_at": now,
			})
		}

		// Store user info in session
		session := sessions.Default(c)
		session.Set("user_email", gothUser.Email)
		session.Set("user_name", gothUser.Name)

		if err := session.Save(); err != nil {
			logger.Error("Session save error", "error", err.Error())
			c.Redirect(http.StatusFound, frontendURL+"/login?error=session_failed")
			return
		}

		logger.Info("User authenticated", "email", gothUser.Email)
		c.Redirect(http.StatusFound, frontendURL+"/journal")
	}
}

// HandleLogout clears the session
func HandleLogout(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		session.Clear()

		if err := session.Save(); err != nil {
			logger.Error("Session clear error", "error", err.Error())
		}

		c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
	}
}
