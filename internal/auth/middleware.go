package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BekzhanK1/moodlog-backend/internal/models"
)

const contextUserKey = "current_user"

// RequireAuth ensures the request carries an authenticated session and
// resolves the user record for downstream handlers. The client is a SPA,
// so unauthenticated API calls get a JSON 401 rather than a redirect.
func RequireAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		email, _ := session.Get("user_email").(string)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// SetCurrentUser stores the resolved user on the request context. Exposed
// so handler tests can authenticate without a session store.
func SetCurrentUser(c *gin.Context, user models.User) {
	c.Set(contextUserKey, user)
}

// CurrentUser returns the user resolved by RequireAuth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(contextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
