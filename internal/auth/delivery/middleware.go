package delivery

import (
	"net/http"
	"strings"

	"github.com/wsabol/psychic-chat-poc-sub000/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards protected routes. Only full access tokens pass;
// pre-auth tokens issued before 2FA verification are rejected by the
// usecase's scope check.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorJSON(c, http.StatusUnauthorized, "authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			errorJSON(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		token := parts[1]
		user, err := authUsecase.ValidateToken(token)
		if err != nil {
			errorJSON(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}
