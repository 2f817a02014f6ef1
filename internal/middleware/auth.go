package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "careers/internal/pkg/jwt"
)

// RequireAdmin guards the dashboard endpoints. The public submission form
// never passes through here.
func RequireAdmin(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization required",
			})
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization required",
			})
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil || claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		c.Set("admin_user", claims.Username)

		c.Next()
	}
}
