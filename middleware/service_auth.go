package middleware

import (
	"net/http"

	"main/utils"

	"github.com/gin-gonic/gin"
)

// ServiceAuthMiddleware guards the scheduler-facing endpoints. Callers
// present the shared service key; there is no user identity on these
// routes.
func ServiceAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Service-Key")
		if key == "" || !utils.SecureCompare(key, utils.ServiceAPIKey) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid service key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
