package api

import (
	"net/http"
	"strings"

	"github.com/akarsenev/parkslot/internal/service/auth"
	"github.com/gin-gonic/gin"
)

// RequireAdmin guards privileged routes with the admin bearer token.
func RequireAdmin(service auth.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing admin token"})
			return
		}
		if err := service.Verify(c.Request.Context(), token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}
		c.Next()
	}
}
