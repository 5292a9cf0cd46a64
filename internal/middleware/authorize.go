package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vitalpath/admin/internal/models"
)

// RequireRole enforces "at least this role" against the ordered hierarchy
// VIEWER < EDITOR < ADMIN < SUPER_ADMIN.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := CurrentAdmin(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if !admin.Role.AtLeast(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}

		c.Next()
	}
}
