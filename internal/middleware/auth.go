package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vitalpath/admin/internal/config"
	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
	"vitalpath/admin/internal/security"
)

const (
	ContextAdmin    = "current_admin"
	ContextIdentity = "identity"
)

type SessionReader interface {
	GetByToken(ctx context.Context, token string) (models.Session, error)
}

type AdminReader interface {
	GetByID(ctx context.Context, id string) (models.Admin, error)
}

// Auth guards admin routes with the session cookie. A token that verifies
// cryptographically but has no session row is rejected: revocation wins over
// signature validity. Store failures are internal errors, not 401s.
func Auth(cfg *config.AppConfig, log zerolog.Logger, admins AdminReader, sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.Security.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		identity := security.VerifyToken(token, cfg.Security.JWTSecret)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		session, err := sessions.GetByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			log.Error().Err(err).Msg("session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if session.AdminID != identity.AdminID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		admin, err := admins.GetByID(c.Request.Context(), identity.AdminID)
		if err != nil {
			if errors.Is(err, repository.ErrAdminNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			log.Error().Err(err).Str("admin_id", identity.AdminID).Msg("admin lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !admin.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}

		c.Set(ContextAdmin, admin)
		c.Set(ContextIdentity, *identity)

		c.Next()
	}
}

// CurrentAdmin pulls the authenticated admin out of the request context.
func CurrentAdmin(c *gin.Context) (models.Admin, bool) {
	value, exists := c.Get(ContextAdmin)
	if !exists {
		return models.Admin{}, false
	}
	admin, ok := value.(models.Admin)
	return admin, ok
}
