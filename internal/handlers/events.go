package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vitalpath/admin/internal/models"
)

type securityEventResponse struct {
	ID        string  `json:"id"`
	AdminID   *string `json:"adminId,omitempty"`
	Kind      string  `json:"kind"`
	Detail    string  `json:"detail"`
	IPAddress string  `json:"ipAddress"`
	UserAgent string  `json:"userAgent"`
	CreatedAt string  `json:"createdAt"`
}

func toEventResponse(event models.SecurityEvent) securityEventResponse {
	return securityEventResponse{
		ID:        event.ID,
		AdminID:   event.AdminID,
		Kind:      string(event.Kind),
		Detail:    event.Detail,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		CreatedAt: event.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ListSecurityEvents exposes the audit trail read-only; there is no write
// surface for it beyond the auth flows themselves.
func (h HandlerSet) ListSecurityEvents(c *gin.Context) {
	limit, offset := pagination(c)

	events, err := h.events.ListRecent(c.Request.Context(), limit, offset)
	if err != nil {
		h.internalError(c, err, "list security events failed")
		return
	}

	items := make([]securityEventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, toEventResponse(event))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
