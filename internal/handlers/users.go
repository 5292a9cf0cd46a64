package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vitalpath/admin/internal/ids"
	"vitalpath/admin/internal/middleware"
	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
	"vitalpath/admin/internal/security"
)

type adminDetailResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Role        string  `json:"role"`
	IsActive    bool    `json:"isActive"`
	LastLoginAt *string `json:"lastLoginAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

func toAdminDetail(admin models.Admin) adminDetailResponse {
	return adminDetailResponse{
		ID:          admin.ID,
		Email:       admin.Email,
		FirstName:   admin.FirstName,
		LastName:    admin.LastName,
		Role:        string(admin.Role),
		IsActive:    admin.IsActive,
		LastLoginAt: formatTime(admin.LastLoginAt),
		CreatedAt:   admin.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h HandlerSet) ListAdmins(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "list admins failed")
		return
	}

	items := make([]adminDetailResponse, 0, len(admins))
	for _, admin := range admins {
		items = append(items, toAdminDetail(admin))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type createAdminRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role" binding:"required"`
}

func (h HandlerSet) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	if err := security.CheckPasswordStrength(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := h.admins.FindByEmail(c.Request.Context(), email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	} else if !errors.Is(err, repository.ErrAdminNotFound) {
		h.internalError(c, err, "email lookup failed")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		h.internalError(c, err, "hash password failed")
		return
	}

	admin := models.Admin{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		IsActive:     true,
	}
	if err := h.admins.Create(c.Request.Context(), admin); err != nil {
		h.internalError(c, err, "create admin failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"admin": toAdminDetail(admin)})
}

type updateAdminRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role" binding:"required"`
	IsActive  *bool  `json:"isActive" binding:"required"`
}

func (h HandlerSet) UpdateAdmin(c *gin.Context) {
	current, ok := middleware.CurrentAdmin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req updateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	targetID := c.Param("id")
	isActive := *req.IsActive

	if targetID == current.ID && !isActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot deactivate your own account"})
		return
	}

	if err := h.admins.UpdateProfile(c.Request.Context(), targetID, req.FirstName, req.LastName, role, isActive); err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
			return
		}
		h.internalError(c, err, "update admin failed")
		return
	}

	// A deactivated admin must not keep any live session.
	if !isActive {
		if err := h.sessions.RevokeAll(c.Request.Context(), targetID); err != nil {
			h.internalError(c, err, "revoke sessions failed")
			return
		}
	}

	admin, err := h.admins.GetByID(c.Request.Context(), targetID)
	if err != nil {
		h.internalError(c, err, "reload admin failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": toAdminDetail(admin)})
}

func (h HandlerSet) DeleteAdmin(c *gin.Context) {
	current, ok := middleware.CurrentAdmin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	targetID := c.Param("id")
	if targetID == current.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	if err := h.sessions.RevokeAll(c.Request.Context(), targetID); err != nil {
		h.internalError(c, err, "revoke sessions failed")
		return
	}

	if err := h.admins.Delete(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
			return
		}
		h.internalError(c, err, "delete admin failed")
		return
	}

	c.Status(http.StatusNoContent)
}
