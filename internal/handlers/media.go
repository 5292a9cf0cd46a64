package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vitalpath/admin/internal/media/sniffer"
	"vitalpath/admin/internal/middleware"
	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
	"vitalpath/admin/internal/service"
)

type mediaResponse struct {
	ID        string `json:"id"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
	URL       string `json:"url"`
	CreatedAt string `json:"createdAt"`
}

func (h HandlerSet) toMediaResponse(media models.MediaObject) mediaResponse {
	return mediaResponse{
		ID:        media.ID,
		MimeType:  media.MimeType,
		SizeBytes: media.SizeBytes,
		URL:       h.media.PublicURL(media),
		CreatedAt: media.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h HandlerSet) UploadMedia(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	defer file.Close()

	result, err := h.media.Upload(c.Request.Context(), service.UploadInput{
		UploaderID: admin.ID,
		File:       file,
		Header:     header,
	})
	if err != nil {
		switch {
		case errors.Is(err, sniffer.ErrUnknownType),
			errors.Is(err, service.ErrEmptyUpload),
			errors.Is(err, service.ErrUploadTooLarge),
			errors.Is(err, service.ErrTypeMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.internalError(c, err, "media upload failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"media": h.toMediaResponse(result.Media)})
}

func (h HandlerSet) ListMedia(c *gin.Context) {
	limit, offset := pagination(c)

	objects, err := h.media.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.internalError(c, err, "list media failed")
		return
	}

	items := make([]mediaResponse, 0, len(objects))
	for _, media := range objects {
		items = append(items, h.toMediaResponse(media))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) DeleteMedia(c *gin.Context) {
	if err := h.media.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "media object not found"})
			return
		}
		h.internalError(c, err, "delete media failed")
		return
	}

	c.Status(http.StatusNoContent)
}
