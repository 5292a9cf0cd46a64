package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/rs/zerolog"

	"vitalpath/admin/internal/ids"
	"vitalpath/admin/internal/media/sniffer"
	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
	"vitalpath/admin/internal/storage"
)

// maxUploadBytes caps media uploads at 20 MiB.
const maxUploadBytes = 20 << 20

var (
	ErrEmptyUpload    = errors.New("empty file")
	ErrUploadTooLarge = errors.New("file exceeds upload size limit")
	ErrTypeMismatch   = errors.New("declared content type does not match file content")
)

type MediaService struct {
	media *repository.MediaRepository
	store *storage.ObjectStore
	log   zerolog.Logger
}

func NewMediaService(media *repository.MediaRepository, store *storage.ObjectStore, log zerolog.Logger) *MediaService {
	return &MediaService{
		media: media,
		store: store,
		log:   log,
	}
}

type UploadInput struct {
	UploaderID string
	File       multipart.File
	Header     *multipart.FileHeader
}

type UploadResult struct {
	Media models.MediaObject
	URL   string
}

// Upload sniffs the file content before trusting anything the client
// declared, stores the object, then records the metadata row.
func (s *MediaService) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if input.File == nil || input.Header == nil {
		return UploadResult{}, errors.New("invalid file payload")
	}
	if input.Header.Size > maxUploadBytes {
		return UploadResult{}, ErrUploadTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.File, maxUploadBytes+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return UploadResult{}, ErrEmptyUpload
	}
	if len(data) > maxUploadBytes {
		return UploadResult{}, ErrUploadTooLarge
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	result, err := sniffer.DetectHead(head)
	if err != nil {
		return UploadResult{}, err
	}

	declared := sniffer.DeclaredMIME(input.Header.Header)
	if declared != "" && declared != result.MIME {
		return UploadResult{}, fmt.Errorf("%w: declared %s, actual %s", ErrTypeMismatch, declared, result.MIME)
	}

	mediaID := ids.New()
	objectKey := buildObjectKey(mediaID, string(result.Type))

	if err := s.store.Put(ctx, objectKey, bytes.NewReader(data), int64(len(data)), result.MIME); err != nil {
		return UploadResult{}, err
	}

	media := models.MediaObject{
		ID:         mediaID,
		UploaderID: input.UploaderID,
		Bucket:     s.store.Bucket(),
		ObjectKey:  objectKey,
		MimeType:   result.MIME,
		SizeBytes:  int64(len(data)),
	}
	if err := s.media.Create(ctx, media); err != nil {
		// Best effort: don't leave an orphaned object behind.
		if rmErr := s.store.Remove(ctx, objectKey); rmErr != nil {
			s.log.Error().Err(rmErr).Str("object_key", objectKey).Msg("orphan cleanup failed")
		}
		return UploadResult{}, fmt.Errorf("save metadata: %w", err)
	}

	return UploadResult{
		Media: media,
		URL:   s.store.PublicURL(objectKey),
	}, nil
}

func (s *MediaService) List(ctx context.Context, limit, offset int) ([]models.MediaObject, error) {
	return s.media.List(ctx, limit, offset)
}

// Delete removes the stored object first, then the metadata row.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	media, err := s.media.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, media.ObjectKey); err != nil {
		return err
	}
	return s.media.Delete(ctx, id)
}

func (s *MediaService) PublicURL(media models.MediaObject) string {
	return s.store.PublicURL(media.ObjectKey)
}

func buildObjectKey(mediaID, ext string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(datePrefix, fmt.Sprintf("%s.%s", mediaID, ext))
}
