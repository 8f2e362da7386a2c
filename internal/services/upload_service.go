package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"strings"

	"pasar/internal/apperr"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/blobstore"
	"pasar/pkg/rabbitmq"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"gorm.io/gorm"
)

// MaxImageBytes is the upload size ceiling.
const MaxImageBytes = 5 << 20 // 5 MiB

var (
	ErrEmptyUpload      = apperr.New(apperr.Validation, "No file uploaded")
	ErrInvalidImageType = apperr.New(apperr.Validation, "Invalid file type. Only JPG, PNG, and GIF are allowed.")
	ErrImageTooLarge    = apperr.New(apperr.Validation, "Image exceeds the 5 MiB size limit")
	ErrDuplicateImage   = apperr.New(apperr.Conflict, "Duplicate image detected. This image has already been uploaded.")
)

// allowedImageTypes maps accepted MIME types to a fallback extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// UploadService ingests uploaded images with content-hash deduplication.
type UploadService struct {
	images repositories.ImageRepository
	store  blobstore.Store
	events EventPublisher
	log    zerolog.Logger
}

// NewUploadService creates a new UploadService.
func NewUploadService(images repositories.ImageRepository, store blobstore.Store, events EventPublisher, log zerolog.Logger) *UploadService {
	return &UploadService{
		images: images,
		store:  store,
		events: events,
		log:    log.With().Str("service", "upload").Logger(),
	}
}

// Ingest validates the upload, rejects exact duplicates by SHA-256 content
// digest and persists accepted bytes under a freshly generated opaque name.
//
// The repository lookup is a fast path only; the unique index on the hash
// column is the real guarantee, so a concurrent duplicate insert fails
// there and is reported as the same duplicate outcome. On that failure the
// stored object is removed again: no partial artifact remains.
func (s *UploadService) Ingest(ctx context.Context, data []byte, vendorID, contentType, originalName string) (*models.Image, error) {
	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrInvalidImageType
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if existing, err := s.images.GetByHash(hash); err == nil && existing != nil {
		return nil, ErrDuplicateImage
	}

	// Opaque name: never derived from the client filename, only its extension.
	if orig := strings.ToLower(filepath.Ext(originalName)); orig != "" {
		ext = orig
	}
	name := ksuid.New().String() + ext

	url, err := s.store.Put(ctx, name, data, contentType)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Error uploading image", err)
	}

	image := &models.Image{
		Filename: name,
		URL:      url,
		VendorID: vendorID,
		Hash:     hash,
	}
	if err := s.images.Create(image); err != nil {
		if removeErr := s.store.Remove(ctx, name); removeErr != nil {
			s.log.Error().Err(removeErr).Str("object", name).Msg("failed to remove orphaned object")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateImage.WithCause(err)
		}
		return nil, apperr.Wrap(apperr.Internal, "Error uploading image", err)
	}

	s.publish(rabbitmq.EventImageUploaded, map[string]interface{}{
		"image_id":  image.ID,
		"vendor_id": vendorID,
		"hash":      hash,
	})
	return image, nil
}

func (s *UploadService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(event, payload); err != nil {
		s.log.Warn().Err(err).Str("event", event).Msg("failed to publish event")
	}
}
