package repositories

import (
	"fmt"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMImageRepository is a GORM implementation of ImageRepository.
type GORMImageRepository struct {
	db *gorm.DB
}

// NewGORMImageRepository creates a new instance of GORMImageRepository.
func NewGORMImageRepository(db *gorm.DB) *GORMImageRepository {
	return &GORMImageRepository{
		db: db,
	}
}

// Create inserts an image record. The unique index on hash makes this the
// authoritative duplicate check; violations surface as gorm.ErrDuplicatedKey.
func (r *GORMImageRepository) Create(image *models.Image) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	if err := r.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// GetByHash retrieves an image record by its content hash.
func (r *GORMImageRepository) GetByHash(hash string) (*models.Image, error) {
	var image models.Image
	if err := r.db.First(&image, "hash = ?", hash).Error; err != nil {
		return nil, fmt.Errorf("failed to get image by hash: %w", err)
	}
	return &image, nil
}

// GetByURL retrieves an image record by its public URL.
func (r *GORMImageRepository) GetByURL(url string) (*models.Image, error) {
	var image models.Image
	if err := r.db.First(&image, "url = ?", url).Error; err != nil {
		return nil, fmt.Errorf("failed to get image by URL: %w", err)
	}
	return &image, nil
}
