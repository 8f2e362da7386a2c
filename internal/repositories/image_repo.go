package repositories

import "pasar/internal/models"

// ImageRepository defines the interface for image metadata access. The
// uniqueness of the content hash is enforced by the storage layer: Create
// must fail with gorm.ErrDuplicatedKey when a record with the same hash
// already exists, including under concurrent inserts.
type ImageRepository interface {
	Create(image *models.Image) error
	GetByHash(hash string) (*models.Image, error)
	GetByURL(url string) (*models.Image, error)
}
