package repositories

import (
	"fmt"
	"sync"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockImageRepository is an in-memory implementation of ImageRepository. It
// mirrors the database's unique hash index so the duplicate-insert path can
// be exercised without a real database.
type MockImageRepository struct {
	images map[string]models.Image // keyed by hash
	mu     sync.RWMutex
}

// NewMockImageRepository creates a new instance of MockImageRepository.
func NewMockImageRepository() *MockImageRepository {
	return &MockImageRepository{
		images: make(map[string]models.Image),
	}
}

// Create adds an image record, failing with gorm.ErrDuplicatedKey when the
// hash is already present.
func (r *MockImageRepository) Create(image *models.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[image.Hash]; ok {
		return fmt.Errorf("failed to create image: %w", gorm.ErrDuplicatedKey)
	}
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	r.images[image.Hash] = *image
	return nil
}

// GetByHash returns the image record with the given content hash.
func (r *MockImageRepository) GetByHash(hash string) (*models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	image, ok := r.images[hash]
	if !ok {
		return nil, fmt.Errorf("failed to get image by hash: %w", gorm.ErrRecordNotFound)
	}
	return &image, nil
}

// GetByURL returns the image record with the given public URL.
func (r *MockImageRepository) GetByURL(url string) (*models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, image := range r.images {
		if image.URL == url {
			img := image
			return &img, nil
		}
	}
	return nil, fmt.Errorf("failed to get image by URL: %w", gorm.ErrRecordNotFound)
}
