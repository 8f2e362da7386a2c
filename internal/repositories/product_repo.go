package repositories

import (
	"pasar/internal/models"
)

// Category match modes for listing by category.
const (
	MatchContains   = "contains"
	MatchStartsWith = "startsWith"
	MatchEndsWith   = "endsWith"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// Search lists products whose name contains the filter
	// (case-insensitive), paginated; it returns the page and the total
	// count of matches. An empty filter matches everything.
	Search(name string, offset, limit int) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	// GetByCategory lists products whose category matches the pattern
	// case-insensitively under the given match mode.
	GetByCategory(category, matchType string) ([]models.Product, error)
	GetByVendor(vendorID string) ([]models.Product, error)
	GetByImageURL(imageURL string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
