package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

func (r *MockProductRepository) sorted() []models.Product {
	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Search lists products by case-insensitive name substring, paginated.
func (r *MockProductRepository) Search(name string, offset, limit int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []models.Product
	for _, p := range r.sorted() {
		if name == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			matches = append(matches, p)
		}
	}
	total := int64(len(matches))
	if offset >= len(matches) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], total, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found: %w", id, gorm.ErrRecordNotFound)
	}
	return &product, nil
}

// GetByCategory lists products matching the category pattern.
func (r *MockProductRepository) GetByCategory(category, matchType string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(category)
	var matches []models.Product
	for _, p := range r.sorted() {
		cat := strings.ToLower(p.Category)
		var ok bool
		switch matchType {
		case MatchStartsWith:
			ok = strings.HasPrefix(cat, needle)
		case MatchEndsWith:
			ok = strings.HasSuffix(cat, needle)
		default:
			ok = strings.Contains(cat, needle)
		}
		if ok {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// GetByVendor lists a vendor's products.
func (r *MockProductRepository) GetByVendor(vendorID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []models.Product
	for _, p := range r.sorted() {
		if p.VendorID == vendorID {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// GetByImageURL returns the product using the given image URL.
func (r *MockProductRepository) GetByImageURL(imageURL string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ImageURL == imageURL {
			product := p
			return &product, nil
		}
	}
	return nil, fmt.Errorf("failed to get product by image URL: %w", gorm.ErrRecordNotFound)
}

// Create adds a new product, enforcing the unique image URL the way the
// database index would.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for _, p := range r.products {
		if p.ImageURL == product.ImageURL || p.ProductURL == product.ProductURL {
			return fmt.Errorf("failed to create product: %w", gorm.ErrDuplicatedKey)
		}
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, gorm.ErrRecordNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	delete(r.products, id)
	return nil
}
