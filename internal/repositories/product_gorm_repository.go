package repositories

import (
	"fmt"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Search lists products filtered by a case-insensitive name substring,
// paginated, together with the total match count.
func (r *GORMProductRepository) Search(name string, offset, limit int) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	if err := query.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetByCategory lists products whose category matches case-insensitively
// under the given match mode (contains, startsWith or endsWith).
func (r *GORMProductRepository) GetByCategory(category, matchType string) ([]models.Product, error) {
	var pattern string
	switch matchType {
	case MatchStartsWith:
		pattern = category + "%"
	case MatchEndsWith:
		pattern = "%" + category
	default:
		pattern = "%" + category + "%"
	}

	var products []models.Product
	if err := r.db.Where("LOWER(category) LIKE LOWER(?)", pattern).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by category %s: %w", category, err)
	}
	return products, nil
}

// GetByVendor lists the products belonging to a vendor.
func (r *GORMProductRepository) GetByVendor(vendorID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products, "vendor_id = ?", vendorID).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by vendor %s: %w", vendorID, err)
	}
	return products, nil
}

// GetByImageURL retrieves the product backed by the given image URL, if any.
func (r *GORMProductRepository) GetByImageURL(imageURL string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "image_url = ?", imageURL).Error; err != nil {
		return nil, fmt.Errorf("failed to get product by image URL: %w", err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound if no rows were
		// affected by an update, so we check RowsAffected.
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
