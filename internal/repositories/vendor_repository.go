package repositories

import (
	"fmt"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorRepository defines the interface for vendor storefront records.
type VendorRepository interface {
	Create(vendor *models.Vendor) error
	GetByUserID(userID string) (*models.Vendor, error)
}

// StaffRepository defines the interface for staff assignment records.
type StaffRepository interface {
	Create(assignment *models.StaffAssignment) error
}

// GORMVendorRepository is a GORM implementation of VendorRepository.
type GORMVendorRepository struct {
	db *gorm.DB
}

// NewGORMVendorRepository creates a new instance of GORMVendorRepository.
func NewGORMVendorRepository(db *gorm.DB) *GORMVendorRepository {
	return &GORMVendorRepository{db: db}
}

// Create creates a vendor record.
func (r *GORMVendorRepository) Create(vendor *models.Vendor) error {
	if vendor.ID == "" {
		vendor.ID = uuid.New().String()
	}
	if err := r.db.Create(vendor).Error; err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

// GetByUserID retrieves the vendor record owned by a user.
func (r *GORMVendorRepository) GetByUserID(userID string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.First(&vendor, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get vendor by user ID %s: %w", userID, err)
	}
	return &vendor, nil
}

// GORMStaffRepository is a GORM implementation of StaffRepository.
type GORMStaffRepository struct {
	db *gorm.DB
}

// NewGORMStaffRepository creates a new instance of GORMStaffRepository.
func NewGORMStaffRepository(db *gorm.DB) *GORMStaffRepository {
	return &GORMStaffRepository{db: db}
}

// Create creates a staff assignment record.
func (r *GORMStaffRepository) Create(assignment *models.StaffAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	if err := r.db.Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create staff assignment: %w", err)
	}
	return nil
}
