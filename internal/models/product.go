package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a product listing in the store. Each listing carries a
// 7-day validity window that is reset on create and on update, and an image
// URL that must reference a registered Image and may back only one product.
type Product struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string    `json:"name" validate:"required,min=3,max=100"`
	Description    string    `json:"description" validate:"required,max=500"`
	Category       string    `json:"category" gorm:"index;type:varchar(100)" validate:"omitempty,max=100"`
	PriceOld       float64   `json:"priceOld" validate:"required,gt=0"`
	PriceNew       float64   `json:"priceNew" validate:"required,gt=0"`
	StartDate      time.Time `json:"startDate"`
	ExpiryDate     time.Time `json:"expiryDate"`
	FreeDelivery   bool      `json:"freeDelivery"`
	DeliveryAmount float64   `json:"deliveryAmount" validate:"gte=0"`
	ImageURL       string    `json:"imageUrl" gorm:"uniqueIndex;type:varchar(512)" validate:"required,max=512"`
	ProductURL     string    `json:"productUrl" gorm:"uniqueIndex;type:varchar(100)"`
	VendorID       string    `json:"vendorId" gorm:"index;type:varchar(36)"`
	gorm.Model               // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ValidityWindow is the lifetime of a listing from creation or last update.
const ValidityWindow = 7 * 24 * time.Hour

// DiscountPercentage returns the discount relative to the old price.
func (p *Product) DiscountPercentage() float64 {
	if p.PriceOld > 0 {
		return (p.PriceOld - p.PriceNew) / p.PriceOld * 100
	}
	return 0
}

// DiscountAmount returns the absolute discount.
func (p *Product) DiscountAmount() float64 {
	return p.PriceOld - p.PriceNew
}

// IsExpired reports whether the validity window has passed. Expiry is a
// checked timestamp; expired listings are not purged.
func (p *Product) IsExpired() bool {
	return time.Now().After(p.ExpiryDate)
}
