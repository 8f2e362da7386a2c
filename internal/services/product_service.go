package services

import (
	"errors"
	"strings"
	"time"

	"pasar/internal/apperr"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/rabbitmq"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound      = apperr.New(apperr.NotFound, "Product not found")
	ErrNoProductsInCategory = apperr.New(apperr.NotFound, "No products found in this category")
	ErrNoVendorProducts     = apperr.New(apperr.NotFound, "No products found for this vendor")
	ErrImageNotRegistered   = apperr.New(apperr.Validation, "The provided image URL does not exist in the image records")
	ErrImageURLInUse        = apperr.New(apperr.Conflict, "The provided image URL is already associated with another product")
)

// CreateProductInput is the payload for product creation.
type CreateProductInput struct {
	Name           string  `json:"name" validate:"required,min=3,max=100"`
	Description    string  `json:"description" validate:"required,max=500"`
	Category       string  `json:"category" validate:"omitempty,max=100"`
	PriceOld       float64 `json:"priceOld" validate:"required,gt=0"`
	PriceNew       float64 `json:"priceNew" validate:"required,gt=0"`
	FreeDelivery   bool    `json:"freeDelivery"`
	DeliveryAmount float64 `json:"deliveryAmount" validate:"gte=0"`
	ImageURL       string  `json:"imageUrl" validate:"required,max=512"`
}

// UpdateProductInput is the payload for product updates. The image URL is
// optional; when present it is re-checked like on creation.
type UpdateProductInput struct {
	Name           string  `json:"name" validate:"required,min=3,max=100"`
	Description    string  `json:"description" validate:"required,max=500"`
	Category       string  `json:"category" validate:"omitempty,max=100"`
	PriceOld       float64 `json:"priceOld" validate:"required,gt=0"`
	PriceNew       float64 `json:"priceNew" validate:"required,gt=0"`
	FreeDelivery   bool    `json:"freeDelivery"`
	DeliveryAmount float64 `json:"deliveryAmount" validate:"gte=0"`
	ImageURL       string  `json:"imageUrl" validate:"omitempty,max=512"`
}

// ProductService handles business logic related to product listings.
type ProductService struct {
	products repositories.ProductRepository
	images   repositories.ImageRepository
	events   EventPublisher
	log      zerolog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(products repositories.ProductRepository, images repositories.ImageRepository, events EventPublisher, log zerolog.Logger) *ProductService {
	return &ProductService{
		products: products,
		images:   images,
		events:   events,
		log:      log.With().Str("service", "product").Logger(),
	}
}

// List returns a page of products filtered by a case-insensitive name
// substring, plus the total match count. Page numbers start at 1; limit
// defaults to 10.
func (s *ProductService) List(search string, page, limit int) ([]models.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	products, total, err := s.products.Search(search, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID.
func (s *ProductService) GetByID(id string) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	return product, nil
}

// GetByCategory lists products in a category, matched case-insensitively
// under the given mode (contains, startsWith or endsWith).
func (s *ProductService) GetByCategory(category, matchType string) ([]models.Product, error) {
	products, err := s.products.GetByCategory(category, matchType)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	if len(products) == 0 {
		return nil, ErrNoProductsInCategory
	}
	return products, nil
}

// GetByVendor lists the products belonging to a vendor.
func (s *ProductService) GetByVendor(vendorID string) ([]models.Product, error) {
	products, err := s.products.GetByVendor(vendorID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	if len(products) == 0 {
		return nil, ErrNoVendorProducts
	}
	return products, nil
}

// Create creates a listing owned by the acting vendor. The image URL must
// reference a registered image and may not back another product; the
// validity window runs 7 days from now.
func (s *ProductService) Create(input CreateProductInput, vendorID string) (*models.Product, error) {
	if err := s.checkImageURL(input.ImageURL); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &models.Product{
		Name:           input.Name,
		Description:    input.Description,
		Category:       input.Category,
		PriceOld:       input.PriceOld,
		PriceNew:       input.PriceNew,
		StartDate:      now,
		ExpiryDate:     now.Add(models.ValidityWindow),
		FreeDelivery:   input.FreeDelivery,
		DeliveryAmount: input.DeliveryAmount,
		ImageURL:       input.ImageURL,
		ProductURL:     "product-" + strings.ToLower(ksuid.New().String()),
		VendorID:       vendorID,
	}
	if err := s.products.Create(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrImageURLInUse.WithCause(err)
		}
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}

	s.publish(rabbitmq.EventProductCreated, map[string]interface{}{
		"product_id": product.ID,
		"vendor_id":  vendorID,
	})
	return product, nil
}

// Update rewrites a listing and resets its 7-day validity window. Ownership
// is reassigned to the acting identity, matching the create path.
func (s *ProductService) Update(id string, input UpdateProductInput, actorID string) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.ImageURL != "" && input.ImageURL != product.ImageURL {
		if err := s.checkImageURL(input.ImageURL); err != nil {
			return nil, err
		}
		product.ImageURL = input.ImageURL
	}

	now := time.Now()
	product.Name = input.Name
	product.Description = input.Description
	product.Category = input.Category
	product.PriceOld = input.PriceOld
	product.PriceNew = input.PriceNew
	product.FreeDelivery = input.FreeDelivery
	product.DeliveryAmount = input.DeliveryAmount
	product.StartDate = now
	product.ExpiryDate = now.Add(models.ValidityWindow)
	product.VendorID = actorID

	if err := s.products.Update(product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrImageURLInUse.WithCause(err)
		}
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	return product, nil
}

// Delete deletes a product by its ID.
func (s *ProductService) Delete(id string) error {
	if err := s.products.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return apperr.Wrap(apperr.Internal, "Server error", err)
	}
	return nil
}

// checkImageURL verifies the URL references a registered image and is not
// already backing a product. The unique index on products.image_url remains
// the authoritative check.
func (s *ProductService) checkImageURL(imageURL string) error {
	if _, err := s.images.GetByURL(imageURL); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotRegistered
		}
		return apperr.Wrap(apperr.Internal, "Server error", err)
	}
	if existing, err := s.products.GetByImageURL(imageURL); err == nil && existing != nil {
		return ErrImageURLInUse
	}
	return nil
}

func (s *ProductService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(event, payload); err != nil {
		s.log.Warn().Err(err).Str("event", event).Msg("failed to publish event")
	}
}
