package services_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newProductService(t *testing.T) (*services.ProductService, *repositories.MockProductRepository, *repositories.MockImageRepository) {
	t.Helper()
	products := repositories.NewMockProductRepository()
	images := repositories.NewMockImageRepository()
	svc := services.NewProductService(products, images, nil, zerolog.Nop())
	return svc, products, images
}

func registerImage(t *testing.T, images *repositories.MockImageRepository, url string) {
	t.Helper()
	err := images.Create(&models.Image{
		Filename: url[strings.LastIndex(url, "/")+1:],
		URL:      url,
		VendorID: "vendor-1",
		Hash:     fmt.Sprintf("%064s", url),
	})
	assert.NoError(t, err)
}

func productInput(imageURL string) services.CreateProductInput {
	return services.CreateProductInput{
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless, brown switches",
		Category:    "electronics",
		PriceOld:    120,
		PriceNew:    90,
		ImageURL:    imageURL,
	}
}

func TestProductService_CreateRequiresRegisteredImage(t *testing.T) {
	svc, _, _ := newProductService(t)

	_, err := svc.Create(productInput("http://localhost:8080/uploads/ghost.jpg"), "vendor-1")
	assert.ErrorIs(t, err, services.ErrImageNotRegistered)
}

func TestProductService_CreateRejectsImageInUse(t *testing.T) {
	svc, _, images := newProductService(t)
	url := "http://localhost:8080/uploads/kb.jpg"
	registerImage(t, images, url)

	_, err := svc.Create(productInput(url), "vendor-1")
	assert.NoError(t, err)

	_, err = svc.Create(productInput(url), "vendor-2")
	assert.ErrorIs(t, err, services.ErrImageURLInUse)
}

func TestProductService_CreateSetsWindowAndURL(t *testing.T) {
	svc, _, images := newProductService(t)
	url := "http://localhost:8080/uploads/kb.jpg"
	registerImage(t, images, url)

	before := time.Now()
	product, err := svc.Create(productInput(url), "vendor-1")
	assert.NoError(t, err)

	assert.Equal(t, "vendor-1", product.VendorID)
	assert.True(t, strings.HasPrefix(product.ProductURL, "product-"))
	assert.Equal(t, strings.ToLower(product.ProductURL), product.ProductURL)
	assert.WithinDuration(t, before, product.StartDate, 2*time.Second)
	assert.WithinDuration(t, product.StartDate.Add(models.ValidityWindow), product.ExpiryDate, time.Second)
	assert.False(t, product.IsExpired())
}

func TestProductService_ListPagination(t *testing.T) {
	svc, _, images := newProductService(t)

	for i := 0; i < 12; i++ {
		url := fmt.Sprintf("http://localhost:8080/uploads/p%02d.jpg", i)
		registerImage(t, images, url)
		input := productInput(url)
		input.Name = fmt.Sprintf("Widget %02d", i)
		_, err := svc.Create(input, "vendor-1")
		assert.NoError(t, err)
	}

	// Defaults: page 1, limit 10.
	page, total, err := svc.List("", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, page, 10)

	page, total, err = svc.List("", 2, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, page, 2)

	// Case-insensitive substring match.
	page, total, err = svc.List("wIdGeT 01", 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, page, 1)
}

func TestProductService_GetByCategory(t *testing.T) {
	svc, _, images := newProductService(t)
	url := "http://localhost:8080/uploads/kb.jpg"
	registerImage(t, images, url)
	_, err := svc.Create(productInput(url), "vendor-1")
	assert.NoError(t, err)

	found, err := svc.GetByCategory("ELECTRO", repositories.MatchStartsWith)
	assert.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = svc.GetByCategory("toys", repositories.MatchContains)
	assert.ErrorIs(t, err, services.ErrNoProductsInCategory)
}

func TestProductService_GetByVendor(t *testing.T) {
	svc, _, images := newProductService(t)
	url := "http://localhost:8080/uploads/kb.jpg"
	registerImage(t, images, url)
	_, err := svc.Create(productInput(url), "vendor-1")
	assert.NoError(t, err)

	found, err := svc.GetByVendor("vendor-1")
	assert.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = svc.GetByVendor("vendor-2")
	assert.ErrorIs(t, err, services.ErrNoVendorProducts)
}

func TestProductService_UpdateResetsWindow(t *testing.T) {
	svc, products, images := newProductService(t)
	url := "http://localhost:8080/uploads/kb.jpg"
	registerImage(t, images, url)
	product, err := svc.Create(productInput(url), "vendor-1")
	assert.NoError(t, err)

	// Age the listing past its window, then update it.
	stale := *product
	stale.StartDate = time.Now().Add(-8 * 24 * time.Hour)
	stale.ExpiryDate = stale.StartDate.Add(models.ValidityWindow)
	assert.NoError(t, products.Update(&stale))
	assert.True(t, stale.IsExpired())

	updated, err := svc.Update(product.ID, services.UpdateProductInput{
		Name:        "Mechanical Keyboard v2",
		Description: "Now with hot-swap sockets",
		Category:    "electronics",
		PriceOld:    130,
		PriceNew:    95,
	}, "vendor-1")
	assert.NoError(t, err)
	assert.False(t, updated.IsExpired(), "an update starts a fresh validity window")
	assert.Equal(t, url, updated.ImageURL, "omitted image URL keeps the current one")
	assert.Equal(t, "Mechanical Keyboard v2", updated.Name)
}

func TestProductService_UpdateReChecksNewImage(t *testing.T) {
	svc, _, images := newProductService(t)
	url := "http://localhost:8080/uploads/kb.jpg"
	registerImage(t, images, url)
	product, err := svc.Create(productInput(url), "vendor-1")
	assert.NoError(t, err)

	input := services.UpdateProductInput{
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless, brown switches",
		PriceOld:    120,
		PriceNew:    90,
		ImageURL:    "http://localhost:8080/uploads/ghost.jpg",
	}
	_, err = svc.Update(product.ID, input, "vendor-1")
	assert.ErrorIs(t, err, services.ErrImageNotRegistered)
}

func TestProductService_NotFound(t *testing.T) {
	svc, _, _ := newProductService(t)

	_, err := svc.GetByID("missing")
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	_, err = svc.Update("missing", services.UpdateProductInput{
		Name: "Thing", Description: "x", PriceOld: 1, PriceNew: 1,
	}, "vendor-1")
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	err = svc.Delete("missing")
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestProductService_Delete(t *testing.T) {
	svc, _, images := newProductService(t)
	url := "http://localhost:8080/uploads/kb.jpg"
	registerImage(t, images, url)
	product, err := svc.Create(productInput(url), "vendor-1")
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(product.ID))
	_, err = svc.GetByID(product.ID)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}
