package handlers

import (
	"io"

	"pasar/internal/access"
	"pasar/internal/middleware"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProductHandler handles HTTP requests for products and image uploads.
type ProductHandler struct {
	productService *services.ProductService
	uploadService  *services.UploadService
	authService    *services.AuthService
	guard          *access.Guard
	validate       *validator.Validate
	log            zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, uploadService *services.UploadService, authService *services.AuthService, guard *access.Guard, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		uploadService:  uploadService,
		authService:    authService,
		guard:          guard,
		validate:       validator.New(),
		log:            log.With().Str("handler", "product").Logger(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Static
// paths are registered before "/:id" so fiber does not capture them as ids.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	auth := middleware.AuthRequired(h.authService)
	productRoutes := router.Group("/products")

	// Public routes
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/search", h.HandleList)
	productRoutes.Get("/category/:category", h.HandleGetByCategory)

	// Protected routes
	productRoutes.Post("/upload",
		auth, middleware.RequireRoles(h.guard, "", access.RoleAdmin, access.RoleVendor),
		h.HandleUpload)
	productRoutes.Get("/vendor/:vendorId",
		auth, middleware.RequireRoles(h.guard, "vendorId", access.RoleAdmin, access.RoleVendor),
		h.HandleGetByVendor)
	productRoutes.Post("/",
		auth, middleware.RequireRoles(h.guard, "", access.RoleAdmin, access.RoleVendor),
		h.HandleCreate)
	productRoutes.Put("/:id",
		auth, middleware.RequireRoles(h.guard, "id", access.RoleAdmin, access.RoleStaff, access.RoleVendor),
		h.HandleUpdate)
	productRoutes.Delete("/:id",
		auth, middleware.RequireRoles(h.guard, "id", access.RoleAdmin),
		h.HandleDelete)

	productRoutes.Get("/:id", h.HandleGetByID)
}

// HandleList lists products with optional name search and pagination.
// Serves both the base listing and the search endpoint, which share
// semantics.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	search := c.Query("search")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	products, total, err := h.productService.List(search, page, limit)
	if err != nil {
		return writeError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"message":  "Products retrieved successfully",
		"products": products,
		"total":    total,
	})
}

// HandleGetByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	product, err := h.productService.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Product retrieved successfully",
		"product": product,
	})
}

// HandleGetByCategory lists products by category. The matchType query
// selects contains (default), startsWith or endsWith matching.
func (h *ProductHandler) HandleGetByCategory(c *fiber.Ctx) error {
	matchType := c.Query("matchType", repositories.MatchContains)
	products, err := h.productService.GetByCategory(c.Params("category"), matchType)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"status":   "success",
		"message":  "Products retrieved successfully",
		"products": products,
	})
}

// HandleGetByVendor lists a vendor's products.
func (h *ProductHandler) HandleGetByVendor(c *fiber.Ctx) error {
	products, err := h.productService.GetByVendor(c.Params("vendorId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"status":   "success",
		"message":  "Products retrieved successfully",
		"products": products,
	})
}

// HandleCreate creates a product owned by the acting vendor.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	product, err := h.productService.Create(input, middleware.Identity(c).ID)
	if err != nil {
		return writeError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Product created successfully",
		"product": product,
	})
}

// HandleUpdate rewrites a product and resets its validity window.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	product, err := h.productService.Update(c.Params("id"), input, middleware.Identity(c).ID)
	if err != nil {
		return writeError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Product updated successfully",
		"product": product,
	})
}

// HandleDelete deletes a product by its ID.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.productService.Delete(c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Product deleted successfully",
	})
}

// HandleUpload ingests a multipart image upload through the deduplicator.
// The single file field is named "image".
func (h *ProductHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return writeError(c, h.log, services.ErrEmptyUpload)
	}
	if fileHeader.Size > services.MaxImageBytes {
		return writeError(c, h.log, services.ErrImageTooLarge)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return writeError(c, h.log, err)
	}

	image, err := h.uploadService.Ingest(
		c.Context(),
		data,
		middleware.Identity(c).ID,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Filename,
	)
	if err != nil {
		return writeError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Image uploaded successfully",
		"image":   image,
		"fileUrl": image.URL,
	})
}
