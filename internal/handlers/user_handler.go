package handlers

import (
	"pasar/internal/access"
	"pasar/internal/middleware"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserHandler handles HTTP requests for user administration.
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
	guard       *access.Guard
	validate    *validator.Validate
	log         zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, authService *services.AuthService, guard *access.Guard, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		guard:       guard,
		validate:    validator.New(),
		log:         log.With().Str("handler", "user").Logger(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	auth := middleware.AuthRequired(h.authService)
	userRoutes := router.Group("/users")

	userRoutes.Get("/",
		auth, middleware.RequireRoles(h.guard, "", access.RoleAdmin),
		h.HandleList)
	userRoutes.Get("/roles",
		auth, middleware.RequireRoles(h.guard, "", access.RoleAdmin),
		h.HandleListByRole)
	userRoutes.Get("/:id",
		auth, middleware.RequireRoles(h.guard, "id", access.RoleAdmin, access.RoleSelf),
		h.HandleGetByID)
	userRoutes.Put("/:id",
		auth, middleware.RequireRoles(h.guard, "id", access.RoleAdmin, access.RoleSelf),
		h.HandleUpdate)
	userRoutes.Delete("/:id",
		auth, middleware.RequireRoles(h.guard, "id", access.RoleAdmin),
		h.HandleDelete)
}

// HandleList retrieves all users. Admin-only route.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.userService.List()
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Users retrieved successfully",
		"users":   userPayloads(users),
	})
}

// HandleListByRole retrieves users holding the role given in the query
// parameter. Admin-only route.
func (h *UserHandler) HandleListByRole(c *fiber.Ctx) error {
	users, err := h.userService.ListByRole(c.Query("role"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Users retrieved successfully",
		"users":   userPayloads(users),
	})
}

// HandleGetByID retrieves a single user. Admin or the user itself.
func (h *UserHandler) HandleGetByID(c *fiber.Ctx) error {
	user, err := h.userService.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "User retrieved successfully",
		"user":    userPayload(user),
	})
}

// HandleUpdate updates a user. Admin or the user itself; role changes are
// additionally restricted in the service.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	user, err := h.userService.Update(c.Params("id"), input, middleware.Identity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "User updated successfully",
		"user":    userPayload(user),
	})
}

// HandleDelete deletes a user. Admin-only route.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.userService.Delete(c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "User deleted successfully",
	})
}
