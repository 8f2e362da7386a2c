package handlers

import (
	"pasar/internal/access"
	"pasar/internal/middleware"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	guard       *access.Guard
	validate    *validator.Validate
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, guard *access.Guard, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		guard:       guard,
		validate:    validator.New(),
		log:         log.With().Str("handler", "auth").Logger(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", middleware.AuthOptional(h.authService), h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/verify-token", middleware.AuthRequired(h.authService), h.HandleVerifyToken)
	authRoutes.Post("/change-password", middleware.AuthRequired(h.authService), h.HandleChangePassword)
	authRoutes.Post("/create-staff",
		middleware.AuthRequired(h.authService),
		middleware.RequireRoles(h.guard, "", access.RoleAdmin),
		h.HandleCreateStaff)
}

// HandleSignup handles account registration. The acting identity, if any,
// is taken from an optional bearer token and drives the role policy.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	user, err := h.authService.Register(input, middleware.Identity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "User registered successfully",
		"user":    userPayload(user),
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin verifies credentials and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationError(c, err)
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return writeError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Login successful",
		"token":   token,
		"user":    userPayload(user),
	})
}

// HandleVerifyToken reports the identity decoded from the bearer token.
func (h *AuthHandler) HandleVerifyToken(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Token is valid",
		"user": fiber.Map{
			"id":   ident.ID,
			"role": string(ident.Role),
		},
	})
}

// ChangePasswordRequest represents the request body for password changes.
// The account is always the session identity's own.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// HandleChangePassword rotates the caller's password.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationError(c, err)
	}

	ident := middleware.Identity(c)
	if err := h.authService.ChangePassword(ident.ID, req.OldPassword, req.NewPassword); err != nil {
		return writeError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Password changed successfully",
	})
}

// HandleCreateStaff creates a staff account. Admin-only route.
func (h *AuthHandler) HandleCreateStaff(c *fiber.Ctx) error {
	var input services.StaffInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	user, err := h.authService.CreateStaff(input, middleware.Identity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Staff member created successfully",
		"user":    userPayload(user),
	})
}
