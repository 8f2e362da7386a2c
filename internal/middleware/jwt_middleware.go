package middleware

import (
	"strings"

	"pasar/internal/access"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// identityKey is the fiber.Ctx locals key the decoded identity lives under.
const identityKey = "identity"

// Identity returns the authenticated identity stored by AuthRequired, or
// nil when the request is anonymous.
func Identity(c *fiber.Ctx) *access.Identity {
	ident, _ := c.Locals(identityKey).(*access.Identity)
	return ident
}

// AuthRequired is a Fiber middleware that rejects requests without a valid
// bearer token. Signature mismatch and expiry both render the same 401 so
// the caller cannot tell which check failed.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		ident, err := authService.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid or expired token",
			})
		}

		c.Locals(identityKey, ident)
		return c.Next()
	}
}

// AuthOptional decodes a bearer token when one is supplied but lets
// anonymous requests through. A token that is present but invalid is still
// rejected rather than silently downgraded to anonymous. Used by signup,
// where the acting role decides which roles may be created.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		ident, err := authService.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid or expired token",
			})
		}

		c.Locals(identityKey, ident)
		return c.Next()
	}
}
