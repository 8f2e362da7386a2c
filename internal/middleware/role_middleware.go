package middleware

import (
	"pasar/internal/access"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles is a Fiber middleware enforcing the Access Guard decision
// for a route. selfParam names the route parameter carrying the target
// resource id ("" when the route has none); a route granting owner access
// lists access.RoleSelf among its roles.
func RequireRoles(guard *access.Guard, selfParam string, roles ...access.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident := Identity(c)

		targetID := ""
		if selfParam != "" {
			targetID = c.Params(selfParam)
		}

		decision := guard.Authorize(ident, roles, targetID)
		if decision.Allowed {
			return c.Next()
		}

		message := "Forbidden: Access denied"
		if decision.Reason == access.ReasonNoRole {
			message = "Forbidden: No role found"
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": message,
		})
	}
}
