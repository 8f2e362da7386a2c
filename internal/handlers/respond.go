package handlers

import (
	"fmt"

	"pasar/internal/apperr"
	"pasar/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// writeError translates a classified error into the JSON error contract.
// Only the classified message reaches the caller; internal causes are
// logged and rendered as a generic server error.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	ae := apperr.From(err)
	if ae.Kind == apperr.Internal {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(apperr.HTTPStatus(ae.Kind)).JSON(fiber.Map{
		"status":  "error",
		"message": ae.Message,
	})
}

// writeValidationError renders validator failures field by field.
func writeValidationError(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Validation failed",
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// userPayload is the safe public shape of a user record.
func userPayload(user *models.User) fiber.Map {
	return fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}
}

func userPayloads(users []models.User) []fiber.Map {
	out := make([]fiber.Map, 0, len(users))
	for i := range users {
		out = append(out, userPayload(&users[i]))
	}
	return out
}
