package handler

import (
	"go-inventory-gst/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps domain errors onto the HTTP surface. Unknown errors
// fall through as 500 with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(apperr.StatusCode(err)).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  apperr.Kind(err),
	})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

// Identity set by the auth middleware.
func getUserID(c *fiber.Ctx) string {
	if v := c.Locals("user_id"); v != nil {
		return v.(string)
	}
	return "system"
}

func getUserName(c *fiber.Ctx) string {
	if v := c.Locals("user_name"); v != nil {
		return v.(string)
	}
	return "system"
}

func getUserEmail(c *fiber.Ctx) string {
	if v := c.Locals("user_email"); v != nil {
		return v.(string)
	}
	return ""
}
