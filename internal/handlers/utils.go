package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/karigar-app/karigar-backend/internal/services/booking"
	"github.com/karigar-app/karigar-backend/internal/services/rating"
	"github.com/karigar-app/karigar-backend/internal/store"
)

func getUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals("userId")
	if v == nil {
		return uuid.Nil, fmt.Errorf("unauthorized")
	}

	switch t := v.(type) {
	case uuid.UUID:
		return t, nil
	case string:
		return uuid.Parse(t)
	case []byte:
		return uuid.ParseBytes(t)
	default:
		return uuid.Nil, fmt.Errorf("invalid userId type: %T", v)
	}
}

// serviceError maps the service error taxonomy onto the JSON envelope:
// validation -> 400, not found -> 404 (a displayable state, not a crash),
// anything else -> 503 with a manual-retry hint.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, booking.ErrValidation), errors.Is(err, rating.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Not found",
		})
	default:
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"message": "Backend unavailable, please try again",
		})
	}
}
