package handlers

import (
	"errors"

	"prediction-pool-system/services"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps the services' typed failures to HTTP statuses.
// ErrNoUsersAvailable and anything unknown land on 500.
func errorStatus(err error) int {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
