package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"app/models"
)

// respondCoreError maps the core error kinds to HTTP responses. Returns true
// if it wrote a response.
func respondCoreError(c *fiber.Ctx, err error) (bool, error) {
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, models.ErrUnknownItem):
		return true, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, models.ErrModelNotTrained):
		return true, c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "message": "No trained model available; train first"})
	case errors.Is(err, models.ErrInsufficientData):
		return true, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, models.ErrDataSource):
		return true, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return false, nil
}
