package handler

import (
	"errors"

	"go-inventory-crm/internal/logger"
	"go-inventory-crm/internal/service"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors to HTTP responses. Unknown errors are logged and hidden.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateModel):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "model already exists"})
	case errors.Is(err, service.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "insufficient stock"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
	default:
		logger.Errorw("request_failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
}
