package handler

import (
	"foodbank-inventory/internal/service"
	"foodbank-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps the service error taxonomy onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case service.IsValidation(err):
		return fiber.StatusBadRequest
	case service.IsNotFound(err):
		return fiber.StatusNotFound
	case service.IsAuthentication(err):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes {"error": msg}. Unexpected errors are logged and hidden.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed", "path", c.Path(), "method", c.Method(), "error", err)
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// ErrorHandler is the fiber-wide fallback for errors returned by handlers and middleware
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return respondError(c, log, err)
	}
}
