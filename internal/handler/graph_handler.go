package handler

import (
	"foodbank-inventory/internal/middleware"
	"foodbank-inventory/internal/resolver"
	"foodbank-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type GraphHandler struct {
	resolver *resolver.Resolver
	log      *logger.Logger
}

func NewGraphHandler(r *resolver.Resolver, log *logger.Logger) *GraphHandler {
	return &GraphHandler{resolver: r, log: log}
}

// Execute runs one named operation
// POST /api/v1/graph  {"operation": "addProduct", "variables": {...}}
func (h *GraphHandler) Execute(c *fiber.Ctx) error {
	var req resolver.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Operation == "" {
		return c.Status(400).JSON(fiber.Map{"error": "operation is required"})
	}

	data, err := h.resolver.Execute(c.UserContext(), middleware.CallerFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": data})
}

// Operations lists the accepted operation names
// GET /api/v1/graph
func (h *GraphHandler) Operations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"operations": h.resolver.Operations()})
}
