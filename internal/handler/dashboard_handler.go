package handler

import (
	"strconv"

	"foodbank-inventory/internal/resolver"
	"foodbank-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	resolver *resolver.Resolver
	log      *logger.Logger
}

func NewDashboardHandler(r *resolver.Resolver, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{resolver: r, log: log}
}

// GetDashboard returns headline stats plus the movement table
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	dashboard, err := h.resolver.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dashboard)
}

func (h *DashboardHandler) GetTransactions(c *fiber.Ctx) error {
	rows, err := h.resolver.Transactions(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(rows)
}

func (h *DashboardHandler) GetTransaction(c *fiber.Ctx) error {
	row, err := h.resolver.Transaction(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if row == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	return c.JSON(row)
}

// GetStockMovement returns per-day unit totals for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "days must be a number"})
	}

	data, err := h.resolver.StockMovement(c.UserContext(), days)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
