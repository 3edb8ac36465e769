package handler

import (
	"strconv"

	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func dashboardBranch(c *fiber.Ctx) (uuid.UUID, error) {
	if raw := c.Query("branch_id"); raw != "" {
		return parseUUID(raw)
	}
	return uuid.Nil, nil
}

func dashboardDays(c *fiber.Ctx) int {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		return 7
	}
	return days
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7), branch_id
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	branchID, err := dashboardBranch(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid branch ID"})
	}
	days := dashboardDays(c)

	data, err := h.service.GetStockMovement(branchID, days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetRevenueMovement returns revenue movement data for charts
// Query params: days (default 7), branch_id
func (h *DashboardHandler) GetRevenueMovement(c *fiber.Ctx) error {
	branchID, err := dashboardBranch(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid branch ID"})
	}
	days := dashboardDays(c)

	data, err := h.service.GetRevenueMovement(branchID, days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch revenue movement"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	branchID, err := dashboardBranch(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid branch ID"})
	}

	stats, err := h.service.GetDashboardStats(branchID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetFinancialSummary nets revenue against expenses for a view window
// GET /api/v1/dashboard/financial-summary?branch_id=...&view=...&date=...
func (h *DashboardHandler) GetFinancialSummary(c *fiber.Ctx) error {
	branchID, viewType, referenceDate, err := parseViewQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	summary, err := h.service.GetFinancialSummary(branchID, viewType, referenceDate)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch financial summary"})
	}

	return c.JSON(summary)
}
