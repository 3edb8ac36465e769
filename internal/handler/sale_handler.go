package handler

import (
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	checkout service.CheckoutService
	saleRepo repository.SaleRepository
	adjRepo  repository.AdjustmentRepository
}

func NewSaleHandler(checkout service.CheckoutService, saleRepo repository.SaleRepository, adjRepo repository.AdjustmentRepository) *SaleHandler {
	return &SaleHandler{checkout: checkout, saleRepo: saleRepo, adjRepo: adjRepo}
}

// CheckoutRequest represents the checkout request body
type CheckoutRequest struct {
	BranchID      string `json:"branch_id"`
	PricingGroup  string `json:"pricing_group"` // retail (default) or wholesale
	PaymentMethod string `json:"payment_method"`
	Note          string `json:"note"`
}

// Checkout converts the session's sales cart into a sale
// POST /api/v1/sales/checkout
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	branchID, err := parseUUID(req.BranchID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid branch ID"})
	}

	sale, err := h.checkout.Checkout(c.Context(), getSessionID(c), branchID, model.PricingGroup(req.PricingGroup), req.PaymentMethod, req.Note, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

// GetSales returns all sales, optionally filtered by branch
// GET /api/v1/sales?branch_id=...
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	branchID := uuid.Nil
	if raw := c.Query("branch_id"); raw != "" {
		parsed, err := parseUUID(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid branch ID"})
		}
		branchID = parsed
	}

	sales, err := h.saleRepo.FindAll(branchID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

// GetSale returns a single sale by ID
// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.saleRepo.FindByID(saleID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Sale not found"})
	}
	return c.JSON(sale)
}

// PostAdjustmentsRequest represents the adjustment posting request body
type PostAdjustmentsRequest struct {
	BranchID string `json:"branch_id"`
	Type     string `json:"type"`   // IN or OUT
	Reason   string `json:"reason"` // purchase, correction, damage, return
	Note     string `json:"note"`
}

// PostAdjustments books the session's adjustment cart as stock movements
// POST /api/v1/adjustments/post
func (h *SaleHandler) PostAdjustments(c *fiber.Ctx) error {
	var req PostAdjustmentsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	branchID, err := parseUUID(req.BranchID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid branch ID"})
	}

	adjType := model.AdjustmentType(req.Type)
	if adjType != model.AdjustmentIn && adjType != model.AdjustmentOut {
		return c.Status(400).JSON(fiber.Map{"error": "Type must be IN or OUT"})
	}

	adjustments, err := h.checkout.PostAdjustments(c.Context(), getSessionID(c), branchID, adjType, model.AdjustmentReason(req.Reason), req.Note, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Adjustments posted", "data": adjustments})
}

// GetAdjustments returns stock adjustments, optionally filtered by branch and
// date range
// GET /api/v1/adjustments?branch_id=...&start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *SaleHandler) GetAdjustments(c *fiber.Ctx) error {
	branchID := uuid.Nil
	if raw := c.Query("branch_id"); raw != "" {
		parsed, err := parseUUID(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid branch ID"})
		}
		branchID = parsed
	}

	startRaw, endRaw := c.Query("start"), c.Query("end")
	if startRaw != "" && endRaw != "" {
		start, err := time.Parse("2006-01-02", startRaw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid start date, use YYYY-MM-DD"})
		}
		end, err := time.Parse("2006-01-02", endRaw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid end date, use YYYY-MM-DD"})
		}
		lo, hi := adjustmentDateRange(start, end)
		adjustments, err := h.adjRepo.FindByDateRange(branchID, lo, hi)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.JSON(adjustments)
	}

	adjustments, err := h.adjRepo.FindAll(branchID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(adjustments)
}

// adjustmentDateRange widens a YYYY-MM-DD pair into the half-open timestamp
// range [start, end+1d) so the end date's full day is covered.
func adjustmentDateRange(start, end time.Time) (time.Time, time.Time) {
	return start, end.AddDate(0, 0, 1)
}
