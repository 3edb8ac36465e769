package handler

import (
	"time"

	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ExpenseHandler struct {
	expenses service.ExpenseService
}

func NewExpenseHandler(expenses service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// parseViewQuery reads the shared view/date/branch filter query params.
func parseViewQuery(c *fiber.Ctx) (uuid.UUID, string, time.Time, error) {
	branchID := uuid.Nil
	if raw := c.Query("branch_id"); raw != "" {
		parsed, err := parseUUID(raw)
		if err != nil {
			return uuid.Nil, "", time.Time{}, err
		}
		branchID = parsed
	}

	viewType := c.Query("view", "all")

	referenceDate := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return uuid.Nil, "", time.Time{}, err
		}
		referenceDate = parsed
	}

	return branchID, viewType, referenceDate, nil
}

// CreateExpense handles expense creation
// POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c *fiber.Ctx) error {
	var req service.CreateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	expense, err := h.expenses.CreateExpense(&req, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Expense recorded", "data": expense})
}

// UpdateExpense handles expense update
// PUT /api/v1/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c *fiber.Ctx) error {
	expenseID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid expense ID"})
	}

	var req service.UpdateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	expense, err := h.expenses.UpdateExpense(expenseID, &req, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Expense updated", "data": expense})
}

// DeleteExpense handles expense deletion (soft delete)
// DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c *fiber.Ctx) error {
	expenseID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid expense ID"})
	}

	if err := h.expenses.DeleteExpense(expenseID, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Expense deleted"})
}

// GetExpense returns a single expense by ID
// GET /api/v1/expenses/:id
func (h *ExpenseHandler) GetExpense(c *fiber.Ctx) error {
	expenseID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid expense ID"})
	}

	expense, err := h.expenses.GetExpenseByID(expenseID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Expense not found"})
	}
	return c.JSON(expense)
}

// GetExpenses returns expenses for a view window
// GET /api/v1/expenses?branch_id=...&view=daily|weekly|monthly|all&date=YYYY-MM-DD
func (h *ExpenseHandler) GetExpenses(c *fiber.Ctx) error {
	branchID, viewType, referenceDate, err := parseViewQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	expenses, err := h.expenses.GetExpenses(branchID, viewType, referenceDate)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch expenses"})
	}
	return c.JSON(expenses)
}

// GetExpenseTotal returns the summed amount for a view window
// GET /api/v1/expenses/total?branch_id=...&view=...&date=...
func (h *ExpenseHandler) GetExpenseTotal(c *fiber.Ctx) error {
	branchID, viewType, referenceDate, err := parseViewQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	total, err := h.expenses.GetExpenseTotal(branchID, viewType, referenceDate)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute total"})
	}
	return c.JSON(fiber.Map{"view": viewType, "total": total})
}
