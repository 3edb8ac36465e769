package handler

import (
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	carts service.CartService
}

func NewCartHandler(carts service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// cartKind maps the route segment onto the cart variant.
func cartKind(c *fiber.Ctx) (service.CartKind, error) {
	kind := service.CartKind(c.Params("kind"))
	if kind != service.CartSales && kind != service.CartAdjustment {
		return "", fiber.NewError(400, "Unknown cart kind, use 'sales' or 'adjustment'")
	}
	return kind, nil
}

// GetCart returns the session's cart contents
// GET /api/v1/carts/:kind
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	kind, err := cartKind(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	view, err := h.carts.GetCart(c.Context(), kind, getSessionID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}

// AddItemRequest represents the add-to-cart request body
type AddItemRequest struct {
	BranchID  string `json:"branch_id"`
	ProductID string `json:"product_id"`
	Unit      string `json:"unit"` // Optional: empty means primary unit
	Quantity  int    `json:"quantity"`
}

// AddItem adds a product to the session's cart
// POST /api/v1/carts/:kind/items
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	kind, err := cartKind(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	branchID, err := parseUUID(req.BranchID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid branch ID"})
	}
	productID, err := parseUUID(req.ProductID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	result, err := h.carts.AddToCart(c.Context(), kind, getSessionID(c), branchID, productID, req.Unit, req.Quantity)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	if !result.Accepted() {
		return c.Status(422).JSON(fiber.Map{
			"outcome": result.Outcome,
			"reason":  result.Reason,
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"outcome": result.Outcome,
		"data":    result.Line,
	})
}

// UpdateItemRequest carries a unit and/or quantity change for one row
type UpdateItemRequest struct {
	Unit     *string `json:"unit"`
	Quantity *int    `json:"quantity"`
}

// UpdateItem changes a cart row's unit or quantity
// PATCH /api/v1/carts/:kind/items/:id
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	kind, err := cartKind(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	lineID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sessionID := getSessionID(c)
	if req.Unit != nil {
		if err := h.carts.UpdateUnit(c.Context(), kind, sessionID, lineID, *req.Unit); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}
	if req.Quantity != nil {
		if err := h.carts.UpdateQuantity(c.Context(), kind, sessionID, lineID, *req.Quantity); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Cart item updated"})
}

// RemoveItem deletes a cart row; removing an absent row succeeds
// DELETE /api/v1/carts/:kind/items/:id
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	kind, err := cartKind(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	lineID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	if err := h.carts.RemoveFromCart(c.Context(), kind, getSessionID(c), lineID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Cart item removed"})
}

// ClearCart empties the session's cart
// DELETE /api/v1/carts/:kind
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	kind, err := cartKind(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.carts.ClearCart(c.Context(), kind, getSessionID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}

// SetDiscountRequest represents the discount request body
type SetDiscountRequest struct {
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// SetDiscount sets the sales cart's order-level discount percentage
// PUT /api/v1/carts/sales/discount
func (h *CartHandler) SetDiscount(c *fiber.Ctx) error {
	var req SetDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.carts.SetDiscountPercent(c.Context(), getSessionID(c), req.DiscountPercent); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Discount updated"})
}
