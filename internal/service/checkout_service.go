package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-retail-pos/internal/cart"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInsufficientStock     = errors.New("insufficient stock remaining")
	ErrPricingGroupDisabled  = errors.New("pricing group is not enabled for this branch")
	ErrUnitPriceUnresolvable = errors.New("no price configured for this unit")
)

type CheckoutService interface {
	// Checkout turns the session's sales cart into a Sale atomically and
	// clears the cart on success.
	Checkout(ctx context.Context, sessionID string, branchID uuid.UUID, group model.PricingGroup, paymentMethod, note, userID, userName string) (*model.Sale, error)

	// PostAdjustments books the session's stock-adjustment cart as IN/OUT
	// movement rows and clears the cart on success.
	PostAdjustments(ctx context.Context, sessionID string, branchID uuid.UUID, adjType model.AdjustmentType, reason model.AdjustmentReason, note, userID, userName string) ([]model.StockAdjustment, error)
}

// settlementTx is the per-transaction surface the settlement loops run
// against. gorm backs it in production.
type settlementTx interface {
	LockProduct(productID uuid.UUID) (*model.Product, error)
	UpdateStock(productID uuid.UUID, newStock int, updatedBy string) error
	CreateSale(sale *model.Sale) error
	CreateAdjustment(adjustment *model.StockAdjustment) error
}

// checkoutStore runs a settlement atomically: every write inside fn commits
// together or not at all.
type checkoutStore interface {
	InTransaction(fn func(tx settlementTx) error) error
}

type gormCheckoutStore struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
}

func (s *gormCheckoutStore) InTransaction(fn func(tx settlementTx) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormSettlementTx{tx: tx, productRepo: s.productRepo})
	})
}

type gormSettlementTx struct {
	tx          *gorm.DB
	productRepo repository.ProductRepository
}

// LockProduct takes a row lock so concurrent settlements serialize per product.
func (t *gormSettlementTx) LockProduct(productID uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := t.tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", productID).Error; err != nil {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func (t *gormSettlementTx) UpdateStock(productID uuid.UUID, newStock int, updatedBy string) error {
	return t.productRepo.UpdateStock(t.tx, productID, newStock, updatedBy)
}

func (t *gormSettlementTx) CreateSale(sale *model.Sale) error {
	return t.tx.Create(sale).Error
}

func (t *gormSettlementTx) CreateAdjustment(adjustment *model.StockAdjustment) error {
	return t.tx.Create(adjustment).Error
}

type checkoutService struct {
	carts      CartService
	branchRepo repository.BranchRepository
	store      checkoutStore
	hub        broadcaster
}

func NewCheckoutService(carts CartService, branchRepo repository.BranchRepository, productRepo repository.ProductRepository, db *gorm.DB, hub broadcaster) CheckoutService {
	return &checkoutService{
		carts:      carts,
		branchRepo: branchRepo,
		store:      &gormCheckoutStore{db: db, productRepo: productRepo},
		hub:        hub,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, sessionID string, branchID uuid.UUID, group model.PricingGroup, paymentMethod, note, userID, userName string) (*model.Sale, error) {
	branch, err := s.branchRepo.FindByID(branchID)
	if err != nil {
		return nil, ErrBranchNotFound
	}
	if group == "" {
		group = model.GroupRetail
	}
	if branch.PricingType == model.PricingAutomated {
		if group == model.GroupRetail && !branch.RetailEnabled {
			return nil, ErrPricingGroupDisabled
		}
		if group == model.GroupWholesale && !branch.WholesaleEnabled {
			return nil, ErrPricingGroupDisabled
		}
	}

	view, err := s.carts.GetCart(ctx, CartSales, sessionID)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, ErrEmptyCart
	}

	sale := &model.Sale{
		BranchID:        branchID,
		PricingGroup:    group,
		DiscountPercent: view.DiscountPercent,
		PaymentMethod:   paymentMethod,
		Note:            note,
	}
	sale.CreatedBy = userID
	sale.UpdatedBy = userID
	sale.CreatedByUserID = &userID

	// Atomic: every line locks its product row, checks stock and decrements
	// before the sale is written.
	err = s.store.InTransaction(func(tx settlementTx) error {
		var subtotal int64
		sale.Items = nil

		for _, line := range view.Items {
			product, err := tx.LockProduct(line.Product.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < line.Quantity {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
			}

			// Prices come from the add-time snapshot, not the live catalog.
			unitPrice, err := resolveUnitPrice(line, branch.PricingType, group)
			if err != nil {
				return err
			}
			lineTotal := unitPrice * int64(line.Quantity)
			subtotal += lineTotal

			if err := tx.UpdateStock(product.ID, product.Stock-line.Quantity, userID); err != nil {
				return err
			}

			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:   line.Product.ProductID,
				ProductName: line.Name,
				Unit:        line.Unit,
				Quantity:    line.Quantity,
				UnitPrice:   unitPrice,
				LineTotal:   lineTotal,
			})
		}

		sale.SubtotalAmount = subtotal
		sale.DiscountAmount, sale.TotalAmount = applyDiscount(subtotal, view.DiscountPercent)

		return tx.CreateSale(sale)
	})
	if err != nil {
		return nil, err
	}

	// The sale is committed at this point; a failed clear must not read as a
	// failed sale or the client would retry and double-charge.
	if err := s.carts.ClearCart(ctx, CartSales, sessionID); err != nil {
		log.Printf("checkout: clearing sales cart for session %s failed: %v", sessionID, err)
	}

	go s.hub.BroadcastJSON(map[string]interface{}{
		"type":   "sale_update",
		"action": "sale_created",
		"sale": map[string]interface{}{
			"id":           sale.ID,
			"total_amount": sale.TotalAmount,
			"items":        len(sale.Items),
		},
		"message": fmt.Sprintf("%s completed a sale of %d item(s)", userName, len(sale.Items)),
	})

	return sale, nil
}

func (s *checkoutService) PostAdjustments(ctx context.Context, sessionID string, branchID uuid.UUID, adjType model.AdjustmentType, reason model.AdjustmentReason, note, userID, userName string) ([]model.StockAdjustment, error) {
	if _, err := s.branchRepo.FindByID(branchID); err != nil {
		return nil, ErrBranchNotFound
	}

	view, err := s.carts.GetCart(ctx, CartAdjustment, sessionID)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var posted []model.StockAdjustment

	err = s.store.InTransaction(func(tx settlementTx) error {
		posted = nil

		for _, line := range view.Items {
			product, err := tx.LockProduct(line.Product.ProductID)
			if err != nil {
				return err
			}

			newStock := product.Stock
			if adjType == model.AdjustmentIn {
				newStock += line.Quantity
			} else {
				if product.Stock < line.Quantity {
					return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
				}
				newStock -= line.Quantity
			}

			if err := tx.UpdateStock(product.ID, newStock, userID); err != nil {
				return err
			}

			adjustment := model.StockAdjustment{
				BranchID:  branchID,
				ProductID: product.ID,
				Type:      adjType,
				Reason:    reason,
				Unit:      line.Unit,
				Quantity:  line.Quantity,
				Note:      note,
			}
			adjustment.CreatedBy = userID
			adjustment.UpdatedBy = userID
			adjustment.CreatedByUserID = &userID
			if err := tx.CreateAdjustment(&adjustment); err != nil {
				return err
			}
			posted = append(posted, adjustment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.ClearCart(ctx, CartAdjustment, sessionID); err != nil {
		log.Printf("checkout: clearing adjustment cart for session %s failed: %v", sessionID, err)
	}

	go s.hub.BroadcastJSON(map[string]interface{}{
		"type":    "stock_update",
		"action":  "adjustments_posted",
		"count":   len(posted),
		"message": fmt.Sprintf("%s posted %d stock adjustment(s) (%s)", userName, len(posted), adjType),
	})

	return posted, nil
}

// resolveUnitPrice picks the price for a line from its add-time snapshot:
// manual branches read the manual price list, automated branches the derived
// list for the selected pricing group.
func resolveUnitPrice(line cart.LineItem, pricingType model.PricingType, group model.PricingGroup) (int64, error) {
	list := line.Product.ManualPrices
	if pricingType == model.PricingAutomated {
		list = line.Product.RetailPrices
		if group == model.GroupWholesale {
			list = line.Product.WholesalePrices
		}
	}
	for _, entry := range list {
		if entry.Unit == line.Unit {
			return entry.Price, nil
		}
	}
	return 0, fmt.Errorf("%w: %s/%s", ErrUnitPriceUnresolvable, line.Name, line.Unit)
}

// applyDiscount computes the discount amount (rounded to whole minor units)
// and the resulting total.
func applyDiscount(subtotal int64, percent decimal.Decimal) (discount, total int64) {
	if percent.IsZero() {
		return 0, subtotal
	}
	discount = decimal.NewFromInt(subtotal).
		Mul(percent).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
	if discount > subtotal {
		discount = subtotal
	}
	return discount, subtotal - discount
}
