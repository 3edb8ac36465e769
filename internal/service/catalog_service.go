package service

import (
	"errors"
	"fmt"

	"go-retail-pos/internal/cart"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type CatalogService interface {
	CreateProduct(req *model.Product, userID, userName string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error)
	GetProducts(branchID uuid.UUID) ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)

	// BuildSnapshot resolves a product into the cart's add-time snapshot for
	// the given branch policy, deriving automated prices where needed.
	BuildSnapshot(branch *model.Branch, product *model.Product) cart.Snapshot
	PolicyFor(branch *model.Branch) cart.PricingPolicy
}

type catalogService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	hub         broadcaster
}

// broadcaster is the slice of the ws hub the services use.
type broadcaster interface {
	BroadcastJSON(payload interface{})
}

func NewCatalogService(productRepo repository.ProductRepository, db *gorm.DB, hub broadcaster) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		db:          db,
		hub:         hub,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, userID, userName string) error {
	// 1. Basic struct validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Business validation: unit list and manual price list must stay parallel
	if err := validateUnitPricing(req); err != nil {
		return err
	}

	// 3. Check SKU duplication
	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return errors.New("SKU already exists")
	}

	// 4. Set audit fields
	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	// 5. Persist
	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	// 6. Broadcast to connected clients
	go s.hub.BroadcastJSON(map[string]interface{}{
		"type":   "catalog_update",
		"action": "product_created",
		"product": map[string]interface{}{
			"id":    req.ID,
			"sku":   req.SKU,
			"name":  req.Name,
			"stock": req.Stock,
			"units": req.Units,
		},
		"message": fmt.Sprintf("%s created product '%s'", userName, req.Name),
	})

	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error) {
	if err := validateUnitPricing(req); err != nil {
		return nil, err
	}

	var updatedProduct *model.Product

	// Transaction block with pessimistic locking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		oldStock := existing.Stock

		existing.Name = req.Name
		existing.SKU = req.SKU
		existing.Stock = req.Stock
		existing.Images = req.Images
		existing.Units = req.Units
		existing.ManualPrices = req.ManualPrices
		existing.BaseCost = req.BaseCost
		existing.RetailMarkupPercent = req.RetailMarkupPercent
		existing.WholesaleMarkupPercent = req.WholesaleMarkupPercent
		existing.UpdatedBy = userID
		existing.UpdatedByUserID = &userID

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updatedProduct = &existing

		go s.hub.BroadcastJSON(map[string]interface{}{
			"type":   "catalog_update",
			"action": "product_updated",
			"product": map[string]interface{}{
				"id":        existing.ID,
				"sku":       existing.SKU,
				"name":      existing.Name,
				"old_stock": oldStock,
				"new_stock": existing.Stock,
			},
			"message": fmt.Sprintf("%s updated product '%s'", userName, existing.Name),
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	return updatedProduct, nil
}

func (s *catalogService) GetProducts(branchID uuid.UUID) ([]model.Product, error) {
	return s.productRepo.FindAll(branchID)
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// PolicyFor maps a branch row onto the cart's read-only pricing policy.
func (s *catalogService) PolicyFor(branch *model.Branch) cart.PricingPolicy {
	return cart.PricingPolicy{
		PricingType: cart.PricingType(branch.PricingType),
		PricingGroups: cart.PricingGroups{
			Retail:    branch.RetailEnabled,
			Wholesale: branch.WholesaleEnabled,
		},
	}
}

// BuildSnapshot copies the product into the cart's snapshot shape. For
// automated branches the per-unit retail/wholesale prices are derived here so
// rows keep the prices that were current at add-time.
func (s *catalogService) BuildSnapshot(branch *model.Branch, product *model.Product) cart.Snapshot {
	snapshot := cart.Snapshot{
		ProductID:       product.ID,
		Name:            product.Name,
		Stock:           product.Stock,
		Images:          product.Images,
		Units:           product.Units,
		RetailMarkup:    product.RetailMarkupPercent,
		WholesaleMarkup: product.WholesaleMarkupPercent,
	}

	for _, entry := range product.ManualPrices {
		snapshot.ManualPrices = append(snapshot.ManualPrices, cart.UnitPrice{Unit: entry.Unit, Price: entry.Price})
	}

	if branch.PricingType == model.PricingAutomated {
		snapshot.RetailPrices = derivePrices(product.Units, product.BaseCost, product.RetailMarkupPercent)
		snapshot.WholesalePrices = derivePrices(product.Units, product.BaseCost, product.WholesaleMarkupPercent)
	}

	return snapshot
}

// derivePrices computes cost * (1 + markup/100) per unit variant, rounded to
// whole minor units.
func derivePrices(units []string, baseCost int64, markupPercent decimal.Decimal) []cart.UnitPrice {
	factor := decimal.NewFromInt(1).Add(markupPercent.Div(decimal.NewFromInt(100)))
	price := decimal.NewFromInt(baseCost).Mul(factor).Round(0).IntPart()

	prices := make([]cart.UnitPrice, 0, len(units))
	for _, unit := range units {
		prices = append(prices, cart.UnitPrice{Unit: unit, Price: price})
	}
	return prices
}

// validateUnitPricing enforces the catalog-side invariant the cart relies on:
// every manual price entry refers to a declared unit variant, without
// duplicates, and the lists share their primary unit.
func validateUnitPricing(req *model.Product) error {
	declared := make(map[string]bool, len(req.Units))
	for _, unit := range req.Units {
		if declared[unit] {
			return fmt.Errorf("duplicate unit variant '%s'", unit)
		}
		declared[unit] = true
	}

	seen := make(map[string]bool, len(req.ManualPrices))
	for _, entry := range req.ManualPrices {
		if !declared[entry.Unit] {
			return fmt.Errorf("manual price references undeclared unit '%s'", entry.Unit)
		}
		if seen[entry.Unit] {
			return fmt.Errorf("duplicate manual price for unit '%s'", entry.Unit)
		}
		seen[entry.Unit] = true
	}

	if len(req.ManualPrices) > 0 && len(req.Units) > 0 && req.ManualPrices[0].Unit != req.Units[0] {
		return errors.New("manual price list must start with the primary unit")
	}

	return nil
}
