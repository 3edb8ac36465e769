package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go-retail-pos/internal/cart"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/redis"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartKind selects which of the two cart variants an operation targets.
type CartKind string

const (
	CartSales      CartKind = "sales"
	CartAdjustment CartKind = "adjustment"
)

// Fixed store names; combined with the session id they form the storage key,
// so a session's carts survive reloads and restarts.
const (
	salesCartStoreName      = "cart-storage"
	adjustmentCartStoreName = "adjustment-cart-storage"
)

var (
	ErrUnknownCartKind = errors.New("unknown cart kind")
	ErrBranchNotFound  = errors.New("branch not found")
)

// CartView is what handlers return to the UI: the ordered rows plus the
// sales cart's discount scalar.
type CartView struct {
	Items           []cart.LineItem `json:"cart_items"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

type CartService interface {
	GetCart(ctx context.Context, kind CartKind, sessionID string) (*CartView, error)
	AddToCart(ctx context.Context, kind CartKind, sessionID string, branchID, productID uuid.UUID, requestedUnit string, quantity int) (*cart.AddResult, error)
	UpdateUnit(ctx context.Context, kind CartKind, sessionID string, lineID uuid.UUID, unit string) error
	UpdateQuantity(ctx context.Context, kind CartKind, sessionID string, lineID uuid.UUID, quantity int) error
	RemoveFromCart(ctx context.Context, kind CartKind, sessionID string, lineID uuid.UUID) error
	ClearCart(ctx context.Context, kind CartKind, sessionID string) error
	SetDiscountPercent(ctx context.Context, sessionID string, value decimal.Decimal) error
}

type cartService struct {
	mu        sync.Mutex
	stores    map[string]*cart.Store
	snapshots cart.SnapshotStore

	branchRepo  repository.BranchRepository
	productRepo repository.ProductRepository
	catalog     CatalogService
	hub         broadcaster
}

func NewCartService(snapshots cart.SnapshotStore, branchRepo repository.BranchRepository, productRepo repository.ProductRepository, catalog CatalogService, hub broadcaster) CartService {
	return &cartService{
		stores:      make(map[string]*cart.Store),
		snapshots:   snapshots,
		branchRepo:  branchRepo,
		productRepo: productRepo,
		catalog:     catalog,
		hub:         hub,
	}
}

// store returns the session's cart store for the kind, creating it on first
// use. The sales cart captures inventory/image snapshots and a discount; the
// adjustment cart is the bare engine.
func (s *cartService) store(kind CartKind, sessionID string) *cart.Store {
	storeName := salesCartStoreName
	opts := cart.Options{CaptureInventory: true, CaptureImage: true, WithDiscount: true}
	if kind == CartAdjustment {
		storeName = adjustmentCartStoreName
		opts = cart.Options{}
	}

	key := redis.CartKey(storeName, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.stores[key]; ok {
		return existing
	}
	created := cart.NewStore(key, opts, s.snapshots)
	s.stores[key] = created
	return created
}

func validKind(kind CartKind) error {
	if kind != CartSales && kind != CartAdjustment {
		return ErrUnknownCartKind
	}
	return nil
}

func (s *cartService) GetCart(ctx context.Context, kind CartKind, sessionID string) (*CartView, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	store := s.store(kind, sessionID)
	return &CartView{
		Items:           store.Items(ctx),
		DiscountPercent: store.DiscountPercent(ctx),
	}, nil
}

func (s *cartService) AddToCart(ctx context.Context, kind CartKind, sessionID string, branchID, productID uuid.UUID, requestedUnit string, quantity int) (*cart.AddResult, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}

	branch, err := s.branchRepo.FindByID(branchID)
	if err != nil {
		return nil, ErrBranchNotFound
	}
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	policy := s.catalog.PolicyFor(branch)
	snapshot := s.catalog.BuildSnapshot(branch, product)

	result := s.store(kind, sessionID).AddToCart(ctx, policy, snapshot, requestedUnit, quantity)

	// Acknowledgment side channel: a toast/sound hint, never blocking the add.
	go func() {
		if result.Accepted() {
			s.hub.BroadcastJSON(map[string]interface{}{
				"type":    "cart_ack",
				"cart":    kind,
				"outcome": result.Outcome,
				"sound":   "success",
				"message": fmt.Sprintf("'%s' added to cart", product.Name),
			})
			return
		}
		s.hub.BroadcastJSON(map[string]interface{}{
			"type":    "cart_ack",
			"cart":    kind,
			"outcome": result.Outcome,
			"sound":   "warning",
			"message": fmt.Sprintf("'%s': %s", product.Name, result.Reason),
		})
	}()

	return &result, nil
}

func (s *cartService) UpdateUnit(ctx context.Context, kind CartKind, sessionID string, lineID uuid.UUID, unit string) error {
	if err := validKind(kind); err != nil {
		return err
	}
	s.store(kind, sessionID).UpdateUnit(ctx, lineID, unit)
	return nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, kind CartKind, sessionID string, lineID uuid.UUID, quantity int) error {
	if err := validKind(kind); err != nil {
		return err
	}
	return s.store(kind, sessionID).UpdateQuantity(ctx, lineID, quantity)
}

func (s *cartService) RemoveFromCart(ctx context.Context, kind CartKind, sessionID string, lineID uuid.UUID) error {
	if err := validKind(kind); err != nil {
		return err
	}
	s.store(kind, sessionID).RemoveFromCart(ctx, lineID)
	return nil
}

func (s *cartService) ClearCart(ctx context.Context, kind CartKind, sessionID string) error {
	if err := validKind(kind); err != nil {
		return err
	}
	s.store(kind, sessionID).Clear(ctx)
	return nil
}

func (s *cartService) SetDiscountPercent(ctx context.Context, sessionID string, value decimal.Decimal) error {
	return s.store(CartSales, sessionID).SetDiscountPercent(ctx, value)
}
