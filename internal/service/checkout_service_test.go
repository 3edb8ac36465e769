package service

import (
	"context"
	"errors"
	"testing"

	"go-retail-pos/internal/cart"
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApplyDiscount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		subtotal     int64
		percent      decimal.Decimal
		wantDiscount int64
		wantTotal    int64
	}{
		{"no discount", 10000, decimal.Zero, 0, 10000},
		{"ten percent", 10000, decimal.NewFromInt(10), 1000, 9000},
		{"full discount", 10000, decimal.NewFromInt(100), 10000, 0},
		{"fractional percent rounds", 999, decimal.NewFromFloat(2.5), 25, 974},
		{"half rounds up", 1000, decimal.NewFromFloat(0.05), 1, 999},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			discount, total := applyDiscount(tt.subtotal, tt.percent)
			assert.Equal(t, tt.wantDiscount, discount)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func checkoutLine(unit string) cart.LineItem {
	return cart.LineItem{
		Name:     "Rice 5kg",
		Unit:     unit,
		Quantity: 2,
		Product: cart.Snapshot{
			Name:  "Rice 5kg",
			Units: []string{"pcs", "box"},
			ManualPrices: []cart.UnitPrice{
				{Unit: "pcs", Price: 1500},
				{Unit: "box", Price: 16000},
			},
			RetailPrices: []cart.UnitPrice{
				{Unit: "pcs", Price: 1800},
				{Unit: "box", Price: 19200},
			},
			WholesalePrices: []cart.UnitPrice{
				{Unit: "pcs", Price: 1650},
				{Unit: "box", Price: 17600},
			},
		},
	}
}

func TestResolveUnitPriceManual(t *testing.T) {
	t.Parallel()

	price, err := resolveUnitPrice(checkoutLine("box"), model.PricingManual, model.GroupRetail)
	require.NoError(t, err)
	assert.Equal(t, int64(16000), price)
}

func TestResolveUnitPriceAutomatedGroups(t *testing.T) {
	t.Parallel()

	retail, err := resolveUnitPrice(checkoutLine("pcs"), model.PricingAutomated, model.GroupRetail)
	require.NoError(t, err)
	assert.Equal(t, int64(1800), retail)

	wholesale, err := resolveUnitPrice(checkoutLine("pcs"), model.PricingAutomated, model.GroupWholesale)
	require.NoError(t, err)
	assert.Equal(t, int64(1650), wholesale)
}

func TestResolveUnitPriceUnknownUnit(t *testing.T) {
	t.Parallel()

	_, err := resolveUnitPrice(checkoutLine("crate"), model.PricingManual, model.GroupRetail)
	assert.ErrorIs(t, err, ErrUnitPriceUnresolvable)
}

// stubCartService serves a canned view and records clears.
type stubCartService struct {
	view     *CartView
	clearErr error
	cleared  []CartKind
}

func (s *stubCartService) GetCart(_ context.Context, _ CartKind, _ string) (*CartView, error) {
	return s.view, nil
}

func (s *stubCartService) AddToCart(_ context.Context, _ CartKind, _ string, _, _ uuid.UUID, _ string, _ int) (*cart.AddResult, error) {
	return nil, nil
}

func (s *stubCartService) UpdateUnit(_ context.Context, _ CartKind, _ string, _ uuid.UUID, _ string) error {
	return nil
}

func (s *stubCartService) UpdateQuantity(_ context.Context, _ CartKind, _ string, _ uuid.UUID, _ int) error {
	return nil
}

func (s *stubCartService) RemoveFromCart(_ context.Context, _ CartKind, _ string, _ uuid.UUID) error {
	return nil
}

func (s *stubCartService) ClearCart(_ context.Context, kind CartKind, _ string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared = append(s.cleared, kind)
	return nil
}

func (s *stubCartService) SetDiscountPercent(_ context.Context, _ string, _ decimal.Decimal) error {
	return nil
}

type stubBranchRepo struct {
	branch *model.Branch
}

func (s *stubBranchRepo) Create(*model.Branch) error       { return nil }
func (s *stubBranchRepo) FindAll() ([]model.Branch, error) { return nil, nil }
func (s *stubBranchRepo) Update(*model.Branch) error       { return nil }

func (s *stubBranchRepo) FindByID(uuid.UUID) (*model.Branch, error) {
	if s.branch == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.branch, nil
}

// fakeSettlementTx keeps product stock in memory and records writes.
type fakeSettlementTx struct {
	stock       map[uuid.UUID]int
	names       map[uuid.UUID]string
	sales       []*model.Sale
	adjustments []*model.StockAdjustment
}

func (t *fakeSettlementTx) LockProduct(productID uuid.UUID) (*model.Product, error) {
	stock, ok := t.stock[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	product := &model.Product{Name: t.names[productID], Stock: stock}
	product.ID = productID
	return product, nil
}

func (t *fakeSettlementTx) UpdateStock(productID uuid.UUID, newStock int, _ string) error {
	t.stock[productID] = newStock
	return nil
}

func (t *fakeSettlementTx) CreateSale(sale *model.Sale) error {
	t.sales = append(t.sales, sale)
	return nil
}

func (t *fakeSettlementTx) CreateAdjustment(adjustment *model.StockAdjustment) error {
	t.adjustments = append(t.adjustments, adjustment)
	return nil
}

// fakeCheckoutStore undoes the fake tx's writes when fn errors, the way a
// real transaction rolls back.
type fakeCheckoutStore struct {
	tx *fakeSettlementTx
}

func (s *fakeCheckoutStore) InTransaction(fn func(tx settlementTx) error) error {
	before := make(map[uuid.UUID]int, len(s.tx.stock))
	for id, stock := range s.tx.stock {
		before[id] = stock
	}
	sales, adjustments := len(s.tx.sales), len(s.tx.adjustments)

	if err := fn(s.tx); err != nil {
		s.tx.stock = before
		s.tx.sales = s.tx.sales[:sales]
		s.tx.adjustments = s.tx.adjustments[:adjustments]
		return err
	}
	return nil
}

type noopHub struct{}

func (noopHub) BroadcastJSON(interface{}) {}

func settledLine(productID uuid.UUID, unit string, quantity int) cart.LineItem {
	line := checkoutLine(unit)
	line.Quantity = quantity
	line.Product.ProductID = productID
	return line
}

func newCheckoutFixture(branch *model.Branch, view *CartView, stock map[uuid.UUID]int) (*checkoutService, *stubCartService, *fakeSettlementTx) {
	carts := &stubCartService{view: view}
	tx := &fakeSettlementTx{stock: stock, names: map[uuid.UUID]string{}}
	for id := range stock {
		tx.names[id] = "Rice 5kg"
	}
	svc := &checkoutService{
		carts:      carts,
		branchRepo: &stubBranchRepo{branch: branch},
		store:      &fakeCheckoutStore{tx: tx},
		hub:        noopHub{},
	}
	return svc, carts, tx
}

func manualBranch() *model.Branch {
	return &model.Branch{Name: "Main", PricingType: model.PricingManual, RetailEnabled: true}
}

func TestCheckoutCreatesSaleAndClearsCart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	productID := uuid.New()
	view := &CartView{
		Items: []cart.LineItem{
			settledLine(productID, "pcs", 2), // 2 x 1500
			settledLine(productID, "box", 1), // 1 x 16000
		},
		DiscountPercent: decimal.NewFromInt(10),
	}
	svc, carts, tx := newCheckoutFixture(manualBranch(), view, map[uuid.UUID]int{productID: 10})

	sale, err := svc.Checkout(ctx, "session-1", uuid.New(), model.GroupRetail, "CASH", "", "user-1", "Ani")
	require.NoError(t, err)

	assert.Equal(t, int64(19000), sale.SubtotalAmount)
	assert.Equal(t, int64(1900), sale.DiscountAmount)
	assert.Equal(t, int64(17100), sale.TotalAmount)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, int64(1500), sale.Items[0].UnitPrice)
	assert.Equal(t, int64(16000), sale.Items[1].UnitPrice)

	assert.Equal(t, 7, tx.stock[productID], "both lines decrement the same product")
	require.Len(t, tx.sales, 1)
	assert.Equal(t, []CartKind{CartSales}, carts.cleared)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	productID := uuid.New()
	view := &CartView{Items: []cart.LineItem{settledLine(productID, "pcs", 5)}}
	svc, carts, tx := newCheckoutFixture(manualBranch(), view, map[uuid.UUID]int{productID: 3})

	_, err := svc.Checkout(ctx, "session-1", uuid.New(), model.GroupRetail, "CASH", "", "user-1", "Ani")
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 3, tx.stock[productID], "failed checkout leaves stock untouched")
	assert.Empty(t, tx.sales)
	assert.Empty(t, carts.cleared, "failed checkout keeps the cart")
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()

	svc, _, _ := newCheckoutFixture(manualBranch(), &CartView{}, map[uuid.UUID]int{})

	_, err := svc.Checkout(context.Background(), "session-1", uuid.New(), model.GroupRetail, "CASH", "", "user-1", "Ani")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutDisabledPricingGroup(t *testing.T) {
	t.Parallel()

	branch := &model.Branch{Name: "Main", PricingType: model.PricingAutomated, RetailEnabled: true, WholesaleEnabled: false}
	productID := uuid.New()
	view := &CartView{Items: []cart.LineItem{settledLine(productID, "pcs", 1)}}
	svc, _, _ := newCheckoutFixture(branch, view, map[uuid.UUID]int{productID: 10})

	_, err := svc.Checkout(context.Background(), "session-1", uuid.New(), model.GroupWholesale, "CASH", "", "user-1", "Ani")
	assert.ErrorIs(t, err, ErrPricingGroupDisabled)
}

func TestCheckoutSurvivesFailedCartClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	productID := uuid.New()
	view := &CartView{Items: []cart.LineItem{settledLine(productID, "pcs", 1)}}
	svc, carts, tx := newCheckoutFixture(manualBranch(), view, map[uuid.UUID]int{productID: 10})
	carts.clearErr = errors.New("connection refused")

	// The sale committed; the clear failure must not surface as a checkout error.
	sale, err := svc.Checkout(ctx, "session-1", uuid.New(), model.GroupRetail, "CASH", "", "user-1", "Ani")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), sale.TotalAmount)
	require.Len(t, tx.sales, 1)
}

func TestPostAdjustmentsInAndOut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	productID := uuid.New()
	view := &CartView{Items: []cart.LineItem{settledLine(productID, "pcs", 4)}}
	svc, carts, tx := newCheckoutFixture(manualBranch(), view, map[uuid.UUID]int{productID: 10})

	posted, err := svc.PostAdjustments(ctx, "session-1", uuid.New(), model.AdjustmentIn, model.ReasonPurchase, "", "user-1", "Ani")
	require.NoError(t, err)
	require.Len(t, posted, 1)
	assert.Equal(t, 14, tx.stock[productID])
	assert.Equal(t, []CartKind{CartAdjustment}, carts.cleared)

	posted, err = svc.PostAdjustments(ctx, "session-1", uuid.New(), model.AdjustmentOut, model.ReasonDamage, "", "user-1", "Ani")
	require.NoError(t, err)
	require.Len(t, posted, 1)
	assert.Equal(t, 10, tx.stock[productID])
}

func TestPostAdjustmentsOutInsufficientStock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	productID := uuid.New()
	view := &CartView{Items: []cart.LineItem{settledLine(productID, "pcs", 9)}}
	svc, carts, tx := newCheckoutFixture(manualBranch(), view, map[uuid.UUID]int{productID: 2})

	_, err := svc.PostAdjustments(ctx, "session-1", uuid.New(), model.AdjustmentOut, model.ReasonCorrection, "", "user-1", "Ani")
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 2, tx.stock[productID])
	assert.Empty(t, tx.adjustments)
	assert.Empty(t, carts.cleared)
}
