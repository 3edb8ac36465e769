package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manualPolicy() PricingPolicy {
	return PricingPolicy{
		PricingType:   PricingManual,
		PricingGroups: PricingGroups{Retail: true},
	}
}

func automatedPolicy() PricingPolicy {
	return PricingPolicy{
		PricingType:   PricingAutomated,
		PricingGroups: PricingGroups{Retail: true, Wholesale: true},
	}
}

func manualProduct(units ...string) Snapshot {
	prices := make([]UnitPrice, len(units))
	for i, unit := range units {
		prices[i] = UnitPrice{Unit: unit, Price: int64(1000 * (i + 1))}
	}
	return Snapshot{
		ProductID:    uuid.New(),
		Name:         "Rice 5kg",
		Stock:        40,
		Images:       []string{"rice.png"},
		Units:        units,
		ManualPrices: prices,
	}
}

func automatedProduct(units ...string) Snapshot {
	return Snapshot{
		ProductID:       uuid.New(),
		Name:            "Cooking Oil",
		Stock:           25,
		Units:           units,
		RetailMarkup:    decimal.NewFromInt(20),
		WholesaleMarkup: decimal.NewFromInt(10),
	}
}

func salesOptions() Options {
	return Options{CaptureInventory: true, CaptureImage: true, WithDiscount: true}
}

func TestAddToCartFirstAddUsesRequestedUnit(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())

	result := e.AddToCart(manualPolicy(), manualProduct("pcs", "box"), "box", 2)

	require.True(t, result.Accepted())
	assert.Equal(t, OutcomeAdded, result.Outcome)
	assert.Equal(t, "box", result.Line.Unit)
	assert.Equal(t, 2, result.Line.Quantity)
}

func TestAddToCartEmptyUnitFallsBackToPrimary(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	product := manualProduct("pcs", "box")
	policy := manualPolicy()

	first := e.AddToCart(policy, product, "", 1)
	require.True(t, first.Accepted())
	assert.Equal(t, "pcs", first.Line.Unit)

	// A second unitless add resolves against the primary row, not a duplicate
	second := e.AddToCart(policy, product, "", 1)
	assert.Equal(t, "box", second.Line.Unit)
	assert.Equal(t, 2, e.Len())
}

func TestAddToCartWalksDeclaredUnitOrder(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	product := manualProduct("pcs", "box", "carton")
	policy := manualPolicy()

	first := e.AddToCart(policy, product, "pcs", 1)
	second := e.AddToCart(policy, product, "pcs", 1)
	third := e.AddToCart(policy, product, "pcs", 1)

	assert.Equal(t, "pcs", first.Line.Unit)
	assert.Equal(t, "box", second.Line.Unit)
	assert.Equal(t, "carton", third.Line.Unit)
	assert.Equal(t, 3, e.Len())
}

func TestAddToCartSaturationMergesIntoPrimary(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	product := manualProduct("pcs", "box")
	policy := manualPolicy()

	e.AddToCart(policy, product, "pcs", 1)
	e.AddToCart(policy, product, "pcs", 1)
	result := e.AddToCart(policy, product, "pcs", 3)

	require.Equal(t, OutcomeMerged, result.Outcome)
	assert.Equal(t, "pcs", result.Line.Unit)
	assert.Equal(t, 4, result.Line.Quantity)
	// No new row appeared
	assert.Equal(t, 2, e.Len())
}

func TestAddToCartNeverDuplicatesProductUnitPair(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	product := manualProduct("pcs", "box", "carton")
	policy := manualPolicy()

	for i := 0; i < 10; i++ {
		e.AddToCart(policy, product, "box", 1)
	}

	seen := make(map[string]bool)
	for _, item := range e.Items() {
		key := item.Product.ProductID.String() + "/" + item.Unit
		assert.False(t, seen[key], "duplicate row for %s", key)
		seen[key] = true
	}
}

func TestAddToCartIsDeterministic(t *testing.T) {
	t.Parallel()
	product := manualProduct("pcs", "box", "carton")
	policy := manualPolicy()

	run := func() []string {
		e := NewEngine(salesOptions())
		e.AddToCart(policy, product, "box", 1)
		e.AddToCart(policy, product, "box", 1)
		e.AddToCart(policy, product, "box", 1)
		units := []string{}
		for _, item := range e.Items() {
			units = append(units, item.Unit)
		}
		return units
	}

	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run())
	}
}

func TestAddToCartDifferentProductsDoNotInterfere(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	policy := manualPolicy()
	rice := manualProduct("pcs", "box")
	oil := manualProduct("pcs", "box")

	e.AddToCart(policy, rice, "pcs", 1)
	result := e.AddToCart(policy, oil, "pcs", 1)

	require.Equal(t, OutcomeAdded, result.Outcome)
	assert.Equal(t, "pcs", result.Line.Unit)
	assert.Equal(t, 2, e.Len())
}

func TestAddToCartQuantityBelowOneDefaultsToOne(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())

	result := e.AddToCart(manualPolicy(), manualProduct("pcs"), "pcs", 0)

	require.True(t, result.Accepted())
	assert.Equal(t, 1, result.Line.Quantity)
}

func TestAddToCartRejectsUnpricedManualProduct(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())

	product := manualProduct("pcs", "box")
	product.ManualPrices[0].Price = 0

	result := e.AddToCart(manualPolicy(), product, "pcs", 1)

	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, "price not configured", result.Reason)
	assert.Equal(t, 0, e.Len())
}

func TestAddToCartRejectsEmptyManualPriceList(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())

	product := manualProduct("pcs")
	product.ManualPrices = nil

	result := e.AddToCart(manualPolicy(), product, "pcs", 1)

	assert.Equal(t, OutcomeRejected, result.Outcome)
}

// Only the first manual price entry is inspected: a zero price on a secondary
// unit does not block the add, even when that unit is the one requested.
func TestAddToCartAcceptsZeroPricedSecondaryUnit(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())

	product := manualProduct("pcs", "box")
	product.ManualPrices[1].Price = 0

	result := e.AddToCart(manualPolicy(), product, "box", 1)

	assert.Equal(t, OutcomeAdded, result.Outcome)
	assert.Equal(t, "box", result.Line.Unit)
}

func TestAddToCartRejectsAutomatedProductWithZeroMarkup(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())

	product := automatedProduct("pcs")
	product.WholesaleMarkup = decimal.Zero

	result := e.AddToCart(automatedPolicy(), product, "pcs", 1)

	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, "price not configured", result.Reason)
}

func TestAddToCartAutomatedUsesDeclaredUnitOrder(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	product := automatedProduct("pcs", "box")
	policy := automatedPolicy()

	first := e.AddToCart(policy, product, "pcs", 1)
	second := e.AddToCart(policy, product, "pcs", 1)
	merged := e.AddToCart(policy, product, "pcs", 2)

	assert.Equal(t, "pcs", first.Line.Unit)
	assert.Equal(t, "box", second.Line.Unit)
	assert.Equal(t, OutcomeMerged, merged.Outcome)
	assert.Equal(t, 3, merged.Line.Quantity)
}

func TestAddToCartCapturesSnapshotPerOptions(t *testing.T) {
	t.Parallel()
	product := manualProduct("pcs")

	sales := NewEngine(salesOptions())
	result := sales.AddToCart(manualPolicy(), product, "pcs", 1)
	assert.Equal(t, 40, result.Line.Inventory)
	assert.Equal(t, "rice.png", result.Line.Image)

	adjustment := NewEngine(Options{})
	result = adjustment.AddToCart(manualPolicy(), product, "pcs", 1)
	assert.Zero(t, result.Line.Inventory)
	assert.Empty(t, result.Line.Image)
}

// Catalog edits after an add must not leak into rows already in the cart.
func TestAddToCartSnapshotIsDetachedFromCatalog(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	product := manualProduct("pcs", "box")

	result := e.AddToCart(manualPolicy(), product, "pcs", 1)
	product.ManualPrices[0].Price = 99999
	product.Units[0] = "crate"

	assert.Equal(t, int64(1000), result.Line.Product.ManualPrices[0].Price)
	assert.Equal(t, "pcs", result.Line.Product.Units[0])
}

// The returned row is handed to handlers after the store's lock is gone, so
// it must be a copy, untouched by later cart mutations.
func TestAddResultLineIsDetachedFromCart(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	product := manualProduct("pcs")

	added := e.AddToCart(manualPolicy(), product, "pcs", 2)
	require.NoError(t, e.UpdateQuantity(added.Line.ID, 9))
	assert.Equal(t, 2, added.Line.Quantity)
	assert.Equal(t, 9, e.Items()[0].Quantity)

	merged := e.AddToCart(manualPolicy(), product, "pcs", 1)
	require.Equal(t, OutcomeMerged, merged.Outcome)
	require.NoError(t, e.UpdateQuantity(merged.Line.ID, 3))
	assert.Equal(t, 10, merged.Line.Quantity)
	assert.Equal(t, 3, e.Items()[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	result := e.AddToCart(manualPolicy(), manualProduct("pcs"), "pcs", 1)

	require.NoError(t, e.UpdateQuantity(result.Line.ID, 7))
	assert.Equal(t, 7, e.Items()[0].Quantity)

	assert.ErrorIs(t, e.UpdateQuantity(result.Line.ID, 0), ErrInvalidQuantity)
	assert.Equal(t, 7, e.Items()[0].Quantity)

	// Absent row is a no-op
	require.NoError(t, e.UpdateQuantity(uuid.New(), 3))
}

func TestRemoveFromCartIsIdempotent(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	result := e.AddToCart(manualPolicy(), manualProduct("pcs"), "pcs", 1)

	e.RemoveFromCart(result.Line.ID)
	assert.Equal(t, 0, e.Len())

	e.RemoveFromCart(result.Line.ID)
	assert.Equal(t, 0, e.Len())
}

func TestClearKeepsDiscount(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	e.AddToCart(manualPolicy(), manualProduct("pcs"), "pcs", 1)
	require.NoError(t, e.SetDiscountPercent(decimal.NewFromInt(10)))

	e.Clear()

	assert.Equal(t, 0, e.Len())
	assert.True(t, e.DiscountPercent().Equal(decimal.NewFromInt(10)))
}

func TestSetDiscountPercentBounds(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())

	assert.NoError(t, e.SetDiscountPercent(decimal.Zero))
	assert.NoError(t, e.SetDiscountPercent(decimal.NewFromInt(100)))
	assert.ErrorIs(t, e.SetDiscountPercent(decimal.NewFromInt(-1)), ErrInvalidDiscount)
	assert.ErrorIs(t, e.SetDiscountPercent(decimal.NewFromFloat(100.5)), ErrInvalidDiscount)
}

func TestAdjustmentCartHasNoDiscount(t *testing.T) {
	t.Parallel()
	e := NewEngine(Options{})

	assert.ErrorIs(t, e.SetDiscountPercent(decimal.NewFromInt(5)), ErrNoDiscount)
}

func TestStateRestoreRoundTrip(t *testing.T) {
	t.Parallel()
	e := NewEngine(salesOptions())
	e.AddToCart(manualPolicy(), manualProduct("pcs", "box"), "pcs", 2)
	require.NoError(t, e.SetDiscountPercent(decimal.NewFromInt(15)))

	state := e.State()
	assert.Equal(t, SchemaVersion, state.Version)

	restored := NewEngine(salesOptions())
	restored.Restore(state)

	assert.Equal(t, e.Items(), restored.Items())
	assert.True(t, restored.DiscountPercent().Equal(decimal.NewFromInt(15)))
}
