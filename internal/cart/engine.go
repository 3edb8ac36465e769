package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidDiscount = errors.New("discount percent must be between 0 and 100")
	ErrNoDiscount      = errors.New("this cart does not carry a discount")
)

const reasonUnpriced = "price not configured"

// Options configures which variant of the cart an Engine behaves as. The
// sales cart captures inventory/image snapshots and carries a discount; the
// stock-adjustment cart does neither. The algorithm is identical for both.
type Options struct {
	CaptureInventory bool
	CaptureImage     bool
	WithDiscount     bool
}

// Engine holds the ordered line-item collection and applies the
// unit-resolution/merge rules. It is not safe for concurrent use; Store
// wraps it with a lock and persistence.
type Engine struct {
	opts            Options
	items           []LineItem
	discountPercent decimal.Decimal
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// AddToCart resolves which unit variant a new addition should occupy and
// appends or merges accordingly. Quantities below 1 default to 1.
//
// Guard: manual pricing checks only the primary (index-0) manual price entry,
// automated pricing only the two markup fields. The requested unit's own
// price is never inspected. That mirrors the behavior the rest of the system
// is built around, so keep it in sync with the engine tests before changing.
func (e *Engine) AddToCart(policy PricingPolicy, product Snapshot, requestedUnit string, quantity int) AddResult {
	if quantity < 1 {
		quantity = 1
	}

	switch policy.PricingType {
	case PricingAutomated:
		if product.RetailMarkup.IsZero() || product.WholesaleMarkup.IsZero() {
			return AddResult{Outcome: OutcomeRejected, Reason: reasonUnpriced}
		}
	default: // manual
		if len(product.ManualPrices) == 0 || product.ManualPrices[0].Price == 0 {
			return AddResult{Outcome: OutcomeRejected, Reason: reasonUnpriced}
		}
	}

	candidateUnits := e.candidateUnits(policy, product)

	// An unspecified unit means the primary one; resolve before the lookup so
	// repeated unitless adds merge instead of duplicating the primary row.
	if requestedUnit == "" && len(candidateUnits) > 0 {
		requestedUnit = candidateUnits[0]
	}

	existing := e.findLine(product.ProductID, requestedUnit)
	if existing == nil {
		line := e.appendLine(product, requestedUnit, quantity)
		return AddResult{Outcome: OutcomeAdded, Line: detached(line)}
	}

	usedUnits := e.unitsInCart(product.ProductID)

	// Scan the declared unit order, never cart-insertion order, so the
	// assignment is deterministic across call sequences.
	freeUnit := ""
	for _, unit := range candidateUnits {
		if !usedUnits[unit] {
			freeUnit = unit
			break
		}
	}

	if freeUnit == "" {
		// Every candidate unit already has a row: fold the quantity into the
		// primary-unit row and leave the rest untouched.
		if len(candidateUnits) == 0 {
			return AddResult{Outcome: OutcomeRejected, Reason: reasonUnpriced}
		}
		primary := e.findLine(product.ProductID, candidateUnits[0])
		if primary == nil {
			// Only reachable when UpdateUnit broke the uniqueness invariant.
			line := e.appendLine(product, candidateUnits[0], quantity)
			return AddResult{Outcome: OutcomeAdded, Line: detached(line)}
		}
		primary.Quantity += quantity
		return AddResult{Outcome: OutcomeMerged, Line: detached(primary)}
	}

	line := e.appendLine(product, freeUnit, quantity)
	return AddResult{Outcome: OutcomeAdded, Line: detached(line)}
}

// candidateUnits returns the ordered unit ids available for the pricing mode:
// the manual price list order for manual branches, the declared unit variant
// order for automated ones.
func (e *Engine) candidateUnits(policy PricingPolicy, product Snapshot) []string {
	if policy.PricingType == PricingAutomated {
		return product.Units
	}
	units := make([]string, 0, len(product.ManualPrices))
	for _, entry := range product.ManualPrices {
		units = append(units, entry.Unit)
	}
	return units
}

// UpdateUnit swaps the unit of one row in place. It does not re-validate
// uniqueness against the product's other rows; callers own that invariant.
func (e *Engine) UpdateUnit(lineID uuid.UUID, unit string) {
	for i := range e.items {
		if e.items[i].ID == lineID {
			e.items[i].Unit = unit
			return
		}
	}
}

// UpdateQuantity replaces the quantity on a row. Absent rows are a no-op.
func (e *Engine) UpdateQuantity(lineID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range e.items {
		if e.items[i].ID == lineID {
			e.items[i].Quantity = quantity
			return nil
		}
	}
	return nil
}

// RemoveFromCart deletes a row. Idempotent: removing an absent id is a no-op.
func (e *Engine) RemoveFromCart(lineID uuid.UUID) {
	for i := range e.items {
		if e.items[i].ID == lineID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return
		}
	}
}

// Clear empties the collection. The discount scalar is left untouched.
func (e *Engine) Clear() {
	e.items = nil
}

// SetDiscountPercent replaces the cart-level discount scalar.
func (e *Engine) SetDiscountPercent(value decimal.Decimal) error {
	if !e.opts.WithDiscount {
		return ErrNoDiscount
	}
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidDiscount
	}
	e.discountPercent = value
	return nil
}

// DiscountPercent returns the current discount scalar.
func (e *Engine) DiscountPercent() decimal.Decimal {
	return e.discountPercent
}

// Items returns a copy of the ordered line-item collection.
func (e *Engine) Items() []LineItem {
	return append([]LineItem(nil), e.items...)
}

// Len returns the number of rows.
func (e *Engine) Len() int { return len(e.items) }

// State snapshots the engine for persistence.
func (e *Engine) State() State {
	return State{
		Version:         SchemaVersion,
		Items:           e.Items(),
		DiscountPercent: e.discountPercent,
	}
}

// Restore replaces the engine contents with a persisted state.
func (e *Engine) Restore(state State) {
	e.items = append([]LineItem(nil), state.Items...)
	if e.opts.WithDiscount {
		e.discountPercent = state.DiscountPercent
	}
}

func (e *Engine) findLine(productID uuid.UUID, unit string) *LineItem {
	for i := range e.items {
		if e.items[i].Product.ProductID == productID && e.items[i].Unit == unit {
			return &e.items[i]
		}
	}
	return nil
}

func (e *Engine) unitsInCart(productID uuid.UUID) map[string]bool {
	used := make(map[string]bool)
	for i := range e.items {
		if e.items[i].Product.ProductID == productID {
			used[e.items[i].Unit] = true
		}
	}
	return used
}

// detached copies a row out of the live slice. Results escape the Store's
// lock, so they must never alias engine memory.
func detached(line *LineItem) *LineItem {
	out := *line
	return &out
}

func (e *Engine) appendLine(product Snapshot, unit string, quantity int) *LineItem {
	line := LineItem{
		ID:       uuid.New(),
		Name:     product.Name,
		Unit:     unit,
		Quantity: quantity,
		Product:  product.clone(),
	}
	if e.opts.CaptureInventory {
		line.Inventory = product.Stock
	}
	if e.opts.CaptureImage && len(product.Images) > 0 {
		line.Image = product.Images[0]
	}
	e.items = append(e.items, line)
	return &e.items[len(e.items)-1]
}
