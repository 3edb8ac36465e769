package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingType tells the cart how a branch prices its products.
type PricingType string

const (
	PricingManual    PricingType = "manual"
	PricingAutomated PricingType = "automated"
)

// PricingGroups flags which price lists a branch sells from.
type PricingGroups struct {
	Retail    bool `json:"retail"`
	Wholesale bool `json:"wholesale"`
}

// PricingPolicy is the branch pricing configuration. Read-only input;
// the cart never mutates it.
type PricingPolicy struct {
	PricingType   PricingType   `json:"pricing_type"`
	PricingGroups PricingGroups `json:"pricing_groups"`
}

// UnitPrice pairs a unit variant with its price in minor units.
type UnitPrice struct {
	Unit  string `json:"unit"`
	Price int64  `json:"price"`
}

// Snapshot is the product state captured at add-time. Rows keep their own
// copy so later catalog changes never reach items already in the cart.
type Snapshot struct {
	ProductID       uuid.UUID       `json:"product_id"`
	Name            string          `json:"name"`
	Stock           int             `json:"stock"`
	Images          []string        `json:"images,omitempty"`
	Units           []string        `json:"units"` // ordered, index 0 is the primary unit
	ManualPrices    []UnitPrice     `json:"manual_prices,omitempty"`
	RetailMarkup    decimal.Decimal `json:"retail_markup"`
	WholesaleMarkup decimal.Decimal `json:"wholesale_markup"`
	RetailPrices    []UnitPrice     `json:"retail_prices,omitempty"`
	WholesalePrices []UnitPrice     `json:"wholesale_prices,omitempty"`
}

// clone deep-copies the snapshot so cart rows never alias caller slices.
func (s Snapshot) clone() Snapshot {
	out := s
	out.Images = append([]string(nil), s.Images...)
	out.Units = append([]string(nil), s.Units...)
	out.ManualPrices = append([]UnitPrice(nil), s.ManualPrices...)
	out.RetailPrices = append([]UnitPrice(nil), s.RetailPrices...)
	out.WholesalePrices = append([]UnitPrice(nil), s.WholesalePrices...)
	return out
}

// LineItem is one cart row: a product at a specific unit variant. A product
// may occupy several rows, one per distinct unit, so the row gets its own id.
type LineItem struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Unit     string    `json:"unit"`
	Quantity int       `json:"quantity"`
	Product  Snapshot  `json:"product"`

	// Captured for the sales cart only (Options.CaptureInventory / CaptureImage).
	Inventory int    `json:"inventory,omitempty"`
	Image     string `json:"image,omitempty"`
}

// Outcome classifies what AddToCart did.
type Outcome string

const (
	// OutcomeAdded means a new row was appended.
	OutcomeAdded Outcome = "added"
	// OutcomeMerged means every unit variant was already taken and the
	// primary-unit row absorbed the quantity.
	OutcomeMerged Outcome = "merged"
	// OutcomeRejected means the zero-price guard fired; the cart is unchanged.
	OutcomeRejected Outcome = "rejected"
)

// AddResult reports the terminal outcome of an AddToCart call.
type AddResult struct {
	Outcome Outcome   `json:"outcome"`
	Line    *LineItem `json:"line,omitempty"`
	Reason  string    `json:"reason,omitempty"`
}

// Accepted reports whether the add mutated the cart.
func (r AddResult) Accepted() bool { return r.Outcome != OutcomeRejected }

// SchemaVersion tags the persisted state blob. Loads with a different
// version are discarded and the cart starts empty.
const SchemaVersion = 1

// State is the serialized form of a cart, written as one JSON blob under a
// fixed storage key.
type State struct {
	Version         int             `json:"version"`
	Items           []LineItem      `json:"cart_items"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}
