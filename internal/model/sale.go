package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingGroup selects which derived price list a sale is rung up against.
type PricingGroup string

const (
	GroupRetail    PricingGroup = "retail"
	GroupWholesale PricingGroup = "wholesale"
)

// Sale is one completed checkout of the sales cart. Amounts are minor units.
type Sale struct {
	BaseModel
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id" validate:"uuid_required"`
	Branch   *Branch   `gorm:"foreignKey:BranchID" json:"branch,omitempty" validate:"-"`

	PricingGroup    PricingGroup    `gorm:"type:varchar(20);not null;default:'retail'" json:"pricing_group"`
	SubtotalAmount  int64           `gorm:"not null" json:"subtotal_amount"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(6,2);default:0" json:"discount_percent"`
	DiscountAmount  int64           `gorm:"not null;default:0" json:"discount_amount"`
	TotalAmount     int64           `gorm:"not null" json:"total_amount"`
	PaymentMethod   string          `gorm:"type:varchar(20)" json:"payment_method"` // CASH, TRANSFER
	Note            string          `json:"note"`

	Items []SaleItem `json:"items"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty" validate:"-"`
}

// SaleItem snapshots one cart row at checkout time.
type SaleItem struct {
	BaseModel
	SaleID      uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Unit        string    `gorm:"type:varchar(50);not null" json:"unit"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   int64     `gorm:"not null" json:"unit_price"`
	LineTotal   int64     `gorm:"not null" json:"line_total"`
}
