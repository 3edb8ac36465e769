package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id" validate:"uuid_required"`
	Branch   *Branch   `gorm:"foreignKey:BranchID" json:"branch,omitempty" validate:"-"`

	SKU    string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name   string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Stock  int        `gorm:"default:0" json:"stock"`
	Images StringList `gorm:"type:jsonb" json:"images"`

	// Ordered unit variants; index 0 is the primary unit. The manual price
	// list is keyed by the same unit ids.
	Units        StringList    `gorm:"type:jsonb" json:"units" validate:"required,min=1"`
	ManualPrices UnitPriceList `gorm:"type:jsonb" json:"manual_prices"`

	// Automated pricing inputs: price = cost * (1 + markup/100).
	BaseCost               int64           `gorm:"default:0" json:"base_cost"`
	RetailMarkupPercent    decimal.Decimal `gorm:"type:numeric(6,2);default:0" json:"retail_markup_percent"`
	WholesaleMarkupPercent decimal.Decimal `gorm:"type:numeric(6,2);default:0" json:"wholesale_markup_percent"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty" validate:"-"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty" validate:"-"`
}

// PrimaryUnit returns the index-0 unit variant, or "" when none declared.
func (p *Product) PrimaryUnit() string {
	if len(p.Units) == 0 {
		return ""
	}
	return p.Units[0]
}
