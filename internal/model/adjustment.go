package model

import "github.com/google/uuid"

type AdjustmentType string

const (
	AdjustmentIn  AdjustmentType = "IN"
	AdjustmentOut AdjustmentType = "OUT"
)

// AdjustmentReason explains why stock moved outside of a sale. Purchases are
// recorded as IN adjustments with reason "purchase".
type AdjustmentReason string

const (
	ReasonPurchase   AdjustmentReason = "purchase"
	ReasonCorrection AdjustmentReason = "correction"
	ReasonDamage     AdjustmentReason = "damage"
	ReasonReturn     AdjustmentReason = "return"
)

// StockAdjustment is one posted stock movement row.
type StockAdjustment struct {
	BaseModel
	BranchID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"branch_id" validate:"uuid_required"`
	ProductID uuid.UUID        `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product   Product          `json:"product" validate:"-"` // Relation - skip validation
	Type      AdjustmentType   `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Reason    AdjustmentReason `gorm:"type:varchar(20);not null" json:"reason" validate:"required,oneof=purchase correction damage return"`
	Unit      string           `gorm:"type:varchar(50)" json:"unit"`
	Quantity  int              `gorm:"not null" json:"quantity" validate:"required,gt=0"` // Qty must be > 0
	Note      string           `json:"note"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty" validate:"-"`
}
