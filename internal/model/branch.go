package model

// PricingType selects how a branch prices its products.
type PricingType string

const (
	PricingManual    PricingType = "manual"    // operator sets a price per unit variant
	PricingAutomated PricingType = "automated" // prices derived from base cost + markup
)

// Branch is a tenant's sales location. Each branch carries its own pricing
// policy; the cart and checkout read it, never write it.
type Branch struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address string `gorm:"type:text" json:"address"`

	PricingType      PricingType `gorm:"type:varchar(20);not null;default:'manual'" json:"pricing_type" validate:"required,oneof=manual automated"`
	RetailEnabled    bool        `gorm:"default:true" json:"retail_enabled"`
	WholesaleEnabled bool        `gorm:"default:false" json:"wholesale_enabled"`
}

// TableName specifies the table name for GORM
func (Branch) TableName() string {
	return "branches"
}
