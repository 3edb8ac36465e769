package model

import (
	"time"

	"github.com/google/uuid"
)

// Expense is one operating cost booked against a branch. Amount is in minor
// units.
type Expense struct {
	BaseModel
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id" validate:"uuid_required"`
	Branch   *Branch   `gorm:"foreignKey:BranchID" json:"branch,omitempty" validate:"-"`

	Category      string    `gorm:"type:varchar(100);not null" json:"category" validate:"required"`
	Amount        int64     `gorm:"not null" json:"amount" validate:"required,gt=0"`
	PaymentMethod string    `gorm:"type:varchar(20)" json:"payment_method"` // CASH, TRANSFER
	SpentAt       time.Time `gorm:"type:date;not null;index" json:"spent_at" validate:"required"`
	Note          string    `gorm:"type:text" json:"note,omitempty"`
}

// TableName specifies the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// ExpenseResponse for API responses
type ExpenseResponse struct {
	ID            uuid.UUID `json:"id"`
	BranchID      uuid.UUID `json:"branch_id"`
	Category      string    `json:"category"`
	Amount        int64     `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	SpentAt       string    `json:"spent_at"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedBy     string    `json:"created_by"`
	UpdatedBy     string    `json:"updated_by"`
}

// ToResponse converts Expense to ExpenseResponse
func (e *Expense) ToResponse() ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		BranchID:      e.BranchID,
		Category:      e.Category,
		Amount:        e.Amount,
		PaymentMethod: e.PaymentMethod,
		SpentAt:       e.SpentAt.Format("2006-01-02"),
		Note:          e.Note,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		CreatedBy:     e.CreatedBy,
		UpdatedBy:     e.UpdatedBy,
	}
}

// ViewType for filtering expenses
type ViewType string

const (
	ViewTypeDaily   ViewType = "daily"
	ViewTypeWeekly  ViewType = "weekly"
	ViewTypeMonthly ViewType = "monthly"
	ViewTypeAll     ViewType = "all"
)
