package service

import (
	"errors"
	"fmt"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/validator"

	"github.com/google/uuid"
)

// Asia/Jakarta timezone
var jakartaLoc *time.Location

func init() {
	var err error
	jakartaLoc, err = time.LoadLocation("Asia/Jakarta")
	if err != nil {
		// Fallback to UTC+7 if timezone data not available
		jakartaLoc = time.FixedZone("WIB", 7*60*60)
	}
}

var (
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
)

type ExpenseService interface {
	CreateExpense(req *CreateExpenseRequest, creatorID string) (*model.ExpenseResponse, error)
	UpdateExpense(expenseID uuid.UUID, req *UpdateExpenseRequest, updaterID string) (*model.ExpenseResponse, error)
	DeleteExpense(expenseID uuid.UUID, deleterID string) error
	GetExpenseByID(id uuid.UUID) (*model.ExpenseResponse, error)
	GetExpenses(branchID uuid.UUID, viewType string, referenceDate time.Time) ([]model.ExpenseResponse, error)
	GetExpenseTotal(branchID uuid.UUID, viewType string, referenceDate time.Time) (int64, error)
}

type CreateExpenseRequest struct {
	BranchID      string `json:"branch_id" validate:"required"`
	Category      string `json:"category" validate:"required"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method"`
	SpentAt       string `json:"spent_at" validate:"required"` // YYYY-MM-DD
	Note          string `json:"note"`
}

type UpdateExpenseRequest struct {
	Category      *string `json:"category"`
	Amount        *int64  `json:"amount" validate:"omitempty,gt=0"`
	PaymentMethod *string `json:"payment_method"`
	SpentAt       *string `json:"spent_at"` // YYYY-MM-DD
	Note          *string `json:"note"`
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	branchRepo  repository.BranchRepository
	hub         broadcaster
}

func NewExpenseService(expenseRepo repository.ExpenseRepository, branchRepo repository.BranchRepository, hub broadcaster) ExpenseService {
	return &expenseService{
		expenseRepo: expenseRepo,
		branchRepo:  branchRepo,
		hub:         hub,
	}
}

// parseExpenseDate validates YYYY-MM-DD format and returns the parsed date.
func parseExpenseDate(dateStr string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", dateStr, jakartaLoc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return parsed, nil
}

func (s *expenseService) CreateExpense(req *CreateExpenseRequest, creatorID string) (*model.ExpenseResponse, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Parse and validate branch
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, errors.New("invalid branch ID format")
	}
	if _, err := s.branchRepo.FindByID(branchID); err != nil {
		return nil, ErrBranchNotFound
	}

	// 3. Parse date
	spentAt, err := parseExpenseDate(req.SpentAt)
	if err != nil {
		return nil, err
	}

	// 4. Create expense
	expense := &model.Expense{
		BranchID:      branchID,
		Category:      req.Category,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		SpentAt:       spentAt,
		Note:          req.Note,
	}
	expense.CreatedBy = creatorID
	expense.UpdatedBy = creatorID

	if err := s.expenseRepo.Create(expense); err != nil {
		return nil, err
	}

	// 5. Notify dashboards
	go s.hub.BroadcastJSON(map[string]interface{}{
		"type":    "expense_update",
		"action":  "expense_created",
		"expense": expense.ToResponse(),
	})

	response := expense.ToResponse()
	return &response, nil
}

func (s *expenseService) UpdateExpense(expenseID uuid.UUID, req *UpdateExpenseRequest, updaterID string) (*model.ExpenseResponse, error) {
	// 1. Find existing expense
	expense, err := s.expenseRepo.FindByID(expenseID)
	if err != nil {
		return nil, ErrExpenseNotFound
	}

	// 2. Apply updates if provided
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, errors.New("amount must be greater than zero")
		}
		expense.Amount = *req.Amount
	}
	if req.PaymentMethod != nil {
		expense.PaymentMethod = *req.PaymentMethod
	}
	if req.SpentAt != nil {
		parsed, err := parseExpenseDate(*req.SpentAt)
		if err != nil {
			return nil, err
		}
		expense.SpentAt = parsed
	}
	if req.Note != nil {
		expense.Note = *req.Note
	}
	expense.UpdatedBy = updaterID

	// 3. Save
	if err := s.expenseRepo.Update(expense); err != nil {
		return nil, err
	}

	go s.hub.BroadcastJSON(map[string]interface{}{
		"type":    "expense_update",
		"action":  "expense_updated",
		"expense": expense.ToResponse(),
	})

	response := expense.ToResponse()
	return &response, nil
}

func (s *expenseService) DeleteExpense(expenseID uuid.UUID, deleterID string) error {
	// 1. Find existing expense
	if _, err := s.expenseRepo.FindByID(expenseID); err != nil {
		return ErrExpenseNotFound
	}

	// 2. Delete (soft delete)
	if err := s.expenseRepo.Delete(expenseID, deleterID); err != nil {
		return err
	}

	go s.hub.BroadcastJSON(map[string]interface{}{
		"type":       "expense_update",
		"action":     "expense_deleted",
		"expense_id": expenseID.String(),
	})

	return nil
}

func (s *expenseService) GetExpenseByID(id uuid.UUID) (*model.ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(id)
	if err != nil {
		return nil, ErrExpenseNotFound
	}
	response := expense.ToResponse()
	return &response, nil
}

func (s *expenseService) GetExpenses(branchID uuid.UUID, viewType string, referenceDate time.Time) ([]model.ExpenseResponse, error) {
	var expenses []model.Expense
	var err error

	if model.ViewType(viewType) == model.ViewTypeAll {
		expenses, err = s.expenseRepo.FindAll(branchID)
	} else {
		startDate, endDate := calculateDateRange(viewType, referenceDate)
		expenses, err = s.expenseRepo.FindByDateRange(branchID, startDate, endDate)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]model.ExpenseResponse, len(expenses))
	for i, expense := range expenses {
		responses[i] = expense.ToResponse()
	}
	return responses, nil
}

func (s *expenseService) GetExpenseTotal(branchID uuid.UUID, viewType string, referenceDate time.Time) (int64, error) {
	startDate, endDate := calculateDateRange(viewType, referenceDate)
	return s.expenseRepo.TotalByDateRange(branchID, startDate, endDate)
}

// calculateDateRange calculates start and end dates based on view type
func calculateDateRange(viewType string, referenceDate time.Time) (time.Time, time.Time) {
	ref := referenceDate.In(jakartaLoc)

	switch model.ViewType(viewType) {
	case model.ViewTypeDaily:
		start := ref.Truncate(24 * time.Hour)
		end := start.Add(24*time.Hour - time.Second)
		return start, end

	case model.ViewTypeWeekly:
		// Week starts on Monday
		weekday := int(ref.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start := ref.Truncate(24*time.Hour).AddDate(0, 0, -(weekday - 1))
		end := start.AddDate(0, 0, 7).Add(-time.Second)
		return start, end

	case model.ViewTypeMonthly:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, jakartaLoc)
		end := start.AddDate(0, 1, 0).Add(-time.Second)
		return start, end

	default:
		// All time: very wide range
		start := time.Date(2000, 1, 1, 0, 0, 0, 0, jakartaLoc)
		end := time.Date(2100, 12, 31, 23, 59, 59, 0, jakartaLoc)
		return start, end
	}
}
