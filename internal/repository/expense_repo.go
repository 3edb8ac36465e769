package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(expense *model.Expense) error
	Update(expense *model.Expense) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Expense, error)
	FindAll(branchID uuid.UUID) ([]model.Expense, error)

	// Ranged queries back the daily/weekly/monthly views
	FindByDateRange(branchID uuid.UUID, startDate, endDate time.Time) ([]model.Expense, error)
	TotalByDateRange(branchID uuid.UUID, startDate, endDate time.Time) (int64, error)
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db}
}

func (r *expenseRepo) Create(expense *model.Expense) error {
	return r.db.Create(expense).Error
}

func (r *expenseRepo) Update(expense *model.Expense) error {
	return r.db.Save(expense).Error
}

func (r *expenseRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Expense{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": gorm.Expr("NOW()"),
		"deleted_by": deletedBy,
	}).Error
}

func (r *expenseRepo) FindByID(id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := r.db.First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepo) FindAll(branchID uuid.UUID) ([]model.Expense, error) {
	var expenses []model.Expense
	query := r.db.Order("spent_at DESC, created_at DESC")
	if branchID != uuid.Nil {
		query = query.Where("branch_id = ?", branchID)
	}
	if err := query.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepo) FindByDateRange(branchID uuid.UUID, startDate, endDate time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	query := r.db.Where("spent_at BETWEEN ? AND ?", startDate, endDate).
		Order("spent_at DESC, created_at DESC")
	if branchID != uuid.Nil {
		query = query.Where("branch_id = ?", branchID)
	}
	if err := query.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepo) TotalByDateRange(branchID uuid.UUID, startDate, endDate time.Time) (int64, error) {
	var total int64
	query := r.db.Model(&model.Expense{}).
		Where("spent_at BETWEEN ? AND ?", startDate, endDate)
	if branchID != uuid.Nil {
		query = query.Where("branch_id = ?", branchID)
	}
	err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}
