package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdjustmentRepository interface {
	FindAll(branchID uuid.UUID) ([]model.StockAdjustment, error)
	// FindByDateRange returns adjustments with startDate <= created_at < endDate.
	FindByDateRange(branchID uuid.UUID, startDate, endDate time.Time) ([]model.StockAdjustment, error)
	FindByID(id uuid.UUID) (*model.StockAdjustment, error)
	GetStockMovement(branchID uuid.UUID, startDate, endDate time.Time) ([]StockMovementData, error)
}

// StockMovementData for chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type adjustmentRepo struct {
	db *gorm.DB
}

func NewAdjustmentRepo(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepo{db}
}

func (r *adjustmentRepo) FindAll(branchID uuid.UUID) ([]model.StockAdjustment, error) {
	var adjustments []model.StockAdjustment
	query := r.db.Preload("Product").Preload("CreatedByUser").Order("created_at DESC")
	if branchID != uuid.Nil {
		query = query.Where("branch_id = ?", branchID)
	}
	err := query.Find(&adjustments).Error
	return adjustments, err
}

func (r *adjustmentRepo) FindByDateRange(branchID uuid.UUID, startDate, endDate time.Time) ([]model.StockAdjustment, error) {
	var adjustments []model.StockAdjustment
	query := r.db.Preload("Product").Preload("CreatedByUser").
		Where("created_at >= ? AND created_at < ?", startDate, endDate).
		Order("created_at DESC")
	if branchID != uuid.Nil {
		query = query.Where("branch_id = ?", branchID)
	}
	err := query.Find(&adjustments).Error
	return adjustments, err
}

func (r *adjustmentRepo) FindByID(id uuid.UUID) (*model.StockAdjustment, error) {
	var adjustment model.StockAdjustment
	err := r.db.Preload("Product").Preload("CreatedByUser").First(&adjustment, "id = ?", id).Error
	return &adjustment, err
}

func (r *adjustmentRepo) GetStockMovement(branchID uuid.UUID, startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	// Aggregate adjustments per day
	query := r.db.Model(&model.StockAdjustment{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate)
	if branchID != uuid.Nil {
		query = query.Where("branch_id = ?", branchID)
	}

	rows, err := query.Group("DATE(created_at)").Order("date ASC").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
