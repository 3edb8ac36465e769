package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	FindAll(branchID uuid.UUID) ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	GetRevenueMovement(branchID uuid.UUID, startDate, endDate time.Time) ([]RevenueMovementData, error)
	GetDashboardStats(branchID uuid.UUID) (*DashboardStats, error)
	GetFinancialSummary(branchID uuid.UUID, startDate, endDate time.Time) (int64, int64, error)
}

// RevenueMovementData for chart data
type RevenueMovementData struct {
	Date     string `json:"date"`
	Revenue  int64  `json:"revenue"`
	Discount int64  `json:"discount"`
}

// DashboardStats for overview stats
type DashboardStats struct {
	TotalProducts  int64 `json:"total_products"`
	LowStockCount  int64 `json:"low_stock_count"`
	TotalValuation int64 `json:"total_valuation"`
	SalesToday     int64 `json:"sales_today"`
	RevenueToday   int64 `json:"revenue_today"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) FindAll(branchID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	query := r.db.Preload("Items").Preload("CreatedByUser").Order("created_at DESC")
	if branchID != uuid.Nil {
		query = query.Where("branch_id = ?", branchID)
	}
	err := query.Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").Preload("CreatedByUser").First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) GetRevenueMovement(branchID uuid.UUID, startDate, endDate time.Time) ([]RevenueMovementData, error) {
	var results []RevenueMovementData

	// Aggregate sales per day
	query := r.db.Model(&model.Sale{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(total_amount), 0) as revenue,
			COALESCE(SUM(discount_amount), 0) as discount
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
		var data RevenueMovementData
		if err := rows.Scan(&data.Date, &data.Revenue, &data.Discount); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *saleRepo) GetDashboardStats(branchID uuid.UUID) (*DashboardStats, error) {
	var stats DashboardStats

	products := func() *gorm.DB {
		q := r.db.Model(&model.Product{})
		if branchID != uuid.Nil {
			q = q.Where("branch_id = ?", branchID)
		}
		return q
	}
	sales := func() *gorm.DB {
		q := r.db.Model(&model.Sale{})
		if branchID != uuid.Nil {
			q = q.Where("branch_id = ?", branchID)
		}
		return q
	}

	// Total Products
	products().Count(&stats.TotalProducts)

	// Low Stock Count (stock < 10)
	products().Where("stock < ?", 10).Count(&stats.LowStockCount)

	// Total Valuation (SUM of stock * base_cost)
	products().Select("COALESCE(SUM(stock * base_cost), 0)").Scan(&stats.TotalValuation)

	// Today's sales
	startOfDay := time.Now().Truncate(24 * time.Hour)
	sales().Where("created_at >= ?", startOfDay).Count(&stats.SalesToday)
	sales().Where("created_at >= ?", startOfDay).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.RevenueToday)

	return &stats, nil
}

func (r *saleRepo) GetFinancialSummary(branchID uuid.UUID, startDate, endDate time.Time) (int64, int64, error) {
	var revenue int64
	var expenses int64

	// Revenue from sales
	salesQuery := r.db.Model(&model.Sale{}).
		Where("created_at BETWEEN ? AND ?", startDate, endDate)
	if branchID != uuid.Nil {
		salesQuery = salesQuery.Where("branch_id = ?", branchID)
	}
	if err := salesQuery.Select("COALESCE(SUM(total_amount), 0)").Scan(&revenue).Error; err != nil {
		return 0, 0, err
	}

	// Expenses booked in the same window
	expenseQuery := r.db.Model(&model.Expense{}).
		Where("spent_at BETWEEN ? AND ?", startDate, endDate)
	if branchID != uuid.Nil {
		expenseQuery = expenseQuery.Where("branch_id = ?", branchID)
	}
	if err := expenseQuery.Select("COALESCE(SUM(amount), 0)").Scan(&expenses).Error; err != nil {
		return 0, 0, err
	}

	return revenue, expenses, nil
}
