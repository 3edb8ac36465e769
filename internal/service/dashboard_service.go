package service

import (
	"time"

	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
)

type DashboardService interface {
	GetStockMovement(branchID uuid.UUID, days int) ([]repository.StockMovementData, error)
	GetRevenueMovement(branchID uuid.UUID, days int) ([]repository.RevenueMovementData, error)
	GetDashboardStats(branchID uuid.UUID) (*repository.DashboardStats, error)
	GetFinancialSummary(branchID uuid.UUID, viewType string, referenceDate time.Time) (*FinancialSummary, error)
}

// FinancialSummary nets sales revenue against booked expenses for a window.
type FinancialSummary struct {
	Revenue  int64 `json:"revenue"`
	Expenses int64 `json:"expenses"`
	Net      int64 `json:"net"`
}

type dashboardService struct {
	saleRepo       repository.SaleRepository
	adjustmentRepo repository.AdjustmentRepository
}

func NewDashboardService(saleRepo repository.SaleRepository, adjustmentRepo repository.AdjustmentRepository) DashboardService {
	return &dashboardService{
		saleRepo:       saleRepo,
		adjustmentRepo: adjustmentRepo,
	}
}

func (s *dashboardService) GetStockMovement(branchID uuid.UUID, days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.adjustmentRepo.GetStockMovement(branchID, startDate, endDate)
}

func (s *dashboardService) GetRevenueMovement(branchID uuid.UUID, days int) ([]repository.RevenueMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.saleRepo.GetRevenueMovement(branchID, startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(branchID uuid.UUID) (*repository.DashboardStats, error) {
	return s.saleRepo.GetDashboardStats(branchID)
}

func (s *dashboardService) GetFinancialSummary(branchID uuid.UUID, viewType string, referenceDate time.Time) (*FinancialSummary, error) {
	startDate, endDate := calculateDateRange(viewType, referenceDate)

	revenue, expenses, err := s.saleRepo.GetFinancialSummary(branchID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	return &FinancialSummary{
		Revenue:  revenue,
		Expenses: expenses,
		Net:      revenue - expenses,
	}, nil
}
