package service

import (
	"context"
	"time"

	"go-inventory-crm/internal/repository"
)

const (
	defaultMovementDays = 7
	maxMovementDays     = 366
)

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo repository.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo, now: time.Now}
}

// GetStockMovement returns the last `days` days including today.
func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = defaultMovementDays
	}
	if days > maxMovementDays {
		days = maxMovementDays
	}
	endDate := s.now()
	y, m, d := endDate.Date()
	startDate := time.Date(y, m, d-(days-1), 0, 0, 0, 0, endDate.Location())
	return s.repo.GetStockMovement(ctx, startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.repo.GetDashboardStats(ctx)
}
