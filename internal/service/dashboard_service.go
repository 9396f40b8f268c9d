package service

import (
	"context"
	"time"

	"depotpos/internal/dto"
	"depotpos/internal/repository"

	"github.com/google/uuid"
)

type DashboardService interface {
	DailySummary(ctx context.Context, tenantID uuid.UUID, date string) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
}

func NewDashboardService(repo repository.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo}
}

func (s *dashboardService) DailySummary(ctx context.Context, tenantID uuid.UUID, date string) (*dto.DashboardResponse, error) {
	totals, err := s.repo.DailyTotals(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return &dto.DashboardResponse{
		Date:              date,
		SaleCount:         totals.SaleCount,
		Revenue:           totals.Revenue,
		AmountCollected:   totals.AmountCollected,
		CreditOutstanding: totals.CreditOutstanding,
		UnpaidCount:       totals.UnpaidCount,
		PartialCount:      totals.PartialCount,
		PaidCount:         totals.PaidCount,
	}, nil
}
