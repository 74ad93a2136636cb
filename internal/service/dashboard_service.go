package service

import (
	"context"

	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
)

// DashboardData consolidates all metrics for the admin dashboard.
type DashboardData struct {
	TotalStudents     int                                 `json:"total_students"`
	PublishedCourses  int                                 `json:"published_courses"`
	TotalAttempts     int                                 `json:"total_attempts"`
	NewLeads          int                                 `json:"new_leads"`
	RevenuePaise      int64                               `json:"revenue_paise"`
	Revenue30DayPaise int64                               `json:"revenue_30day_paise"`
	OrderStatusCounts map[model.OrderStatus]int           `json:"order_status_counts"`
	RecentAttempts    []repository.DashboardRecentAttempt `json:"recent_attempts"`
	ModeAverages      map[string]float64                  `json:"mode_averages"`
}

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	repo *repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// GetDashboardData fetches all dashboard metrics.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	students, courses, attempts, leads, err := s.repo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}

	lifetime, last30, err := s.repo.GetRevenue(ctx)
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.repo.GetOrderStatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.GetRecentAttempts(ctx, 5)
	if err != nil {
		return nil, err
	}

	averages, err := s.repo.GetModeAverages(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		TotalStudents:     students,
		PublishedCourses:  courses,
		TotalAttempts:     attempts,
		NewLeads:          leads,
		RevenuePaise:      lifetime,
		Revenue30DayPaise: last30,
		OrderStatusCounts: statusCounts,
		RecentAttempts:    recent,
		ModeAverages:      averages,
	}, nil
}
