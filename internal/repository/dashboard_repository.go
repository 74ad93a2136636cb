package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (totalStudents, totalCourses, totalAttempts, newLeads int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users WHERE role = $1),
			(SELECT COUNT(*) FROM courses WHERE published = TRUE),
			(SELECT COUNT(*) FROM interview_attempts),
			(SELECT COUNT(*) FROM leads WHERE status = $2)`,
		model.RoleStudent, model.LeadStatusNew,
	).Scan(&totalStudents, &totalCourses, &totalAttempts, &newLeads)
	return
}

// GetRevenue retrieves lifetime and last-30-day paid revenue in paise.
func (r *DashboardRepository) GetRevenue(ctx context.Context) (lifetimePaise, last30DaysPaise int64, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(total_paise), 0),
			COALESCE(SUM(total_paise) FILTER (WHERE paid_at > NOW() - INTERVAL '30 days'), 0)
		 FROM orders WHERE status = $1`,
		model.OrderStatusPaid,
	).Scan(&lifetimePaise, &last30DaysPaise)
	return
}

// GetOrderStatusCounts retrieves the distribution of orders by status.
func (r *DashboardRepository) GetOrderStatusCounts(ctx context.Context) (map[model.OrderStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.OrderStatus]int)
	for rows.Next() {
		var status model.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// DashboardRecentAttempt represents minimal data for recently submitted attempts.
type DashboardRecentAttempt struct {
	UserName      string     `json:"user_name"`
	Mode          string     `json:"mode"`
	Percentage    *int       `json:"percentage"`
	Grade         *string    `json:"grade"`
	Interruptions int        `json:"interruptions"`
	FinishedAt    *time.Time `json:"finished_at"`
}

// GetRecentAttempts retrieves the last N submitted interview attempts.
func (r *DashboardRepository) GetRecentAttempts(ctx context.Context, limit int) ([]DashboardRecentAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.name, a.mode, a.percentage, a.grade, a.interruptions, a.finished_at
		 FROM interview_attempts a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.status = $1
		 ORDER BY a.finished_at DESC LIMIT $2`,
		model.AttemptStatusSubmitted, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []DashboardRecentAttempt
	for rows.Next() {
		var a DashboardRecentAttempt
		if err := rows.Scan(&a.UserName, &a.Mode, &a.Percentage, &a.Grade, &a.Interruptions, &a.FinishedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if attempts == nil {
		attempts = []DashboardRecentAttempt{}
	}
	return attempts, rows.Err()
}

// GetModeAverages retrieves the average percentage per test mode.
func (r *DashboardRepository) GetModeAverages(ctx context.Context) (map[string]float64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT mode, AVG(percentage) FROM interview_attempts
		 WHERE status = $1 AND percentage IS NOT NULL
		 GROUP BY mode`,
		model.AttemptStatusSubmitted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	averages := make(map[string]float64)
	for rows.Next() {
		var mode string
		var avg float64
		if err := rows.Scan(&mode, &avg); err != nil {
			return nil, err
		}
		averages[mode] = avg
	}
	return averages, rows.Err()
}
