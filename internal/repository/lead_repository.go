package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// LeadRepository handles contact-form lead data access.
type LeadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository creates a new LeadRepository.
func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

// Create inserts a new lead with status "new".
func (r *LeadRepository) Create(ctx context.Context, l *model.Lead) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO leads (name, email, phone, message, source, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		l.Name, l.Email, l.Phone, l.Message, l.Source, model.LeadStatusNew,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

// GetByID retrieves a lead by ID.
func (r *LeadRepository) GetByID(ctx context.Context, id int) (*model.Lead, error) {
	l := &model.Lead{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, phone, message, source, status, created_at, updated_at
		 FROM leads WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Message, &l.Source, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListPaginated retrieves leads with pagination and optional status filter.
func (r *LeadRepository) ListPaginated(ctx context.Context, status *model.LeadStatus, limit, offset int) ([]model.Lead, int, error) {
	countQuery := `SELECT COUNT(*) FROM leads`
	var countArgs []interface{}
	if status != nil {
		countQuery += ` WHERE status = $1`
		countArgs = append(countArgs, *status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, email, phone, message, source, status, created_at, updated_at FROM leads`
	var args []interface{}
	argIdx := 1

	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
		argIdx++
	}

	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Message, &l.Source, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, 0, err
		}
		leads = append(leads, l)
	}
	return leads, total, rows.Err()
}

// UpdateStatus moves a lead along the follow-up pipeline.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id int, status model.LeadStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE leads SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		status, id)
	return err
}
