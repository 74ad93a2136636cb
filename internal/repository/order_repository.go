package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

var ErrInvalidStatusTransition = errors.New("order is not in the expected status")

// OrderRepository handles order data access.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateWithItems inserts an order and its line items in a single transaction.
func (r *OrderRepository) CreateWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, status, subtotal_paise, discount_paise, total_paise, reference)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		o.ID, o.UserID, o.Status, o.SubtotalPaise, o.DiscountPaise, o.TotalPaise, o.Reference,
	).Scan(&o.CreatedAt)
	if err != nil {
		return err
	}

	rowsToInsert := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rowsToInsert = append(rowsToInsert, []interface{}{o.ID, it.CourseID, it.Title, it.PricePaise})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_id", "course_id", "title", "price_paise"},
		pgx.CopyFromRows(rowsToInsert),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o := &model.Order{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, status, subtotal_paise, discount_paise, total_paise, reference, created_at, paid_at
		 FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.UserID, &o.Status, &o.SubtotalPaise, &o.DiscountPaise, &o.TotalPaise, &o.Reference, &o.CreatedAt, &o.PaidAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetDetail retrieves an order with its line items.
func (r *OrderRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT order_id, course_id, title, price_paise FROM order_items WHERE order_id = $1 ORDER BY title`,
		id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail := &model.OrderDetail{Order: *o}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.OrderID, &it.CourseID, &it.Title, &it.PricePaise); err != nil {
			return nil, err
		}
		detail.Items = append(detail.Items, it)
	}
	return detail, rows.Err()
}

// ListByUser retrieves a user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, status, subtotal_paise, discount_paise, total_paise, reference, created_at, paid_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListByStatus retrieves orders in the given status for admin review, oldest first.
func (r *OrderRepository) ListByStatus(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, status, subtotal_paise, discount_paise, total_paise, reference, created_at, paid_at
		 FROM orders WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	return orders, total, err
}

// TransitionStatus moves an order from one status to another. Returns
// ErrInvalidStatusTransition when the order is not in the expected status.
func (r *OrderRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidStatusTransition
	}
	return nil
}

// MarkPaid transitions an order awaiting verification to PAID and stamps paid_at.
func (r *OrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $1, paid_at = $2 WHERE id = $3 AND status = $4`,
		model.OrderStatusPaid, paidAt, id, model.OrderStatusAwaitingVerification)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidStatusTransition
	}
	return nil
}

// UserOwnsCourse reports whether the user has a paid order containing the course.
func (r *OrderRepository) UserOwnsCourse(ctx context.Context, userID, courseID int) (bool, error) {
	var owns bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = $1 AND oi.course_id = $2 AND o.status = $3
		 )`, userID, courseID, model.OrderStatusPaid).Scan(&owns)
	return owns, err
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.SubtotalPaise, &o.DiscountPaise,
			&o.TotalPaise, &o.Reference, &o.CreatedAt, &o.PaidAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
