package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// AttemptRepository handles interview attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, user_id, mode, status, duration_seconds, score, total,
	percentage, grade, time_spent_seconds, interruptions, started_at, finished_at`

// Create inserts a new in-progress attempt.
func (r *AttemptRepository) Create(ctx context.Context, a *model.InterviewAttempt) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO interview_attempts (id, user_id, mode, status, duration_seconds, total, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.UserID, a.Mode, a.Status, a.DurationSeconds, a.Total, a.StartedAt)
	return err
}

// GetByID retrieves an attempt by ID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.InterviewAttempt, error) {
	a := &model.InterviewAttempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM interview_attempts WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.Mode, &a.Status, &a.DurationSeconds, &a.Score, &a.Total,
		&a.Percentage, &a.Grade, &a.TimeSpentSeconds, &a.Interruptions, &a.StartedAt, &a.FinishedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetActiveByUser retrieves the user's in-progress attempt, if any.
func (r *AttemptRepository) GetActiveByUser(ctx context.Context, userID int) (*model.InterviewAttempt, error) {
	a := &model.InterviewAttempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM interview_attempts
		 WHERE user_id = $1 AND status = $2
		 ORDER BY started_at DESC LIMIT 1`,
		userID, model.AttemptStatusInProgress,
	).Scan(&a.ID, &a.UserID, &a.Mode, &a.Status, &a.DurationSeconds, &a.Score, &a.Total,
		&a.Percentage, &a.Grade, &a.TimeSpentSeconds, &a.Interruptions, &a.StartedAt, &a.FinishedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByUser retrieves a user's attempt history, newest first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID int, limit, offset int) ([]model.InterviewAttempt, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM interview_attempts WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+` FROM interview_attempts
		 WHERE user_id = $1 ORDER BY started_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	attempts, err := collectAttempts(rows)
	return attempts, total, err
}

// ListInProgress retrieves all in-progress attempts with the attempting user's
// name, for the proctor dashboard.
func (r *AttemptRepository) ListInProgress(ctx context.Context) ([]model.InterviewAttempt, map[uuid.UUID]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.user_id, a.mode, a.status, a.duration_seconds, a.score, a.total,
			a.percentage, a.grade, a.time_spent_seconds, a.interruptions, a.started_at, a.finished_at,
			u.name
		 FROM interview_attempts a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.status = $1
		 ORDER BY a.started_at ASC`,
		model.AttemptStatusInProgress)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var attempts []model.InterviewAttempt
	names := make(map[uuid.UUID]string)
	for rows.Next() {
		var a model.InterviewAttempt
		var name string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Mode, &a.Status, &a.DurationSeconds, &a.Score,
			&a.Total, &a.Percentage, &a.Grade, &a.TimeSpentSeconds, &a.Interruptions,
			&a.StartedAt, &a.FinishedAt, &name); err != nil {
			return nil, nil, err
		}
		attempts = append(attempts, a)
		names[a.ID] = name
	}
	return attempts, names, rows.Err()
}

// ListAnswers retrieves the persisted answers of an attempt.
func (r *AttemptRepository) ListAnswers(ctx context.Context, attemptID uuid.UUID) ([]model.AttemptAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT attempt_id, question_id, selected_option, answered_at
		 FROM attempt_answers WHERE attempt_id = $1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.AttemptAnswer
	for rows.Next() {
		var ans model.AttemptAnswer
		if err := rows.Scan(&ans.AttemptID, &ans.QuestionID, &ans.SelectedOption, &ans.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, ans)
	}
	return answers, rows.Err()
}

// ListInterruptions retrieves the persisted interruption events of an attempt.
func (r *AttemptRepository) ListInterruptions(ctx context.Context, attemptID uuid.UUID) ([]model.AttemptInterruption, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT attempt_id, signal, occurred_at
		 FROM attempt_interruptions WHERE attempt_id = $1 ORDER BY occurred_at ASC`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.AttemptInterruption
	for rows.Next() {
		var ev model.AttemptInterruption
		if err := rows.Scan(&ev.AttemptID, &ev.Signal, &ev.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func collectAttempts(rows pgx.Rows) ([]model.InterviewAttempt, error) {
	var attempts []model.InterviewAttempt
	for rows.Next() {
		var a model.InterviewAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.Mode, &a.Status, &a.DurationSeconds, &a.Score,
			&a.Total, &a.Percentage, &a.Grade, &a.TimeSpentSeconds, &a.Interruptions,
			&a.StartedAt, &a.FinishedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
