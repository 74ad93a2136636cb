package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// QuestionRepository handles question bank and question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ─── Banks ──────────────────────────────────────────────────────────

// ListBanks retrieves all question banks.
func (r *QuestionRepository) ListBanks(ctx context.Context) ([]model.QuestionBank, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, author_id, name, description, active, created_at, updated_at
		 FROM question_banks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banks []model.QuestionBank
	for rows.Next() {
		var b model.QuestionBank
		if err := rows.Scan(&b.ID, &b.AuthorID, &b.Name, &b.Description, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		banks = append(banks, b)
	}
	return banks, rows.Err()
}

// GetBank retrieves a question bank by ID.
func (r *QuestionRepository) GetBank(ctx context.Context, id uuid.UUID) (*model.QuestionBank, error) {
	b := &model.QuestionBank{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, author_id, name, description, active, created_at, updated_at
		 FROM question_banks WHERE id = $1`, id,
	).Scan(&b.ID, &b.AuthorID, &b.Name, &b.Description, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBank inserts a new question bank.
func (r *QuestionRepository) CreateBank(ctx context.Context, b *model.QuestionBank) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO question_banks (id, author_id, name, description, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		b.ID, b.AuthorID, b.Name, b.Description, b.Active,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// UpdateBank modifies a question bank.
func (r *QuestionRepository) UpdateBank(ctx context.Context, b *model.QuestionBank) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE question_banks SET name = $1, description = $2, active = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		b.Name, b.Description, b.Active, b.ID)
	return err
}

// DeleteBank removes a question bank and its questions (cascade).
func (r *QuestionRepository) DeleteBank(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM question_banks WHERE id = $1`, id)
	return err
}

// ─── Questions ──────────────────────────────────────────────────────

// ListByBank retrieves a bank's questions in position order.
func (r *QuestionRepository) ListByBank(ctx context.Context, bankID uuid.UUID) ([]model.BankQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, qbank_id, category, prompt, options, correct_option, explanation, position
		 FROM questions WHERE qbank_id = $1 ORDER BY position ASC`, bankID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuestions(rows)
}

// ListActiveByCategories retrieves questions from active banks, limited to the
// given categories (all categories when empty), in bank then position order.
func (r *QuestionRepository) ListActiveByCategories(ctx context.Context, categories []string) ([]model.BankQuestion, error) {
	query := `SELECT q.id, q.qbank_id, q.category, q.prompt, q.options, q.correct_option, q.explanation, q.position
		FROM questions q
		JOIN question_banks b ON b.id = q.qbank_id
		WHERE b.active = TRUE`
	var args []interface{}
	if len(categories) > 0 {
		query += ` AND q.category = ANY($1)`
		args = append(args, categories)
	}
	query += ` ORDER BY b.created_at ASC, q.position ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuestions(rows)
}

// GetByIDs retrieves questions for the given IDs.
func (r *QuestionRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.BankQuestion, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, qbank_id, category, prompt, options, correct_option, explanation, position
		 FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuestions(rows)
}

// ReplaceQuestions atomically replaces a bank's questions.
func (r *QuestionRepository) ReplaceQuestions(ctx context.Context, bankID uuid.UUID, questions []model.BankQuestion) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE qbank_id = $1`, bankID); err != nil {
		return err
	}

	for _, q := range questions {
		_, err := tx.Exec(ctx,
			`INSERT INTO questions (id, qbank_id, category, prompt, options, correct_option, explanation, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			q.ID, bankID, q.Category, q.Prompt, q.Options, q.CorrectOption, q.Explanation, q.Position)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func collectQuestions(rows pgx.Rows) ([]model.BankQuestion, error) {
	var questions []model.BankQuestion
	for rows.Next() {
		var q model.BankQuestion
		if err := rows.Scan(&q.ID, &q.QBankID, &q.Category, &q.Prompt, &q.Options,
			&q.CorrectOption, &q.Explanation, &q.Position); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
