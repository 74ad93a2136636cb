package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prepnest/prepnest-backend/internal/assessment"
	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var ErrBankNotFound = errors.New("question bank not found")

// QuestionService manages question banks and their questions.
type QuestionService struct {
	repo *repository.QuestionRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(repo *repository.QuestionRepository, rdb *redis.Client, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "question_service").Logger(),
	}
}

// ListBanks returns all question banks.
func (s *QuestionService) ListBanks(ctx context.Context) ([]model.QuestionBank, error) {
	banks, err := s.repo.ListBanks(ctx)
	if err != nil {
		return nil, err
	}
	if banks == nil {
		banks = []model.QuestionBank{}
	}
	return banks, nil
}

// GetBank returns a bank with its questions.
func (s *QuestionService) GetBank(ctx context.Context, id uuid.UUID) (*model.QuestionBank, []model.BankQuestion, error) {
	bank, err := s.repo.GetBank(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrBankNotFound
		}
		return nil, nil, err
	}

	questions, err := s.repo.ListByBank(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if questions == nil {
		questions = []model.BankQuestion{}
	}
	return bank, questions, nil
}

// CreateBank creates a question bank. New banks start active.
func (s *QuestionService) CreateBank(ctx context.Context, authorID int, req *model.CreateQuestionBankRequest) (*model.QuestionBank, error) {
	bank := &model.QuestionBank{
		ID:          uuid.New(),
		AuthorID:    &authorID,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.CreateBank(ctx, bank); err != nil {
		return nil, fmt.Errorf("create bank: %w", err)
	}
	return bank, nil
}

// UpdateBank renames a bank or toggles whether its questions are served.
func (s *QuestionService) UpdateBank(ctx context.Context, id uuid.UUID, req *model.UpdateQuestionBankRequest) (*model.QuestionBank, error) {
	bank, err := s.repo.GetBank(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBankNotFound
		}
		return nil, err
	}

	bank.Name = req.Name
	bank.Description = req.Description
	bank.Active = req.Active

	if err := s.repo.UpdateBank(ctx, bank); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return bank, nil
}

// DeleteBank removes a bank and its questions.
func (s *QuestionService) DeleteBank(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteBank(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// ReplaceQuestions swaps out a bank's entire question set. Each question is
// checked against the assessment rules before anything is written.
func (s *QuestionService) ReplaceQuestions(ctx context.Context, bankID uuid.UUID, req *model.ReplaceQuestionsRequest) ([]model.BankQuestion, error) {
	if _, err := s.repo.GetBank(ctx, bankID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBankNotFound
		}
		return nil, err
	}

	questions := make([]model.BankQuestion, 0, len(req.Questions))
	for i, q := range req.Questions {
		id := uuid.New()
		check := assessment.Question{
			ID:            id.String(),
			Category:      assessment.Category(q.Category),
			Prompt:        q.Prompt,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Explanation:   q.Explanation,
		}
		if err := check.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}

		position := q.Position
		if position == 0 {
			position = i
		}
		questions = append(questions, model.BankQuestion{
			ID:            id,
			QBankID:       bankID,
			Category:      q.Category,
			Prompt:        q.Prompt,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Explanation:   q.Explanation,
			Position:      position,
		})
	}

	if err := s.repo.ReplaceQuestions(ctx, bankID, questions); err != nil {
		return nil, fmt.Errorf("replace questions: %w", err)
	}

	s.invalidateCache(ctx)
	return questions, nil
}

// invalidateCache drops the per-mode question caches so the next attempt
// sees the edited bank.
func (s *QuestionService) invalidateCache(ctx context.Context) {
	keys := []string{
		config.CacheKey.QuestionBankKey(string(assessment.ModeDSA)),
		config.CacheKey.QuestionBankKey(string(assessment.ModeAptitude)),
		config.CacheKey.QuestionBankKey(string(assessment.ModeMixed)),
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate question cache")
	}
}
