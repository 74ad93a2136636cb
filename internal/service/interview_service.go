package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prepnest/prepnest-backend/internal/assessment"
	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Interview errors.
var (
	ErrAttemptActive    = errors.New("an interview attempt is already in progress")
	ErrAttemptNotFound  = errors.New("interview attempt not found")
	ErrAttemptSubmitted = errors.New("interview attempt already submitted")
	ErrUnansweredRemain = errors.New("unanswered questions remain")
	ErrNoQuestions      = errors.New("no questions available for this mode")
	ErrInvalidSignal    = errors.New("unknown activity signal")
)

const questionCacheTTL = 5 * time.Minute

// liveAttempt pairs a running assessment session with its persistence context.
type liveAttempt struct {
	session         *assessment.Session
	userID          int
	mode            assessment.Mode
	durationSeconds int
	// Interruptions carried over from before a server restart.
	baseInterruptions int
	// Closed result is delivered here when the timer expires, so the
	// WebSocket stream can push a graded event without polling.
	autoGraded chan ResultBundle
}

// ResultBundle is the full results payload returned after grading.
type ResultBundle struct {
	AttemptID        uuid.UUID               `json:"attempt_id"`
	Mode             string                  `json:"mode"`
	Score            int                     `json:"score"`
	Total            int                     `json:"total"`
	Percentage       int                     `json:"percentage"`
	Grade            string                  `json:"grade"`
	TimeSpentSeconds int                     `json:"time_spent_seconds"`
	Interruptions    int                     `json:"interruptions"`
	Report           []assessment.ReportItem `json:"report"`
}

// AttemptQuestionView is a question as exposed to the test taker. The correct
// option and explanation are withheld until grading.
type AttemptQuestionView struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
}

// AttemptState is the live view of an in-progress attempt, used to render or
// restore the test screen.
type AttemptState struct {
	AttemptID        uuid.UUID             `json:"attempt_id"`
	Mode             string                `json:"mode"`
	Status           string                `json:"status"`
	RemainingSeconds int                   `json:"remaining_seconds"`
	FormattedTime    string                `json:"formatted_time"`
	Questions        []AttemptQuestionView `json:"questions"`
	Answers          map[string]int        `json:"answers"`
	Unanswered       int                   `json:"unanswered"`
	Interruptions    int                   `json:"interruptions"`
}

// InterviewService orchestrates live interview test attempts. Each running
// attempt holds an in-memory assessment session; answers and interruption
// events are mirrored to Redis as they happen and flushed to PostgreSQL by
// the background workers.
type InterviewService struct {
	cfg       *config.Config
	attempts  *repository.AttemptRepository
	questions *repository.QuestionRepository
	rdb       *redis.Client
	log       zerolog.Logger

	mu   sync.Mutex
	live map[uuid.UUID]*liveAttempt
}

// NewInterviewService creates a new InterviewService.
func NewInterviewService(
	cfg *config.Config,
	attempts *repository.AttemptRepository,
	questions *repository.QuestionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *InterviewService {
	return &InterviewService{
		cfg:       cfg,
		attempts:  attempts,
		questions: questions,
		rdb:       rdb,
		log:       log.With().Str("component", "interview_service").Logger(),
		live:      make(map[uuid.UUID]*liveAttempt),
	}
}

// StartAttempt begins a new timed attempt for the user in the given mode.
// Rejects when an attempt is already in progress.
func (s *InterviewService) StartAttempt(ctx context.Context, userID int, modeStr string) (*AttemptState, error) {
	mode, err := assessment.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	if existing, err := s.attempts.GetActiveByUser(ctx, userID); err == nil && existing != nil {
		if _, ok := s.lookup(existing.ID); ok {
			return nil, ErrAttemptActive
		}
		// Orphaned row from before a restart: rehydrate and resume instead.
		if la, err := s.rehydrate(ctx, existing); err == nil {
			return s.stateOf(existing.ID, la), nil
		}
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check active attempt: %w", err)
	}

	questions, err := s.loadQuestions(ctx, mode)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	durationSeconds := s.durationFor(mode)
	attemptID := uuid.New()
	startedAt := time.Now()

	attempt := &model.InterviewAttempt{
		ID:              attemptID,
		UserID:          userID,
		Mode:            string(mode),
		Status:          model.AttemptStatusInProgress,
		DurationSeconds: durationSeconds,
		Total:           len(questions),
		StartedAt:       startedAt,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	// Cache the start time so the attempt can be restored after a restart.
	_ = s.rdb.Set(ctx, config.CacheKey.AttemptStartKey(attemptID.String()), startedAt.Unix(), 0).Err()

	la := s.spawn(attemptID, userID, mode, durationSeconds, questions, 0)

	s.mu.Lock()
	s.live[attemptID] = la
	s.mu.Unlock()

	s.publishMonitor(monitorEvent{Type: "started", AttemptID: attemptID.String(), UserID: userID, Mode: string(mode)})

	return s.stateOf(attemptID, la), nil
}

// RecordAnswer saves the selected option for one question of a live attempt.
// The answer is applied in memory, mirrored to Redis, and queued for
// persistence. Returns the number of questions still unanswered.
func (s *InterviewService) RecordAnswer(ctx context.Context, attemptID uuid.UUID, userID int, questionID string, option int) (int, error) {
	la, err := s.owned(attemptID, userID)
	if err != nil {
		return 0, err
	}

	if err := la.session.RecordAnswer(questionID, option); err != nil {
		return 0, err
	}

	// Mirror to Redis for crash recovery.
	_ = s.rdb.HSet(ctx, config.CacheKey.AttemptAnswersKey(attemptID.String()), questionID, option).Err()

	payload, _ := json.Marshal(struct {
		AttemptID  string `json:"attempt_id"`
		QuestionID string `json:"question_id"`
		Option     int    `json:"option"`
	}{attemptID.String(), questionID, option})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, payload).Err(); err != nil {
		s.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("Failed to queue answer")
	}

	return la.session.UnansweredCount(), nil
}

// ReportSignal feeds a visibility or focus signal into the attempt's activity
// monitor and returns the updated interruption count.
func (s *InterviewService) ReportSignal(ctx context.Context, attemptID uuid.UUID, userID int, signalStr string) (int, error) {
	la, err := s.owned(attemptID, userID)
	if err != nil {
		return 0, err
	}

	signal := assessment.Signal(signalStr)
	switch signal {
	case assessment.SignalHidden, assessment.SignalVisible, assessment.SignalBlur, assessment.SignalFocus:
	default:
		return 0, ErrInvalidSignal
	}

	la.session.ReportSignal(signal)
	return la.baseInterruptions + la.session.InterruptionCount(), nil
}

// Submit finishes and grades a live attempt. When unanswered questions remain
// the caller must set confirmUnanswered; otherwise ErrUnansweredRemain is
// returned so the client can show a confirmation prompt. Submitting an
// already-graded attempt returns the existing results.
func (s *InterviewService) Submit(ctx context.Context, attemptID uuid.UUID, userID int, confirmUnanswered bool) (*ResultBundle, error) {
	la, err := s.owned(attemptID, userID)
	if err != nil {
		if errors.Is(err, ErrAttemptNotFound) {
			// Already graded and evicted from the registry.
			if bundle, dbErr := s.reportFromDB(ctx, attemptID, userID); dbErr == nil {
				return bundle, nil
			}
		}
		return nil, err
	}

	if la.session.Status() == assessment.StatusRunning &&
		la.session.UnansweredCount() > 0 && !confirmUnanswered {
		return nil, ErrUnansweredRemain
	}

	result := la.session.Submit()
	bundle := s.finalize(attemptID, la, result)
	return &bundle, nil
}

// State returns the current state of the user's attempt, restoring it from
// Redis and PostgreSQL if the in-memory session was lost to a restart.
func (s *InterviewService) State(ctx context.Context, attemptID uuid.UUID, userID int) (*AttemptState, error) {
	la, ok := s.lookup(attemptID)
	if !ok {
		attempt, err := s.attempts.GetByID(ctx, attemptID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrAttemptNotFound
			}
			return nil, err
		}
		if attempt.UserID != userID {
			return nil, ErrAttemptNotFound
		}
		if attempt.Status == model.AttemptStatusSubmitted {
			return nil, ErrAttemptSubmitted
		}
		la, err = s.rehydrate(ctx, attempt)
		if err != nil {
			return nil, err
		}
	}
	if la.userID != userID {
		return nil, ErrAttemptNotFound
	}
	return s.stateOf(attemptID, la), nil
}

// Report returns the graded results of a submitted attempt.
func (s *InterviewService) Report(ctx context.Context, attemptID uuid.UUID, userID int) (*ResultBundle, error) {
	if la, ok := s.lookup(attemptID); ok && la.userID == userID {
		if result, done := la.session.Result(); done {
			bundle := s.buildBundle(attemptID, la, result)
			return &bundle, nil
		}
		return nil, errors.New("attempt not yet submitted")
	}
	return s.reportFromDB(ctx, attemptID, userID)
}

// AutoGraded returns the channel that delivers results when the attempt's
// timer expires. Returns nil when the attempt is not live.
func (s *InterviewService) AutoGraded(attemptID uuid.UUID, userID int) <-chan ResultBundle {
	la, ok := s.lookup(attemptID)
	if !ok || la.userID != userID {
		return nil
	}
	return la.autoGraded
}

// History returns the user's past attempts with pagination.
func (s *InterviewService) History(ctx context.Context, userID, page, perPage int) ([]model.InterviewAttempt, int, error) {
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}

	attempts, total, err := s.attempts.ListByUser(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	if attempts == nil {
		attempts = []model.InterviewAttempt{}
	}
	return attempts, total, nil
}

// Shutdown disposes every live session so timer goroutines exit cleanly.
// In-progress attempts stay restorable through Redis and PostgreSQL.
func (s *InterviewService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, la := range s.live {
		la.session.Dispose()
		delete(s.live, id)
	}
}

// ─── Internals ──────────────────────────────────────────────────────

func (s *InterviewService) durationFor(mode assessment.Mode) int {
	if mode == assessment.ModeMixed {
		return s.cfg.InterviewMixedMinutes * 60
	}
	return s.cfg.InterviewSingleMinutes * 60
}

// spawn builds the in-memory session with its interruption and auto-submit
// hooks and returns the registry entry. The caller inserts it into s.live.
func (s *InterviewService) spawn(attemptID uuid.UUID, userID int, mode assessment.Mode, durationSeconds int, questions []assessment.Question, baseInterruptions int) *liveAttempt {
	la := &liveAttempt{
		userID:            userID,
		mode:              mode,
		durationSeconds:   durationSeconds,
		baseInterruptions: baseInterruptions,
		autoGraded:        make(chan ResultBundle, 1),
	}

	session, err := assessment.NewSession(assessment.SessionConfig{
		Questions:       questions,
		DurationSeconds: durationSeconds,
		OnInterruption: func(count int) {
			s.onInterruption(attemptID, userID, la.baseInterruptions+count)
		},
		OnAutoSubmit: func(result assessment.Result) {
			bundle := s.finalize(attemptID, la, result)
			select {
			case la.autoGraded <- bundle:
			default:
			}
		},
	})
	if err != nil {
		// Questions were validated on load; this is unreachable in practice.
		s.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("Session build failed")
		return la
	}
	la.session = session
	return la
}

func (s *InterviewService) onInterruption(attemptID uuid.UUID, userID, count int) {
	ctx := context.Background()

	payload, _ := json.Marshal(struct {
		AttemptID  string    `json:"attempt_id"`
		Signal     string    `json:"signal"`
		OccurredAt time.Time `json:"occurred_at"`
	}{attemptID.String(), "interruption", time.Now()})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistInterruptionsQueue, payload).Err(); err != nil {
		s.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("Failed to queue interruption")
	}

	s.publishMonitor(monitorEvent{
		Type:          "interruption",
		AttemptID:     attemptID.String(),
		UserID:        userID,
		Interruptions: count,
	})
}

// finalize grades the attempt, queues the result for persistence, publishes
// the monitor event, and evicts the live entry. Idempotent per attempt since
// Session.Submit returns the same result on repeat calls.
func (s *InterviewService) finalize(attemptID uuid.UUID, la *liveAttempt, result assessment.Result) ResultBundle {
	bundle := s.buildBundle(attemptID, la, result)

	ctx := context.Background()
	payload, _ := json.Marshal(struct {
		AttemptID        string    `json:"attempt_id"`
		Score            int       `json:"score"`
		Total            int       `json:"total"`
		Percentage       int       `json:"percentage"`
		Grade            string    `json:"grade"`
		TimeSpentSeconds int       `json:"time_spent_seconds"`
		Interruptions    int       `json:"interruptions"`
		FinishedAt       time.Time `json:"finished_at"`
	}{
		attemptID.String(), bundle.Score, bundle.Total, bundle.Percentage, bundle.Grade,
		bundle.TimeSpentSeconds, bundle.Interruptions, time.Now(),
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, payload).Err(); err != nil {
		s.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("Failed to queue result")
	}

	// The attempt state in Redis is no longer needed once graded.
	_ = s.rdb.Del(ctx,
		config.CacheKey.AttemptAnswersKey(attemptID.String()),
		config.CacheKey.AttemptStartKey(attemptID.String()),
	).Err()

	s.publishMonitor(monitorEvent{
		Type:          "graded",
		AttemptID:     attemptID.String(),
		UserID:        la.userID,
		Percentage:    bundle.Percentage,
		Interruptions: bundle.Interruptions,
	})

	s.mu.Lock()
	if current, ok := s.live[attemptID]; ok && current == la {
		delete(s.live, attemptID)
	}
	s.mu.Unlock()
	la.session.Dispose()

	return bundle
}

func (s *InterviewService) buildBundle(attemptID uuid.UUID, la *liveAttempt, result assessment.Result) ResultBundle {
	// Remaining time survives rehydration, so time spent is derived from the
	// attempt's full duration rather than the session's own accounting.
	timeSpent := la.durationSeconds - la.session.Remaining()
	interruptions := la.baseInterruptions + result.InterruptionCount

	adjusted := result
	adjusted.TimeSpentSeconds = timeSpent
	adjusted.InterruptionCount = interruptions

	return ResultBundle{
		AttemptID:        attemptID,
		Mode:             string(la.mode),
		Score:            result.Score,
		Total:            result.Total,
		Percentage:       adjusted.Percentage(),
		Grade:            string(assessment.GradeFor(adjusted.Percentage())),
		TimeSpentSeconds: timeSpent,
		Interruptions:    interruptions,
		Report:           assessment.BuildReport(la.session.Questions(), la.session.Answers(), adjusted).Items,
	}
}

func (s *InterviewService) stateOf(attemptID uuid.UUID, la *liveAttempt) *AttemptState {
	questions := la.session.Questions()
	views := make([]AttemptQuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, AttemptQuestionView{
			ID:       q.ID,
			Category: string(q.Category),
			Prompt:   q.Prompt,
			Options:  q.Options,
		})
	}

	return &AttemptState{
		AttemptID:        attemptID,
		Mode:             string(la.mode),
		Status:           string(la.session.Status()),
		RemainingSeconds: la.session.Remaining(),
		FormattedTime:    la.session.FormattedTime(),
		Questions:        views,
		Answers:          la.session.Answers(),
		Unanswered:       la.session.UnansweredCount(),
		Interruptions:    la.baseInterruptions + la.session.InterruptionCount(),
	}
}

func (s *InterviewService) lookup(attemptID uuid.UUID) (*liveAttempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	la, ok := s.live[attemptID]
	return la, ok
}

func (s *InterviewService) owned(attemptID uuid.UUID, userID int) (*liveAttempt, error) {
	la, ok := s.lookup(attemptID)
	if !ok {
		return nil, ErrAttemptNotFound
	}
	if la.userID != userID {
		return nil, ErrAttemptNotFound
	}
	if la.session.Status() == assessment.StatusSubmitted {
		return nil, ErrAttemptSubmitted
	}
	return la, nil
}

// rehydrate rebuilds a live session for an in-progress attempt found in
// PostgreSQL but missing from the registry, replaying cached answers and
// resuming the countdown from where it left off.
func (s *InterviewService) rehydrate(ctx context.Context, attempt *model.InterviewAttempt) (*liveAttempt, error) {
	mode, err := assessment.ParseMode(attempt.Mode)
	if err != nil {
		return nil, err
	}

	questions, err := s.loadQuestions(ctx, mode)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	startedAt := attempt.StartedAt
	if val, err := s.rdb.Get(ctx, config.CacheKey.AttemptStartKey(attempt.ID.String())).Result(); err == nil {
		if unix, parseErr := strconv.ParseInt(val, 10, 64); parseErr == nil {
			startedAt = time.Unix(unix, 0)
		}
	}

	remaining := attempt.DurationSeconds - int(time.Since(startedAt).Seconds())
	if remaining < 1 {
		// Out of time while offline; a minimal session lets the normal
		// expiry path grade whatever answers were cached.
		remaining = 1
	}

	interruptions, err := s.attempts.ListInterruptions(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}

	la := s.spawn(attempt.ID, attempt.UserID, mode, attempt.DurationSeconds, questions, len(interruptions))
	if la.session == nil {
		return nil, ErrNoQuestions
	}
	la.session.ResetRemaining(remaining)

	// Replay cached answers.
	cached, err := s.rdb.HGetAll(ctx, config.CacheKey.AttemptAnswersKey(attempt.ID.String())).Result()
	if err == nil {
		for qid, optStr := range cached {
			if opt, convErr := strconv.Atoi(optStr); convErr == nil {
				_ = la.session.RecordAnswer(qid, opt)
			}
		}
	}
	// Fall back to rows the answer worker already flushed.
	if len(cached) == 0 {
		persisted, dbErr := s.attempts.ListAnswers(ctx, attempt.ID)
		if dbErr == nil {
			for _, ans := range persisted {
				_ = la.session.RecordAnswer(ans.QuestionID.String(), ans.SelectedOption)
			}
		}
	}

	s.mu.Lock()
	s.live[attempt.ID] = la
	s.mu.Unlock()

	s.log.Info().Str("attempt_id", attempt.ID.String()).Int("remaining", remaining).Msg("Attempt rehydrated")
	return la, nil
}

// reportFromDB reconstructs the results bundle for a submitted attempt from
// persisted rows.
func (s *InterviewService) reportFromDB(ctx context.Context, attemptID uuid.UUID, userID int) (*ResultBundle, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, ErrAttemptNotFound
	}
	if attempt.Status != model.AttemptStatusSubmitted || attempt.Score == nil {
		return nil, errors.New("attempt not yet graded")
	}

	answers, err := s.attempts.ListAnswers(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	questionIDs := make([]uuid.UUID, 0, len(answers))
	for _, ans := range answers {
		questionIDs = append(questionIDs, ans.QuestionID)
	}

	mode, err := assessment.ParseMode(attempt.Mode)
	if err != nil {
		return nil, err
	}
	questions, err := s.loadQuestions(ctx, mode)
	if err != nil {
		return nil, err
	}

	answerMap := make(map[string]int, len(answers))
	for _, ans := range answers {
		answerMap[ans.QuestionID.String()] = ans.SelectedOption
	}

	// Rebuild the graded snapshot from the persisted columns so the
	// per-question review carries the same numbers the worker stored.
	res := assessment.Result{
		Score:             *attempt.Score,
		Total:             attempt.Total,
		InterruptionCount: attempt.Interruptions,
	}
	if attempt.TimeSpentSeconds != nil {
		res.TimeSpentSeconds = *attempt.TimeSpentSeconds
	}

	bundle := &ResultBundle{
		AttemptID:        attemptID,
		Mode:             attempt.Mode,
		Score:            res.Score,
		Total:            res.Total,
		TimeSpentSeconds: res.TimeSpentSeconds,
		Interruptions:    res.InterruptionCount,
		Report:           assessment.BuildReport(questions, answerMap, res).Items,
	}
	if attempt.Percentage != nil {
		bundle.Percentage = *attempt.Percentage
	}
	if attempt.Grade != nil {
		bundle.Grade = *attempt.Grade
	}
	return bundle, nil
}

// loadQuestions fetches the question set for a mode, serving from the Redis
// cache when fresh.
func (s *InterviewService) loadQuestions(ctx context.Context, mode assessment.Mode) ([]assessment.Question, error) {
	cacheKey := config.CacheKey.QuestionBankKey(string(mode))

	if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var questions []assessment.Question
		if err := json.Unmarshal([]byte(cached), &questions); err == nil {
			return questions, nil
		}
	}

	var categories []string
	if mode != assessment.ModeMixed {
		categories = []string{string(mode)}
	}

	rows, err := s.questions.ListActiveByCategories(ctx, categories)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	questions := make([]assessment.Question, 0, len(rows))
	for _, row := range rows {
		q := assessment.Question{
			ID:            row.ID.String(),
			Category:      assessment.Category(row.Category),
			Prompt:        row.Prompt,
			Options:       row.Options,
			CorrectOption: row.CorrectOption,
			Explanation:   row.Explanation,
		}
		if err := q.Validate(); err != nil {
			s.log.Warn().Err(err).Str("question_id", q.ID).Msg("Skipping invalid question")
			continue
		}
		questions = append(questions, q)
	}

	if payload, err := json.Marshal(questions); err == nil {
		_ = s.rdb.Set(ctx, cacheKey, payload, questionCacheTTL).Err()
	}

	return questions, nil
}

// monitorEvent is published over Redis Pub/Sub for the live proctor stream.
type monitorEvent struct {
	Type          string `json:"type"`
	AttemptID     string `json:"attempt_id"`
	UserID        int    `json:"user_id"`
	Mode          string `json:"mode,omitempty"`
	Interruptions int    `json:"interruptions,omitempty"`
	Percentage    int    `json:"percentage,omitempty"`
}

func (s *InterviewService) publishMonitor(ev monitorEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(context.Background(), config.CacheKey.InterviewMonitorChannel(), payload).Err(); err != nil {
		s.log.Error().Err(err).Msg("Failed to publish monitor event")
	}
}
