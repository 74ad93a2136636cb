package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
)

// ResultWorker consumes persist_results_queue and marks attempts as graded.
type ResultWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewResultWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "result_worker").Logger(),
	}
}

type resultPayload struct {
	AttemptID        string    `json:"attempt_id"`
	Score            int       `json:"score"`
	Total            int       `json:"total"`
	Percentage       int       `json:"percentage"`
	Grade            string    `json:"grade"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	Interruptions    int       `json:"interruptions"`
	FinishedAt       time.Time `json:"finished_at"`
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]*resultPayload, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p resultPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

// ----------------------------------------------------------------
// Batch Update Wrapper
// ----------------------------------------------------------------

func (w *ResultWorker) flushSafe(ctx context.Context, batch []*resultPayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkUpdateResults(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk result update failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed — requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
			}
		}
	}
}

// ----------------------------------------------------------------
// BULK PostgreSQL UPDATE using UNNEST + alias
// ----------------------------------------------------------------

func (w *ResultWorker) bulkUpdateResults(ctx context.Context, batch []*resultPayload) error {
	n := len(batch)

	attemptIDs := make([]uuid.UUID, 0, n)
	scores := make([]int, 0, n)
	totals := make([]int, 0, n)
	percentages := make([]int, 0, n)
	grades := make([]string, 0, n)
	timeSpents := make([]int, 0, n)
	interruptions := make([]int, 0, n)
	finishedAts := make([]time.Time, 0, n)

	for _, p := range batch {
		aID, err := uuid.Parse(p.AttemptID)
		if err != nil {
			return err
		}
		attemptIDs = append(attemptIDs, aID)
		scores = append(scores, p.Score)
		totals = append(totals, p.Total)
		percentages = append(percentages, p.Percentage)
		grades = append(grades, p.Grade)
		timeSpents = append(timeSpents, p.TimeSpentSeconds)
		interruptions = append(interruptions, p.Interruptions)
		finishedAts = append(finishedAts, p.FinishedAt)
	}

	query := `
		UPDATE interview_attempts AS a
		SET status = 'SUBMITTED',
		    score = t.score,
		    total = t.total,
		    percentage = t.percentage,
		    grade = t.grade,
		    time_spent_seconds = t.time_spent_seconds,
		    interruptions = t.interruptions,
		    finished_at = t.finished_at
		FROM (
			SELECT
				u.attempt_id,
				u.score,
				u.total,
				u.percentage,
				u.grade,
				u.time_spent_seconds,
				u.interruptions,
				u.finished_at
			FROM UNNEST(
				$1::uuid[],
				$2::int[],
				$3::int[],
				$4::int[],
				$5::text[],
				$6::int[],
				$7::int[],
				$8::timestamptz[]
			) AS u (attempt_id, score, total, percentage, grade, time_spent_seconds, interruptions, finished_at)
		) AS t
		WHERE a.id = t.attempt_id
	`

	_, err := w.pool.Exec(ctx, query,
		attemptIDs, scores, totals, percentages, grades, timeSpents, interruptions, finishedAts)
	return err
}

// ----------------------------------------------------------------
// FALLBACK single update
// ----------------------------------------------------------------

func (w *ResultWorker) persistSingle(ctx context.Context, p *resultPayload) error {
	aID, err := uuid.Parse(p.AttemptID)
	if err != nil {
		return err
	}

	_, err = w.pool.Exec(ctx,
		`UPDATE interview_attempts
		 SET status = 'SUBMITTED',
		     score = $1,
		     total = $2,
		     percentage = $3,
		     grade = $4,
		     time_spent_seconds = $5,
		     interruptions = $6,
		     finished_at = $7
		 WHERE id = $8`,
		p.Score, p.Total, p.Percentage, p.Grade,
		p.TimeSpentSeconds, p.Interruptions, p.FinishedAt, aID,
	)

	return err
}
