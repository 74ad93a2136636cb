package service

import (
	"context"
	"sync"

	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
)

// MonitorService builds the proctor view of live interview attempts.
type MonitorService struct {
	attempts *repository.AttemptRepository
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(attempts *repository.AttemptRepository) *MonitorService {
	return &MonitorService{attempts: attempts}
}

// LiveAttemptView is one in-progress attempt as shown on the proctor board.
type LiveAttemptView struct {
	AttemptID     string `json:"attempt_id"`
	UserID        int    `json:"user_id"`
	UserName      string `json:"user_name"`
	Mode          string `json:"mode"`
	StartedAt     int64  `json:"started_at"`
	Answered      int    `json:"answered"`
	Total         int    `json:"total"`
	Interruptions int    `json:"interruptions"`
}

// Snapshot returns every in-progress attempt with answered counts and
// interruption counts. The per-attempt lookups run concurrently since the
// proctor board refreshes on every SSE heartbeat.
func (s *MonitorService) Snapshot(ctx context.Context) ([]LiveAttemptView, error) {
	attempts, names, err := s.attempts.ListInProgress(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]LiveAttemptView, len(attempts))
	var wg sync.WaitGroup
	for i, a := range attempts {
		views[i] = LiveAttemptView{
			AttemptID: a.ID.String(),
			UserID:    a.UserID,
			UserName:  names[a.ID],
			Mode:      a.Mode,
			StartedAt: a.StartedAt.Unix(),
			Total:     a.Total,
		}

		wg.Add(1)
		go func(i int, a model.InterviewAttempt) {
			defer wg.Done()
			if answers, err := s.attempts.ListAnswers(ctx, a.ID); err == nil {
				views[i].Answered = len(answers)
			}
			if events, err := s.attempts.ListInterruptions(ctx, a.ID); err == nil {
				views[i].Interruptions = len(events)
			}
		}(i, a)
	}
	wg.Wait()

	return views, nil
}
