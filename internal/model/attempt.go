package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates interview attempt states.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "IN_PROGRESS"
	AttemptStatusSubmitted  AttemptStatus = "SUBMITTED"
)

// InterviewAttempt represents one timed run of the interview test.
type InterviewAttempt struct {
	ID               uuid.UUID     `json:"id"`
	UserID           int           `json:"user_id"`
	Mode             string        `json:"mode"`
	Status           AttemptStatus `json:"status"`
	DurationSeconds  int           `json:"duration_seconds"`
	Score            *int          `json:"score,omitempty"`
	Total            int           `json:"total"`
	Percentage       *int          `json:"percentage,omitempty"`
	Grade            *string       `json:"grade,omitempty"`
	TimeSpentSeconds *int          `json:"time_spent_seconds,omitempty"`
	Interruptions    int           `json:"interruptions"`
	StartedAt        time.Time     `json:"started_at"`
	FinishedAt       *time.Time    `json:"finished_at,omitempty"`
}

// AttemptAnswer is a persisted answer for one question of an attempt.
type AttemptAnswer struct {
	AttemptID      uuid.UUID `json:"attempt_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption int       `json:"selected_option"`
	AnsweredAt     time.Time `json:"answered_at"`
}

// AttemptInterruption is a persisted tab-switch or focus-loss event.
type AttemptInterruption struct {
	AttemptID  uuid.UUID `json:"attempt_id"`
	Signal     string    `json:"signal"`
	OccurredAt time.Time `json:"occurred_at"`
}

// StartAttemptRequest is the payload for beginning an interview test.
type StartAttemptRequest struct {
	Mode string `json:"mode" binding:"required,oneof=dsa aptitude mixed"`
}

// RecordAnswerRequest is the payload for saving a single answer over HTTP.
type RecordAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required,uuid"`
	Option     int    `json:"option" binding:"min=0"`
}

// ReportSignalRequest is the payload for reporting an activity signal over HTTP.
type ReportSignalRequest struct {
	Signal string `json:"signal" binding:"required,oneof=hidden visible blur focus"`
}

// SubmitAttemptRequest is the payload for finishing an attempt.
type SubmitAttemptRequest struct {
	ConfirmUnanswered bool `json:"confirm_unanswered"`
}
