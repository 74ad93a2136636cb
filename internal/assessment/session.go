package assessment

import (
	"errors"
	"sync"
)

// Status enumerates session states. Submitted is terminal.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusRunning    Status = "RUNNING"
	StatusSubmitted  Status = "SUBMITTED"
)

// Session errors.
var (
	ErrUnknownQuestion  = errors.New("unknown question id")
	ErrOptionOutOfRange = errors.New("option index out of range")
	ErrNotRunning       = errors.New("session is not running")
)

// SessionConfig configures a new Session.
type SessionConfig struct {
	// Questions is the fixed ordered question set for this attempt. Every
	// question must satisfy Validate.
	Questions []Question
	// DurationSeconds is the total time budget.
	DurationSeconds int
	// Clock drives the countdown; nil selects the system clock.
	Clock Clock
	// OnInterruption, if non-nil, is invoked with the running interruption
	// count each time attention leaves the page.
	OnInterruption func(count int)
	// OnAutoSubmit, if non-nil, is invoked with the Result after the timer
	// expires and the session submits itself.
	OnAutoSubmit func(Result)
}

// Session is one timed attempt at an assessment: a question set, the
// countdown timer, and the activity monitor composed into a single state
// machine. The session owns its timer and monitor; both are torn down when
// it leaves Running. All methods are safe for concurrent use.
type Session struct {
	mu           sync.Mutex
	questions    []Question
	byID         map[string]Question
	answers      map[string]int
	duration     int
	status       Status
	timer        *CountdownTimer
	monitor      *ActivityMonitor
	result       *Result
	onAutoSubmit func(Result)
}

// NewSession validates the question set and starts the session immediately:
// the timer begins ticking and the monitor begins observing. There is no
// idle ready state.
func NewSession(cfg SessionConfig) (*Session, error) {
	byID := make(map[string]Question, len(cfg.Questions))
	for _, q := range cfg.Questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		byID[q.ID] = q
	}

	questions := make([]Question, len(cfg.Questions))
	copy(questions, cfg.Questions)

	s := &Session{
		questions:    questions,
		byID:         byID,
		answers:      make(map[string]int),
		duration:     cfg.DurationSeconds,
		status:       StatusNotStarted,
		monitor:      NewActivityMonitor(cfg.OnInterruption),
		onAutoSubmit: cfg.OnAutoSubmit,
	}
	s.timer = NewCountdownTimer(cfg.Clock, cfg.DurationSeconds, s.autoSubmit)

	s.status = StatusRunning
	s.monitor.Activate()
	s.timer.Start()
	return s, nil
}

// RecordAnswer upserts the selected option for a question. Last write wins;
// answers are never removed. Rejected outside Running, for unknown question
// ids, and for option indexes outside the question's option range.
func (s *Session) RecordAnswer(questionID string, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusRunning {
		return ErrNotRunning
	}
	q, ok := s.byID[questionID]
	if !ok {
		return ErrUnknownQuestion
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return ErrOptionOutOfRange
	}
	s.answers[questionID] = optionIndex
	return nil
}

// ReportSignal feeds one attention signal to the session's monitor. Signals
// arriving after submission are dropped by the deactivated monitor.
func (s *Session) ReportSignal(sig Signal) {
	s.monitor.Observe(sig)
}

// ResetRemaining rewinds or advances the countdown to the given second count
// and keeps it running. Used when restoring a session whose wall-clock start
// predates this process. No-op after submission.
func (s *Session) ResetRemaining(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusSubmitted {
		return
	}
	s.timer.ResetTo(seconds)
	s.timer.Start()
}

// Submit performs the terminal transition: stop the timer, deactivate the
// monitor, snapshot the Result. Idempotent — once submitted, later calls
// (including a racing timer expiry) return the existing Result. Whether the
// user confirmed submitting with unanswered questions is the caller's
// concern; see UnansweredCount.
func (s *Session) Submit() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusSubmitted {
		return *s.result
	}
	return s.submitLocked()
}

// autoSubmit is the timer's expiry callback. It runs the same terminal
// transition as Submit; the status guard makes the race with a manual
// submit resolve to exactly one Result.
func (s *Session) autoSubmit() {
	s.mu.Lock()
	if s.status == StatusSubmitted {
		s.mu.Unlock()
		return
	}
	res := s.submitLocked()
	cb := s.onAutoSubmit
	s.mu.Unlock()

	if cb != nil {
		cb(res)
	}
}

// submitLocked computes the Result snapshot exactly once. Caller holds s.mu
// and has checked status != StatusSubmitted.
func (s *Session) submitLocked() Result {
	s.timer.Pause()
	s.monitor.Deactivate()

	res := Result{
		Score:             s.scoreLocked(),
		Total:             len(s.questions),
		TimeSpentSeconds:  s.duration - s.timer.Remaining(),
		InterruptionCount: s.monitor.InterruptionCount(),
	}
	s.result = &res
	s.status = StatusSubmitted
	return res
}

// scoreLocked counts questions whose recorded answer equals the correct
// option. Unanswered questions never count.
func (s *Session) scoreLocked() int {
	score := 0
	for _, q := range s.questions {
		if selected, ok := s.answers[q.ID]; ok && selected == q.CorrectOption {
			score++
		}
	}
	return score
}

// Dispose tears down the timer and monitor without submitting. Every exit
// route (submit, disconnect, navigate away) must reach either Submit or
// Dispose so no tick source outlives the session. Safe to call repeatedly.
func (s *Session) Dispose() {
	s.timer.Dispose()
	s.monitor.Deactivate()
}

// Status returns the session's current state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() int { return s.timer.Remaining() }

// FormattedTime returns the remaining time as zero-padded MM:SS.
func (s *Session) FormattedTime() string { return s.timer.FormattedTime() }

// InterruptionCount returns the monitor's recorded interruption count.
func (s *Session) InterruptionCount() int { return s.monitor.InterruptionCount() }

// IsActive reports whether the candidate's attention is on the page.
func (s *Session) IsActive() bool { return s.monitor.IsActive() }

// Questions returns the session's ordered question set.
func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers returns a copy of the recorded answers keyed by question id.
func (s *Session) Answers() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// UnansweredCount returns how many questions have no recorded answer. Hosts
// use it to gate an explicit submit behind a confirmation step.
func (s *Session) UnansweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions) - len(s.answers)
}

// Result returns the snapshot computed at submission, or false before it.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}
