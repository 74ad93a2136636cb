package assessment

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBank builds n questions alternating between categories. Option 1 is
// always correct.
func testBank(n int) []Question {
	qs := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		cat := CategoryDSA
		if i%2 == 1 {
			cat = CategoryAptitude
		}
		qs = append(qs, Question{
			ID:            fmt.Sprintf("q-%d", i+1),
			Category:      cat,
			Prompt:        fmt.Sprintf("Question %d", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectOption: 1,
		})
	}
	return qs
}

func newTestSession(t *testing.T, cfg SessionConfig) *Session {
	t.Helper()
	if cfg.Clock == nil {
		cfg.Clock = newFakeClock()
	}
	s, err := NewSession(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Dispose)
	return s
}

// elapse drives n one-second ticks through the session's timer.
func elapse(s *Session, n int) {
	for i := 0; i < n; i++ {
		s.timer.tick()
	}
}

func TestNewSession_AutoStarts(t *testing.T) {
	s := newTestSession(t, SessionConfig{Questions: testBank(3), DurationSeconds: 60})

	assert.Equal(t, StatusRunning, s.Status())
	assert.True(t, s.timer.Running())
	assert.True(t, s.IsActive())
	assert.Equal(t, 60, s.Remaining())
	assert.Equal(t, "01:00", s.FormattedTime())
}

func TestNewSession_RejectsInvalidQuestions(t *testing.T) {
	_, err := NewSession(SessionConfig{
		Questions: []Question{{ID: "bad", Options: []string{"only"}, CorrectOption: 0}},
		Clock:     newFakeClock(),
	})
	assert.ErrorIs(t, err, ErrTooFewOptions)

	_, err = NewSession(SessionConfig{
		Questions: []Question{{ID: "bad", Options: []string{"a", "b"}, CorrectOption: 2}},
		Clock:     newFakeClock(),
	})
	assert.ErrorIs(t, err, ErrCorrectOutOfRange)
}

func TestSession_RecordAnswerLastWriteWins(t *testing.T) {
	s := newTestSession(t, SessionConfig{Questions: testBank(3), DurationSeconds: 60})

	require.NoError(t, s.RecordAnswer("q-1", 0))
	require.NoError(t, s.RecordAnswer("q-1", 2))
	require.NoError(t, s.RecordAnswer("q-1", 1))
	require.NoError(t, s.RecordAnswer("q-2", 3))

	assert.Equal(t, map[string]int{"q-1": 1, "q-2": 3}, s.Answers())
	assert.Equal(t, 1, s.UnansweredCount())
}

func TestSession_RecordAnswerGuards(t *testing.T) {
	s := newTestSession(t, SessionConfig{Questions: testBank(2), DurationSeconds: 60})

	assert.ErrorIs(t, s.RecordAnswer("nope", 0), ErrUnknownQuestion)
	assert.ErrorIs(t, s.RecordAnswer("q-1", 4), ErrOptionOutOfRange)
	assert.ErrorIs(t, s.RecordAnswer("q-1", -1), ErrOptionOutOfRange)
	assert.Empty(t, s.Answers())

	s.Submit()
	assert.ErrorIs(t, s.RecordAnswer("q-1", 1), ErrNotRunning)
}

func TestSession_SubmitIdempotent(t *testing.T) {
	autoSubmits := 0
	s := newTestSession(t, SessionConfig{
		Questions:       testBank(2),
		DurationSeconds: 60,
		OnAutoSubmit:    func(Result) { autoSubmits++ },
	})

	require.NoError(t, s.RecordAnswer("q-1", 1))
	elapse(s, 10)

	first := s.Submit()
	second := s.Submit()
	assert.Equal(t, first, second)
	assert.Equal(t, StatusSubmitted, s.Status())

	// A timer expiry racing the manual submit must not produce a second
	// result or fire the auto-submit callback.
	s.autoSubmit()
	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, first, res)
	assert.Equal(t, 0, autoSubmits)
	assert.False(t, s.timer.Running())
}

func TestSession_SubmitStopsTimerAndMonitor(t *testing.T) {
	s := newTestSession(t, SessionConfig{Questions: testBank(2), DurationSeconds: 60})

	elapse(s, 5)
	s.ReportSignal(SignalHidden)
	res := s.Submit()

	assert.Equal(t, 5, res.TimeSpentSeconds)
	assert.Equal(t, 1, res.InterruptionCount)
	assert.False(t, s.timer.Running())

	// Signals after submission are dropped by the deactivated monitor.
	s.ReportSignal(SignalHidden)
	assert.Equal(t, 1, s.InterruptionCount())
}

func TestSession_ExplicitSubmitScenario(t *testing.T) {
	// Mixed mode, 10 questions, 1200s budget. 7 correct, 1 wrong, 2 blank,
	// explicit submit at t=300s.
	s := newTestSession(t, SessionConfig{Questions: testBank(10), DurationSeconds: 1200})

	for i := 1; i <= 7; i++ {
		require.NoError(t, s.RecordAnswer(fmt.Sprintf("q-%d", i), 1))
	}
	require.NoError(t, s.RecordAnswer("q-8", 0))
	elapse(s, 300)

	assert.Equal(t, 2, s.UnansweredCount())

	res := s.Submit()
	assert.Equal(t, Result{Score: 7, Total: 10, TimeSpentSeconds: 300}, res)
}

func TestSession_AutoSubmitOnExpiry(t *testing.T) {
	var (
		mu   sync.Mutex
		auto []Result
	)
	s := newTestSession(t, SessionConfig{
		Questions:       testBank(5),
		DurationSeconds: 600,
		OnAutoSubmit: func(r Result) {
			mu.Lock()
			auto = append(auto, r)
			mu.Unlock()
		},
	})

	require.NoError(t, s.RecordAnswer("q-1", 1))
	require.NoError(t, s.RecordAnswer("q-2", 0))

	elapse(s, 600)

	assert.Equal(t, StatusSubmitted, s.Status())
	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, Result{Score: 1, Total: 5, TimeSpentSeconds: 600}, res)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, auto, 1)
	assert.Equal(t, res, auto[0])

	// Extra ticks after expiry change nothing.
	elapse(s, 3)
	assert.Equal(t, 0, s.Remaining())
}

func TestSession_InterruptionsSurviveReturns(t *testing.T) {
	// Three hidden events with visible events in between still total three.
	var warned []int
	s := newTestSession(t, SessionConfig{
		Questions:       testBank(4),
		DurationSeconds: 120,
		OnInterruption:  func(count int) { warned = append(warned, count) },
	})

	s.ReportSignal(SignalHidden)
	s.ReportSignal(SignalVisible)
	s.ReportSignal(SignalHidden)
	s.ReportSignal(SignalVisible)
	s.ReportSignal(SignalHidden)

	assert.False(t, s.IsActive())
	res := s.Submit()
	assert.Equal(t, 3, res.InterruptionCount)
	assert.Equal(t, []int{1, 2, 3}, warned)
}

func TestSession_EmptyQuestionSet(t *testing.T) {
	s := newTestSession(t, SessionConfig{DurationSeconds: 60})

	res := s.Submit()
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, res.Percentage())
}

func TestSession_DisposeWithoutSubmit(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, SessionConfig{Questions: testBank(2), DurationSeconds: 60, Clock: clock})

	s.Dispose()
	assert.False(t, s.timer.Running())
	assert.Equal(t, 0, clock.liveTickers())

	// Dispose is not a submission.
	_, ok := s.Result()
	assert.False(t, ok)

	s.Dispose() // safe to repeat
}
