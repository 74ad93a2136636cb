package assessment

import (
	"errors"
	"fmt"
)

// Category tags a question as algorithmic or quantitative.
type Category string

const (
	CategoryDSA      Category = "dsa"
	CategoryAptitude Category = "aptitude"
)

// Question is a single multiple-choice question. Immutable for the duration
// of a session.
type Question struct {
	ID            string   `json:"id"`
	Category      Category `json:"category"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Question validation errors.
var (
	ErrTooFewOptions     = errors.New("question needs at least two options")
	ErrCorrectOutOfRange = errors.New("correct option index out of range")
)

// Validate enforces the scoring invariant: at least two options and a
// correct index inside them.
func (q Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("question %s: %w", q.ID, ErrTooFewOptions)
	}
	if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
		return fmt.Errorf("question %s: %w", q.ID, ErrCorrectOutOfRange)
	}
	return nil
}

// Mode names the question-set filter selected before a session starts.
type Mode string

const (
	ModeDSA      Mode = "dsa"
	ModeAptitude Mode = "aptitude"
	ModeMixed    Mode = "mixed"
)

// ErrUnknownMode is returned by ParseMode for unrecognized mode strings.
var ErrUnknownMode = errors.New("unknown test mode")

// ParseMode validates a raw mode string.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeDSA, ModeAptitude, ModeMixed:
		return Mode(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
}

// FilterByMode returns the questions matching the mode, preserving the
// bank's ordering. Mixed returns everything.
func FilterByMode(questions []Question, mode Mode) []Question {
	if mode == ModeMixed {
		out := make([]Question, len(questions))
		copy(out, questions)
		return out
	}
	var out []Question
	for _, q := range questions {
		if Mode(q.Category) == mode {
			out = append(out, q)
		}
	}
	return out
}
