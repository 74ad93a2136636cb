package assessment

import "context"

// Bank provides the ordered question set for a requested mode. The provider
// behind it (static data or a database) is out of the core's concern.
type Bank interface {
	Questions(ctx context.Context, mode Mode) ([]Question, error)
}

// StaticBank is an in-memory Bank backed by a fixed ordered slice.
type StaticBank struct {
	questions []Question
}

// NewStaticBank validates every question and returns a bank over them.
func NewStaticBank(questions []Question) (*StaticBank, error) {
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
	}
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &StaticBank{questions: qs}, nil
}

// Questions returns the bank's questions for the mode in bank order.
func (b *StaticBank) Questions(_ context.Context, mode Mode) ([]Question, error) {
	return FilterByMode(b.questions, mode), nil
}
