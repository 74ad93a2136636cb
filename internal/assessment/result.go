package assessment

import "math"

// Result is the immutable scored summary produced exactly once at
// submission.
type Result struct {
	Score             int `json:"score"`
	Total             int `json:"total"`
	TimeSpentSeconds  int `json:"time_spent_seconds"`
	InterruptionCount int `json:"interruption_count"`
}

// Percentage returns round(100*score/total), defined as 0 for an empty
// question set.
func (r Result) Percentage() int {
	if r.Total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(r.Score) / float64(r.Total)))
}

// Grade is the qualitative label shown with a percentage.
type Grade string

const (
	GradeExcellent        Grade = "Excellent!"
	GradeGood             Grade = "Good Job!"
	GradeKeepPracticing   Grade = "Keep Practicing"
	GradeNeedsImprovement Grade = "Needs Improvement"
)

// GradeFor maps a percentage to its grade band.
func GradeFor(percentage int) Grade {
	switch {
	case percentage >= 90:
		return GradeExcellent
	case percentage >= 70:
		return GradeGood
	case percentage >= 50:
		return GradeKeepPracticing
	default:
		return GradeNeedsImprovement
	}
}

// Verdict is the per-question outcome in a report.
type Verdict string

const (
	VerdictCorrect   Verdict = "correct"
	VerdictIncorrect Verdict = "incorrect"
	VerdictBlank     Verdict = "blank"
)

// ReportItem is the reviewed outcome for one question.
type ReportItem struct {
	QuestionID     string   `json:"question_id"`
	Category       Category `json:"category"`
	Prompt         string   `json:"prompt"`
	Verdict        Verdict  `json:"verdict"`
	SelectedOption *int     `json:"selected_option,omitempty"`
	SelectedText   string   `json:"selected_text,omitempty"`
	CorrectOption  int      `json:"correct_option"`
	CorrectText    string   `json:"correct_text"`
	Explanation    string   `json:"explanation,omitempty"`
}

// Report is the full results view over a completed session: the Result plus
// derived percentage, grade, and a per-question review. Pure presentation
// over already-computed data.
type Report struct {
	Result     Result       `json:"result"`
	Percentage int          `json:"percentage"`
	Grade      Grade        `json:"grade"`
	Items      []ReportItem `json:"items"`
}

// BuildReport renders a completed session's final state. It never mutates
// its inputs and may be called any number of times with the same output.
func BuildReport(questions []Question, answers map[string]int, res Result) Report {
	items := make([]ReportItem, 0, len(questions))
	for _, q := range questions {
		item := ReportItem{
			QuestionID:    q.ID,
			Category:      q.Category,
			Prompt:        q.Prompt,
			CorrectOption: q.CorrectOption,
			CorrectText:   q.Options[q.CorrectOption],
			Explanation:   q.Explanation,
		}
		if selected, ok := answers[q.ID]; ok {
			idx := selected
			item.SelectedOption = &idx
			if idx >= 0 && idx < len(q.Options) {
				item.SelectedText = q.Options[idx]
			}
			if idx == q.CorrectOption {
				item.Verdict = VerdictCorrect
			} else {
				item.Verdict = VerdictIncorrect
			}
		} else {
			item.Verdict = VerdictBlank
		}
		items = append(items, item)
	}

	pct := res.Percentage()
	return Report{
		Result:     res,
		Percentage: pct,
		Grade:      GradeFor(pct),
		Items:      items,
	}
}
