package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_Percentage(t *testing.T) {
	assert.Equal(t, 0, Result{Score: 0, Total: 0}.Percentage())
	assert.Equal(t, 100, Result{Score: 10, Total: 10}.Percentage())
	assert.Equal(t, 70, Result{Score: 7, Total: 10}.Percentage())
	assert.Equal(t, 33, Result{Score: 1, Total: 3}.Percentage())
	assert.Equal(t, 67, Result{Score: 2, Total: 3}.Percentage())
}

func TestGradeFor(t *testing.T) {
	assert.Equal(t, GradeExcellent, GradeFor(100))
	assert.Equal(t, GradeExcellent, GradeFor(90))
	assert.Equal(t, GradeGood, GradeFor(89))
	assert.Equal(t, GradeGood, GradeFor(70))
	assert.Equal(t, GradeKeepPracticing, GradeFor(69))
	assert.Equal(t, GradeKeepPracticing, GradeFor(50))
	assert.Equal(t, GradeNeedsImprovement, GradeFor(49))
	assert.Equal(t, GradeNeedsImprovement, GradeFor(0))
}

func TestBuildReport(t *testing.T) {
	questions := []Question{
		{
			ID: "q-1", Category: CategoryDSA, Prompt: "First",
			Options: []string{"A", "B", "C"}, CorrectOption: 1, Explanation: "because B",
		},
		{
			ID: "q-2", Category: CategoryAptitude, Prompt: "Second",
			Options: []string{"X", "Y"}, CorrectOption: 0,
		},
		{
			ID: "q-3", Category: CategoryDSA, Prompt: "Third",
			Options: []string{"P", "Q"}, CorrectOption: 1,
		},
	}
	answers := map[string]int{"q-1": 1, "q-2": 1}
	res := Result{Score: 1, Total: 3, TimeSpentSeconds: 42, InterruptionCount: 1}

	report := BuildReport(questions, answers, res)

	assert.Equal(t, 33, report.Percentage)
	assert.Equal(t, GradeNeedsImprovement, report.Grade)
	require.Len(t, report.Items, 3)

	correct := report.Items[0]
	assert.Equal(t, VerdictCorrect, correct.Verdict)
	require.NotNil(t, correct.SelectedOption)
	assert.Equal(t, 1, *correct.SelectedOption)
	assert.Equal(t, "B", correct.SelectedText)
	assert.Equal(t, "B", correct.CorrectText)
	assert.Equal(t, "because B", correct.Explanation)

	wrong := report.Items[1]
	assert.Equal(t, VerdictIncorrect, wrong.Verdict)
	assert.Equal(t, "Y", wrong.SelectedText)
	assert.Equal(t, "X", wrong.CorrectText)

	blank := report.Items[2]
	assert.Equal(t, VerdictBlank, blank.Verdict)
	assert.Nil(t, blank.SelectedOption)
	assert.Equal(t, "Q", blank.CorrectText)
}

func TestBuildReport_EmptySet(t *testing.T) {
	report := BuildReport(nil, nil, Result{})
	assert.Equal(t, 0, report.Percentage)
	assert.Equal(t, GradeNeedsImprovement, report.Grade)
	assert.Empty(t, report.Items)
}
