package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepnest/prepnest-backend/internal/assessment"
)

func newGradedAttempt(t *testing.T) (*liveAttempt, assessment.Result) {
	t.Helper()

	questions := []assessment.Question{
		{
			ID: "q-1", Category: assessment.CategoryDSA, Prompt: "First",
			Options: []string{"A", "B", "C"}, CorrectOption: 1, Explanation: "because B",
		},
		{
			ID: "q-2", Category: assessment.CategoryAptitude, Prompt: "Second",
			Options: []string{"X", "Y"}, CorrectOption: 0,
		},
		{
			ID: "q-3", Category: assessment.CategoryDSA, Prompt: "Third",
			Options: []string{"P", "Q"}, CorrectOption: 1,
		},
	}

	sess, err := assessment.NewSession(assessment.SessionConfig{
		Questions:       questions,
		DurationSeconds: 600,
	})
	require.NoError(t, err)
	t.Cleanup(sess.Dispose)

	require.NoError(t, sess.RecordAnswer("q-1", 1)) // correct
	require.NoError(t, sess.RecordAnswer("q-2", 1)) // incorrect; q-3 left blank
	result := sess.Submit()

	la := &liveAttempt{
		session:           sess,
		userID:            7,
		mode:              assessment.ModeMixed,
		durationSeconds:   600,
		baseInterruptions: 2,
	}
	return la, result
}

func TestBuildBundle_ReportItems(t *testing.T) {
	svc := &InterviewService{}
	la, result := newGradedAttempt(t)

	bundle := svc.buildBundle(uuid.New(), la, result)

	assert.Equal(t, 1, bundle.Score)
	assert.Equal(t, 3, bundle.Total)
	assert.Equal(t, 33, bundle.Percentage)
	assert.Equal(t, string(assessment.GradeNeedsImprovement), bundle.Grade)

	require.Len(t, bundle.Report, 3)
	assert.Equal(t, "q-1", bundle.Report[0].QuestionID)
	assert.Equal(t, assessment.VerdictCorrect, bundle.Report[0].Verdict)
	assert.Equal(t, "because B", bundle.Report[0].Explanation)
	assert.Equal(t, assessment.VerdictIncorrect, bundle.Report[1].Verdict)
	assert.Equal(t, "X", bundle.Report[1].CorrectText)
	assert.Equal(t, assessment.VerdictBlank, bundle.Report[2].Verdict)
	assert.Nil(t, bundle.Report[2].SelectedOption)
}

func TestBuildBundle_CarriesBaseInterruptions(t *testing.T) {
	svc := &InterviewService{}
	la, result := newGradedAttempt(t)

	bundle := svc.buildBundle(uuid.New(), la, result)

	// Interruptions recorded before a restart are added to the session's own
	// count when the bundle is assembled.
	assert.Equal(t, result.InterruptionCount+la.baseInterruptions, bundle.Interruptions)
}
