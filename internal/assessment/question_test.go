package assessment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, raw := range []string{"dsa", "aptitude", "mixed"} {
		mode, err := ParseMode(raw)
		require.NoError(t, err)
		assert.Equal(t, Mode(raw), mode)
	}

	_, err := ParseMode("chess")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestFilterByMode(t *testing.T) {
	bank := testBank(6) // alternates dsa, aptitude

	mixed := FilterByMode(bank, ModeMixed)
	require.Len(t, mixed, 6)
	assert.Equal(t, bank, mixed)

	dsa := FilterByMode(bank, ModeDSA)
	require.Len(t, dsa, 3)
	for _, q := range dsa {
		assert.Equal(t, CategoryDSA, q.Category)
	}

	// Bank order is preserved within a category.
	assert.Equal(t, "q-1", dsa[0].ID)
	assert.Equal(t, "q-3", dsa[1].ID)
	assert.Equal(t, "q-5", dsa[2].ID)
}

func TestStaticBank(t *testing.T) {
	bank, err := NewStaticBank(testBank(4))
	require.NoError(t, err)

	qs, err := bank.Questions(context.Background(), ModeAptitude)
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	_, err = NewStaticBank([]Question{{ID: "x", Options: []string{"a"}, CorrectOption: 0}})
	assert.ErrorIs(t, err, ErrTooFewOptions)
}
