package history

import (
	"testing"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prevSet(reps int, weight string, s *models.Side) models.PreviousSet {
	return models.PreviousSet{Reps: reps, Weight: decimal.RequireFromString(weight), WeightUnit: "kg", Side: s}
}

// TestSuggestDefaults verifies an exercise without history gets the defaults.
func TestSuggestDefaults(t *testing.T) {
	got := Suggest(PreviousSets{}, uuid.New(), nil, 1, nil)
	assert.Equal(t, DefaultReps, got.Reps)
	assert.True(t, decimal.NewFromInt(DefaultWeight).Equal(got.Weight))
	assert.Nil(t, got.WeightUnit)
	assert.Empty(t, got.SourceKey)
}

// TestSuggestBySetNumber verifies the n-th set is used and the last set is
// repeated past the end.
func TestSuggestBySetNumber(t *testing.T) {
	ex := uuid.New()
	key := Key{ExerciseID: ex}.String()
	prev := PreviousSets{key: {prevSet(10, "50", nil), prevSet(8, "55", nil)}}

	tests := []struct {
		set      int
		wantReps int
	}{
		{0, 10},
		{1, 10},
		{2, 8},
		{5, 8},
	}
	for _, tt := range tests {
		got := Suggest(prev, ex, nil, tt.set, nil)
		assert.Equal(t, tt.wantReps, got.Reps, "set %d", tt.set)
		assert.Equal(t, key, got.SourceKey)
		require.NotNil(t, got.WeightUnit)
		assert.Equal(t, "kg", *got.WeightUnit)
	}
}

// TestSuggestFallsBackToOtherProfile verifies history of another profile of
// the same exercise is used when the requested one has none.
func TestSuggestFallsBackToOtherProfile(t *testing.T) {
	ex := uuid.New()
	p := uuid.New()
	other := Key{ExerciseID: ex}.String()
	prev := PreviousSets{
		other:                                {prevSet(6, "90", nil)},
		Key{ExerciseID: uuid.New()}.String(): {prevSet(1, "1", nil)},
	}

	got := Suggest(prev, ex, &p, 1, nil)
	assert.Equal(t, 6, got.Reps)
	assert.Equal(t, other, got.SourceKey)
}

// TestSuggestSides covers side filtering with and without a requested side.
func TestSuggestSides(t *testing.T) {
	ex := uuid.New()
	key := Key{ExerciseID: ex}.String()
	l, r := models.SideLeft, models.SideRight

	sided := PreviousSets{key: {prevSet(10, "12", &l), prevSet(11, "14", &r)}}
	mixed := PreviousSets{key: {prevSet(10, "12", &l), prevSet(7, "20", nil)}}
	leftOnly := PreviousSets{key: {prevSet(10, "12", &l)}}

	tests := []struct {
		name     string
		prev     PreviousSets
		side     *models.Side
		wantReps int
	}{
		{"left requested", sided, &l, 10},
		{"right requested", sided, &r, 11},
		{"no side prefers right", sided, nil, 11},
		{"no side prefers bilateral", mixed, nil, 7},
		{"no side falls back to all", leftOnly, nil, 10},
		{"missing side falls back to all", leftOnly, &r, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.prev, ex, nil, 1, tt.side)
			assert.Equal(t, tt.wantReps, got.Reps)
		})
	}
}
