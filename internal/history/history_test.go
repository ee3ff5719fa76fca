package history

import (
	"testing"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func side(s models.Side) *models.Side { return &s }

func id(u uuid.UUID) *uuid.UUID { return &u }

// set builds a stored set for exercise/profile created `minute` minutes after base.
func set(exercise uuid.UUID, profile *uuid.UUID, reps int, weight string, minute int) models.Set {
	return models.Set{
		ID:         uuid.New(),
		ExerciseID: exercise,
		ProfileID:  profile,
		Reps:       reps,
		Weight:     decimal.RequireFromString(weight),
		WeightUnit: "kg",
		CreatedAt:  at(minute),
	}
}

func hist(s models.Set, workout uuid.UUID, end time.Time) HistoricalSet {
	s.WorkoutID = workout
	return HistoricalSet{Set: s, WorkoutEndTime: end}
}
