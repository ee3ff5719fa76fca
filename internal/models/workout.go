package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side marks which side of the body a unilateral set was performed on.
type Side string

const (
	SideLeft  Side = "L"
	SideRight Side = "R"
)

// Valid reports whether s is one of the known sides.
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// WorkoutKind distinguishes training sessions from logged rest days.
type WorkoutKind string

const (
	WorkoutKindWorkout WorkoutKind = "workout"
	WorkoutKindRest    WorkoutKind = "rest"
)

// DefaultPrivacy is applied to workouts that arrive without a privacy setting.
const DefaultPrivacy = "friends"

// Workout is a row of the workouts table. A set's recency is judged by the
// EndTime of the workout that owns it.
type Workout struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Name        *string     `json:"name"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	Privacy     string      `json:"privacy"`
	GymLocation *string     `json:"gym_location"`
	Kind        WorkoutKind `json:"kind"`
}

// Set is a single performed set. A nil ProfileID means the exercise's default
// variant. Sets are immutable once stored.
type Set struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	ExerciseID uuid.UUID       `json:"exercise_id"`
	WorkoutID  uuid.UUID       `json:"workout_id"`
	ProfileID  *uuid.UUID      `json:"profile_id"`
	Reps       int             `json:"reps"`
	Weight     decimal.Decimal `json:"weight"`
	WeightUnit string          `json:"weight_unit"`
	CreatedAt  time.Time       `json:"created_at"`
	Side       *Side           `json:"side"`
}

// WorkoutExerciseGroup is the consecutive-by-key view of one exercise+profile
// within a workout. It is derived on every read and never stored.
type WorkoutExerciseGroup struct {
	ExerciseID   uuid.UUID  `json:"exercise_id"`
	ProfileID    *uuid.UUID `json:"profile_id"`
	IsUnilateral bool       `json:"is_unilateral"`
	Sets         []Set      `json:"sets"`
}

// WorkoutWithSets is the response body for a single workout.
type WorkoutWithSets struct {
	Workout   Workout                `json:"workout"`
	Exercises []WorkoutExerciseGroup `json:"exercises"`
}

// PreviousSet is a set stripped of identity and time, used to pre-fill a new workout.
type PreviousSet struct {
	Reps       int             `json:"reps"`
	Weight     decimal.Decimal `json:"weight"`
	WeightUnit string          `json:"weight_unit"`
	Side       *Side           `json:"side"`
}
