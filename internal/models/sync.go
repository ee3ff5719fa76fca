package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BootstrapResponse carries everything a client needs to populate local storage.
// PreviousSets is keyed by "{exercise_id}_{profile_id}" or "{exercise_id}_default".
type BootstrapResponse struct {
	Gyms               []Gym                        `json:"gyms"`
	Profiles           []ExerciseProfile            `json:"profiles"`
	GymProfileMappings []BootstrapGymProfileMapping `json:"gym_profile_mappings"`
	PreviousSets       map[string][]PreviousSet     `json:"previous_sets"`
}

// SyncWorkoutRequest is a completed workout recorded offline by a client.
type SyncWorkoutRequest struct {
	Name        *string        `json:"name"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
	Privacy     string         `json:"privacy"`
	GymLocation *string        `json:"gym_location"`
	Exercises   []SyncExercise `json:"exercises"`
	Kind        WorkoutKind    `json:"kind"`
}

type SyncExercise struct {
	ExerciseID uuid.UUID  `json:"exercise_id"`
	ProfileID  *uuid.UUID `json:"profile_id"`
	Sets       []SyncSet  `json:"sets"`
}

type SyncSet struct {
	Reps       int             `json:"reps"`
	Weight     decimal.Decimal `json:"weight"`
	WeightUnit string          `json:"weight_unit"`
	CreatedAt  time.Time       `json:"created_at"`
	Side       *Side           `json:"side"`
}

// SyncWorkoutResponse returns the stored workout's ID and refreshed baselines
// for the exercises it contained.
type SyncWorkoutResponse struct {
	WorkoutID    uuid.UUID         `json:"workout_id"`
	PreviousSets []PreviousSetData `json:"previous_sets"`
}

type PreviousSetData struct {
	ExerciseID uuid.UUID     `json:"exercise_id"`
	ProfileID  *uuid.UUID    `json:"profile_id"`
	Sets       []PreviousSet `json:"sets"`
}

// Validate checks the fields the storage layer cannot repair on its own.
func (r *SyncWorkoutRequest) Validate() error {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return errors.New("start_time and end_time are required")
	}
	if r.EndTime.Before(r.StartTime) {
		return errors.New("end_time is before start_time")
	}
	switch r.Kind {
	case "", WorkoutKindWorkout, WorkoutKindRest:
	default:
		return fmt.Errorf("unknown workout kind %q", r.Kind)
	}
	for i, ex := range r.Exercises {
		if ex.ExerciseID == uuid.Nil {
			return fmt.Errorf("exercise %d: exercise_id is required", i)
		}
		for j, s := range ex.Sets {
			if s.Side != nil && !s.Side.Valid() {
				return fmt.Errorf("exercise %d set %d: invalid side %q", i, j, *s.Side)
			}
			if s.CreatedAt.IsZero() {
				return fmt.Errorf("exercise %d set %d: created_at is required", i, j)
			}
			if s.WeightUnit == "" {
				return fmt.Errorf("exercise %d set %d: weight_unit is required", i, j)
			}
			if s.Reps < 0 {
				return fmt.Errorf("exercise %d set %d: negative reps", i, j)
			}
		}
	}
	return nil
}

// Rows converts the request into the workout row and set rows to insert.
// Missing privacy and kind fall back to their defaults.
func (r *SyncWorkoutRequest) Rows(userID, workoutID uuid.UUID) (Workout, []Set) {
	w := Workout{
		ID:          workoutID,
		UserID:      userID,
		Name:        r.Name,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Privacy:     r.Privacy,
		GymLocation: r.GymLocation,
		Kind:        r.Kind,
	}
	if w.Privacy == "" {
		w.Privacy = DefaultPrivacy
	}
	if w.Kind == "" {
		w.Kind = WorkoutKindWorkout
	}

	var sets []Set
	for _, ex := range r.Exercises {
		for _, s := range ex.Sets {
			sets = append(sets, Set{
				ID:         uuid.New(),
				UserID:     userID,
				ExerciseID: ex.ExerciseID,
				WorkoutID:  workoutID,
				ProfileID:  ex.ProfileID,
				Reps:       s.Reps,
				Weight:     s.Weight,
				WeightUnit: s.WeightUnit,
				CreatedAt:  s.CreatedAt,
				Side:       s.Side,
			})
		}
	}
	return w, sets
}
