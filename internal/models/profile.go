package models

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseProfile is a user-defined variant of an exercise, e.g. barbell vs dumbbell.
type ExerciseProfile struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateProfileBody struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	Name       string    `json:"name"`
}
