package models

import (
	"time"

	"github.com/google/uuid"
)

// Gym is a training location saved by a user.
type Gym struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// GymBody is the request body for creating or updating a gym.
type GymBody struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// GymProfileMapping records which profile a user last used for an exercise at a gym.
type GymProfileMapping struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	GymID      uuid.UUID `json:"gym_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	ProfileID  uuid.UUID `json:"profile_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SetGymProfileMappingBody struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	ProfileID  uuid.UUID `json:"profile_id"`
}

type GymProfileMappingResponse struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	ProfileID  uuid.UUID `json:"profile_id"`
}

// BootstrapGymProfileMapping is a mapping as listed across all of a user's gyms.
type BootstrapGymProfileMapping struct {
	GymID      uuid.UUID `json:"gym_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	ProfileID  uuid.UUID `json:"profile_id"`
}
