package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity resolved from a login name.
type User struct {
	ID          uuid.UUID `json:"id"`
	Login       string    `json:"login"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	LastSeen    time.Time `json:"last_seen"`
}

// UserSettings holds per-user server-side preferences.
type UserSettings struct {
	CurrentGymID *uuid.UUID `json:"current_gym_id"`
}

type SetCurrentGymBody struct {
	GymID *uuid.UUID `json:"gym_id"`
}
