package storage

import (
	"context"
	"fmt"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// ListGymProfileMappings returns the user's mappings across all gyms.
func (db *DB) ListGymProfileMappings(ctx context.Context, userID uuid.UUID) ([]models.BootstrapGymProfileMapping, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT gym_id, exercise_id, profile_id
		 FROM user_gym_profile_mappings WHERE user_id = $1
		 ORDER BY gym_id, exercise_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying gym profile mappings: %w", err)
	}
	defer rows.Close()

	mappings := []models.BootstrapGymProfileMapping{}
	for rows.Next() {
		var m models.BootstrapGymProfileMapping
		if err := rows.Scan(&m.GymID, &m.ExerciseID, &m.ProfileID); err != nil {
			return nil, fmt.Errorf("scanning gym profile mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// GetProfileMappings returns the mappings for one of the user's gyms.
func (db *DB) GetProfileMappings(ctx context.Context, userID, gymID uuid.UUID) ([]models.GymProfileMappingResponse, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_id, profile_id
		 FROM user_gym_profile_mappings WHERE user_id = $1 AND gym_id = $2
		 ORDER BY exercise_id`, userID, gymID)
	if err != nil {
		return nil, fmt.Errorf("querying profile mappings: %w", err)
	}
	defer rows.Close()

	mappings := []models.GymProfileMappingResponse{}
	for rows.Next() {
		var m models.GymProfileMappingResponse
		if err := rows.Scan(&m.ExerciseID, &m.ProfileID); err != nil {
			return nil, fmt.Errorf("scanning profile mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// SetProfileMapping records the profile to use for an exercise at a gym,
// replacing any previous choice.
func (db *DB) SetProfileMapping(ctx context.Context, userID, gymID uuid.UUID, body models.SetGymProfileMappingBody) (*models.GymProfileMapping, error) {
	var m models.GymProfileMapping
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO user_gym_profile_mappings (user_id, gym_id, exercise_id, profile_id)
		 SELECT $1, g.id, $3, $4 FROM user_gyms g WHERE g.id = $2 AND g.user_id = $1
		 ON CONFLICT (user_id, gym_id, exercise_id) DO UPDATE
			SET profile_id = EXCLUDED.profile_id, updated_at = NOW()
		 RETURNING id, user_id, gym_id, exercise_id, profile_id, updated_at`,
		userID, gymID, body.ExerciseID, body.ProfileID,
	).Scan(&m.ID, &m.UserID, &m.GymID, &m.ExerciseID, &m.ProfileID, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upserting profile mapping: %w", notFound(err))
	}
	return &m, nil
}
