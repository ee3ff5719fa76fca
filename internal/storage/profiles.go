package storage

import (
	"context"
	"fmt"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// ListProfiles returns the user's exercise profiles ordered by exercise and name.
func (db *DB) ListProfiles(ctx context.Context, userID uuid.UUID) ([]models.ExerciseProfile, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, exercise_id, name, created_at
		 FROM exercise_profiles WHERE user_id = $1
		 ORDER BY exercise_id, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.ExerciseProfile{}
	for rows.Next() {
		var p models.ExerciseProfile
		if err := rows.Scan(&p.ID, &p.UserID, &p.ExerciseID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// CreateProfile inserts an exercise profile for the user.
func (db *DB) CreateProfile(ctx context.Context, userID uuid.UUID, body models.CreateProfileBody) (*models.ExerciseProfile, error) {
	var p models.ExerciseProfile
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercise_profiles (user_id, exercise_id, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, exercise_id, name, created_at`,
		userID, body.ExerciseID, body.Name,
	).Scan(&p.ID, &p.UserID, &p.ExerciseID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting profile: %w", err)
	}
	return &p, nil
}

// DeleteProfile removes a profile. Sets recorded with it keep their profile ID.
func (db *DB) DeleteProfile(ctx context.Context, userID, profileID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM exercise_profiles WHERE id = $1 AND user_id = $2`, profileID, userID)
	if err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
