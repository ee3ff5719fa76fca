package storage

import (
	"context"
	"fmt"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// GetSettings returns the user's settings. Users without a row get zero settings.
func (db *DB) GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	var s models.UserSettings
	err := db.Pool.QueryRow(ctx,
		`SELECT current_gym_id FROM user_settings WHERE user_id = $1`, userID,
	).Scan(&s.CurrentGymID)
	if err != nil {
		if err = notFound(err); err == ErrNotFound {
			return &models.UserSettings{}, nil
		}
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	return &s, nil
}

// SetCurrentGym stores the gym the user is training at. A nil gymID clears it.
// Returns ErrNotFound when gymID is not one of the user's gyms.
func (db *DB) SetCurrentGym(ctx context.Context, userID uuid.UUID, gymID *uuid.UUID) error {
	if gymID != nil {
		var exists bool
		err := db.Pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM user_gyms WHERE id = $1 AND user_id = $2)`,
			*gymID, userID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking gym: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
	}

	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, current_gym_id) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE
			SET current_gym_id = EXCLUDED.current_gym_id, updated_at = NOW()`,
		userID, gymID)
	if err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}
	return nil
}
