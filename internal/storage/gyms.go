package storage

import (
	"context"
	"fmt"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// ListGyms returns the user's gyms, oldest first.
func (db *DB) ListGyms(ctx context.Context, userID uuid.UUID) ([]models.Gym, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, latitude, longitude, created_at
		 FROM user_gyms WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying gyms: %w", err)
	}
	defer rows.Close()

	gyms := []models.Gym{}
	for rows.Next() {
		var g models.Gym
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Latitude, &g.Longitude, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning gym: %w", err)
		}
		gyms = append(gyms, g)
	}
	return gyms, rows.Err()
}

// CreateGym inserts a gym for the user.
func (db *DB) CreateGym(ctx context.Context, userID uuid.UUID, body models.GymBody) (*models.Gym, error) {
	var g models.Gym
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO user_gyms (user_id, name, latitude, longitude)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, name, latitude, longitude, created_at`,
		userID, body.Name, body.Latitude, body.Longitude,
	).Scan(&g.ID, &g.UserID, &g.Name, &g.Latitude, &g.Longitude, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting gym: %w", err)
	}
	return &g, nil
}

// UpdateGym replaces a gym's name and coordinates. Returns ErrNotFound when
// the user has no such gym.
func (db *DB) UpdateGym(ctx context.Context, userID, gymID uuid.UUID, body models.GymBody) (*models.Gym, error) {
	var g models.Gym
	err := db.Pool.QueryRow(ctx,
		`UPDATE user_gyms SET name = $3, latitude = $4, longitude = $5
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, name, latitude, longitude, created_at`,
		gymID, userID, body.Name, body.Latitude, body.Longitude,
	).Scan(&g.ID, &g.UserID, &g.Name, &g.Latitude, &g.Longitude, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("updating gym: %w", notFound(err))
	}
	return &g, nil
}

// DeleteGym removes a gym and its profile mappings.
func (db *DB) DeleteGym(ctx context.Context, userID, gymID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM user_gyms WHERE id = $1 AND user_id = $2`, gymID, userID)
	if err != nil {
		return fmt.Errorf("deleting gym: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
