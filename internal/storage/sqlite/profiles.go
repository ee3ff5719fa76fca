package sqlite

import (
	"context"
	"fmt"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/google/uuid"
)

// ListProfiles returns the user's exercise profiles ordered by exercise and name.
func (s *Store) ListProfiles(ctx context.Context, userID uuid.UUID) ([]models.ExerciseProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, exercise_id, name, created_at
		 FROM exercise_profiles WHERE user_id = ?
		 ORDER BY exercise_id, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.ExerciseProfile{}
	for rows.Next() {
		var (
			p       models.ExerciseProfile
			created int64
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.ExerciseID, &p.Name, &created); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		p.CreatedAt = fromMicros(created)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// CreateProfile inserts an exercise profile for the user.
func (s *Store) CreateProfile(ctx context.Context, userID uuid.UUID, body models.CreateProfileBody) (*models.ExerciseProfile, error) {
	p := models.ExerciseProfile{
		ID:         uuid.New(),
		UserID:     userID,
		ExerciseID: body.ExerciseID,
		Name:       body.Name,
	}
	created := now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exercise_profiles (id, user_id, exercise_id, name, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.ExerciseID, p.Name, created)
	if err != nil {
		return nil, fmt.Errorf("inserting profile: %w", err)
	}
	p.CreatedAt = fromMicros(created)
	return &p, nil
}

// DeleteProfile removes a profile. Sets recorded with it keep their profile ID.
func (s *Store) DeleteProfile(ctx context.Context, userID, profileID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM exercise_profiles WHERE id = ? AND user_id = ?`, profileID, userID)
	if err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
