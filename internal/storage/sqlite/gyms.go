package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/google/uuid"
)

const gymColumns = `id, user_id, name, latitude, longitude, created_at`

// ListGyms returns the user's gyms, oldest first.
func (s *Store) ListGyms(ctx context.Context, userID uuid.UUID) ([]models.Gym, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+gymColumns+` FROM user_gyms WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying gyms: %w", err)
	}
	defer rows.Close()

	gyms := []models.Gym{}
	for rows.Next() {
		g, err := scanGym(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning gym: %w", err)
		}
		gyms = append(gyms, *g)
	}
	return gyms, rows.Err()
}

// CreateGym inserts a gym for the user.
func (s *Store) CreateGym(ctx context.Context, userID uuid.UUID, body models.GymBody) (*models.Gym, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO user_gyms (id, user_id, name, latitude, longitude, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+gymColumns,
		uuid.New(), userID, body.Name, body.Latitude, body.Longitude, now())
	g, err := scanGym(row)
	if err != nil {
		return nil, fmt.Errorf("inserting gym: %w", err)
	}
	return g, nil
}

// UpdateGym replaces a gym's name and coordinates.
func (s *Store) UpdateGym(ctx context.Context, userID, gymID uuid.UUID, body models.GymBody) (*models.Gym, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE user_gyms SET name = ?, latitude = ?, longitude = ?
		 WHERE id = ? AND user_id = ?
		 RETURNING `+gymColumns,
		body.Name, body.Latitude, body.Longitude, gymID, userID)
	g, err := scanGym(row)
	if err != nil {
		return nil, fmt.Errorf("updating gym: %w", notFound(err))
	}
	return g, nil
}

// DeleteGym removes a gym and its profile mappings.
func (s *Store) DeleteGym(ctx context.Context, userID, gymID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM user_gyms WHERE id = ? AND user_id = ?`, gymID, userID)
	if err != nil {
		return fmt.Errorf("deleting gym: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListGymProfileMappings returns the user's mappings across all gyms.
func (s *Store) ListGymProfileMappings(ctx context.Context, userID uuid.UUID) ([]models.BootstrapGymProfileMapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT gym_id, exercise_id, profile_id
		 FROM user_gym_profile_mappings WHERE user_id = ?
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
func (s *Store) GetProfileMappings(ctx context.Context, userID, gymID uuid.UUID) ([]models.GymProfileMappingResponse, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT exercise_id, profile_id
		 FROM user_gym_profile_mappings WHERE user_id = ? AND gym_id = ?
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

// SetProfileMapping records the profile to use for an exercise at a gym.
func (s *Store) SetProfileMapping(ctx context.Context, userID, gymID uuid.UUID, body models.SetGymProfileMappingBody) (*models.GymProfileMapping, error) {
	var (
		m       models.GymProfileMapping
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO user_gym_profile_mappings (id, user_id, gym_id, exercise_id, profile_id, updated_at)
		 SELECT ?1, ?2, g.id, ?4, ?5, ?6 FROM user_gyms g WHERE g.id = ?3 AND g.user_id = ?2
		 ON CONFLICT (user_id, gym_id, exercise_id) DO UPDATE
			SET profile_id = excluded.profile_id, updated_at = excluded.updated_at
		 RETURNING id, user_id, gym_id, exercise_id, profile_id, updated_at`,
		uuid.New(), userID, gymID, body.ExerciseID, body.ProfileID, now(),
	).Scan(&m.ID, &m.UserID, &m.GymID, &m.ExerciseID, &m.ProfileID, &updated)
	if err != nil {
		return nil, fmt.Errorf("upserting profile mapping: %w", notFound(err))
	}
	m.UpdatedAt = fromMicros(updated)
	return &m, nil
}

// GetSettings returns the user's settings. Users without a row get zero settings.
func (s *Store) GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	var gym uuid.NullUUID
	err := s.db.QueryRowContext(ctx,
		`SELECT current_gym_id FROM user_settings WHERE user_id = ?`, userID).Scan(&gym)
	if err != nil {
		if notFound(err) == storage.ErrNotFound {
			return &models.UserSettings{}, nil
		}
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	return &models.UserSettings{CurrentGymID: nullID(gym)}, nil
}

// SetCurrentGym stores the gym the user is training at. A nil gymID clears it.
func (s *Store) SetCurrentGym(ctx context.Context, userID uuid.UUID, gymID *uuid.UUID) error {
	if gymID != nil {
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM user_gyms WHERE id = ? AND user_id = ?)`,
			*gymID, userID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking gym: %w", err)
		}
		if !exists {
			return storage.ErrNotFound
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, current_gym_id, updated_at) VALUES (?1, ?2, ?3)
		 ON CONFLICT (user_id) DO UPDATE
			SET current_gym_id = excluded.current_gym_id, updated_at = excluded.updated_at`,
		userID, gymID, now())
	if err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}
	return nil
}

func scanGym(row interface{ Scan(...any) error }) (*models.Gym, error) {
	var (
		g       models.Gym
		lat     sql.NullFloat64
		lon     sql.NullFloat64
		created int64
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &lat, &lon, &created); err != nil {
		return nil, err
	}
	if lat.Valid {
		g.Latitude = &lat.Float64
	}
	if lon.Valid {
		g.Longitude = &lon.Float64
	}
	g.CreatedAt = fromMicros(created)
	return &g, nil
}

func nullID(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}
