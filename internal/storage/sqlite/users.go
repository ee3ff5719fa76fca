package sqlite

import (
	"context"
	"fmt"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// GetOrCreateUser finds or creates a user by login name.
func (s *Store) GetOrCreateUser(ctx context.Context, login, displayName string) (uuid.UUID, error) {
	ts := now()
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, login, display_name, created_at, last_seen)
		VALUES (?1, ?2, ?3, ?4, ?4)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = ?4, display_name = COALESCE(NULLIF(?3, ''), users.display_name)
		RETURNING id
	`, uuid.New(), login, displayName, ts).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upserting user: %w", err)
	}
	return id, nil
}

// GetUserByLogin returns the user with the given login.
func (s *Store) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var (
		u                 models.User
		created, lastSeen int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, login, display_name, created_at, last_seen FROM users WHERE login = ?`,
		login).Scan(&u.ID, &u.Login, &u.DisplayName, &created, &lastSeen)
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", notFound(err))
	}
	u.CreatedAt, u.LastSeen = fromMicros(created), fromMicros(lastSeen)
	return &u, nil
}

// ListUsers returns all users ordered by login.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, login, display_name, created_at, last_seen FROM users ORDER BY login`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			u                 models.User
			created, lastSeen int64
		)
		if err := rows.Scan(&u.ID, &u.Login, &u.DisplayName, &created, &lastSeen); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.CreatedAt, u.LastSeen = fromMicros(created), fromMicros(lastSeen)
		users = append(users, u)
	}
	return users, rows.Err()
}
