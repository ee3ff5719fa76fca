package storage

import (
	"context"
	"fmt"

	"github.com/claude/ironlog/internal/history"
	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const setColumns = `id, user_id, exercise_id, workout_id, profile_id, reps, weight, weight_unit, created_at, side`

// ListWorkoutSets returns a workout's sets in creation order.
func (db *DB) ListWorkoutSets(ctx context.Context, workoutID uuid.UUID) ([]models.Set, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+setColumns+` FROM user_sets
		 WHERE workout_id = $1
		 ORDER BY created_at, id`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var sets []models.Set
	for rows.Next() {
		var (
			s    models.Set
			side *string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.ExerciseID, &s.WorkoutID, &s.ProfileID,
			&s.Reps, &s.Weight, &s.WeightUnit, &s.CreatedAt, &side); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		s.Side = sideFrom(side)
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// ListHistoricalSets returns every set the user has recorded together with
// its workout's end time, read from a single snapshot.
func (db *DB) ListHistoricalSets(ctx context.Context, userID uuid.UUID) ([]history.HistoricalSet, error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT s.id, s.user_id, s.exercise_id, s.workout_id, s.profile_id,
		        s.reps, s.weight, s.weight_unit, s.created_at, s.side, w.end_time
		 FROM user_sets s
		 JOIN workouts w ON w.id = s.workout_id
		 WHERE s.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying historical sets: %w", err)
	}
	defer rows.Close()

	var out []history.HistoricalSet
	for rows.Next() {
		var (
			h    history.HistoricalSet
			side *string
		)
		if err := rows.Scan(&h.ID, &h.UserID, &h.ExerciseID, &h.WorkoutID, &h.ProfileID,
			&h.Reps, &h.Weight, &h.WeightUnit, &h.CreatedAt, &side, &h.WorkoutEndTime); err != nil {
			return nil, fmt.Errorf("scanning historical set: %w", err)
		}
		h.Side = sideFrom(side)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading historical sets: %w", err)
	}
	return out, nil
}

func sideFrom(s *string) *models.Side {
	if s == nil {
		return nil
	}
	side := models.Side(*s)
	return &side
}

func sideValue(s *models.Side) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
