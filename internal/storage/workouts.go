package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const workoutColumns = `id, user_id, name, start_time, end_time, privacy, gym_location, kind`

// InsertWorkout stores a workout and its sets in one transaction.
func (db *DB) InsertWorkout(ctx context.Context, w models.Workout, sets []models.Set) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO workouts (`+workoutColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.UserID, w.Name, w.StartTime, w.EndTime, w.Privacy, w.GymLocation, string(w.Kind))
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}

	if len(sets) > 0 {
		batch := &pgx.Batch{}
		for _, s := range sets {
			batch.Queue(
				`INSERT INTO user_sets (`+setColumns+`)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				s.ID, s.UserID, s.ExerciseID, s.WorkoutID, s.ProfileID,
				s.Reps, s.Weight, s.WeightUnit, s.CreatedAt, sideValue(s.Side))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting sets: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing workout: %w", err)
	}
	return nil
}

// WorkoutOwner returns the user a workout belongs to, or ErrNotFound.
func (db *DB) WorkoutOwner(ctx context.Context, workoutID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := db.Pool.QueryRow(ctx,
		`SELECT user_id FROM workouts WHERE id = $1`, workoutID).Scan(&owner)
	if err != nil {
		return uuid.Nil, fmt.Errorf("querying workout owner: %w", notFound(err))
	}
	return owner, nil
}

// GetWorkout returns one of the user's workouts.
func (db *DB) GetWorkout(ctx context.Context, userID, workoutID uuid.UUID) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1 AND user_id = $2`,
		workoutID, userID)
	w, err := scanWorkout(row)
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", notFound(err))
	}
	return w, nil
}

// ListWorkouts returns the user's workouts starting in [start, end), newest first.
func (db *DB) ListWorkouts(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = $1 AND start_time >= $2 AND start_time < $3
		 ORDER BY start_time DESC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	workouts := []models.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}

func scanWorkout(row pgx.Row) (*models.Workout, error) {
	var (
		w    models.Workout
		kind string
	)
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.StartTime, &w.EndTime,
		&w.Privacy, &w.GymLocation, &kind); err != nil {
		return nil, err
	}
	w.Kind = models.WorkoutKind(kind)
	return &w, nil
}
