package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/claude/ironlog/internal/history"
	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	workoutColumns = `id, user_id, name, start_time, end_time, privacy, gym_location, kind`
	setColumns     = `id, user_id, exercise_id, workout_id, profile_id, reps, weight, weight_unit, created_at, side`
)

// InsertWorkout stores a workout and its sets in one transaction.
func (s *Store) InsertWorkout(ctx context.Context, w models.Workout, sets []models.Set) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO workouts (`+workoutColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.Name, micros(w.StartTime), micros(w.EndTime),
		w.Privacy, w.GymLocation, string(w.Kind))
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO user_sets (`+setColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing set insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range sets {
		_, err := stmt.ExecContext(ctx,
			st.ID, st.UserID, st.ExerciseID, st.WorkoutID, st.ProfileID,
			st.Reps, st.Weight.String(), st.WeightUnit, micros(st.CreatedAt), sideValue(st.Side))
		if err != nil {
			return fmt.Errorf("inserting set: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing workout: %w", err)
	}
	return nil
}

// WorkoutOwner returns the user a workout belongs to, or storage.ErrNotFound.
func (s *Store) WorkoutOwner(ctx context.Context, workoutID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM workouts WHERE id = ?`, workoutID).Scan(&owner)
	if err != nil {
		return uuid.Nil, fmt.Errorf("querying workout owner: %w", notFound(err))
	}
	return owner, nil
}

// GetWorkout returns one of the user's workouts.
func (s *Store) GetWorkout(ctx context.Context, userID, workoutID uuid.UUID) (*models.Workout, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = ? AND user_id = ?`, workoutID, userID)
	w, err := scanWorkout(row)
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", notFound(err))
	}
	return w, nil
}

// ListWorkouts returns the user's workouts starting in [start, end), newest first.
func (s *Store) ListWorkouts(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Workout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = ? AND start_time >= ? AND start_time < ?
		 ORDER BY start_time DESC`,
		userID, micros(start), micros(end))
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

// ListWorkoutSets returns a workout's sets in creation order.
func (s *Store) ListWorkoutSets(ctx context.Context, workoutID uuid.UUID) ([]models.Set, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+setColumns+` FROM user_sets WHERE workout_id = ? ORDER BY created_at, id`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var sets []models.Set
	for rows.Next() {
		var st models.Set
		if err := scanSet(rows, &st); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		sets = append(sets, st)
	}
	return sets, rows.Err()
}

// ListHistoricalSets returns every set the user has recorded together with
// its workout's end time. The single statement reads one snapshot.
func (s *Store) ListHistoricalSets(ctx context.Context, userID uuid.UUID) ([]history.HistoricalSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.user_id, s.exercise_id, s.workout_id, s.profile_id,
		        s.reps, s.weight, s.weight_unit, s.created_at, s.side, w.end_time
		 FROM user_sets s
		 JOIN workouts w ON w.id = s.workout_id
		 WHERE s.user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying historical sets: %w", err)
	}
	defer rows.Close()

	var out []history.HistoricalSet
	for rows.Next() {
		var (
			h   history.HistoricalSet
			end int64
		)
		if err := scanSet(rows, &h.Set, &end); err != nil {
			return nil, fmt.Errorf("scanning historical set: %w", err)
		}
		h.WorkoutEndTime = fromMicros(end)
		out = append(out, h)
	}
	return out, rows.Err()
}

func scanWorkout(row interface{ Scan(...any) error }) (*models.Workout, error) {
	var (
		w          models.Workout
		start, end int64
		kind       string
	)
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &start, &end,
		&w.Privacy, &w.GymLocation, &kind); err != nil {
		return nil, err
	}
	w.StartTime, w.EndTime = fromMicros(start), fromMicros(end)
	w.Kind = models.WorkoutKind(kind)
	return &w, nil
}

// scanSet scans the set columns into st, followed by any extra destinations.
func scanSet(rows *sql.Rows, st *models.Set, extra ...any) error {
	var (
		profile uuid.NullUUID
		weight  string
		created int64
		side    sql.NullString
	)
	dest := append([]any{&st.ID, &st.UserID, &st.ExerciseID, &st.WorkoutID, &profile,
		&st.Reps, &weight, &st.WeightUnit, &created, &side}, extra...)
	if err := rows.Scan(dest...); err != nil {
		return err
	}

	w, err := decimal.NewFromString(weight)
	if err != nil {
		return fmt.Errorf("parsing weight %q: %w", weight, err)
	}
	st.Weight = w
	st.ProfileID = nullID(profile)
	st.CreatedAt = fromMicros(created)
	if side.Valid {
		sd := models.Side(side.String)
		st.Side = &sd
	}
	return nil
}

func sideValue(s *models.Side) any {
	if s == nil {
		return nil
	}
	return string(*s)
}
