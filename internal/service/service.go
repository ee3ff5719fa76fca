// Package service combines a store with the history engine. It is the single
// entry point used by the HTTP server, the MCP tools and the admin CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/ironlog/internal/gyms"
	"github.com/claude/ironlog/internal/history"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/claude/ironlog/internal/storage/sqlite"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrUnauthorized is returned when a workout does not exist or belongs to
// another user. The two cases are not distinguished.
var ErrUnauthorized = errors.New("unauthorized")

// Store is the persistence contract shared by the PostgreSQL and SQLite stores.
type Store interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (uuid.UUID, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	ListGyms(ctx context.Context, userID uuid.UUID) ([]models.Gym, error)
	CreateGym(ctx context.Context, userID uuid.UUID, body models.GymBody) (*models.Gym, error)
	UpdateGym(ctx context.Context, userID, gymID uuid.UUID, body models.GymBody) (*models.Gym, error)
	DeleteGym(ctx context.Context, userID, gymID uuid.UUID) error

	ListProfiles(ctx context.Context, userID uuid.UUID) ([]models.ExerciseProfile, error)
	CreateProfile(ctx context.Context, userID uuid.UUID, body models.CreateProfileBody) (*models.ExerciseProfile, error)
	DeleteProfile(ctx context.Context, userID, profileID uuid.UUID) error

	ListGymProfileMappings(ctx context.Context, userID uuid.UUID) ([]models.BootstrapGymProfileMapping, error)
	GetProfileMappings(ctx context.Context, userID, gymID uuid.UUID) ([]models.GymProfileMappingResponse, error)
	SetProfileMapping(ctx context.Context, userID, gymID uuid.UUID, body models.SetGymProfileMappingBody) (*models.GymProfileMapping, error)

	GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
	SetCurrentGym(ctx context.Context, userID uuid.UUID, gymID *uuid.UUID) error

	InsertWorkout(ctx context.Context, w models.Workout, sets []models.Set) error
	WorkoutOwner(ctx context.Context, workoutID uuid.UUID) (uuid.UUID, error)
	GetWorkout(ctx context.Context, userID, workoutID uuid.UUID) (*models.Workout, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Workout, error)
	ListWorkoutSets(ctx context.Context, workoutID uuid.UUID) ([]models.Set, error)
	ListHistoricalSets(ctx context.Context, userID uuid.UUID) ([]history.HistoricalSet, error)
}

var (
	_ Store = (*storage.DB)(nil)
	_ Store = (*sqlite.Store)(nil)
)

// Service answers workout-history questions for a user.
type Service struct {
	Store
}

// New returns a Service backed by store.
func New(store Store) *Service {
	return &Service{Store: store}
}

// WorkoutWithSets returns a workout with its sets grouped by exercise and
// profile. Returns ErrUnauthorized if the workout is missing or not the user's.
func (s *Service) WorkoutWithSets(ctx context.Context, userID, workoutID uuid.UUID) (*models.WorkoutWithSets, error) {
	owner, err := s.WorkoutOwner(ctx, workoutID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && owner != userID) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	w, err := s.GetWorkout(ctx, userID, workoutID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	sets, err := s.ListWorkoutSets(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	return &models.WorkoutWithSets{
		Workout:   *w,
		Exercises: history.GroupSets(sets),
	}, nil
}

// PreviousSets resolves the user's baseline sets for every exercise and profile.
func (s *Service) PreviousSets(ctx context.Context, userID uuid.UUID) (history.PreviousSets, error) {
	sets, err := s.ListHistoricalSets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return history.ResolvePreviousSets(sets), nil
}

// Bootstrap gathers everything a client needs to start offline.
func (s *Service) Bootstrap(ctx context.Context, userID uuid.UUID) (*models.BootstrapResponse, error) {
	var resp models.BootstrapResponse
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		resp.Gyms, err = s.ListGyms(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		resp.Profiles, err = s.ListProfiles(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		resp.GymProfileMappings, err = s.ListGymProfileMappings(ctx, userID)
		return err
	})
	g.Go(func() error {
		prev, err := s.PreviousSets(ctx, userID)
		resp.PreviousSets = prev
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ImportWorkout stores a workout in the client sync shape and returns the
// refreshed baselines for the exercises it contained.
func (s *Service) ImportWorkout(ctx context.Context, userID uuid.UUID, req models.SyncWorkoutRequest) (*models.SyncWorkoutResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	w, sets := req.Rows(userID, uuid.New())
	if err := s.InsertWorkout(ctx, w, sets); err != nil {
		return nil, err
	}

	prev, err := s.PreviousSets(ctx, userID)
	if err != nil {
		return nil, err
	}

	keys := make([]history.Key, 0, len(req.Exercises))
	for _, ex := range req.Exercises {
		keys = append(keys, history.Key{ExerciseID: ex.ExerciseID, ProfileID: ex.ProfileID})
	}
	prev = prev.For(keys...)

	resp := &models.SyncWorkoutResponse{WorkoutID: w.ID, PreviousSets: []models.PreviousSetData{}}
	for _, raw := range prev.Keys() {
		k, err := history.ParseKey(raw)
		if err != nil {
			return nil, err
		}
		resp.PreviousSets = append(resp.PreviousSets, models.PreviousSetData{
			ExerciseID: k.ExerciseID,
			ProfileID:  k.ProfileID,
			Sets:       prev[raw],
		})
	}
	return resp, nil
}

// Suggest returns the pre-filled value for one set of an exercise.
func (s *Service) Suggest(ctx context.Context, userID, exerciseID uuid.UUID, profileID *uuid.UUID, setNumber int, side *models.Side) (history.Suggestion, error) {
	prev, err := s.PreviousSets(ctx, userID)
	if err != nil {
		return history.Suggestion{}, err
	}
	return history.Suggest(prev, exerciseID, profileID, setNumber, side), nil
}

// NearbyGym is the gym matched to a position and how far away it is.
type NearbyGym struct {
	Gym            models.Gym `json:"gym"`
	DistanceMeters float64    `json:"distance_meters"`
}

// NearestGym returns the user's gym closest to (lat, lon) within the proximity
// threshold, or nil when none is close enough.
func (s *Service) NearestGym(ctx context.Context, userID uuid.UUID, lat, lon float64) (*NearbyGym, error) {
	list, err := s.ListGyms(ctx, userID)
	if err != nil {
		return nil, err
	}
	g, dist, ok := gyms.Nearest(list, lat, lon)
	if !ok {
		return nil, nil
	}
	return &NearbyGym{Gym: *g, DistanceMeters: dist}, nil
}
