package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/ironlog"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "ironlog.db"), ironlog.MigrationsFS, "migrations/sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

// TestGetOrCreateUser verifies the same login maps to the same ID.
func TestGetOrCreateUser(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	id1, err := s.GetOrCreateUser(ctx, "alice@example.com", "Alice")
	require.NoError(t, err)
	id2, err := s.GetOrCreateUser(ctx, "alice@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	u, err := s.GetUserByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.DisplayName)

	_, err = s.GetUserByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

// TestReopenKeepsData verifies migrations are idempotent across opens.
func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ironlog.db")

	s, err := Open(ctx, path, ironlog.MigrationsFS, "migrations/sqlite")
	require.NoError(t, err)
	_, err = s.GetOrCreateUser(ctx, "bob", "Bob")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, ironlog.MigrationsFS, "migrations/sqlite")
	require.NoError(t, err)
	defer s.Close()
	_, err = s.GetUserByLogin(ctx, "bob")
	assert.NoError(t, err)
}

// TestGymCRUD covers create, list, update and delete, including ownership.
func TestGymCRUD(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	alice, _ := s.GetOrCreateUser(ctx, "alice", "")
	bob, _ := s.GetOrCreateUser(ctx, "bob", "")

	g, err := s.CreateGym(ctx, alice, models.GymBody{Name: "Home", Latitude: ptr(52.52), Longitude: ptr(13.405)})
	require.NoError(t, err)
	assert.Equal(t, "Home", g.Name)
	require.NotNil(t, g.Latitude)
	assert.InDelta(t, 52.52, *g.Latitude, 1e-9)

	_, err = s.CreateGym(ctx, alice, models.GymBody{Name: "Work"})
	require.NoError(t, err)

	gyms, err := s.ListGyms(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, gyms, 2)

	gyms, err = s.ListGyms(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, gyms)

	updated, err := s.UpdateGym(ctx, alice, g.ID, models.GymBody{Name: "Home Gym"})
	require.NoError(t, err)
	assert.Equal(t, "Home Gym", updated.Name)
	assert.Nil(t, updated.Latitude)

	_, err = s.UpdateGym(ctx, bob, g.ID, models.GymBody{Name: "stolen"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.DeleteGym(ctx, bob, g.ID), storage.ErrNotFound)
	require.NoError(t, s.DeleteGym(ctx, alice, g.ID))
	assert.ErrorIs(t, s.DeleteGym(ctx, alice, g.ID), storage.ErrNotFound)
}

// TestProfileMappingUpsert verifies the mapping is replaced, not duplicated.
func TestProfileMappingUpsert(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	user, _ := s.GetOrCreateUser(ctx, "alice", "")
	other, _ := s.GetOrCreateUser(ctx, "bob", "")
	ex := uuid.New()

	gym, err := s.CreateGym(ctx, user, models.GymBody{Name: "Home"})
	require.NoError(t, err)
	p1, err := s.CreateProfile(ctx, user, models.CreateProfileBody{ExerciseID: ex, Name: "Barbell"})
	require.NoError(t, err)
	p2, err := s.CreateProfile(ctx, user, models.CreateProfileBody{ExerciseID: ex, Name: "Dumbbell"})
	require.NoError(t, err)

	_, err = s.SetProfileMapping(ctx, user, gym.ID, models.SetGymProfileMappingBody{ExerciseID: ex, ProfileID: p1.ID})
	require.NoError(t, err)
	m, err := s.SetProfileMapping(ctx, user, gym.ID, models.SetGymProfileMappingBody{ExerciseID: ex, ProfileID: p2.ID})
	require.NoError(t, err)
	assert.Equal(t, p2.ID, m.ProfileID)

	mappings, err := s.GetProfileMappings(ctx, user, gym.ID)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, p2.ID, mappings[0].ProfileID)

	all, err := s.ListGymProfileMappings(ctx, user)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, gym.ID, all[0].GymID)

	_, err = s.SetProfileMapping(ctx, other, gym.ID, models.SetGymProfileMappingBody{ExerciseID: ex, ProfileID: p1.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	profiles, err := s.ListProfiles(ctx, user)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Barbell", profiles[0].Name)

	require.NoError(t, s.DeleteProfile(ctx, user, p2.ID))
	mappings, err = s.GetProfileMappings(ctx, user, gym.ID)
	require.NoError(t, err)
	assert.Empty(t, mappings)
}

// TestSettings verifies the current gym can be set and cleared.
func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	user, _ := s.GetOrCreateUser(ctx, "alice", "")

	settings, err := s.GetSettings(ctx, user)
	require.NoError(t, err)
	assert.Nil(t, settings.CurrentGymID)

	gym, err := s.CreateGym(ctx, user, models.GymBody{Name: "Home"})
	require.NoError(t, err)
	require.NoError(t, s.SetCurrentGym(ctx, user, &gym.ID))

	settings, err = s.GetSettings(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, settings.CurrentGymID)
	assert.Equal(t, gym.ID, *settings.CurrentGymID)

	assert.ErrorIs(t, s.SetCurrentGym(ctx, user, ptr(uuid.New())), storage.ErrNotFound)

	require.NoError(t, s.SetCurrentGym(ctx, user, nil))
	settings, err = s.GetSettings(ctx, user)
	require.NoError(t, err)
	assert.Nil(t, settings.CurrentGymID)
}

// TestWorkoutRoundTrip verifies a stored workout reads back with its sets in
// creation order and its history joined to the workout end time.
func TestWorkoutRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	user, _ := s.GetOrCreateUser(ctx, "alice", "")
	ex := uuid.New()
	prof := uuid.New()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	left := models.SideLeft

	w := models.Workout{
		ID:        uuid.New(),
		UserID:    user,
		Name:      ptr("Push"),
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Privacy:   models.DefaultPrivacy,
		Kind:      models.WorkoutKindWorkout,
	}
	sets := []models.Set{
		{ID: uuid.New(), UserID: user, ExerciseID: ex, WorkoutID: w.ID, Reps: 8,
			Weight: decimal.RequireFromString("62.5"), WeightUnit: "kg", CreatedAt: start.Add(20 * time.Minute)},
		{ID: uuid.New(), UserID: user, ExerciseID: ex, WorkoutID: w.ID, ProfileID: &prof, Reps: 10,
			Weight: decimal.RequireFromString("20"), WeightUnit: "kg", CreatedAt: start.Add(10 * time.Minute), Side: &left},
	}
	require.NoError(t, s.InsertWorkout(ctx, w, sets))

	owner, err := s.WorkoutOwner(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, user, owner)
	_, err = s.WorkoutOwner(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := s.GetWorkout(ctx, user, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push", *got.Name)
	assert.True(t, got.EndTime.Equal(w.EndTime))
	assert.Nil(t, got.GymLocation)

	stored, err := s.ListWorkoutSets(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, sets[1].ID, stored[0].ID)
	require.NotNil(t, stored[0].ProfileID)
	assert.Equal(t, prof, *stored[0].ProfileID)
	require.NotNil(t, stored[0].Side)
	assert.Equal(t, models.SideLeft, *stored[0].Side)
	assert.Nil(t, stored[1].ProfileID)
	assert.True(t, decimal.RequireFromString("62.5").Equal(stored[1].Weight))

	hist, err := s.ListHistoricalSets(ctx, user)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	for _, h := range hist {
		assert.True(t, h.WorkoutEndTime.Equal(w.EndTime))
	}

	listed, err := s.ListWorkouts(ctx, user, start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, listed, 1)
	listed, err = s.ListWorkouts(ctx, user, start.Add(time.Minute), start.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, listed)
}
