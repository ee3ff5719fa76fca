package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/claude/ironlog"
	"github.com/claude/ironlog/internal/history"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/service"
	"github.com/claude/ironlog/internal/storage/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a server over a fresh SQLite store with no identity configured.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "ironlog.db"), ironlog.MigrationsFS, "migrations/sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return New(service.New(store), "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newDevServer builds a test server whose requests run as a stored dev user.
func newDevServer(t *testing.T) (*Server, UserInfo) {
	t.Helper()
	s := newTestServer(t)
	id, err := s.svc.GetOrCreateUser(context.Background(), "local", "Local Dev User")
	require.NoError(t, err)
	info := UserInfo{ID: id, Login: "local", DisplayName: "Local Dev User"}
	s.SetDevUser(info)
	return s, info
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, path, rd))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

// seedWorkout stores a workout for the user directly through the service.
func seedWorkout(t *testing.T, s *Server, user uuid.UUID, end time.Time, exercises ...models.SyncExercise) uuid.UUID {
	t.Helper()
	resp, err := s.svc.ImportWorkout(context.Background(), user, models.SyncWorkoutRequest{
		StartTime: end.Add(-time.Hour),
		EndTime:   end,
		Exercises: exercises,
	})
	require.NoError(t, err)
	return resp.WorkoutID
}

// syncSets returns sets logged one minute apart starting at from.
func syncSets(from time.Time, reps ...int) []models.SyncSet {
	sets := make([]models.SyncSet, len(reps))
	for i, n := range reps {
		sets[i] = models.SyncSet{
			Reps:       n,
			Weight:     decimal.NewFromInt(40),
			WeightUnit: "kg",
			CreatedAt:  from.Add(time.Duration(i) * time.Minute),
		}
	}
	return sets
}

// TestHandleMe verifies /api/v1/me returns the dev user identity.
func TestHandleMe(t *testing.T) {
	s, info := newDevServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[UserInfo](t, rec)
	assert.Equal(t, info, got)
}

// TestNoIdentityUnauthorized verifies API routes reject callers when no
// identity source is configured.
func TestNoIdentityUnauthorized(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/me", "/api/v1/gyms", "/api/v1/sync/bootstrap", "/mcp"} {
		rec := do(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

// TestHealthzAndMetrics verifies the unauthenticated endpoints respond.
func TestHealthzAndMetrics(t *testing.T) {
	s, _ := newDevServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	do(t, s, http.MethodGet, "/api/v1/gyms", nil)
	rec = do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ironlog_http_requests_total{method="GET",route="/api/v1/gyms",status="200"} 1`)
}

// TestGymCRUD covers the gym endpoints including status codes for missing gyms.
func TestGymCRUD(t *testing.T) {
	s, _ := newDevServer(t)
	lat, lon := 52.52, 13.405

	rec := do(t, s, http.MethodPost, "/api/v1/gyms", models.GymBody{Name: "Home", Latitude: &lat, Longitude: &lon})
	require.Equal(t, http.StatusCreated, rec.Code)
	gym := decode[models.Gym](t, rec)

	rec = do(t, s, http.MethodGet, "/api/v1/gyms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Gym](t, rec), 1)

	rec = do(t, s, http.MethodGet, "/api/v1/gyms/nearby?lat=52.5201&lon=13.405", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	near := decode[service.NearbyGym](t, rec)
	assert.Equal(t, gym.ID, near.Gym.ID)

	rec = do(t, s, http.MethodGet, "/api/v1/gyms/nearby?lat=10&lon=10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/v1/gyms/"+gym.ID.String(), models.GymBody{Name: "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decode[models.Gym](t, rec).Name)

	rec = do(t, s, http.MethodPut, "/api/v1/gyms/"+uuid.NewString(), models.GymBody{Name: "Ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/gyms", models.GymBody{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/v1/gyms/"+gym.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodDelete, "/api/v1/gyms/"+gym.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/v1/gyms/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestProfilesAndMappings covers profile creation and the gym mapping upsert.
func TestProfilesAndMappings(t *testing.T) {
	s, _ := newDevServer(t)
	ex := uuid.New()

	gym := decode[models.Gym](t, do(t, s, http.MethodPost, "/api/v1/gyms", models.GymBody{Name: "Home"}))

	rec := do(t, s, http.MethodPost, "/api/v1/profiles", models.CreateProfileBody{ExerciseID: ex, Name: "Cable"})
	require.Equal(t, http.StatusCreated, rec.Code)
	profile := decode[models.ExerciseProfile](t, rec)

	rec = do(t, s, http.MethodPut, "/api/v1/gyms/"+gym.ID.String()+"/profile-mappings",
		models.SetGymProfileMappingBody{ExerciseID: ex, ProfileID: profile.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/gyms/"+gym.ID.String()+"/profile-mappings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mappings := decode[[]models.GymProfileMappingResponse](t, rec)
	require.Len(t, mappings, 1)
	assert.Equal(t, profile.ID, mappings[0].ProfileID)

	rec = do(t, s, http.MethodPut, "/api/v1/gyms/"+uuid.NewString()+"/profile-mappings",
		models.SetGymProfileMappingBody{ExerciseID: ex, ProfileID: profile.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/v1/profiles/"+profile.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// TestSettingsCurrentGym verifies the current gym round-trips.
func TestSettingsCurrentGym(t *testing.T) {
	s, _ := newDevServer(t)
	gym := decode[models.Gym](t, do(t, s, http.MethodPost, "/api/v1/gyms", models.GymBody{Name: "Home"}))

	rec := do(t, s, http.MethodPut, "/api/v1/settings/current-gym", models.SetCurrentGymBody{GymID: &gym.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	settings := decode[models.UserSettings](t, rec)
	require.NotNil(t, settings.CurrentGymID)
	assert.Equal(t, gym.ID, *settings.CurrentGymID)

	missing := uuid.New()
	rec = do(t, s, http.MethodPut, "/api/v1/settings/current-gym", models.SetCurrentGymBody{GymID: &missing})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestGetWorkoutGrouped verifies the workout endpoint groups sets in the order
// each exercise was first performed and hides other users' workouts behind 401.
func TestGetWorkoutGrouped(t *testing.T) {
	s, me := newDevServer(t)
	a, b := uuid.New(), uuid.New()
	end := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)

	// a at -50m and -30m, b at -40m; b is listed first in the request.
	aSets := syncSets(end.Add(-50*time.Minute), 10, 8)
	aSets[1].CreatedAt = end.Add(-30 * time.Minute)
	id := seedWorkout(t, s, me.ID, end,
		models.SyncExercise{ExerciseID: b, Sets: syncSets(end.Add(-40*time.Minute), 12)},
		models.SyncExercise{ExerciseID: a, Sets: aSets},
	)

	rec := do(t, s, http.MethodGet, "/api/v1/workouts/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.WorkoutWithSets](t, rec)
	require.Len(t, got.Exercises, 2)
	assert.Equal(t, a, got.Exercises[0].ExerciseID)
	require.Len(t, got.Exercises[0].Sets, 2)
	assert.Equal(t, 10, got.Exercises[0].Sets[0].Reps)
	assert.Equal(t, 8, got.Exercises[0].Sets[1].Reps)
	assert.Equal(t, b, got.Exercises[1].ExerciseID)
	assert.Len(t, got.Exercises[1].Sets, 1)

	other, err := s.svc.GetOrCreateUser(context.Background(), "mallory", "")
	require.NoError(t, err)
	foreign := seedWorkout(t, s, other, end)

	for _, path := range []string{"/api/v1/workouts/" + foreign.String(), "/api/v1/workouts/" + uuid.NewString()} {
		rec = do(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"error":"unauthorized"}`, strings.TrimSpace(rec.Body.String()))
	}

	rec = do(t, s, http.MethodGet, "/api/v1/workouts/bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestListWorkouts verifies the time range filter.
func TestListWorkouts(t *testing.T) {
	s, me := newDevServer(t)
	end := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)
	seedWorkout(t, s, me.ID, end)

	rec := do(t, s, http.MethodGet, "/api/v1/workouts?start=2025-05-01&end=2025-05-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Workout](t, rec), 1)

	rec = do(t, s, http.MethodGet, "/api/v1/workouts?start=2025-06-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Workout](t, rec))

	rec = do(t, s, http.MethodGet, "/api/v1/workouts?start=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestBootstrapAndPreviousSets verifies the previous sets exposed by both
// endpoints come from the latest workout per exercise.
func TestBootstrapAndPreviousSets(t *testing.T) {
	s, me := newDevServer(t)
	ex := uuid.New()
	first := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	seedWorkout(t, s, me.ID, first, models.SyncExercise{ExerciseID: ex, Sets: syncSets(first.Add(-time.Hour), 5, 5, 5)})
	seedWorkout(t, s, me.ID, second, models.SyncExercise{ExerciseID: ex, Sets: syncSets(second.Add(-time.Hour), 6, 4)})

	key := history.Key{ExerciseID: ex}.String()

	rec := do(t, s, http.MethodGet, "/api/v1/sync/bootstrap", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	boot := decode[models.BootstrapResponse](t, rec)
	require.Len(t, boot.PreviousSets[key], 2)
	assert.Equal(t, 6, boot.PreviousSets[key][0].Reps)
	assert.NotNil(t, boot.Gyms)

	rec = do(t, s, http.MethodGet, "/api/v1/previous-sets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	prev := decode[map[string][]models.PreviousSet](t, rec)
	assert.Equal(t, boot.PreviousSets, prev)
}

// TestSuggestion covers query parsing and the history-backed suggestion.
func TestSuggestion(t *testing.T) {
	s, me := newDevServer(t)
	ex := uuid.New()
	end := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)
	seedWorkout(t, s, me.ID, end, models.SyncExercise{ExerciseID: ex, Sets: syncSets(end.Add(-time.Hour), 9, 7)})

	rec := do(t, s, http.MethodGet, "/api/v1/exercises/"+ex.String()+"/suggestion?set=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, decode[history.Suggestion](t, rec).Reps)

	rec = do(t, s, http.MethodGet, "/api/v1/exercises/"+uuid.NewString()+"/suggestion", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, history.DefaultReps, decode[history.Suggestion](t, rec).Reps)

	for _, q := range []string{"?set=0", "?side=X", "?profile_id=nope"} {
		rec = do(t, s, http.MethodGet, "/api/v1/exercises/"+ex.String()+"/suggestion"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

// TestInvalidJSON verifies malformed bodies are rejected with 400.
func TestInvalidJSON(t *testing.T) {
	s, _ := newDevServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/gyms", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestRegisterCollector verifies extra collectors are exposed on /metrics and
// duplicates are rejected.
func TestRegisterCollector(t *testing.T) {
	s, _ := newDevServer(t)
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "ironlog_test_pool_conns", Help: "test"})
	gauge.Set(3)
	require.NoError(t, s.RegisterCollector(gauge))
	assert.Error(t, s.RegisterCollector(gauge))

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Contains(t, rec.Body.String(), "ironlog_test_pool_conns 3")
}
