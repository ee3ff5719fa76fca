package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/claude/ironlog/internal/history"
	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// optionalID parses an optional UUID argument. Empty means nil.
func optionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// --- Tool definitions ---

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Retrieve one workout with its sets grouped by exercise and profile, in the order each exercise was first performed. Groups with any left/right set are marked unilateral."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout UUID")),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List workouts that started in a time range, newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetPreviousSets = mcp.NewTool("get_previous_sets",
	mcp.WithDescription("Get the sets from the most recent workout for each exercise and profile. Workouts that ended at the same latest time are merged."),
	mcp.WithString("exercise_id", mcp.Description("Restrict to one exercise (UUID)")),
	mcp.WithString("profile_id", mcp.Description("With exercise_id, restrict to one profile (UUID). Omit for all profiles of the exercise.")),
)

var toolSuggestSet = mcp.NewTool("suggest_set",
	mcp.WithDescription("Suggest reps and weight for a set of an exercise based on the previous workout. Falls back to another profile of the same exercise, then to 10 reps at 20."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise UUID")),
	mcp.WithString("profile_id", mcp.Description("Profile UUID. Omit for the default variant.")),
	mcp.WithNumber("set_number", mcp.Description("1-based set number. Defaults to 1.")),
	mcp.WithString("side", mcp.Description("Side for unilateral exercises"), mcp.Enum("L", "R")),
)

var toolListGyms = mcp.NewTool("list_gyms",
	mcp.WithDescription("List the user's saved gyms with their coordinates."),
)

// --- Tool handlers ---

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}
	workoutID, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid workout_id: " + err.Error()), nil
	}

	w, err := h.ds.WorkoutWithSets(ctx, UserIDFromContext(ctx), workoutID)
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	workouts, err := h.ds.ListWorkouts(ctx, UserIDFromContext(ctx), start, end)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPreviousSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := optionalID(req.GetString("exercise_id", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid exercise_id: " + err.Error()), nil
	}
	profileID, err := optionalID(req.GetString("profile_id", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid profile_id: " + err.Error()), nil
	}

	prev, err := h.ds.PreviousSets(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_previous_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	switch {
	case exerciseID != nil && profileID != nil:
		prev = prev.For(history.Key{ExerciseID: *exerciseID, ProfileID: profileID})
	case exerciseID != nil:
		prefix := exerciseID.String() + "_"
		filtered := history.PreviousSets{}
		for k, sets := range prev {
			if strings.HasPrefix(k, prefix) {
				filtered[k] = sets
			}
		}
		prev = filtered
	}

	result, err := mcp.NewToolResultJSON(prev)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) suggestSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	exerciseID, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid exercise_id: " + err.Error()), nil
	}
	profileID, err := optionalID(req.GetString("profile_id", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid profile_id: " + err.Error()), nil
	}

	var side *models.Side
	if s := models.Side(req.GetString("side", "")); s != "" {
		if !s.Valid() {
			return mcp.NewToolResultError("side must be L or R"), nil
		}
		side = &s
	}

	prev, err := h.ds.PreviousSets(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp suggest_set", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	suggestion := history.Suggest(prev, exerciseID, profileID, req.GetInt("set_number", 1), side)

	result, err := mcp.NewToolResultJSON(suggestion)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listGyms(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gyms, err := h.ds.ListGyms(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp list_gyms", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(gyms)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
