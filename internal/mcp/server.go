package mcp

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
// Returns uuid.Nil when none was set, which remote data sources ignore.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(userIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("ironlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("ironlog strength-training log. Look up workouts grouped by exercise, the previous sets recorded for each exercise and profile, and suggested values for the next set. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetPreviousSets, Handler: h.getPreviousSets},
		server.ServerTool{Tool: toolSuggestSet, Handler: h.suggestSet},
		server.ServerTool{Tool: toolListGyms, Handler: h.listGyms},
	)

	s.AddResources(
		server.ServerResource{Resource: resPreviousSets, Handler: h.previousSetsResource},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

var resPreviousSets = mcp.NewResource(
	"ironlog://previous_sets",
	"Previous Sets",
	mcp.WithResourceDescription("Sets from the most recent workout for every exercise and profile, keyed by {exercise_id}_{profile_id|default}"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"ironlog://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts started in the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
