package mcp

import (
	"context"
	"time"

	"github.com/claude/ironlog/internal/history"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/service"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. Both *service.Service
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListGyms(ctx context.Context, userID uuid.UUID) ([]models.Gym, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Workout, error)
	WorkoutWithSets(ctx context.Context, userID, workoutID uuid.UUID) (*models.WorkoutWithSets, error)
	PreviousSets(ctx context.Context, userID uuid.UUID) (history.PreviousSets, error)
}

// Compile-time check: *service.Service satisfies DataSource.
var _ DataSource = (*service.Service)(nil)
