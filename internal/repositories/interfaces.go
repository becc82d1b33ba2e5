package repositories

import (
	"context"

	"golfsim/internal/models"
)

// RunRepository persists simulation runs and their per-order results.
type RunRepository interface {
	EnsureSchema(ctx context.Context) error
	CreateRun(ctx context.Context, run *models.SimulationRun) error
	BulkInsertStats(ctx context.Context, runID string, stats []models.DeliveryStats) error
	BulkInsertFailures(ctx context.Context, runID string, failures []models.FailedOrder) error
	BulkInsertActivity(ctx context.Context, runID string, records []models.ActivityRecord) error
	CountRuns(ctx context.Context) (int, error)
	DeleteRun(ctx context.Context, runID string) error
}
