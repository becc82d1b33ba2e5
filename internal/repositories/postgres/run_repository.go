package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"golfsim/internal/models"
	"golfsim/internal/repositories"
)

// NewPool opens a pgx connection pool and verifies it with a ping.
func NewPool(ctx context.Context, cfg *models.DatabaseConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode)
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

type RunRepository struct {
	pool *pgxpool.Pool
}

var _ repositories.RunRepository = (*RunRepository)(nil)

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// EnsureSchema creates the run tables when they do not exist yet.
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS simulation_runs (
			id TEXT PRIMARY KEY,
			seed BIGINT NOT NULL,
			num_runners INT NOT NULL,
			total_orders INT NOT NULL,
			delivered INT NOT NULL,
			failed INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS delivery_stats (
			run_id TEXT NOT NULL REFERENCES simulation_runs(id),
			order_id TEXT NOT NULL,
			golfer_group_id TEXT NOT NULL,
			hole_num INT NOT NULL,
			order_time_s DOUBLE PRECISION NOT NULL,
			queue_delay_s DOUBLE PRECISION NOT NULL,
			prep_time_s DOUBLE PRECISION NOT NULL,
			delivery_time_s DOUBLE PRECISION NOT NULL,
			return_time_s DOUBLE PRECISION NOT NULL,
			total_drive_time_s DOUBLE PRECISION NOT NULL,
			delivery_distance_m DOUBLE PRECISION NOT NULL,
			total_completion_time_s DOUBLE PRECISION NOT NULL,
			delivered_at_time_s DOUBLE PRECISION NOT NULL,
			runner_id INT NOT NULL,
			PRIMARY KEY (run_id, order_id)
		)`,
		`CREATE TABLE IF NOT EXISTS failed_orders (
			run_id TEXT NOT NULL REFERENCES simulation_runs(id),
			order_id TEXT NOT NULL,
			golfer_group_id TEXT NOT NULL,
			hole_num INT NOT NULL,
			order_time_s DOUBLE PRECISION NOT NULL,
			failure_reason TEXT NOT NULL,
			PRIMARY KEY (run_id, order_id)
		)`,
		`CREATE TABLE IF NOT EXISTS activity_events (
			run_id TEXT NOT NULL REFERENCES simulation_runs(id),
			seq INT NOT NULL,
			timestamp_s DOUBLE PRECISION NOT NULL,
			time_str TEXT NOT NULL,
			activity_type TEXT NOT NULL,
			description TEXT NOT NULL,
			order_id TEXT,
			location TEXT,
			runner_id INT,
			orders_in_queue INT,
			PRIMARY KEY (run_id, seq)
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (r *RunRepository) CreateRun(ctx context.Context, run *models.SimulationRun) error {
	query := `
        INSERT INTO simulation_runs (
            id, seed, num_runners, total_orders, delivered, failed, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7
        )
    `
	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Seed,
		run.NumRunners,
		run.TotalOrders,
		run.Delivered,
		run.Failed,
		run.CreatedAt,
	)
	return err
}

func (r *RunRepository) BulkInsertStats(ctx context.Context, runID string, stats []models.DeliveryStats) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"delivery_stats"},
		[]string{
			"run_id", "order_id", "golfer_group_id", "hole_num", "order_time_s",
			"queue_delay_s", "prep_time_s", "delivery_time_s", "return_time_s",
			"total_drive_time_s", "delivery_distance_m", "total_completion_time_s",
			"delivered_at_time_s", "runner_id",
		},
		pgx.CopyFromSlice(len(stats), func(i int) ([]interface{}, error) {
			s := stats[i]
			return []interface{}{
				runID, s.OrderID, s.GolferGroupID, s.HoleNum, s.OrderTimeS,
				s.QueueDelayS, s.PrepTimeS, s.DeliveryTimeS, s.ReturnTimeS,
				s.TotalDriveTimeS, s.DeliveryDistanceM, s.TotalCompletionTimeS,
				s.DeliveredAtTimeS, s.RunnerID,
			}, nil
		}),
	)
	return err
}

func (r *RunRepository) BulkInsertFailures(ctx context.Context, runID string, failures []models.FailedOrder) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"failed_orders"},
		[]string{
			"run_id", "order_id", "golfer_group_id", "hole_num",
			"order_time_s", "failure_reason",
		},
		pgx.CopyFromSlice(len(failures), func(i int) ([]interface{}, error) {
			f := failures[i]
			return []interface{}{
				runID, f.OrderID, f.GolferGroupID, f.HoleNum,
				f.OrderTimeS, f.FailureReason,
			}, nil
		}),
	)
	return err
}

func (r *RunRepository) BulkInsertActivity(ctx context.Context, runID string, records []models.ActivityRecord) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"activity_events"},
		[]string{
			"run_id", "seq", "timestamp_s", "time_str", "activity_type",
			"description", "order_id", "location", "runner_id", "orders_in_queue",
		},
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			rec := records[i]
			return []interface{}{
				runID, i, rec.TimestampS, rec.TimeStr, rec.ActivityType,
				rec.Description, textOrNil(rec.OrderID), textOrNil(rec.Location),
				intOrNil(rec.RunnerID), rec.OrdersInQueue,
			}, nil
		}),
	)
	return err
}

func (r *RunRepository) CountRuns(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM simulation_runs").Scan(&count)
	return count, err
}

// DeleteRun removes a run and its dependent rows.
func (r *RunRepository) DeleteRun(ctx context.Context, runID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		"DELETE FROM activity_events WHERE run_id = $1",
		"DELETE FROM failed_orders WHERE run_id = $1",
		"DELETE FROM delivery_stats WHERE run_id = $1",
		"DELETE FROM simulation_runs WHERE id = $1",
	} {
		if _, err := tx.Exec(ctx, stmt, runID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func textOrNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func intOrNil(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
