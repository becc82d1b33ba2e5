package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/lucsky/cuid"
	"github.com/spf13/cobra"

	"golfsim/internal/factories"
	"golfsim/internal/models"
	"golfsim/internal/output"
	"golfsim/internal/report"
	"golfsim/internal/repositories/postgres"
	"golfsim/internal/simulator"
	"golfsim/internal/traveltime"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulated service day",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runScenario(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScenario() error {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	travel, err := traveltime.FromConfig(cfg)
	if err != nil {
		return err
	}
	orders, err := buildOrders(cfg)
	if err != nil {
		return err
	}
	dest, err := output.Determine(cfg)
	if err != nil {
		return err
	}

	sim := simulator.New(cfg, orders, travel)
	sim.ShowProgress = true
	// Activity records stream to the destination as the clock produces them;
	// stats and failures follow once the day has settled.
	sim.Activity.OnRecord(func(rec models.ActivityRecord) {
		msg, err := json.Marshal(rec)
		if err != nil {
			return
		}
		if err := dest.WriteMessage("activity_events", msg); err != nil {
			log.Printf("failed to write activity event: %v", err)
		}
	})

	res := sim.Run()

	if err := publishResults(dest, res); err != nil {
		log.Printf("failed to publish results: %v", err)
	}
	if err := dest.Close(); err != nil {
		log.Printf("failed to close output destination: %v", err)
	}

	sum := report.Summarize(cfg, res)
	sum.RunID = cuid.New()

	if cfg.PostgresEnabled {
		if err := persistRun(cfg, sum.RunID, res); err != nil {
			return fmt.Errorf("error persisting run: %w", err)
		}
	}

	reportDir := filepath.Join(cfg.OutputPath, "report")
	if err := report.WriteRunReports(reportDir, sum, res); err != nil {
		return err
	}
	log.Printf("reports written to %s", reportDir)
	return nil
}

// buildOrders loads a replay stream when one is configured, otherwise
// generates the scenario from the tee sheet under the configured seed.
func buildOrders(cfg *models.Config) ([]*models.Order, error) {
	if cfg.OrdersFile != "" {
		orders, err := models.LoadOrderStream(cfg.OrdersFile)
		if err != nil {
			return nil, err
		}
		models.AssignOrderIDs(orders)
		return orders, nil
	}

	rng := rand.New(rand.NewSource(int64(cfg.Seed)))
	groupFactory := &factories.GroupFactory{}
	orderFactory := &factories.OrderFactory{}
	groups := groupFactory.CreateGroups(cfg, rng)
	orders := orderFactory.CreateOrders(cfg, groups, rng)
	log.Printf("generated %d orders across %d tee-time groups", len(orders), len(groups))
	return orders, nil
}

func publishResults(dest output.OutputDestination, res *simulator.Result) error {
	for _, s := range res.Stats {
		msg, err := json.Marshal(s)
		if err != nil {
			return err
		}
		if err := dest.WriteMessage("delivery_stats", msg); err != nil {
			return err
		}
	}
	for _, f := range res.FailedOrders {
		msg, err := json.Marshal(f)
		if err != nil {
			return err
		}
		if err := dest.WriteMessage("failed_orders", msg); err != nil {
			return err
		}
	}
	return nil
}

func persistRun(cfg *models.Config, runID string, res *simulator.Result) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgres.NewRunRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	run := &models.SimulationRun{
		ID:          runID,
		Seed:        cfg.Seed,
		NumRunners:  cfg.NumRunners,
		TotalOrders: res.OrdersTotal,
		Delivered:   len(res.Completed),
		Failed:      len(res.Failed),
		CreatedAt:   time.Now(),
	}
	if err := repo.CreateRun(ctx, run); err != nil {
		return err
	}
	if err := repo.BulkInsertStats(ctx, runID, res.Stats); err != nil {
		return err
	}
	if err := repo.BulkInsertFailures(ctx, runID, res.FailedOrders); err != nil {
		return err
	}
	if err := repo.BulkInsertActivity(ctx, runID, res.Activity); err != nil {
		return err
	}
	log.Printf("run %s persisted to postgres", runID)
	return nil
}
