package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"golfsim/internal/models"
	"golfsim/internal/report"
	"golfsim/internal/simulator"
	"golfsim/internal/traveltime"
)

var sweepRunnerCounts []int

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Replay the same scenario across several runner counts",
	Long: `sweep runs one scenario repeatedly with different crew sizes and writes a
comparison table alongside the per-run reports, for sizing how many runners
a course needs.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSweep(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	sweepCmd.Flags().IntSliceVar(&sweepRunnerCounts, "runners", []int{1, 2, 3}, "Runner counts to compare")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep() error {
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

	var rows []report.Summary
	for _, n := range sweepRunnerCounts {
		runCfg := *cfg
		runCfg.NumRunners = n

		// Every crew size replays the identical stream on fresh order copies.
		sim := simulator.New(&runCfg, cloneOrders(orders), travel)
		sim.ShowProgress = true
		res := sim.Run()

		sum := report.Summarize(&runCfg, res)
		rows = append(rows, sum)

		dir := filepath.Join(cfg.OutputPath, fmt.Sprintf("sweep_runners_%d", n))
		if err := report.WriteRunReports(dir, sum, res); err != nil {
			return err
		}
	}

	path := filepath.Join(cfg.OutputPath, "sweep_summary.csv")
	if err := report.WriteSweepCSV(path, rows); err != nil {
		return err
	}
	log.Printf("sweep summary written to %s", path)
	return nil
}

func cloneOrders(orders []*models.Order) []*models.Order {
	cloned := make([]*models.Order, len(orders))
	for i, o := range orders {
		dup := *o
		cloned[i] = &dup
	}
	return cloned
}
