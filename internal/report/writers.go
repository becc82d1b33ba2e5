package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golfsim/internal/models"
	"golfsim/internal/simulator"
)

// WriteRunReports writes the per-run CSV files and the summary pair into dir,
// creating it if needed.
func WriteRunReports(dir string, sum Summary, res *simulator.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := writeStatsCSV(filepath.Join(dir, "delivery_stats.csv"), res.Stats); err != nil {
		return err
	}
	if err := writeFailedCSV(filepath.Join(dir, "failed_orders.csv"), res.FailedOrders); err != nil {
		return err
	}
	if err := writeActivityCSV(filepath.Join(dir, "activity_log.csv"), res.Activity); err != nil {
		return err
	}
	if err := writeSummaryJSON(filepath.Join(dir, "summary.json"), sum); err != nil {
		return err
	}
	return writeSummaryMarkdown(filepath.Join(dir, "summary.md"), sum)
}

func writeStatsCSV(path string, stats []models.DeliveryStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"order_id", "golfer_group_id", "hole_num", "order_time_s",
		"queue_delay_s", "prep_time_s", "delivery_time_s", "return_time_s",
		"total_drive_time_s", "delivery_distance_m", "total_completion_time_s",
		"delivered_at_time_s", "runner_id",
	}); err != nil {
		return err
	}
	for _, s := range stats {
		row := []string{
			s.OrderID,
			s.GolferGroupID,
			fmt.Sprintf("%d", s.HoleNum),
			fmt.Sprintf("%v", s.OrderTimeS),
			fmt.Sprintf("%v", s.QueueDelayS),
			fmt.Sprintf("%v", s.PrepTimeS),
			fmt.Sprintf("%v", s.DeliveryTimeS),
			fmt.Sprintf("%v", s.ReturnTimeS),
			fmt.Sprintf("%v", s.TotalDriveTimeS),
			fmt.Sprintf("%v", s.DeliveryDistanceM),
			fmt.Sprintf("%v", s.TotalCompletionTimeS),
			fmt.Sprintf("%v", s.DeliveredAtTimeS),
			fmt.Sprintf("%d", s.RunnerID),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeFailedCSV(path string, failures []models.FailedOrder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"order_id", "golfer_group_id", "hole_num", "order_time_s", "failure_reason",
	}); err != nil {
		return err
	}
	for _, fo := range failures {
		row := []string{
			fo.OrderID,
			fo.GolferGroupID,
			fmt.Sprintf("%d", fo.HoleNum),
			fmt.Sprintf("%v", fo.OrderTimeS),
			fo.FailureReason,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeActivityCSV(path string, records []models.ActivityRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"timestamp_s", "time_str", "activity_type", "description",
		"order_id", "location", "runner_id", "orders_in_queue",
	}); err != nil {
		return err
	}
	for _, rec := range records {
		runnerID := ""
		if rec.RunnerID != 0 {
			runnerID = fmt.Sprintf("%d", rec.RunnerID)
		}
		queued := ""
		if rec.OrdersInQueue != nil {
			queued = fmt.Sprintf("%d", *rec.OrdersInQueue)
		}
		row := []string{
			fmt.Sprintf("%v", rec.TimestampS),
			rec.TimeStr,
			rec.ActivityType,
			rec.Description,
			rec.OrderID,
			rec.Location,
			runnerID,
			queued,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeSummaryJSON(path string, sum Summary) error {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func writeSummaryMarkdown(path string, sum Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# Delivery run summary\n\n")
	fmt.Fprintf(f, "- Seed: %d\n", sum.Seed)
	fmt.Fprintf(f, "- Runners: %d\n", sum.NumRunners)
	fmt.Fprintf(f, "- Orders placed: %d\n", sum.OrdersPlaced)
	fmt.Fprintf(f, "- Delivered: %d (%.1f%%)\n", sum.OrdersDelivered, sum.CompletionRate*100)
	fmt.Fprintf(f, "- Failed: %d\n", sum.OrdersFailed)
	for _, reason := range sortedReasons(sum.FailuresByReason) {
		fmt.Fprintf(f, "  - %s: %d\n", reason, sum.FailuresByReason[reason])
	}
	fmt.Fprintf(f, "\n| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(f, "| Mean completion | %.1f s |\n", sum.MeanCompletionS)
	fmt.Fprintf(f, "| Median completion | %.1f s |\n", sum.MedianCompletionS)
	fmt.Fprintf(f, "| P90 completion | %.1f s |\n", sum.P90CompletionS)
	fmt.Fprintf(f, "| Mean queue delay | %.1f s |\n", sum.MeanQueueDelayS)
	fmt.Fprintf(f, "| Median queue delay | %.1f s |\n", sum.MedianQueueDelayS)
	fmt.Fprintf(f, "| P90 queue delay | %.1f s |\n", sum.P90QueueDelayS)
	fmt.Fprintf(f, "| Mean drive time | %.1f s |\n", sum.MeanDriveTimeS)
	fmt.Fprintf(f, "| Mean delivery distance | %.1f m |\n", sum.MeanDistanceM)
	fmt.Fprintf(f, "| Runner utilization | %.1f%% |\n", sum.RunnerUtilization*100)
	fmt.Fprintf(f, "| Orders per runner-hour | %.2f |\n", sum.OrdersPerRunnerHour)
	return nil
}

// WriteSweepCSV writes one row per runner count, rows in the order given.
func WriteSweepCSV(path string, rows []Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"num_runners", "orders_placed", "orders_delivered", "orders_failed",
		"completion_rate", "mean_completion_s", "median_completion_s",
		"p90_completion_s", "mean_queue_delay_s", "p90_queue_delay_s",
		"runner_utilization", "orders_per_runner_hour",
	}); err != nil {
		return err
	}
	for _, sum := range rows {
		row := []string{
			fmt.Sprintf("%d", sum.NumRunners),
			fmt.Sprintf("%d", sum.OrdersPlaced),
			fmt.Sprintf("%d", sum.OrdersDelivered),
			fmt.Sprintf("%d", sum.OrdersFailed),
			fmt.Sprintf("%.4f", sum.CompletionRate),
			fmt.Sprintf("%.1f", sum.MeanCompletionS),
			fmt.Sprintf("%.1f", sum.MedianCompletionS),
			fmt.Sprintf("%.1f", sum.P90CompletionS),
			fmt.Sprintf("%.1f", sum.MeanQueueDelayS),
			fmt.Sprintf("%.1f", sum.P90QueueDelayS),
			fmt.Sprintf("%.4f", sum.RunnerUtilization),
			fmt.Sprintf("%.2f", sum.OrdersPerRunnerHour),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func sortedReasons(byReason map[string]int) []string {
	reasons := make([]string, 0, len(byReason))
	for reason := range byReason {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	return reasons
}
