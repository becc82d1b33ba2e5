package report

import (
	"sort"

	"golfsim/internal/models"
	"golfsim/internal/simulator"
)

// Summary aggregates one finished run into the headline numbers the
// reports and the sweep table are built from.
type Summary struct {
	RunID      string `json:"run_id,omitempty"`
	Seed       int    `json:"seed"`
	NumRunners int    `json:"num_runners"`

	OrdersPlaced     int            `json:"orders_placed"`
	OrdersDelivered  int            `json:"orders_delivered"`
	OrdersFailed     int            `json:"orders_failed"`
	FailuresByReason map[string]int `json:"failures_by_reason,omitempty"`
	CompletionRate   float64        `json:"completion_rate"`

	MeanCompletionS   float64 `json:"mean_completion_s"`
	MedianCompletionS float64 `json:"median_completion_s"`
	P90CompletionS    float64 `json:"p90_completion_s"`
	MeanQueueDelayS   float64 `json:"mean_queue_delay_s"`
	MedianQueueDelayS float64 `json:"median_queue_delay_s"`
	P90QueueDelayS    float64 `json:"p90_queue_delay_s"`
	MeanDriveTimeS    float64 `json:"mean_drive_time_s"`
	MeanDistanceM     float64 `json:"mean_distance_m"`

	RunnerUtilization   float64 `json:"runner_utilization"`
	OrdersPerRunnerHour float64 `json:"orders_per_runner_hour"`
}

// Summarize computes the run summary from the simulation result. The run id
// is left empty; callers that persist the run fill it in.
func Summarize(cfg *models.Config, res *simulator.Result) Summary {
	sum := Summary{
		Seed:            cfg.Seed,
		NumRunners:      cfg.NumRunners,
		OrdersPlaced:    res.OrdersTotal,
		OrdersDelivered: len(res.Completed),
		OrdersFailed:    len(res.Failed),
	}
	if sum.OrdersPlaced > 0 {
		sum.CompletionRate = float64(sum.OrdersDelivered) / float64(sum.OrdersPlaced)
	}

	if len(res.FailedOrders) > 0 {
		sum.FailuresByReason = make(map[string]int)
		for _, f := range res.FailedOrders {
			sum.FailuresByReason[f.FailureReason]++
		}
	}

	completions := make([]float64, 0, len(res.Stats))
	delays := make([]float64, 0, len(res.Stats))
	var driveSum, distSum float64
	for _, s := range res.Stats {
		completions = append(completions, s.TotalCompletionTimeS)
		delays = append(delays, s.QueueDelayS)
		driveSum += s.TotalDriveTimeS
		distSum += s.DeliveryDistanceM
	}
	sort.Float64s(completions)
	sort.Float64s(delays)
	sum.MeanCompletionS = mean(completions)
	sum.MedianCompletionS = median(completions)
	sum.P90CompletionS = percentile(completions, 0.9)
	sum.MeanQueueDelayS = mean(delays)
	sum.MedianQueueDelayS = median(delays)
	sum.P90QueueDelayS = percentile(delays, 0.9)
	if n := len(res.Stats); n > 0 {
		sum.MeanDriveTimeS = driveSum / float64(n)
		sum.MeanDistanceM = distSum / float64(n)
	}

	windowS := cfg.ServiceCloseS - cfg.ServiceOpenS
	if windowS > 0 && len(res.Runners) > 0 {
		var busy float64
		for _, r := range res.Runners {
			busy += r.BusySeconds
		}
		crewSeconds := windowS * float64(len(res.Runners))
		sum.RunnerUtilization = busy / crewSeconds
		sum.OrdersPerRunnerHour = float64(sum.OrdersDelivered) / (crewSeconds / 3600)
	}
	return sum
}

func mean(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	var total float64
	for _, v := range sorted {
		total += v
	}
	return total / float64(len(sorted))
}

func median(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)/2]
}

// percentile picks by nearest rank from an ascending slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
