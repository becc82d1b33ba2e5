package models

import "time"

// SimulationRun is one simulation execution persisted for later analysis.
type SimulationRun struct {
	ID          string    `json:"run_id"`
	Seed        int       `json:"seed"`
	NumRunners  int       `json:"num_runners"`
	TotalOrders int       `json:"total_orders"`
	Delivered   int       `json:"delivered"`
	Failed      int       `json:"failed"`
	CreatedAt   time.Time `json:"created_at"`
}
