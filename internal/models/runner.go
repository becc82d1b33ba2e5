package models

// Runner is a single delivery worker. It carries exactly one order at a time;
// Busy covers the whole cycle (return trip, prep wait, outbound leg). Loc is
// the last place the runner went idle and seeds the next return-trip estimate.
type Runner struct {
	ID   int      `json:"runner_id"`
	Busy bool     `json:"busy"`
	Loc  Location `json:"location"`

	// Bookkeeping for utilization reporting, not used by dispatch decisions.
	BusySeconds     float64 `json:"busy_seconds"`
	DeliveriesMade  int     `json:"deliveries_made"`
	DistanceDrivenM float64 `json:"distance_driven_m"`
}

// NewRunners builds n idle runners at the clubhouse, ids 1..n.
func NewRunners(n int) []*Runner {
	runners := make([]*Runner, n)
	for i := range runners {
		runners[i] = &Runner{ID: i + 1, Loc: AtClubhouse()}
	}
	return runners
}
