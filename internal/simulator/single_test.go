package simulator

import (
	"testing"

	"golfsim/internal/models"
	"golfsim/internal/traveltime"
)

func testConfig() *models.Config {
	return &models.Config{
		Seed:                42,
		ServiceOpenS:        0,
		ServiceCloseS:       2 * 3600,
		DayStartHour:        7,
		NumRunners:          1,
		RunnerSpeedMps:      6,
		PrepTimeS:           600,
		OrderFailureMinutes: 60,
		PollIntervalS:       30,
		DispatchPollS:       5,
	}
}

func orderAt(hole int, orderTimeS float64) *models.Order {
	return models.NewOrder("group_01", "group_01_p1", hole, orderTimeS)
}

func runScenario(t *testing.T, cfg *models.Config, orders []*models.Order) *Result {
	t.Helper()
	models.AssignOrderIDs(orders)
	sim := New(cfg, orders, traveltime.New(cfg.RunnerSpeedMps))
	return sim.Run()
}

func statsFor(t *testing.T, res *Result, orderID string) models.DeliveryStats {
	t.Helper()
	for _, st := range res.Stats {
		if st.OrderID == orderID {
			return st
		}
	}
	t.Fatalf("no delivery stats row for order %s", orderID)
	return models.DeliveryStats{}
}

func activityOfType(res *Result, activityType string) []models.ActivityRecord {
	var out []models.ActivityRecord
	for _, rec := range res.Activity {
		if rec.ActivityType == activityType {
			out = append(out, rec)
		}
	}
	return out
}

func assertActivityMonotonic(t *testing.T, res *Result) {
	t.Helper()
	for i := 1; i < len(res.Activity); i++ {
		prev, cur := res.Activity[i-1], res.Activity[i]
		if cur.TimestampS < prev.TimestampS {
			t.Fatalf("activity goes backwards: %s at %v after %s at %v",
				cur.ActivityType, cur.TimestampS, prev.ActivityType, prev.TimestampS)
		}
	}
}

func TestSingleRunnerDeliversHoleOneAtOpen(t *testing.T) {
	cfg := testConfig()
	a := orderAt(1, 0)
	res := runScenario(t, cfg, []*models.Order{a})

	if len(res.Completed) != 1 || len(res.Failed) != 0 {
		t.Fatalf("completed %d failed %d, want 1/0", len(res.Completed), len(res.Failed))
	}
	st := statsFor(t, res, a.ID)
	if st.QueueDelayS != 0 {
		t.Fatalf("queue delay = %v, want 0", st.QueueDelayS)
	}
	if st.PrepTimeS != 600 {
		t.Fatalf("prep time = %v, want 600", st.PrepTimeS)
	}
	if st.DeliveryTimeS != 0 || st.ReturnTimeS != 0 || st.DeliveryDistanceM != 0 {
		t.Fatalf("hole 1 legs should be zero, got %+v", st)
	}
	// Hole 1 sits at the clubhouse, so the whole order is prep time.
	if st.TotalCompletionTimeS != 600 {
		t.Fatalf("total completion = %v, want exactly 600", st.TotalCompletionTimeS)
	}
	if st.DeliveredAtTimeS != 600 || st.RunnerID != 1 {
		t.Fatalf("delivered at %v by runner %d, want 600 by 1", st.DeliveredAtTimeS, st.RunnerID)
	}

	runner := res.Runners[0]
	if runner.DeliveriesMade != 1 || runner.Busy {
		t.Fatalf("runner state = %+v", runner)
	}
	if runner.BusySeconds != 600 {
		t.Fatalf("busy seconds = %v, want 600", runner.BusySeconds)
	}
	if runner.Loc.String() != "hole_1" {
		t.Fatalf("runner parked at %s, want hole_1", runner.Loc)
	}

	wantTypes := []string{
		models.ActivityServiceOpened,
		models.ActivityOrderReceived,
		models.ActivityOrderQueued,
		models.ActivityProcessingStart,
		models.ActivityDeliveryStart,
		models.ActivityDeliveryComplete,
		models.ActivityServiceClosed,
	}
	if len(res.Activity) != len(wantTypes) {
		t.Fatalf("got %d activity records, want %d: %+v", len(res.Activity), len(wantTypes), res.Activity)
	}
	for i, want := range wantTypes {
		if res.Activity[i].ActivityType != want {
			t.Fatalf("activity[%d] = %s, want %s", i, res.Activity[i].ActivityType, want)
		}
	}
	assertActivityMonotonic(t, res)
}

func TestSingleRunnerDeliversFarthestHole(t *testing.T) {
	cfg := testConfig()
	a := orderAt(10, 0)
	res := runScenario(t, cfg, []*models.Order{a})

	st := statsFor(t, res, a.ID)
	// Hole 10 is 1800m out at 6 m/s: 300s each way on top of 600s prep.
	if st.DeliveryTimeS != 300 || st.ReturnTimeS != 300 {
		t.Fatalf("legs = %v/%v, want 300/300", st.DeliveryTimeS, st.ReturnTimeS)
	}
	if st.TotalDriveTimeS != 600 {
		t.Fatalf("total drive = %v, want 600", st.TotalDriveTimeS)
	}
	if st.DeliveryDistanceM != 3600 {
		t.Fatalf("delivery distance = %v, want 3600", st.DeliveryDistanceM)
	}
	if st.TotalCompletionTimeS != 900 {
		t.Fatalf("total completion = %v, want exactly 900", st.TotalCompletionTimeS)
	}
	if st.DeliveredAtTimeS != 900 {
		t.Fatalf("delivered at %v, want 900", st.DeliveredAtTimeS)
	}

	runner := res.Runners[0]
	if runner.Loc.String() != "hole_10" {
		t.Fatalf("runner parked at %s, want hole_10", runner.Loc)
	}
	// Only the outbound leg has been driven; the return waits for the next cycle.
	if runner.DistanceDrivenM != 1800 {
		t.Fatalf("distance driven = %v, want 1800", runner.DistanceDrivenM)
	}
	if runner.BusySeconds != 900 {
		t.Fatalf("busy seconds = %v, want 900", runner.BusySeconds)
	}
}

func TestSingleRunnerSecondOrderWaitsForRunner(t *testing.T) {
	cfg := testConfig()
	cfg.OrderFailureMinutes = 600
	a := orderAt(10, 0)
	b := orderAt(10, 300)
	res := runScenario(t, cfg, []*models.Order{a, b})

	if len(res.Completed) != 2 {
		t.Fatalf("completed %d, want 2", len(res.Completed))
	}
	stA := statsFor(t, res, a.ID)
	stB := statsFor(t, res, b.ID)
	if stA.DeliveredAtTimeS != 900 {
		t.Fatalf("first delivery at %v, want 900", stA.DeliveredAtTimeS)
	}
	// The runner frees up at 900, so the second order dispatches right then.
	if b.DispatchTimeS == nil || *b.DispatchTimeS != 900 {
		t.Fatalf("second dispatch = %v, want 900", b.DispatchTimeS)
	}
	if stB.QueueDelayS != 600 {
		t.Fatalf("second queue delay = %v, want 600", stB.QueueDelayS)
	}
	// 300s drive home from hole 10, 600s prep, 300s back out.
	if stB.PrepTimeS != 600 {
		t.Fatalf("second prep = %v, want 600", stB.PrepTimeS)
	}
	if stB.DeliveredAtTimeS != 2100 || stB.TotalCompletionTimeS != 1800 {
		t.Fatalf("second delivered at %v total %v, want 2100/1800", stB.DeliveredAtTimeS, stB.TotalCompletionTimeS)
	}

	returning := activityOfType(res, models.ActivityReturning)
	if len(returning) != 1 || returning[0].OrderID != b.ID {
		t.Fatalf("returning records = %+v, want one for order %s", returning, b.ID)
	}

	runner := res.Runners[0]
	if runner.DeliveriesMade != 2 {
		t.Fatalf("deliveries made = %d, want 2", runner.DeliveriesMade)
	}
	if runner.BusySeconds != 2100 {
		t.Fatalf("busy seconds = %v, want 2100", runner.BusySeconds)
	}
	if runner.DistanceDrivenM != 5400 {
		t.Fatalf("distance driven = %v, want 5400", runner.DistanceDrivenM)
	}
	assertActivityMonotonic(t, res)
}

func TestSingleRunnerQueueTimeoutWhileRunnerBusy(t *testing.T) {
	cfg := testConfig()
	cfg.OrderFailureMinutes = 1
	cfg.PrepTimeS = 45
	a := orderAt(10, 0)
	b := orderAt(1, 0)
	res := runScenario(t, cfg, []*models.Order{a, b})

	if len(res.Completed) != 1 || len(res.Failed) != 1 {
		t.Fatalf("completed %d failed %d, want 1/1", len(res.Completed), len(res.Failed))
	}
	stA := statsFor(t, res, a.ID)
	if stA.DeliveredAtTimeS != 345 {
		t.Fatalf("first delivered at %v, want 345", stA.DeliveredAtTimeS)
	}
	if b.Status != models.OrderStatusFailed || b.FailureReason != models.FailureQueueTimeout {
		t.Fatalf("second order = %s/%q, want failed with queue timeout", b.Status, b.FailureReason)
	}

	failures := activityOfType(res, models.ActivityOrderFailedTimeout)
	if len(failures) != 1 {
		t.Fatalf("timeout records = %+v, want exactly one", failures)
	}
	rec := failures[0]
	// Placed at 0 with a 60s timeout and a 30s poll, the prune lands at 60.
	if rec.TimestampS != 60 || rec.OrderID != b.ID {
		t.Fatalf("timeout record = %+v, want order %s at 60", rec, b.ID)
	}
	if rec.OrdersInQueue == nil || *rec.OrdersInQueue != 0 {
		t.Fatalf("timeout record queue depth = %v, want 0", rec.OrdersInQueue)
	}
}

func TestSingleRunnerFailsOrderStillWaitingAtDeparture(t *testing.T) {
	cfg := testConfig()
	cfg.OrderFailureMinutes = 1
	a := orderAt(5, 0)
	res := runScenario(t, cfg, []*models.Order{a})

	if len(res.Completed) != 0 || len(res.Stats) != 0 {
		t.Fatalf("completed %d stats %d, want none", len(res.Completed), len(res.Stats))
	}
	if len(res.Failed) != 1 || a.FailureReason != models.FailureLateDeparture {
		t.Fatalf("failed = %+v, reason %q", res.Failed, a.FailureReason)
	}
	// Prep alone outlasts the timeout, so the cart never leaves.
	if got := activityOfType(res, models.ActivityDeliveryStart); len(got) != 0 {
		t.Fatalf("unexpected delivery_start records: %+v", got)
	}
	if got := activityOfType(res, models.ActivityDeliveryComplete); len(got) != 0 {
		t.Fatalf("unexpected delivery_complete records: %+v", got)
	}
	failures := activityOfType(res, models.ActivityOrderFailedTimeout)
	if len(failures) != 1 || failures[0].TimestampS != 600 {
		t.Fatalf("failure records = %+v, want one at 600", failures)
	}

	runner := res.Runners[0]
	if runner.Busy || runner.DeliveriesMade != 0 {
		t.Fatalf("runner state = %+v", runner)
	}
	if runner.BusySeconds != 600 {
		t.Fatalf("busy seconds = %v, want 600", runner.BusySeconds)
	}
	if !runner.Loc.IsClubhouse() {
		t.Fatalf("runner at %s, want clubhouse", runner.Loc)
	}
}

func TestSingleRunnerCloseSweepFailsQueuedAndInFlight(t *testing.T) {
	cfg := testConfig()
	cfg.ServiceCloseS = 120
	cfg.OrderFailureMinutes = 600
	a := orderAt(3, 0)   // on a runner at close
	b := orderAt(7, 30)  // still queued at close
	c := orderAt(2, 200) // arrives after close
	res := runScenario(t, cfg, []*models.Order{a, b, c})

	if len(res.Completed) != 0 || len(res.Stats) != 0 {
		t.Fatalf("completed %d stats %d, want none", len(res.Completed), len(res.Stats))
	}
	if len(res.Failed) != 3 {
		t.Fatalf("failed %d, want 3", len(res.Failed))
	}
	for _, order := range res.Failed {
		if order.FailureReason != models.FailureServiceClosed {
			t.Fatalf("order %s failed with %q, want service closed", order.ID, order.FailureReason)
		}
	}

	closed := activityOfType(res, models.ActivityServiceClosed)
	// One record for the close itself, one per failed order.
	if len(closed) != 4 {
		t.Fatalf("service_closed records = %d, want 4", len(closed))
	}
	if closed[0].TimestampS != 120 || closed[0].OrderID != "" {
		t.Fatalf("close record = %+v, want bare record at 120", closed[0])
	}
	// Orders already in the system fail at the close instant; nothing about
	// them is recorded afterwards even though the cart cycle unwinds later.
	for _, rec := range res.Activity {
		if (rec.OrderID == a.ID || rec.OrderID == b.ID) && rec.TimestampS > 120 {
			t.Fatalf("record for %s after close: %+v", rec.OrderID, rec)
		}
	}
	if c.FailureReason != models.FailureServiceClosed {
		t.Fatalf("late arrival reason = %q", c.FailureReason)
	}
	received := activityOfType(res, models.ActivityOrderReceived)
	if len(received) != 3 || received[2].TimestampS != 200 {
		t.Fatalf("received records = %+v", received)
	}

	runner := res.Runners[0]
	if runner.Busy {
		t.Fatalf("runner still busy after drain")
	}
	if runner.BusySeconds != 600 {
		t.Fatalf("busy seconds = %v, want 600", runner.BusySeconds)
	}
	if res.HorizonS != 201 {
		t.Fatalf("horizon = %v, want 201", res.HorizonS)
	}
	assertActivityMonotonic(t, res)
}

func TestSingleRunnerServesOrdersInPlacementOrder(t *testing.T) {
	cfg := testConfig()
	cfg.PrepTimeS = 60
	cfg.OrderFailureMinutes = 600
	a := orderAt(1, 0)
	b := orderAt(1, 5)
	c := orderAt(1, 10)
	res := runScenario(t, cfg, []*models.Order{a, b, c})

	if len(res.Completed) != 3 {
		t.Fatalf("completed %d, want 3", len(res.Completed))
	}
	wantDispatch := map[string]float64{a.ID: 0, b.ID: 60, c.ID: 120}
	for _, order := range []*models.Order{a, b, c} {
		if order.DispatchTimeS == nil || *order.DispatchTimeS != wantDispatch[order.ID] {
			t.Fatalf("order %s dispatched at %v, want %v", order.ID, order.DispatchTimeS, wantDispatch[order.ID])
		}
	}
	// Stats rows land in completion order, which here is placement order.
	for i, want := range []string{a.ID, b.ID, c.ID} {
		if res.Stats[i].OrderID != want {
			t.Fatalf("stats[%d] = %s, want %s", i, res.Stats[i].OrderID, want)
		}
	}
}
