package simulator

import (
	"fmt"

	"golfsim/internal/models"
	"golfsim/internal/traveltime"
)

// Dispatcher matches queued orders to delivery runners on the simulation
// clock. Implementations differ only in their polling topology; order
// lifecycle rules are shared.
type Dispatcher interface {
	// Start arms the dispatcher: it emits service_opened at the service
	// open time and begins its polling loops.
	Start()
	// PlaceOrder hands an arriving order to the dispatcher at the current
	// clock instant.
	PlaceOrder(nowS float64, order *models.Order)

	Runners() []*models.Runner
	Completed() []*models.Order
	Failed() []*models.Order
	Stats() []models.DeliveryStats
}

// dispatchCore carries the state and lifecycle rules shared by the single
// and multi runner dispatchers: the waiting queue, timeout pruning, the
// delivery cycle and the service-close sweep.
type dispatchCore struct {
	cfg      *models.Config
	clock    *Clock
	travel   *traveltime.Provider
	activity models.ActivityRecorder

	queue    *OrderQueue
	runners  []*models.Runner
	inFlight map[int]*models.Order

	timeoutS float64
	opened   bool
	closed   bool

	completed []*models.Order
	failed    []*models.Order
	stats     []models.DeliveryStats
}

// deliveryCycle is one runner's trip for one order. The inbound leg is the
// drive back to the clubhouse from wherever the previous delivery left the
// runner; the return leg after drop-off is attributed to this delivery but
// not driven until the next cycle needs the runner home.
type deliveryCycle struct {
	runner   *models.Runner
	order    *models.Order
	startS   float64
	inbound  traveltime.Leg
	outbound traveltime.Leg
	back     traveltime.Leg
	done     func(nowS float64)
}

func newDispatchCore(cfg *models.Config, clock *Clock, travel *traveltime.Provider, activity models.ActivityRecorder, numRunners int) *dispatchCore {
	return &dispatchCore{
		cfg:      cfg,
		clock:    clock,
		travel:   travel,
		activity: activity,
		queue:    NewOrderQueue(),
		runners:  models.NewRunners(numRunners),
		inFlight: make(map[int]*models.Order),
		timeoutS: cfg.QueueTimeoutS(),
	}
}

func (c *dispatchCore) Runners() []*models.Runner     { return c.runners }
func (c *dispatchCore) Completed() []*models.Order    { return c.completed }
func (c *dispatchCore) Failed() []*models.Order       { return c.failed }
func (c *dispatchCore) Stats() []models.DeliveryStats { return c.stats }

// PlaceOrder records the arrival and queues the order, or fails it on the
// spot when the service has already closed for the day.
func (c *dispatchCore) PlaceOrder(nowS float64, order *models.Order) {
	c.activity.Record(models.ActivityRecord{
		TimestampS:   nowS,
		ActivityType: models.ActivityOrderReceived,
		Description:  fmt.Sprintf("order %s received from group %s for hole %d", order.ID, order.GolferGroupID, order.HoleNum),
		OrderID:      order.ID,
		Location:     models.AtHole(order.HoleNum).String(),
	})
	if c.closed || nowS >= c.cfg.ServiceCloseS {
		c.failOrder(nowS, order, models.FailureServiceClosed, models.ActivityServiceClosed)
		return
	}
	if err := order.MarkQueued(nowS); err != nil {
		return
	}
	c.queue.Push(order)
	c.activity.Record(models.ActivityRecord{
		TimestampS:    nowS,
		ActivityType:  models.ActivityOrderQueued,
		Description:   fmt.Sprintf("order %s queued for dispatch", order.ID),
		OrderID:       order.ID,
		Location:      models.AtHole(order.HoleNum).String(),
		OrdersInQueue: models.IntPtr(c.queue.Len()),
	})
}

func (c *dispatchCore) openService(nowS float64) {
	c.opened = true
	c.activity.Record(models.ActivityRecord{
		TimestampS:   nowS,
		ActivityType: models.ActivityServiceOpened,
		Description:  "delivery service opened",
		Location:     models.AtClubhouse().String(),
	})
}

// closeService runs the end-of-day sweep exactly once: every queued order
// and every order still on a runner fails with the service-closed reason.
// Polling loops observe the closed flag and stop rescheduling themselves.
func (c *dispatchCore) closeService(nowS float64) {
	if c.closed {
		return
	}
	c.closed = true
	c.activity.Record(models.ActivityRecord{
		TimestampS:   nowS,
		ActivityType: models.ActivityServiceClosed,
		Description:  "delivery service closed",
		Location:     models.AtClubhouse().String(),
	})
	for _, order := range c.queue.Drain() {
		c.failOrder(nowS, order, models.FailureServiceClosed, models.ActivityServiceClosed)
	}
	for _, runner := range c.runners {
		if order, ok := c.inFlight[runner.ID]; ok {
			c.failOrder(nowS, order, models.FailureServiceClosed, models.ActivityServiceClosed)
		}
	}
}

// pruneQueue fails every queued order whose waiting time has reached the
// configured timeout.
func (c *dispatchCore) pruneQueue(nowS float64) {
	for _, order := range c.queue.PruneExpired(nowS, c.timeoutS) {
		c.failOrder(nowS, order, models.FailureQueueTimeout, models.ActivityOrderFailedTimeout)
	}
}

// nextEligible pops waiting orders until it finds one still inside its
// timeout window. Orders that expired between the last prune and this pop
// fail here instead of being handed to a runner.
func (c *dispatchCore) nextEligible(nowS float64) *models.Order {
	for {
		order := c.queue.PopOldest()
		if order == nil {
			return nil
		}
		if order.PlacedTimeS != nil && nowS-*order.PlacedTimeS >= c.timeoutS {
			c.failOrder(nowS, order, models.FailureQueueTimeout, models.ActivityOrderFailedTimeout)
			continue
		}
		return order
	}
}

func (c *dispatchCore) failOrder(nowS float64, order *models.Order, reason, activityType string) {
	if err := order.Fail(reason); err != nil {
		return
	}
	c.failed = append(c.failed, order)
	rec := models.ActivityRecord{
		TimestampS:   nowS,
		ActivityType: activityType,
		Description:  fmt.Sprintf("order %s failed: %s", order.ID, reason),
		OrderID:      order.ID,
		Location:     models.AtHole(order.HoleNum).String(),
	}
	if activityType == models.ActivityOrderFailedTimeout {
		rec.OrdersInQueue = models.IntPtr(c.queue.Len())
	}
	c.activity.Record(rec)
}

// idleRunner returns the lowest-numbered runner not on a delivery, or nil.
func (c *dispatchCore) idleRunner() *models.Runner {
	for _, runner := range c.runners {
		if !runner.Busy {
			return runner
		}
	}
	return nil
}

// startCycle commits runner to order and schedules the cycle stages on the
// clock: drive home if away, wait out prep, then the outbound leg. done, if
// set, runs when the runner goes idle again inside an open service day.
func (c *dispatchCore) startCycle(nowS float64, runner *models.Runner, order *models.Order, done func(nowS float64)) {
	if err := order.MarkDispatched(nowS); err != nil {
		return
	}
	runner.Busy = true
	c.inFlight[runner.ID] = order

	cycle := &deliveryCycle{
		runner:   runner,
		order:    order,
		startS:   nowS,
		outbound: c.travel.OutboundTo(order.HoleNum, order.CourseNodeIndex),
		back:     c.travel.ReturnFrom(models.AtHole(order.HoleNum)),
		done:     done,
	}
	c.activity.Record(models.ActivityRecord{
		TimestampS:    nowS,
		ActivityType:  models.ActivityProcessingStart,
		Description:   fmt.Sprintf("runner %d picked up order %s for hole %d", runner.ID, order.ID, order.HoleNum),
		OrderID:       order.ID,
		Location:      runner.Loc.String(),
		RunnerID:      runner.ID,
		OrdersInQueue: models.IntPtr(c.queue.Len()),
	})
	if !runner.Loc.IsClubhouse() {
		cycle.inbound = c.travel.ReturnFrom(runner.Loc)
		c.activity.Record(models.ActivityRecord{
			TimestampS:   nowS,
			ActivityType: models.ActivityReturning,
			Description:  fmt.Sprintf("runner %d returning to clubhouse from %s (%.0fs)", runner.ID, runner.Loc, cycle.inbound.TimeS),
			OrderID:      order.ID,
			Location:     runner.Loc.String(),
			RunnerID:     runner.ID,
		})
	}
	c.clock.ScheduleAfter(cycle.inbound.TimeS+c.cfg.PrepTimeS, func(t float64) {
		c.depart(t, cycle)
	})
}

// depart fires once the runner is back at the clubhouse and prep has
// finished. The order gets one last timeout check before the outbound leg;
// past the deadline it fails without the runner ever leaving.
func (c *dispatchCore) depart(nowS float64, cycle *deliveryCycle) {
	order, runner := cycle.order, cycle.runner
	if order.Terminal() {
		// killed by the close sweep while prep was running
		c.releaseRunner(nowS, runner, cycle.startS)
		return
	}
	runner.Loc = models.AtClubhouse()
	runner.DistanceDrivenM += cycle.inbound.DistanceM
	if err := order.MarkPrepCompleted(nowS); err != nil {
		return
	}
	if order.PlacedTimeS != nil && nowS-*order.PlacedTimeS >= c.timeoutS {
		c.failOrder(nowS, order, models.FailureLateDeparture, models.ActivityOrderFailedTimeout)
		c.releaseRunner(nowS, runner, cycle.startS)
		if cycle.done != nil {
			cycle.done(nowS)
		}
		return
	}
	if err := order.MarkDeliveryStarted(nowS); err != nil {
		return
	}
	c.activity.Record(models.ActivityRecord{
		TimestampS:   nowS,
		ActivityType: models.ActivityDeliveryStart,
		Description:  fmt.Sprintf("runner %d departing for hole %d with order %s (%.0fm, %.0fs)", runner.ID, order.HoleNum, order.ID, cycle.outbound.DistanceM, cycle.outbound.TimeS),
		OrderID:      order.ID,
		Location:     models.AtClubhouse().String(),
		RunnerID:     runner.ID,
	})
	c.clock.ScheduleAfter(cycle.outbound.TimeS, func(t float64) {
		c.complete(t, cycle)
	})
}

// complete finalises a delivery: the order is processed, the runner idles
// at the drop-off hole and the per-delivery stats row is recorded.
func (c *dispatchCore) complete(nowS float64, cycle *deliveryCycle) {
	order, runner := cycle.order, cycle.runner
	if order.Terminal() {
		// killed by the close sweep on the way out
		c.releaseRunner(nowS, runner, cycle.startS)
		return
	}
	if err := order.MarkProcessed(nowS); err != nil {
		return
	}
	runner.Loc = models.AtHole(order.HoleNum)
	runner.DeliveriesMade++
	runner.DistanceDrivenM += cycle.outbound.DistanceM
	c.completed = append(c.completed, order)

	prepS := c.cfg.PrepTimeS
	if order.PrepCompletedTimeS != nil && order.DispatchTimeS != nil {
		prepS = *order.PrepCompletedTimeS - *order.DispatchTimeS - cycle.inbound.TimeS
	}
	c.stats = append(c.stats, models.DeliveryStats{
		OrderID:              order.ID,
		GolferGroupID:        order.GolferGroupID,
		HoleNum:              order.HoleNum,
		OrderTimeS:           order.OrderTimeS,
		QueueDelayS:          order.QueueDelayS(),
		PrepTimeS:            prepS,
		DeliveryTimeS:        cycle.outbound.TimeS,
		ReturnTimeS:          cycle.back.TimeS,
		TotalDriveTimeS:      cycle.outbound.TimeS + cycle.back.TimeS,
		DeliveryDistanceM:    cycle.outbound.DistanceM + cycle.back.DistanceM,
		TotalCompletionTimeS: order.TotalCompletionTimeS(),
		DeliveredAtTimeS:     nowS,
		RunnerID:             runner.ID,
	})
	c.activity.Record(models.ActivityRecord{
		TimestampS:   nowS,
		ActivityType: models.ActivityDeliveryComplete,
		Description:  fmt.Sprintf("order %s delivered to hole %d by runner %d (%.0fs total)", order.ID, order.HoleNum, runner.ID, order.TotalCompletionTimeS()),
		OrderID:      order.ID,
		Location:     runner.Loc.String(),
		RunnerID:     runner.ID,
	})
	c.releaseRunner(nowS, runner, cycle.startS)
	if cycle.done != nil {
		cycle.done(nowS)
	}
}

func (c *dispatchCore) releaseRunner(nowS float64, runner *models.Runner, cycleStartS float64) {
	runner.Busy = false
	runner.BusySeconds += nowS - cycleStartS
	delete(c.inFlight, runner.ID)
}
