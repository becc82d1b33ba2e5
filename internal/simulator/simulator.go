package simulator

import (
	"log"

	"github.com/schollz/progressbar/v3"

	"golfsim/internal/models"
	"golfsim/internal/traveltime"
)

// Simulation wires the clock, dispatcher and order feeder for one service
// day and runs the day to completion in virtual time.
type Simulation struct {
	Config     *models.Config
	Orders     []*models.Order
	Travel     *traveltime.Provider
	Clock      *Clock
	Activity   *models.ActivityLog
	Dispatcher Dispatcher

	ShowProgress bool
}

// Result collects everything one service day produced.
type Result struct {
	OrdersTotal  int
	Completed    []*models.Order
	Failed       []*models.Order
	Stats        []models.DeliveryStats
	FailedOrders []models.FailedOrder
	Activity     []models.ActivityRecord
	Runners      []*models.Runner
	HorizonS     float64
	Events       int
}

// New assembles a simulation for the given time-ordered order stream. One
// runner gets the single-loop dispatcher, larger crews the two-loop one.
func New(cfg *models.Config, orders []*models.Order, travel *traveltime.Provider) *Simulation {
	clock := NewClock()
	activity := models.NewActivityLog(cfg.DayStartHour)
	var dispatcher Dispatcher
	if cfg.NumRunners <= 1 {
		dispatcher = NewSingleRunnerDispatcher(cfg, clock, travel, activity)
	} else {
		dispatcher = NewMultiRunnerDispatcher(cfg, clock, travel, activity)
	}
	return &Simulation{
		Config:     cfg,
		Orders:     orders,
		Travel:     travel,
		Clock:      clock,
		Activity:   activity,
		Dispatcher: dispatcher,
	}
}

// Horizon is the main run bound: one second past service close or past the
// last arrival, whichever is later. Cycle continuations scheduled beyond it
// are drained afterwards so runner accounting settles.
func (s *Simulation) Horizon() float64 {
	horizon := s.Config.ServiceCloseS + 1
	if n := len(s.Orders); n > 0 {
		if last := s.Orders[n-1].OrderTimeS + 1; last > horizon {
			horizon = last
		}
	}
	return horizon
}

// Run replays the order stream through the dispatcher and returns the
// day's results once every scheduled event has settled.
func (s *Simulation) Run() *Result {
	horizon := s.Horizon()
	log.Printf("simulating %d orders with %d runner(s), service %s to %s",
		len(s.Orders), len(s.Dispatcher.Runners()),
		s.Activity.ClockString(s.Config.ServiceOpenS), s.Activity.ClockString(s.Config.ServiceCloseS))

	if s.ShowProgress {
		bar := progressbar.Default(int64(horizon), "simulating")
		s.Clock.OnAdvance(func(nowS float64) {
			if nowS > horizon {
				nowS = horizon
			}
			_ = bar.Set64(int64(nowS))
		})
		defer func() { _ = bar.Finish() }()
	}

	feeder := NewFeeder(s.Clock, s.Dispatcher, s.Orders, s.Config.ServiceOpenS)
	s.Dispatcher.Start()
	feeder.Start()

	events := s.Clock.Run(horizon)
	events += s.Clock.Drain()

	result := &Result{
		OrdersTotal: len(s.Orders),
		Completed:   s.Dispatcher.Completed(),
		Failed:      s.Dispatcher.Failed(),
		Stats:       s.Dispatcher.Stats(),
		Activity:    s.Activity.Records(),
		Runners:     s.Dispatcher.Runners(),
		HorizonS:    horizon,
		Events:      events,
	}
	for _, order := range result.Failed {
		result.FailedOrders = append(result.FailedOrders, models.FailedOrder{
			OrderID:       order.ID,
			GolferGroupID: order.GolferGroupID,
			HoleNum:       order.HoleNum,
			OrderTimeS:    order.OrderTimeS,
			FailureReason: order.FailureReason,
		})
	}
	log.Printf("simulation complete: %d delivered, %d failed, %d events",
		len(result.Completed), len(result.Failed), events)
	return result
}
