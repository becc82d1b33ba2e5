package simulator

import (
	"golfsim/internal/models"
	"golfsim/internal/traveltime"
)

// MultiRunnerDispatcher drives a crew of runners with two independent
// loops: a fast dispatch poll that matches waiting orders to idle runners,
// lowest-numbered runner first, and a slower sweep that fails queued orders
// past their timeout even when nobody is idle to take them.
type MultiRunnerDispatcher struct {
	*dispatchCore
}

func NewMultiRunnerDispatcher(cfg *models.Config, clock *Clock, travel *traveltime.Provider, activity models.ActivityRecorder) *MultiRunnerDispatcher {
	return &MultiRunnerDispatcher{newDispatchCore(cfg, clock, travel, activity, cfg.NumRunners)}
}

// Start arms both loops at the service open instant. The first ticks are
// re-enqueued rather than run inline so arrivals already scheduled for the
// open instant land in the queue first; the sweep registers before the
// dispatch loop so that on shared ticks pruning runs before dispatch and an
// order is never handed to a runner after its timeout already passed.
func (d *MultiRunnerDispatcher) Start() {
	d.clock.Schedule(d.cfg.ServiceOpenS, func(nowS float64) {
		d.openService(nowS)
		d.clock.Schedule(nowS, d.sweepTick)
		d.clock.Schedule(nowS, d.dispatchTick)
	})
}

func (d *MultiRunnerDispatcher) sweepTick(nowS float64) {
	if d.closed {
		return
	}
	if nowS >= d.cfg.ServiceCloseS {
		d.closeService(nowS)
		return
	}
	d.pruneQueue(nowS)
	d.clock.ScheduleAfter(d.cfg.PollIntervalS, d.sweepTick)
}

// dispatchTick assigns as many waiting orders as there are idle runners,
// then sleeps one dispatch poll. Whichever loop first observes the close
// instant runs the close sweep.
func (d *MultiRunnerDispatcher) dispatchTick(nowS float64) {
	if d.closed {
		return
	}
	if nowS >= d.cfg.ServiceCloseS {
		d.closeService(nowS)
		return
	}
	for {
		runner := d.idleRunner()
		if runner == nil {
			break
		}
		order := d.nextEligible(nowS)
		if order == nil {
			break
		}
		d.startCycle(nowS, runner, order, nil)
	}
	d.clock.ScheduleAfter(d.cfg.DispatchPollS, d.dispatchTick)
}
