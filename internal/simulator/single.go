package simulator

import (
	"golfsim/internal/models"
	"golfsim/internal/traveltime"
)

// SingleRunnerDispatcher drives a one-runner service with a single polling
// loop: each interval it prunes expired orders, then hands the oldest
// waiting order to the runner if the runner is idle. When a delivery cycle
// ends the queue is re-examined immediately instead of waiting out the rest
// of the interval.
type SingleRunnerDispatcher struct {
	*dispatchCore
}

func NewSingleRunnerDispatcher(cfg *models.Config, clock *Clock, travel *traveltime.Provider, activity models.ActivityRecorder) *SingleRunnerDispatcher {
	return &SingleRunnerDispatcher{newDispatchCore(cfg, clock, travel, activity, 1)}
}

// Start arms the polling loop. The first tick is re-enqueued at the open
// instant rather than run inline, so arrivals already scheduled for that
// instant land in the queue before the first dispatch looks at it.
func (d *SingleRunnerDispatcher) Start() {
	d.clock.Schedule(d.cfg.ServiceOpenS, func(nowS float64) {
		d.openService(nowS)
		d.clock.Schedule(nowS, d.tick)
	})
}

// tick runs on the poll interval from open to close. Pruning keeps its
// cadence while the runner is out on a delivery, so queued orders time out
// and the close sweep lands on schedule regardless of runner state.
func (d *SingleRunnerDispatcher) tick(nowS float64) {
	if d.closed {
		return
	}
	if nowS >= d.cfg.ServiceCloseS {
		d.closeService(nowS)
		return
	}
	d.pruneQueue(nowS)
	d.tryDispatch(nowS)
	d.clock.ScheduleAfter(d.cfg.PollIntervalS, d.tick)
}

func (d *SingleRunnerDispatcher) tryDispatch(nowS float64) {
	runner := d.runners[0]
	if runner.Busy {
		return
	}
	order := d.nextEligible(nowS)
	if order == nil {
		return
	}
	d.startCycle(nowS, runner, order, d.cycleDone)
}

// cycleDone re-examines the queue the moment the runner goes idle. The
// close sweep stays with the polling loop; past the close instant this is
// a no-op.
func (d *SingleRunnerDispatcher) cycleDone(nowS float64) {
	if d.closed || nowS >= d.cfg.ServiceCloseS {
		return
	}
	d.pruneQueue(nowS)
	d.tryDispatch(nowS)
}
