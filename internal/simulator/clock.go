package simulator

import (
	"golfsim/internal/models"
)

// Clock is the discrete-event virtual time authority. Logical processes
// (dispatch loops, runner cycles, the order feeder) suspend by scheduling a
// continuation and never block wall-clock time; Run jumps straight to the
// next scheduled wake-up. Same-instant events fire in registration order.
type Clock struct {
	queue     *models.EventQueue
	nowS      float64
	onAdvance func(nowS float64)
}

func NewClock() *Clock {
	return &Clock{queue: models.NewEventQueue()}
}

// NowS is the current simulated time in seconds since the day-start epoch.
func (c *Clock) NowS() float64 { return c.nowS }

// Schedule registers fn to run at atS. Requests in the past fire at the
// current instant instead; time never runs backwards.
func (c *Clock) Schedule(atS float64, fn func(nowS float64)) {
	if atS < c.nowS {
		atS = c.nowS
	}
	c.queue.Enqueue(atS, fn)
}

// ScheduleAfter registers fn delayS simulated seconds from now.
func (c *Clock) ScheduleAfter(delayS float64, fn func(nowS float64)) {
	if delayS < 0 {
		delayS = 0
	}
	c.Schedule(c.nowS+delayS, fn)
}

// OnAdvance registers a hook observing every clock movement, used for run
// progress display.
func (c *Clock) OnAdvance(fn func(nowS float64)) { c.onAdvance = fn }

// Run processes events in timestamp order until the queue drains or the next
// event lies beyond untilS, then parks the clock at untilS. Returns the
// number of events processed.
func (c *Clock) Run(untilS float64) int {
	processed := 0
	for {
		next := c.queue.Peek()
		if next == nil || next.TimeS > untilS {
			break
		}
		event := c.queue.Dequeue()
		if event.TimeS > c.nowS {
			c.nowS = event.TimeS
			if c.onAdvance != nil {
				c.onAdvance(c.nowS)
			}
		}
		event.Fn(c.nowS)
		processed++
	}
	if c.nowS < untilS {
		c.nowS = untilS
		if c.onAdvance != nil {
			c.onAdvance(c.nowS)
		}
	}
	return processed
}

// Drain processes every remaining event regardless of timestamp. Used
// after the main run so cycle continuations past the bound still settle
// runner state.
func (c *Clock) Drain() int {
	processed := 0
	for {
		event := c.queue.Dequeue()
		if event == nil {
			return processed
		}
		if event.TimeS > c.nowS {
			c.nowS = event.TimeS
			if c.onAdvance != nil {
				c.onAdvance(c.nowS)
			}
		}
		event.Fn(c.nowS)
		processed++
	}
}

// Pending is the number of events still scheduled.
func (c *Clock) Pending() int { return c.queue.Len() }
