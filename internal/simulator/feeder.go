package simulator

import (
	"golfsim/internal/models"
)

// Feeder replays a time-ordered order stream into a dispatcher on the
// simulation clock. Orders stamped before the service opens arrive at the
// open instant instead; stream order is preserved either way.
type Feeder struct {
	clock      *Clock
	dispatcher Dispatcher
	orders     []*models.Order
	openS      float64
}

func NewFeeder(clock *Clock, dispatcher Dispatcher, orders []*models.Order, openS float64) *Feeder {
	return &Feeder{clock: clock, dispatcher: dispatcher, orders: orders, openS: openS}
}

// Start schedules the first arrival. Each arrival chains the next, so
// orders sharing a timestamp reach the queue in stream order.
func (f *Feeder) Start() {
	f.scheduleArrival(0)
}

func (f *Feeder) scheduleArrival(i int) {
	if i >= len(f.orders) {
		return
	}
	order := f.orders[i]
	atS := order.OrderTimeS
	if atS < f.openS {
		atS = f.openS
	}
	f.clock.Schedule(atS, func(nowS float64) {
		f.dispatcher.PlaceOrder(nowS, order)
		f.scheduleArrival(i + 1)
	})
}
