package simulator

import (
	"golfsim/internal/models"
)

// OrderQueue holds orders waiting for a runner, oldest placement first.
// Arrivals are fed in time order, so slice order is eligibility order.
type OrderQueue struct {
	orders []*models.Order
}

func NewOrderQueue() *OrderQueue {
	return &OrderQueue{}
}

func (q *OrderQueue) Push(order *models.Order) {
	q.orders = append(q.orders, order)
}

// PopOldest removes and returns the earliest-placed waiting order, or nil
// when the queue is empty.
func (q *OrderQueue) PopOldest() *models.Order {
	if len(q.orders) == 0 {
		return nil
	}
	order := q.orders[0]
	q.orders = q.orders[1:]
	return order
}

func (q *OrderQueue) Len() int { return len(q.orders) }

// PruneExpired removes every order whose waiting time has reached timeoutS
// and returns them in placement order. The caller owns marking them failed.
func (q *OrderQueue) PruneExpired(nowS, timeoutS float64) []*models.Order {
	var expired []*models.Order
	kept := q.orders[:0]
	for _, order := range q.orders {
		if order.PlacedTimeS != nil && nowS-*order.PlacedTimeS >= timeoutS {
			expired = append(expired, order)
			continue
		}
		kept = append(kept, order)
	}
	q.orders = kept
	return expired
}

// Drain empties the queue and returns the remaining orders in placement
// order, used by the service-close sweep.
func (q *OrderQueue) Drain() []*models.Order {
	remaining := q.orders
	q.orders = nil
	return remaining
}
