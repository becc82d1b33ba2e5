package factories

import (
	"math/rand"

	"golfsim/internal/models"
)

// OrderFactory derives an order stream from the tee sheet. While a group
// plays each nine, every golfer in it may call in one order; the order is
// stamped with the hole the group has reached at that moment.
type OrderFactory struct{}

func (of *OrderFactory) CreateOrders(cfg *models.Config, groups []*models.GolferGroup, rng *rand.Rand) []*models.Order {
	secondsPerHole := cfg.MinutesPerHole * 60
	nineS := 9 * secondsPerHole

	var orders []*models.Order
	for _, group := range groups {
		for _, golfer := range group.Golfers {
			for nine := 0; nine < 2; nine++ {
				if rng.Float64() >= cfg.OrderProbPerNine {
					continue
				}
				startS := group.TeeTimeS + float64(nine)*nineS
				orderTimeS := startS + rng.Float64()*nineS
				holeNum := group.HoleAt(orderTimeS, secondsPerHole)
				if holeNum == 0 {
					continue
				}
				orders = append(orders, models.NewOrder(group.ID, golfer.ID, holeNum, orderTimeS))
			}
		}
	}
	models.AssignOrderIDs(orders)
	return orders
}
