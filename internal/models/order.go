package models

import (
	"fmt"
	"sort"
)

// Order is one delivery request placed by a golfer on the course. Lifecycle
// timestamps are simulated seconds since the service-day start and stay nil
// until the order reaches that stage. Status only moves forward; once an
// order is processed or failed it is terminal and must not be touched again.
type Order struct {
	ID            string `json:"order_id"`
	GolferGroupID string `json:"golfer_group_id"`
	GolferID      string `json:"golfer_id"`
	HoleNum       int    `json:"hole_num"`
	// CourseNodeIndex pins the order to a node on the cart-path graph when
	// the scenario has one; nil means hole-level resolution only.
	CourseNodeIndex *int    `json:"course_node_index,omitempty"`
	OrderTimeS      float64 `json:"order_time_s"`

	PlacedTimeS          *float64 `json:"placed_time_s,omitempty"`
	DispatchTimeS        *float64 `json:"dispatch_time_s,omitempty"`
	PrepCompletedTimeS   *float64 `json:"prep_completed_time_s,omitempty"`
	DeliveryStartedTimeS *float64 `json:"delivery_started_time_s,omitempty"`
	DeliveredTimeS       *float64 `json:"delivered_time_s,omitempty"`

	Status        string `json:"status"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// NewOrder returns a pending order as produced by the scenario generator.
// The order id is assigned later, once the whole stream is known and sorted.
func NewOrder(groupID, golferID string, holeNum int, orderTimeS float64) *Order {
	return &Order{
		GolferGroupID: groupID,
		GolferID:      golferID,
		HoleNum:       holeNum,
		OrderTimeS:    orderTimeS,
		Status:        OrderStatusPending,
	}
}

// Terminal reports whether the order has reached processed or failed.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusProcessed || o.Status == OrderStatusFailed
}

func (o *Order) transition(from, to string) error {
	if o.Terminal() {
		return fmt.Errorf("order %s is terminal (%s), cannot move to %s", o.ID, o.Status, to)
	}
	if o.Status != from {
		return fmt.Errorf("order %s: invalid transition %s -> %s", o.ID, o.Status, to)
	}
	o.Status = to
	return nil
}

// MarkQueued records arrival at a dispatcher (pending -> queued).
func (o *Order) MarkQueued(nowS float64) error {
	if err := o.transition(OrderStatusPending, OrderStatusQueued); err != nil {
		return err
	}
	o.PlacedTimeS = ptr(nowS)
	return nil
}

// MarkDispatched records runner assignment (queued -> dispatched).
func (o *Order) MarkDispatched(nowS float64) error {
	if err := o.transition(OrderStatusQueued, OrderStatusDispatched); err != nil {
		return err
	}
	o.DispatchTimeS = ptr(nowS)
	return nil
}

// MarkPrepCompleted records the end of the prep wait. The order stays
// dispatched; delivery start follows immediately unless the final timeout
// check fails it first.
func (o *Order) MarkPrepCompleted(nowS float64) error {
	if o.Status != OrderStatusDispatched {
		return fmt.Errorf("order %s: prep completed while %s", o.ID, o.Status)
	}
	o.PrepCompletedTimeS = ptr(nowS)
	return nil
}

// MarkDeliveryStarted records outbound departure. In the single-leg delivery
// model this is the same instant prep completes.
func (o *Order) MarkDeliveryStarted(nowS float64) error {
	if o.Status != OrderStatusDispatched {
		return fmt.Errorf("order %s: delivery started while %s", o.ID, o.Status)
	}
	o.DeliveryStartedTimeS = ptr(nowS)
	return nil
}

// MarkProcessed records successful delivery (dispatched -> processed).
func (o *Order) MarkProcessed(nowS float64) error {
	if err := o.transition(OrderStatusDispatched, OrderStatusProcessed); err != nil {
		return err
	}
	o.DeliveredTimeS = ptr(nowS)
	return nil
}

// Fail moves a queued or dispatched order to the terminal failed state.
func (o *Order) Fail(reason string) error {
	if o.Terminal() {
		return fmt.Errorf("order %s is terminal (%s), cannot fail", o.ID, o.Status)
	}
	if o.Status != OrderStatusQueued && o.Status != OrderStatusDispatched && o.Status != OrderStatusPending {
		return fmt.Errorf("order %s: cannot fail while %s", o.ID, o.Status)
	}
	o.Status = OrderStatusFailed
	o.FailureReason = reason
	return nil
}

// QueueDelayS is dispatch minus placement; zero until both are set.
func (o *Order) QueueDelayS() float64 {
	if o.PlacedTimeS == nil || o.DispatchTimeS == nil {
		return 0
	}
	return *o.DispatchTimeS - *o.PlacedTimeS
}

// TotalCompletionTimeS is delivery minus placement; zero until delivered.
func (o *Order) TotalCompletionTimeS() float64 {
	if o.PlacedTimeS == nil || o.DeliveredTimeS == nil {
		return 0
	}
	return *o.DeliveredTimeS - *o.PlacedTimeS
}

// AssignOrderIDs sorts the stream by requested placement time and gives every
// order without an id a sequential one. Ids are zero-padded so lexical and
// numeric order agree for typical run sizes.
func AssignOrderIDs(orders []*Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderTimeS < orders[j].OrderTimeS
	})
	for i, o := range orders {
		if o.ID == "" {
			o.ID = fmt.Sprintf("%03d", i+1)
		}
	}
}

// DeliveryStats is the per-order record emitted for every processed order.
type DeliveryStats struct {
	OrderID              string  `json:"order_id"`
	GolferGroupID        string  `json:"golfer_group_id"`
	HoleNum              int     `json:"hole_num"`
	OrderTimeS           float64 `json:"order_time_s"`
	QueueDelayS          float64 `json:"queue_delay_s"`
	PrepTimeS            float64 `json:"prep_time_s"`
	DeliveryTimeS        float64 `json:"delivery_time_s"`
	ReturnTimeS          float64 `json:"return_time_s"`
	TotalDriveTimeS      float64 `json:"total_drive_time_s"`
	DeliveryDistanceM    float64 `json:"delivery_distance_m"`
	TotalCompletionTimeS float64 `json:"total_completion_time_s"`
	DeliveredAtTimeS     float64 `json:"delivered_at_time_s"`
	RunnerID             int     `json:"runner_id"`
}

// FailedOrder is the terminal record for orders that never completed.
type FailedOrder struct {
	OrderID       string  `json:"order_id"`
	GolferGroupID string  `json:"golfer_group_id"`
	HoleNum       int     `json:"hole_num"`
	OrderTimeS    float64 `json:"order_time_s"`
	FailureReason string  `json:"failure_reason"`
}

func ptr(v float64) *float64 { return &v }
