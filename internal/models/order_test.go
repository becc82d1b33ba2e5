package models

import (
	"testing"
)

func TestOrderLifecycleHappyPath(t *testing.T) {
	o := NewOrder("group_01", "group_01_p1", 7, 120)
	if o.Status != OrderStatusPending {
		t.Fatalf("new order status = %q, want %q", o.Status, OrderStatusPending)
	}

	if err := o.MarkQueued(130); err != nil {
		t.Fatalf("MarkQueued: %v", err)
	}
	if err := o.MarkDispatched(150); err != nil {
		t.Fatalf("MarkDispatched: %v", err)
	}
	if err := o.MarkPrepCompleted(750); err != nil {
		t.Fatalf("MarkPrepCompleted: %v", err)
	}
	if err := o.MarkDeliveryStarted(750); err != nil {
		t.Fatalf("MarkDeliveryStarted: %v", err)
	}
	if err := o.MarkProcessed(950); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}

	if o.Status != OrderStatusProcessed {
		t.Fatalf("status = %q, want %q", o.Status, OrderStatusProcessed)
	}
	if got := o.QueueDelayS(); got != 20 {
		t.Fatalf("QueueDelayS = %v, want 20", got)
	}
	if got := o.TotalCompletionTimeS(); got != 820 {
		t.Fatalf("TotalCompletionTimeS = %v, want 820", got)
	}
}

func TestOrderInvalidTransitions(t *testing.T) {
	o := NewOrder("g", "g_p1", 3, 0)
	if err := o.MarkDispatched(10); err == nil {
		t.Fatal("MarkDispatched on pending order should fail")
	}
	if err := o.MarkProcessed(10); err == nil {
		t.Fatal("MarkProcessed on pending order should fail")
	}
	if o.Status != OrderStatusPending {
		t.Fatalf("failed transition mutated status to %q", o.Status)
	}
}

func TestOrderTerminalImmutable(t *testing.T) {
	o := NewOrder("g", "g_p1", 3, 0)
	if err := o.MarkQueued(5); err != nil {
		t.Fatalf("MarkQueued: %v", err)
	}
	if err := o.Fail(FailureQueueTimeout); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	if err := o.MarkDispatched(50); err == nil {
		t.Fatal("MarkDispatched on failed order should error")
	}
	if err := o.Fail(FailureServiceClosed); err == nil {
		t.Fatal("second Fail should error")
	}
	if o.FailureReason != FailureQueueTimeout {
		t.Fatalf("failure reason overwritten: %q", o.FailureReason)
	}
	if o.Status != OrderStatusFailed {
		t.Fatalf("status = %q, want %q", o.Status, OrderStatusFailed)
	}
}

func TestOrderFailFromDispatched(t *testing.T) {
	o := NewOrder("g", "g_p1", 12, 0)
	if err := o.MarkQueued(0); err != nil {
		t.Fatalf("MarkQueued: %v", err)
	}
	if err := o.MarkDispatched(30); err != nil {
		t.Fatalf("MarkDispatched: %v", err)
	}
	if err := o.Fail(FailureLateDeparture); err != nil {
		t.Fatalf("Fail from dispatched: %v", err)
	}
	if o.FailureReason != FailureLateDeparture {
		t.Fatalf("reason = %q, want %q", o.FailureReason, FailureLateDeparture)
	}
}

func TestOrderDerivedMetricsBeforeStamps(t *testing.T) {
	o := NewOrder("g", "g_p1", 5, 0)
	if got := o.QueueDelayS(); got != 0 {
		t.Fatalf("QueueDelayS before stamps = %v, want 0", got)
	}
	if got := o.TotalCompletionTimeS(); got != 0 {
		t.Fatalf("TotalCompletionTimeS before stamps = %v, want 0", got)
	}
}

func TestAssignOrderIDs(t *testing.T) {
	orders := []*Order{
		NewOrder("g2", "g2_p1", 4, 900),
		NewOrder("g1", "g1_p1", 2, 100),
		NewOrder("g3", "g3_p1", 9, 500),
	}
	AssignOrderIDs(orders)

	if orders[0].OrderTimeS != 100 || orders[1].OrderTimeS != 500 || orders[2].OrderTimeS != 900 {
		t.Fatalf("orders not sorted by time: %v %v %v",
			orders[0].OrderTimeS, orders[1].OrderTimeS, orders[2].OrderTimeS)
	}
	for i, want := range []string{"001", "002", "003"} {
		if orders[i].ID != want {
			t.Fatalf("order %d id = %q, want %q", i, orders[i].ID, want)
		}
	}
}

func TestAssignOrderIDsKeepsExisting(t *testing.T) {
	orders := []*Order{
		{GolferGroupID: "g1", HoleNum: 1, OrderTimeS: 50, ID: "custom"},
		NewOrder("g2", "g2_p1", 2, 10),
	}
	AssignOrderIDs(orders)
	if orders[1].ID != "custom" {
		t.Fatalf("existing id overwritten: %q", orders[1].ID)
	}
	if orders[0].ID != "001" {
		t.Fatalf("new id = %q, want 001", orders[0].ID)
	}
}
