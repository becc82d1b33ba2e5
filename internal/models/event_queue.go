package models

import (
	"container/heap"
	"sync"
)

// Event is one scheduled wake-up on the simulation clock. Fn runs when the
// clock reaches TimeS. Seq is the registration order and breaks ties between
// events scheduled for the same simulated instant, keeping runs deterministic.
type Event struct {
	TimeS float64
	Seq   uint64
	Fn    func(nowS float64)
}

// EventQueue is a priority queue of events ordered by (time, registration).
type EventQueue struct {
	events  eventHeap
	nextSeq uint64
	mutex   sync.Mutex
}

// eventHeap implements heap.Interface and holds Events
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].TimeS != h[j].TimeS {
		return h[i].TimeS < h[j].TimeS
	}
	return h[i].Seq < h[j].Seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// NewEventQueue creates an empty EventQueue.
func NewEventQueue() *EventQueue {
	return &EventQueue{events: make(eventHeap, 0)}
}

// Enqueue schedules fn at timeS and returns the event.
func (eq *EventQueue) Enqueue(timeS float64, fn func(nowS float64)) *Event {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	ev := &Event{TimeS: timeS, Seq: eq.nextSeq, Fn: fn}
	eq.nextSeq++
	heap.Push(&eq.events, ev)
	return ev
}

// Dequeue removes and returns the earliest event, or nil when empty.
func (eq *EventQueue) Dequeue() *Event {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	if len(eq.events) == 0 {
		return nil
	}
	return heap.Pop(&eq.events).(*Event)
}

// Peek returns the earliest event without removing it.
func (eq *EventQueue) Peek() *Event {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	if len(eq.events) == 0 {
		return nil
	}
	return eq.events[0]
}

// IsEmpty returns true if the queue is empty.
func (eq *EventQueue) IsEmpty() bool {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	return len(eq.events) == 0
}

// Len returns the number of events in the queue.
func (eq *EventQueue) Len() int {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	return len(eq.events)
}
