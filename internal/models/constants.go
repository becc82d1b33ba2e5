package models

const (
	OrderStatusPending    = "pending"
	OrderStatusQueued     = "queued"
	OrderStatusDispatched = "dispatched"
	OrderStatusProcessed  = "processed"
	OrderStatusFailed     = "failed"
)

// Failure reasons are mutually exclusive: an order carries exactly one,
// and only while its status is OrderStatusFailed.
const (
	FailureQueueTimeout  = "queue timeout"
	FailureLateDeparture = "timed out before departure"
	FailureServiceClosed = "service closed"
)
