package models

import "fmt"

const (
	ActivityServiceOpened      = "service_opened"
	ActivityOrderReceived      = "order_received"
	ActivityOrderQueued        = "order_queued"
	ActivityProcessingStart    = "processing_start"
	ActivityReturning          = "returning"
	ActivityDeliveryStart      = "delivery_start"
	ActivityDeliveryComplete   = "delivery_complete"
	ActivityOrderFailedTimeout = "order_failed_timeout"
	ActivityServiceClosed      = "service_closed"
)

// ActivityRecord is one timestamped entry in the run's activity stream.
// Optional fields are pointers or empty strings so the serialized form only
// carries what the activity actually knows.
type ActivityRecord struct {
	TimestampS    float64 `json:"timestamp_s"`
	TimeStr       string  `json:"time_str"`
	ActivityType  string  `json:"activity_type"`
	Description   string  `json:"description"`
	OrderID       string  `json:"order_id,omitempty"`
	Location      string  `json:"location,omitempty"`
	RunnerID      int     `json:"runner_id,omitempty"`
	OrdersInQueue *int    `json:"orders_in_queue,omitempty"`
}

// ActivityRecorder is the sink dispatchers write lifecycle records to.
type ActivityRecorder interface {
	Record(ActivityRecord)
}

// ActivityLog is the in-memory append-only recorder. An optional hook sees
// every record as it lands, which is how live output sinks (Kafka, NDJSON)
// tap the stream without the dispatchers knowing about them.
type ActivityLog struct {
	dayStartHour int
	records      []ActivityRecord
	hook         func(ActivityRecord)
}

// NewActivityLog renders time_str against a day starting at dayStartHour
// (e.g. 7 for a 07:00 clock epoch).
func NewActivityLog(dayStartHour int) *ActivityLog {
	return &ActivityLog{dayStartHour: dayStartHour}
}

// OnRecord registers a hook invoked synchronously for every append.
func (l *ActivityLog) OnRecord(fn func(ActivityRecord)) { l.hook = fn }

// Record stamps the human-readable clock time and appends.
func (l *ActivityLog) Record(rec ActivityRecord) {
	if rec.TimeStr == "" {
		rec.TimeStr = l.ClockString(rec.TimestampS)
	}
	l.records = append(l.records, rec)
	if l.hook != nil {
		l.hook(rec)
	}
}

// Records returns the stream in append order. Callers must not mutate it.
func (l *ActivityLog) Records() []ActivityRecord { return l.records }

func (l *ActivityLog) Len() int { return len(l.records) }

// ClockString renders simulated seconds as HH:MM:SS on the service-day clock.
func (l *ActivityLog) ClockString(tS float64) string {
	total := l.dayStartHour*3600 + int(tS)
	h := total / 3600 % 24
	m := total % 3600 / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// IntPtr is a convenience for the optional queue-depth field.
func IntPtr(v int) *int { return &v }
