package output

import (
	"fmt"

	"github.com/xitongsys/parquet-go/schema"
)

// ActivityEventRow mirrors models.ActivityRecord for columnar output.
type ActivityEventRow struct {
	TimestampS    float64 `json:"timestamp_s" parquet:"name=timestamp_s,type=DOUBLE"`
	TimeStr       string  `json:"time_str" parquet:"name=time_str,type=BYTE_ARRAY,convertedtype=UTF8"`
	ActivityType  string  `json:"activity_type" parquet:"name=activity_type,type=BYTE_ARRAY,convertedtype=UTF8"`
	Description   string  `json:"description" parquet:"name=description,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderID       string  `json:"order_id,omitempty" parquet:"name=order_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	Location      string  `json:"location,omitempty" parquet:"name=location,type=BYTE_ARRAY,convertedtype=UTF8"`
	RunnerID      int32   `json:"runner_id,omitempty" parquet:"name=runner_id,type=INT32"`
	OrdersInQueue *int32  `json:"orders_in_queue,omitempty" parquet:"name=orders_in_queue,type=INT32,repetitiontype=OPTIONAL"`
}

// DeliveryStatsRow mirrors models.DeliveryStats for columnar output.
type DeliveryStatsRow struct {
	OrderID              string  `json:"order_id" parquet:"name=order_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	GolferGroupID        string  `json:"golfer_group_id" parquet:"name=golfer_group_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	HoleNum              int32   `json:"hole_num" parquet:"name=hole_num,type=INT32"`
	OrderTimeS           float64 `json:"order_time_s" parquet:"name=order_time_s,type=DOUBLE"`
	QueueDelayS          float64 `json:"queue_delay_s" parquet:"name=queue_delay_s,type=DOUBLE"`
	PrepTimeS            float64 `json:"prep_time_s" parquet:"name=prep_time_s,type=DOUBLE"`
	DeliveryTimeS        float64 `json:"delivery_time_s" parquet:"name=delivery_time_s,type=DOUBLE"`
	ReturnTimeS          float64 `json:"return_time_s" parquet:"name=return_time_s,type=DOUBLE"`
	TotalDriveTimeS      float64 `json:"total_drive_time_s" parquet:"name=total_drive_time_s,type=DOUBLE"`
	DeliveryDistanceM    float64 `json:"delivery_distance_m" parquet:"name=delivery_distance_m,type=DOUBLE"`
	TotalCompletionTimeS float64 `json:"total_completion_time_s" parquet:"name=total_completion_time_s,type=DOUBLE"`
	DeliveredAtTimeS     float64 `json:"delivered_at_time_s" parquet:"name=delivered_at_time_s,type=DOUBLE"`
	RunnerID             int32   `json:"runner_id" parquet:"name=runner_id,type=INT32"`
}

// FailedOrderRow mirrors models.FailedOrder for columnar output.
type FailedOrderRow struct {
	OrderID       string  `json:"order_id" parquet:"name=order_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	GolferGroupID string  `json:"golfer_group_id" parquet:"name=golfer_group_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	HoleNum       int32   `json:"hole_num" parquet:"name=hole_num,type=INT32"`
	OrderTimeS    float64 `json:"order_time_s" parquet:"name=order_time_s,type=DOUBLE"`
	FailureReason string  `json:"failure_reason" parquet:"name=failure_reason,type=BYTE_ARRAY,convertedtype=UTF8"`
}

func GetSchema(topic string) (*schema.SchemaHandler, error) {
	var sh *schema.SchemaHandler
	var err error

	switch topic {
	case "activity_events":
		sh, err = schema.NewSchemaHandlerFromStruct(new(ActivityEventRow))
	case "delivery_stats":
		sh, err = schema.NewSchemaHandlerFromStruct(new(DeliveryStatsRow))
	case "failed_orders":
		sh, err = schema.NewSchemaHandlerFromStruct(new(FailedOrderRow))
	default:
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating schema for %s: %w", topic, err)
	}
	return sh, nil
}
