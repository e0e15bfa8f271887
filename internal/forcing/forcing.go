// Package forcing defines the wire records exchanged over the coupling
// topics: climate forcings in, frost-number step results out. One forcing
// record drives exactly one model step.
package forcing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/couchcryptid/frost-number-service/internal/frost"
)

// Raw represents an unprocessed message from the source topic.
type Raw struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Record is one step's temperature forcing: the coldest- and warmest-month
// mean air temperatures in °C.
type Record struct {
	TimeMinC float64 `json:"time_min_c"`
	TimeMaxC float64 `json:"time_max_c"`
}

// Parse deserializes a Raw's value into a Record. Both temperature fields are
// required; a record missing either cannot drive a step and is rejected here
// rather than defaulted.
func Parse(raw Raw) (Record, error) {
	var rec struct {
		TimeMinC *float64 `json:"time_min_c"`
		TimeMaxC *float64 `json:"time_max_c"`
	}
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Record{}, fmt.Errorf("parse forcing: %w", err)
	}
	if rec.TimeMinC == nil {
		return Record{}, fmt.Errorf("parse forcing: missing time_min_c")
	}
	if rec.TimeMaxC == nil {
		return Record{}, fmt.Errorf("parse forcing: missing time_max_c")
	}
	return Record{TimeMinC: *rec.TimeMinC, TimeMaxC: *rec.TimeMaxC}, nil
}

// StepResult is the outcome of one model step, destined for the sink topic.
type StepResult struct {
	Step       int64                  `json:"step"`
	ModelTime  float64                `json:"model_time"`
	TimeUnits  string                 `json:"time_units"`
	Forcing    Record                 `json:"forcing"`
	Air        frost.DegreeDayIndices `json:"degree_days_air"`
	Surface    frost.DegreeDayIndices `json:"degree_days_surface"`
	Numbers    frost.FrostNumbers     `json:"frost_numbers"`
	ComputedAt time.Time              `json:"computed_at"`
}
