package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrRunNotFound = errors.New("no benchmark run recorded")

const UnitCycles = "cycles"

const (
	TotalCycles      = "total_cycles"
	UserCycles       = "user_cycles"
	ReadInputCycles  = "read_input_cycles"
	ValidationCycles = "validation_cycles"
)

// MetricOrder is the emission order of every output sink.
var MetricOrder = []string{TotalCycles, UserCycles, ReadInputCycles, ValidationCycles}

type Metric struct {
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Value int64  `json:"value"`
}

// MetricSet holds the validated metrics of one run in MetricOrder.
type MetricSet []Metric

func (s MetricSet) Get(name string) (int64, bool) {
	for _, m := range s {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

type RunRecord struct {
	RunID     string    `json:"run_id"`
	Timestamp int64     `json:"timestamp"`
	Source    string    `json:"source"`
	Metrics   MetricSet `json:"metrics"`
}

func NewRunRecord(source string, at time.Time, set MetricSet) RunRecord {
	return RunRecord{
		RunID:     uuid.NewString(),
		Timestamp: at.Unix(),
		Source:    source,
		Metrics:   set,
	}
}

type RunStore interface {
	Init() error
	StoreRun(ctx context.Context, run RunRecord) error
	GetRuns(ctx context.Context, startTime, endTime int64, limit, offset int) ([]RunRecord, error)
	LatestRun(ctx context.Context) (RunRecord, error)
	Close() error
}
