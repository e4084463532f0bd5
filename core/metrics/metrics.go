package metrics

import (
	"time"

	"github.com/enersim/gridopt/core/model"
)

// SolveRecord summarizes one optimization run for observability sinks.
type SolveRecord struct {
	RunID            string
	Objective        model.Objective
	Status           model.SolveStatus
	Intervals        int
	ObjectiveValue   float64
	TotalCostEur     float64
	TotalEmissionsKg float64
	CurtailedKWh     float64
	Duration         time.Duration
	Time             time.Time
}

// MetricsSink records solve outcomes.
type MetricsSink interface {
	RecordSolve(rec SolveRecord) error
}

// DispatchRecorder persists the per-interval dispatch of a run. Implemented
// by sinks that feed time-series stores for "energy mix over time" views.
type DispatchRecorder interface {
	RecordDispatch(runID string, records []model.DispatchRecord) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordSolve(SolveRecord) error { return nil }

func (NopSink) RecordDispatch(string, []model.DispatchRecord) error { return nil }
