package metrics

import (
	"errors"

	coremetrics "github.com/enersim/gridopt/core/metrics"
	"github.com/enersim/gridopt/core/model"
)

// MultiSink fans records out to several sinks, joining their errors.
type MultiSink struct {
	sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink from the given sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordSolve forwards the record to every sink.
func (m *MultiSink) RecordSolve(rec coremetrics.SolveRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordSolve(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordDispatch forwards the dispatch to every sink implementing
// DispatchRecorder.
func (m *MultiSink) RecordDispatch(runID string, records []model.DispatchRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if rec, ok := s.(coremetrics.DispatchRecorder); ok {
			if err := rec.RecordDispatch(runID, records); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
