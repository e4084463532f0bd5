package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/enersim/gridopt/core/metrics"
	"github.com/enersim/gridopt/core/model"
)

type fakeSink struct {
	solves     int
	dispatches int
	err        error
}

func (f *fakeSink) RecordSolve(coremetrics.SolveRecord) error {
	f.solves++
	return f.err
}

func (f *fakeSink) RecordDispatch(string, []model.DispatchRecord) error {
	f.dispatches++
	return f.err
}

// solveOnlySink does not implement DispatchRecorder.
type solveOnlySink struct{ solves int }

func (s *solveOnlySink) RecordSolve(coremetrics.SolveRecord) error {
	s.solves++
	return nil
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &fakeSink{}, &fakeSink{}
	m := NewMultiSink(a, b)

	require.NoError(t, m.RecordSolve(coremetrics.SolveRecord{}))
	require.NoError(t, m.RecordDispatch("run-1", nil))
	assert.Equal(t, 1, a.solves)
	assert.Equal(t, 1, b.solves)
	assert.Equal(t, 1, a.dispatches)
	assert.Equal(t, 1, b.dispatches)
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	a, b := &fakeSink{err: boom}, &fakeSink{}
	m := NewMultiSink(a, b)

	err := m.RecordSolve(coremetrics.SolveRecord{})
	require.ErrorIs(t, err, boom)
	// The healthy sink still received the record.
	assert.Equal(t, 1, b.solves)
}

func TestMultiSinkSkipsNonRecorders(t *testing.T) {
	a, b := &fakeSink{}, &solveOnlySink{}
	m := NewMultiSink(a, b)

	require.NoError(t, m.RecordDispatch("run-1", nil))
	assert.Equal(t, 1, a.dispatches)
	assert.Zero(t, b.solves)
}
