// Package optimizer computes cost- or emission-minimizing dispatch schedules
// across grid, PV, battery, diesel and hydrogen assets over a discretized
// horizon. Each run is a pure function of its request: the time grid, series
// and variable set are built fresh, solved and discarded, so independent runs
// may execute concurrently without shared state.
package optimizer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/enersim/gridopt/core/forecast"
	"github.com/enersim/gridopt/core/logger"
	"github.com/enersim/gridopt/core/model"
)

// Optimizer runs dispatch optimizations. It holds only solver options and a
// logger; no request state survives a call.
type Optimizer struct {
	driver *Driver
	log    logger.Logger
}

// New creates an Optimizer with the given solver options.
func New(opts SolveOptions, log logger.Logger) *Optimizer {
	return &Optimizer{driver: NewDriver(opts, log), log: log}
}

// Run executes one optimization: normalize inputs, build the model and
// objective, solve, extract. Errors follow the taxonomy in core/model; no
// partial dispatch is ever returned in place of a failure.
func (o *Optimizer) Run(ctx context.Context, req model.OptimizationRequest) (*model.OptimizationResult, error) {
	grid, err := req.Grid()
	if err != nil {
		return nil, err
	}
	return o.runOnGrid(ctx, grid, req)
}

// RunOnGrid behaves like Run but accepts a caller-built time grid, which
// allows horizons that are not whole days. The series in req are normalized
// onto the provided grid.
func (o *Optimizer) RunOnGrid(ctx context.Context, grid model.TimeGrid, req model.OptimizationRequest) (*model.OptimizationResult, error) {
	if grid.Intervals <= 0 || grid.Step <= 0 {
		return nil, &model.ValidationError{Field: "grid", Reason: "intervals and step must be positive"}
	}
	return o.runOnGrid(ctx, grid, req)
}

func (o *Optimizer) runOnGrid(ctx context.Context, grid model.TimeGrid, req model.OptimizationRequest) (*model.OptimizationResult, error) {
	objective, err := model.ParseObjective(string(req.Objective))
	if err != nil {
		return nil, err
	}
	if err := req.Assets.Validate(); err != nil {
		return nil, err
	}

	series, err := forecast.BuildSeries(grid, req)
	if err != nil {
		return nil, err
	}

	m, err := buildModel(grid, series, req)
	if err != nil {
		return nil, err
	}
	composeObjective(m, objective)

	o.log.Debugw("model assembled", map[string]any{
		"intervals":  grid.Intervals,
		"variables":  m.lay.numVars(),
		"equalities": len(m.eq),
		"binaries":   len(m.intCols),
	})

	start := time.Now()
	sol, err := o.driver.Solve(ctx, m)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	records, summary := extractResult(m, sol)
	res := &model.OptimizationResult{
		RunID:          uuid.NewString(),
		Status:         sol.status,
		Objective:      objective,
		ObjectiveValue: sol.obj,
		Records:        records,
		Summary:        summary,
		SolveDuration:  elapsed,
	}
	o.log.Infof("solve finished: status=%s objective=%s value=%.4f duration=%s",
		res.Status, res.Objective, res.ObjectiveValue, elapsed)
	return res, nil
}
