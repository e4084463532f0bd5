package model

import (
	"fmt"
	"math"
	"time"
)

// Unlimited marks a grid exchange limit as unconstrained.
var Unlimited = math.Inf(1)

// TimeGrid discretizes the planning horizon into Intervals equal steps.
// It is created once per optimization run and owns no other state.
type TimeGrid struct {
	Start     time.Time
	Intervals int
	Step      time.Duration
}

// NewTimeGrid builds a grid of n steps starting at start.
func NewTimeGrid(start time.Time, n int, step time.Duration) TimeGrid {
	return TimeGrid{Start: start, Intervals: n, Step: step}
}

// StepHours returns the interval duration in hours, the unit used to convert
// power (kW) into energy (kWh).
func (g TimeGrid) StepHours() float64 { return g.Step.Hours() }

// TimeAt returns the timestamp at which interval t begins.
func (g TimeGrid) TimeAt(t int) time.Time {
	return g.Start.Add(time.Duration(t) * g.Step)
}

// HourOfDay returns the fractional hour of day at the midpoint of interval t.
// Weather archetype profiles are sampled at interval midpoints.
func (g TimeGrid) HourOfDay(t int) float64 {
	mid := g.TimeAt(t).Add(g.Step / 2)
	return float64(mid.Hour()) + float64(mid.Minute())/60 + float64(mid.Second())/3600
}

// SourceSeries holds the three aligned input sequences consumed by the model
// builder. All slices have length TimeGrid.Intervals.
type SourceSeries struct {
	LoadKW            []float64
	PriceEurKWh       []float64
	ExportPriceEurKWh []float64
	// SolarAvailability is the usable fraction of rated PV capacity, in [0,1].
	SolarAvailability []float64
}

// Validate checks that all sequences are aligned to n intervals.
func (s SourceSeries) Validate(n int) error {
	if len(s.LoadKW) != n {
		return &ValidationError{Field: "load", Reason: "series length does not match time grid"}
	}
	if len(s.PriceEurKWh) != n {
		return &ValidationError{Field: "price", Reason: "series length does not match time grid"}
	}
	if len(s.ExportPriceEurKWh) != n {
		return &ValidationError{Field: "export_price", Reason: "series length does not match time grid"}
	}
	if len(s.SolarAvailability) != n {
		return &ValidationError{Field: "solar", Reason: "series length does not match time grid"}
	}
	for t, v := range s.LoadKW {
		if v < 0 || math.IsNaN(v) {
			return &ValidationError{Field: "load", Reason: fmt.Sprintf("negative or NaN value at interval %d", t)}
		}
	}
	return nil
}
