// Package pwl converts device efficiency breakpoints into the linear segment
// form used by the optimization model. Hydrogen flow becomes a sum of
// per-segment auxiliary variables, each capped by its segment width, which is
// exact for concave production and convex consumption curves without any
// integer machinery.
package pwl

import (
	"fmt"

	"github.com/enersim/gridopt/core/model"
)

// Segment is one linear piece of a device curve. Slope is the hydrogen flow
// rate in kg/h contributed per kW of power routed through the segment.
type Segment struct {
	WidthKW float64
	Slope   float64
}

// Curve is the piecewise-linear hydrogen flow model of a device.
type Curve struct {
	Segments []Segment
	RatedKW  float64
}

// NewProductionCurve models an electrolyzer: power in, hydrogen out at
// eff/LHV kg/h per kW. Diminishing returns require the efficiencies to be
// non-increasing across breakpoints, which makes total production concave and
// the segment-sum encoding exact under maximization pressure.
func NewProductionCurve(bps []model.EfficiencyBreakpoint, lhvKWhKg float64, param string) (Curve, error) {
	if err := validate(bps, lhvKWhKg, param); err != nil {
		return Curve{}, err
	}
	c := Curve{Segments: make([]Segment, len(bps)), RatedKW: bps[len(bps)-1].PowerKW}
	prev := 0.0
	for i, bp := range bps {
		c.Segments[i] = Segment{WidthKW: bp.PowerKW - prev, Slope: bp.Efficiency / lhvKWhKg}
		prev = bp.PowerKW
	}
	for i := 1; i < len(c.Segments); i++ {
		if c.Segments[i].Slope > c.Segments[i-1].Slope+1e-12 {
			return Curve{}, &model.ConfigurationError{
				Parameter: param,
				Reason:    fmt.Sprintf("efficiency rises between breakpoints %d and %d; non-concave curves need a binary per-segment encoding", i-1, i),
			}
		}
	}
	return c, nil
}

// NewConsumptionCurve models a fuel cell: hydrogen in at 1/(eff*LHV) kg/h per
// kW of electrical output. Efficiencies must be non-increasing so that
// consumption is convex and the solver fills the cheapest segments first.
func NewConsumptionCurve(bps []model.EfficiencyBreakpoint, lhvKWhKg float64, param string) (Curve, error) {
	if err := validate(bps, lhvKWhKg, param); err != nil {
		return Curve{}, err
	}
	c := Curve{Segments: make([]Segment, len(bps)), RatedKW: bps[len(bps)-1].PowerKW}
	prev := 0.0
	for i, bp := range bps {
		c.Segments[i] = Segment{WidthKW: bp.PowerKW - prev, Slope: 1 / (bp.Efficiency * lhvKWhKg)}
		prev = bp.PowerKW
	}
	for i := 1; i < len(c.Segments); i++ {
		if c.Segments[i].Slope < c.Segments[i-1].Slope-1e-12 {
			return Curve{}, &model.ConfigurationError{
				Parameter: param,
				Reason:    fmt.Sprintf("efficiency rises between breakpoints %d and %d; non-convex consumption needs a binary per-segment encoding", i-1, i),
			}
		}
	}
	return c, nil
}

// RateAt evaluates the piecewise flow rate at power p, clamped to the rated
// power. Used by result verification and tests; the optimizer encodes the
// same function through segment variables.
func (c Curve) RateAt(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p > c.RatedKW {
		p = c.RatedKW
	}
	rate := 0.0
	for _, s := range c.Segments {
		take := p
		if take > s.WidthKW {
			take = s.WidthKW
		}
		rate += take * s.Slope
		p -= take
		if p <= 0 {
			break
		}
	}
	return rate
}

func validate(bps []model.EfficiencyBreakpoint, lhvKWhKg float64, param string) error {
	if len(bps) == 0 {
		return &model.ConfigurationError{Parameter: param, Reason: "at least one breakpoint required"}
	}
	if lhvKWhKg <= 0 {
		return &model.ConfigurationError{Parameter: param, Reason: "lower heating value must be positive"}
	}
	prev := 0.0
	for i, bp := range bps {
		if bp.PowerKW <= prev {
			return &model.ConfigurationError{Parameter: param, Reason: fmt.Sprintf("breakpoint powers must be strictly increasing (index %d)", i)}
		}
		if bp.Efficiency <= 0 {
			return &model.ConfigurationError{Parameter: param, Reason: fmt.Sprintf("efficiency must be positive (index %d)", i)}
		}
		prev = bp.PowerKW
	}
	return nil
}
