package config

import (
	"fmt"
	"time"

	"github.com/enersim/gridopt/core/optimizer"
)

// SolverConfig bounds the LP/MILP backend.
type SolverConfig struct {
	// TimeLimitSeconds caps one solve attempt; daily horizons at 15-60 minute
	// resolution should finish well inside the default.
	TimeLimitSeconds int `json:"time_limit_seconds"`
	// Tolerance is the simplex pivot tolerance.
	Tolerance float64 `json:"tolerance"`
	// MIPGap is the accepted relative optimality gap for the MILP branch.
	MIPGap float64 `json:"mip_gap"`
	// RelaxedMIPGap is used for the single retry after a timeout.
	RelaxedMIPGap float64 `json:"relaxed_mip_gap"`
}

// SetDefaults applies sane defaults.
func (c *SolverConfig) SetDefaults() {
	if c.TimeLimitSeconds == 0 {
		c.TimeLimitSeconds = 30
	}
	if c.Tolerance == 0 {
		c.Tolerance = 1e-7
	}
	if c.MIPGap == 0 {
		c.MIPGap = 1e-4
	}
	if c.RelaxedMIPGap == 0 {
		c.RelaxedMIPGap = 5e-2
	}
}

// Validate checks mandatory fields.
func (c SolverConfig) Validate() error {
	if c.TimeLimitSeconds < 0 {
		return fmt.Errorf("time_limit_seconds must be non-negative")
	}
	if c.RelaxedMIPGap < c.MIPGap {
		return fmt.Errorf("relaxed_mip_gap %g must not be tighter than mip_gap %g", c.RelaxedMIPGap, c.MIPGap)
	}
	return nil
}

// Options converts the configuration into solver options.
func (c SolverConfig) Options() optimizer.SolveOptions {
	return optimizer.SolveOptions{
		TimeLimit:  time.Duration(c.TimeLimitSeconds) * time.Second,
		Tolerance:  c.Tolerance,
		MIPGap:     c.MIPGap,
		RelaxedGap: c.RelaxedMIPGap,
	}
}
