package model

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports a malformed or misaligned input series. It is never
// retried and is surfaced immediately with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Reason)
}

// ConfigurationError reports invalid asset parameters, for example efficiency
// breakpoints that are not strictly increasing in power.
type ConfigurationError struct {
	Parameter string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Parameter, e.Reason)
}

// InfeasibleModelError indicates that no feasible dispatch exists for the
// requested horizon and asset configuration. It carries relaxation hints such
// as enabling curtailment or raising source capacities.
type InfeasibleModelError struct {
	Intervals int
	Step      time.Duration
	Hints     []string
}

func (e *InfeasibleModelError) Error() string {
	msg := fmt.Sprintf("no feasible dispatch for %d intervals of %s", e.Intervals, e.Step)
	if len(e.Hints) > 0 {
		msg += " (try: " + strings.Join(e.Hints, "; ") + ")"
	}
	return msg
}

// SolverTimeoutError indicates the solver exhausted its wall-clock budget
// without producing any solution, even after the relaxed-gap retry.
type SolverTimeoutError struct {
	Limit   time.Duration
	Retried bool
}

func (e *SolverTimeoutError) Error() string {
	if e.Retried {
		return fmt.Sprintf("solver produced no solution within %s after relaxed-gap retry", e.Limit)
	}
	return fmt.Sprintf("solver produced no solution within %s", e.Limit)
}
