// Package events defines the event types emitted on the internal bus after
// each optimization run.
package events

import (
	"time"

	"github.com/enersim/gridopt/core/model"
)

// SolveCompleted is published once per finished run, whatever its status.
// Subscribers (metrics recorder, result publisher) consume it independently.
type SolveCompleted struct {
	Result   *model.OptimizationResult
	Finished time.Time
}
