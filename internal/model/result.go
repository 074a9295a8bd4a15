package model

import "time"

// TargetResult holds the outcome of analyzing a single target.
// It is produced by the runner when the engine reports the target's
// end event and consumed by the formatters.
type TargetResult struct {
	// Target is the normalized URL string of the analyzed target.
	Target string `json:"target"`

	// Problems are the findings reported for this target, in the order
	// the engine produced them.
	Problems []Problem `json:"problems"`

	// Started is the timestamp recorded when the target began analysis.
	Started time.Time `json:"started"`

	// Elapsed is the wall-clock duration between the target's start and
	// end events. Zero when no start event was recorded for the target,
	// which should not happen in normal operation.
	Elapsed time.Duration `json:"elapsed"`
}

// Failed reports whether this target produced at least one
// error-severity problem.
func (r *TargetResult) Failed() bool {
	return MaxSeverity(r.Problems) >= SeverityError
}
