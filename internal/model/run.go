package model

import "time"

// RunResult aggregates the per-target results of one analysis run.
// The runner produces it; the formatters and the exit-status derivation
// consume it.
type RunResult struct {
	// Results holds one entry per target, in completion order.
	Results []TargetResult `json:"results"`

	// Started is when the run began.
	Started time.Time `json:"started"`

	// Elapsed is the wall-clock duration of the whole run.
	Elapsed time.Duration `json:"elapsed"`
}

// Failed reports whether any target produced an error-severity problem.
// A failed run exits non-zero.
func (r *RunResult) Failed() bool {
	for i := range r.Results {
		if r.Results[i].Failed() {
			return true
		}
	}
	return false
}

// TotalProblems returns the number of problems across all targets.
func (r *RunResult) TotalProblems() int {
	total := 0
	for i := range r.Results {
		total += len(r.Results[i].Problems)
	}
	return total
}

// Counts returns the aggregate problem count per severity.
func (r *RunResult) Counts() map[Severity]int {
	counts := make(map[Severity]int)
	for i := range r.Results {
		for _, p := range r.Results[i].Problems {
			counts[p.Severity]++
		}
	}
	return counts
}
