package model

// Problem represents one finding reported by a hint against a target.
// Problems are produced by the analyzer engine and consumed by the
// runner (for exit-status derivation) and the formatters.
type Problem struct {
	// HintID identifies the hint that produced this problem,
	// e.g. "content-type" or "html-title".
	HintID string `json:"hintId"`

	// Severity is the reported level of the problem, taken from the
	// effective configuration rather than hard-coded by the hint.
	Severity Severity `json:"severity"`

	// Message is the human-readable description of the problem.
	Message string `json:"message"`

	// Resource is the URL of the resource the problem was found in.
	// This is usually the target itself but may be a sub-resource.
	Resource string `json:"resource"`

	// Line and Column locate the problem within the resource when the
	// hint can provide a position. Zero values mean "whole resource".
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
}

// MaxSeverity returns the highest severity present in problems,
// or SeverityOff for an empty slice.
func MaxSeverity(problems []Problem) Severity {
	maxSev := SeverityOff
	for _, p := range problems {
		if p.Severity > maxSev {
			maxSev = p.Severity
		}
	}
	return maxSev
}

// CountBySeverity returns the number of problems at each severity.
func CountBySeverity(problems []Problem) map[Severity]int {
	counts := make(map[Severity]int)
	for _, p := range problems {
		counts[p.Severity]++
	}
	return counts
}
