package model

import "fmt"

// Severity represents the reported level of a problem.
// Severities are ordered: a problem with a higher severity is more
// urgent than one with a lower severity, and only SeverityError
// affects the process exit status.
//
// Design decision: We use iota-based constants rather than string
// constants for efficiency in comparisons and sorting. The String()
// method provides the canonical lowercase names used in configuration
// files and formatter output.
type Severity int

const (
	// SeverityOff disables a hint entirely. Problems are never reported
	// at this severity; it only appears in configuration.
	SeverityOff Severity = iota

	// SeverityHint indicates a suggestion with no direct impact.
	// Examples: a nicer meta tag, an optional optimization.
	SeverityHint

	// SeverityInformation indicates a purely informational finding.
	// These are reported for awareness and never affect the exit status.
	SeverityInformation

	// SeverityWarning indicates an issue that should be fixed but does
	// not fail the run on its own.
	SeverityWarning

	// SeverityError indicates a violation serious enough to fail the
	// run. Any target producing at least one error-severity problem
	// makes the whole run exit non-zero.
	SeverityError
)

// String returns the canonical lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityHint:
		return "hint"
	case SeverityInformation:
		return "information"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a configuration string into a Severity.
// It accepts the canonical lowercase names used in configuration files.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "off":
		return SeverityOff, nil
	case "hint":
		return SeverityHint, nil
	case "information":
		return SeverityInformation, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityOff, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalYAML implements yaml.Marshaler so severities round-trip through
// configuration files as their canonical names.
func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}
