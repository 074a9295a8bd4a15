package engine

import (
	"fmt"
	"strings"
)

// ErrorStatus classifies an analyzer construction failure. The bootstrap
// state machine keys its recovery decision on this discriminant.
type ErrorStatus int

const (
	// StatusConfigurationError means the configuration itself is not
	// usable. Recoverable: the user may accept the computed default
	// configuration instead.
	StatusConfigurationError ErrorStatus = iota

	// StatusResourceError means packages the configuration depends on
	// are missing or incompatible. Recoverable: the user may accept a
	// one-shot installation of the listed packages.
	StatusResourceError

	// StatusHintError means the configuration names hints that do not
	// exist. Fatal: the user must edit the configuration by hand.
	StatusHintError

	// StatusConnectorError means the configured connector is unknown.
	// Fatal: the user must edit the configuration by hand.
	StatusConnectorError
)

// String returns a short name for the status, used in logs.
func (s ErrorStatus) String() string {
	switch s {
	case StatusConfigurationError:
		return "configuration-error"
	case StatusResourceError:
		return "resource-error"
	case StatusHintError:
		return "hint-error"
	case StatusConnectorError:
		return "connector-error"
	default:
		return "unknown"
	}
}

// HintResources describes unmet package dependencies attached to a
// resource error: packages that are absent entirely and packages that
// are present at an unusable version.
type HintResources struct {
	// Missing lists package names that are not installed.
	Missing []string

	// Incompatible lists package names installed at an incompatible
	// version. Recovery reinstalls them at their latest version.
	Incompatible []string
}

// AnalyzerError is the typed failure of analyzer construction. Only the
// construction boundary creates it; only the bootstrap state machine
// consumes it.
type AnalyzerError struct {
	// Status is the failure classification.
	Status ErrorStatus

	// Message is the human-readable description of the failure.
	Message string

	// Resources carries the unmet dependencies for StatusResourceError.
	Resources *HintResources

	// InvalidHints lists the offending hint IDs for StatusHintError.
	InvalidHints []string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *AnalyzerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Status.String()
}

// Unwrap returns the underlying cause.
func (e *AnalyzerError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates an AnalyzerError for unusable configuration.
func NewConfigurationError(message string, err error) *AnalyzerError {
	return &AnalyzerError{Status: StatusConfigurationError, Message: message, Err: err}
}

// NewResourceError creates an AnalyzerError carrying unmet dependencies.
func NewResourceError(resources *HintResources) *AnalyzerError {
	var parts []string
	if len(resources.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing packages: %s", strings.Join(resources.Missing, ", ")))
	}
	if len(resources.Incompatible) > 0 {
		parts = append(parts, fmt.Sprintf("incompatible packages: %s", strings.Join(resources.Incompatible, ", ")))
	}
	return &AnalyzerError{
		Status:    StatusResourceError,
		Message:   strings.Join(parts, "; "),
		Resources: resources,
	}
}

// NewHintError creates an AnalyzerError for unknown hint IDs.
func NewHintError(invalid []string) *AnalyzerError {
	return &AnalyzerError{
		Status:       StatusHintError,
		Message:      fmt.Sprintf("invalid hints: %s", strings.Join(invalid, ", ")),
		InvalidHints: invalid,
	}
}

// NewConnectorError creates an AnalyzerError for an unknown connector.
func NewConnectorError(name string) *AnalyzerError {
	return &AnalyzerError{
		Status:  StatusConnectorError,
		Message: fmt.Sprintf("invalid connector %q", name),
	}
}
