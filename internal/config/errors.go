package config

import "errors"

// Configuration resolution errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at each call site. This allows callers to
// use errors.Is() for programmatic handling while still providing
// human-readable messages.
var (
	// ErrMixedTargets is returned when one run mixes file: targets with
	// web targets. The two need different connectors and different
	// default configurations, so this is a usage error checked before
	// any default is chosen.
	ErrMixedTargets = errors.New("local (file://) and remote targets cannot be mixed in one run")

	// ErrConfigNotFound is returned when an explicitly specified
	// configuration file does not exist. Discovery failures without an
	// explicit path fall back to the computed default instead.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrEmptyConfig is returned when a configuration has neither
	// presets to extend nor hints of its own.
	ErrEmptyConfig = errors.New("configuration declares no presets and no hints")

	// ErrNoConnector is returned when no connector is configured.
	ErrNoConnector = errors.New("no connector configured")

	// ErrNoFormatter is returned when no formatter is configured.
	// Without one, results would be computed and silently dropped.
	ErrNoFormatter = errors.New("no formatter configured")

	// ErrInvalidTimeout is returned for negative timeouts.
	// Use 0 for the default timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")
)
