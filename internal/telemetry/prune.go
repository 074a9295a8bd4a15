package telemetry

import (
	"sort"

	"github.com/hintscan/hintscan/internal/config"
)

// Projection reduces a configuration to the fields that are safe to
// transmit: preset names, connector and formatter names, the
// hint-ID-to-severity map, parser names, and the language tag.
//
// Hint options are deliberately dropped: they are user-supplied and may
// embed URLs, paths, or credentials. Targets never appear here at all.
func Projection(cfg *config.Config) map[string]any {
	hints := make(map[string]string, len(cfg.Hints))
	for id, hc := range cfg.Hints {
		hints[id] = hc.Severity.String()
	}

	return map[string]any{
		"extends":    sortedCopy(cfg.Extends),
		"connector":  cfg.Connector,
		"formatters": sortedCopy(cfg.Formatters),
		"hints":      hints,
		"parsers":    sortedCopy(cfg.Parsers),
		"language":   cfg.Language,
	}
}

// Measurements returns the numeric projection of a configuration.
func Measurements(cfg *config.Config) map[string]float64 {
	return map[string]float64{
		"timeout": cfg.Timeout.AsDuration().Seconds(),
	}
}

// sortedCopy returns a sorted copy so payloads are stable regardless of
// declaration order.
func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
