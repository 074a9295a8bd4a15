package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/hintscan/hintscan/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "hintscan"

	// DefaultConfigFile is the default configuration file name, searched
	// for in the current directory and then the user's home directory.
	DefaultConfigFile = ".hintscanrc"

	// DefaultTimeout bounds the fetch of a single target. One minute is
	// generous for slow servers while keeping CI runs from hanging.
	DefaultTimeout = 60 * time.Second

	// DefaultLanguage is the fallback when neither the CLI, the
	// configuration file, nor the OS locale yields a usable language tag.
	DefaultLanguage = "en"

	// PresetDevelopment is the configuration preset extended when every
	// target in a run uses the file: scheme.
	PresetDevelopment = "development"

	// PresetWebRecommended is the configuration preset extended for runs
	// against remote web targets.
	PresetWebRecommended = "web-recommended"

	// PresetAccessibility enables only the accessibility hints.
	PresetAccessibility = "accessibility"

	// ConnectorLocal reads targets from the local filesystem.
	ConnectorLocal = "local"

	// ConnectorHTTP fetches targets over HTTP(S).
	ConnectorHTTP = "http"
)

// Default formatter names. Under CI the default configuration carries
// both so machines and humans each get a readable stream.
const (
	FormatterSummary  = "summary"
	FormatterJSON     = "json"
	FormatterMarkdown = "markdown"
)

// Duration wraps time.Duration so timeouts in YAML configuration files
// can be written as "30s" or "2m".
type Duration time.Duration

// AsDuration returns the wrapped time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML parses a duration from a YAML scalar. Bare integers are
// interpreted as seconds so "timeout: 60" keeps working.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}
	var seconds int
	if err := node.Decode(&seconds); err == nil {
		*d = Duration(time.Duration(seconds) * time.Second)
		return nil
	}
	return fmt.Errorf("invalid duration %q", raw)
}

// MarshalYAML renders the duration in its canonical string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// HintConfig is the per-hint entry in a configuration file. YAML allows
// either a bare severity string or a [severity, options] sequence:
//
//	hints:
//	  content-type: error
//	  html-title: [warning, {require-lang: true}]
type HintConfig struct {
	// Severity is the level problems from this hint are reported at.
	// SeverityOff disables the hint.
	Severity model.Severity

	// Options carries hint-specific settings. Their shape is owned by
	// the individual hint; the orchestrator treats them as opaque and
	// never includes them in telemetry.
	Options map[string]any
}

// UnmarshalYAML decodes the scalar-or-sequence hint entry shape.
func (h *HintConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var raw string
		if err := node.Decode(&raw); err != nil {
			return err
		}
		sev, err := model.ParseSeverity(raw)
		if err != nil {
			return err
		}
		h.Severity = sev
		return nil
	}

	if node.Kind == yaml.SequenceNode {
		var parts []yaml.Node
		if err := node.Decode(&parts); err != nil {
			return err
		}
		if len(parts) == 0 || len(parts) > 2 {
			return fmt.Errorf("hint entry must be severity or [severity, options]")
		}
		var raw string
		if err := parts[0].Decode(&raw); err != nil {
			return err
		}
		sev, err := model.ParseSeverity(raw)
		if err != nil {
			return err
		}
		h.Severity = sev
		if len(parts) == 2 {
			if err := parts[1].Decode(&h.Options); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("invalid hint entry")
}

// MarshalYAML renders the compact scalar form when there are no options.
func (h HintConfig) MarshalYAML() (any, error) {
	if len(h.Options) == 0 {
		return h.Severity.String(), nil
	}
	return []any{h.Severity.String(), h.Options}, nil
}

// Config is the effective scan configuration for one run.
//
// A Config is mutable only while the resolver assembles it; once handed
// to the bootstrap step it must be treated as immutable. The resolver
// produces it, bootstrap and the telemetry gate consume it.
type Config struct {
	// Extends lists configuration presets this configuration builds on,
	// e.g. "web-recommended" or "development".
	Extends []string `yaml:"extends,omitempty"`

	// Connector selects how targets are fetched ("http" or "local").
	Connector string `yaml:"connector,omitempty"`

	// Formatters lists the output formatters to run on each target's
	// results, in order.
	Formatters []string `yaml:"formatters,omitempty"`

	// Hints maps hint IDs to their configured severity and options.
	Hints map[string]HintConfig `yaml:"hints,omitempty"`

	// Parsers lists resource parsers the engine should load.
	Parsers []string `yaml:"parsers,omitempty"`

	// Browserslist restricts findings to the listed browser targets.
	Browserslist []string `yaml:"browserslist,omitempty"`

	// Language is the BCP-47 tag used for user-facing messages.
	Language string `yaml:"language,omitempty"`

	// Timeout bounds the analysis of a single target.
	Timeout Duration `yaml:"timeout,omitempty"`
}

// NewConfig creates a Config with default values. The caller is expected
// to fill in Extends or Hints before the configuration is usable; see
// Default for the fully synthesized fallback.
func NewConfig() *Config {
	return &Config{
		Connector:  ConnectorHTTP,
		Formatters: []string{FormatterSummary},
		Hints:      make(map[string]HintConfig),
		Timeout:    Duration(DefaultTimeout),
	}
}

// Default synthesizes the fallback configuration for the given targets.
// All-file target lists extend the development preset with the local
// connector; anything else extends web-recommended over HTTP. Under CI
// the formatter list carries a machine-readable formatter next to the
// human-readable one because no interactive output is possible there.
//
// Callers must reject mixed local/remote target lists before asking for
// a default; Default assumes the check already happened.
func Default(targets []*model.Target) *Config {
	cfg := NewConfig()

	if model.AllLocal(targets) {
		cfg.Extends = []string{PresetDevelopment}
		cfg.Connector = ConnectorLocal
	} else {
		cfg.Extends = []string{PresetWebRecommended}
		cfg.Connector = ConnectorHTTP
	}

	if IsCI() {
		cfg.Formatters = []string{FormatterJSON, FormatterSummary}
	}

	return cfg
}

// XDGDataDir returns the XDG data directory for hintscan.
// On Linux: ~/.local/share/hintscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for hintscan.
// On Linux: ~/.config/hintscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks that the configuration is usable.
// It returns the first problem found; fixing one error often changes
// which later checks are relevant.
func (c *Config) Validate() error {
	if len(c.Extends) == 0 && len(c.Hints) == 0 {
		return ErrEmptyConfig
	}
	if c.Connector == "" {
		return ErrNoConnector
	}
	if len(c.Formatters) == 0 {
		return ErrNoFormatter
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Clone returns a deep copy of the configuration, for callers that
// need to adjust one without affecting the original.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Extends = append([]string(nil), c.Extends...)
	clone.Formatters = append([]string(nil), c.Formatters...)
	clone.Parsers = append([]string(nil), c.Parsers...)
	clone.Browserslist = append([]string(nil), c.Browserslist...)
	clone.Hints = make(map[string]HintConfig, len(c.Hints))
	for id, hc := range c.Hints {
		opts := make(map[string]any, len(hc.Options))
		for k, v := range hc.Options {
			opts[k] = v
		}
		if len(opts) == 0 {
			opts = nil
		}
		clone.Hints[id] = HintConfig{Severity: hc.Severity, Options: opts}
	}
	return &clone
}
