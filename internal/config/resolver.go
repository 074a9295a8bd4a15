package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/hintscan/hintscan/internal/model"
)

// Environment variables that override configuration-file values.
// Overrides win over the file but lose to explicit CLI flags, which are
// applied after them.
const (
	EnvConnector  = "HINTSCAN_CONNECTOR"
	EnvFormatters = "HINTSCAN_FORMATTERS"
	EnvLanguage   = "HINTSCAN_LANGUAGE"
	EnvTimeout    = "HINTSCAN_TIMEOUT"
)

// CLIOptions carries the flag values relevant to configuration
// resolution. Zero values mean "not given"; cobra's Changed tracking in
// the command layer only fills fields the user set explicitly.
type CLIOptions struct {
	// ConfigPath is the --config flag. When set and the file is
	// missing, resolution fails instead of falling back to a default.
	ConfigPath string

	// Formatters is the --formatters flag (explicit formatter list).
	Formatters []string

	// Hints is the --hints flag, restricting the run to the listed
	// hint IDs.
	Hints []string

	// Language is the --language flag.
	Language string

	// Timeout is the --timeout flag.
	Timeout time.Duration
}

// Resolve produces the effective configuration for a run.
//
// It never fails just because no configuration file exists — a computed
// default is substituted instead. It does fail for mixed local/remote
// target lists (a usage error, checked before any default is chosen),
// for an explicitly given config path that does not exist, and for
// files that exist but do not parse.
//
// Precedence, lowest to highest: configuration file (or computed
// default), environment overrides, explicit CLI flags.
func Resolve(opts CLIOptions, targets []*model.Target) (*Config, error) {
	if model.Mixed(targets) {
		return nil, ErrMixedTargets
	}

	cfg, err := loadOrDefault(opts.ConfigPath, targets)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	applyCLIOptions(cfg, opts)

	cfg.Language = resolveLanguage(opts.Language, cfg.Language)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadOrDefault loads the discovered configuration file or synthesizes
// the computed default when none exists.
func loadOrDefault(configPath string, targets []*model.Target) (*Config, error) {
	path := FindFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return Default(targets), nil
	}

	cfg, err := LoadFile(path)
	if err != nil {
		// Parse and schema failures are fatal here; only a truly absent
		// configuration falls back to the default.
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides merges environment-variable overrides onto cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvConnector); v != "" {
		cfg.Connector = v
	}
	if v := os.Getenv(EnvFormatters); v != "" {
		cfg.Formatters = splitList(v)
	}
	if v := os.Getenv(EnvLanguage); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("ignoring invalid timeout override",
				"variable", EnvTimeout,
				"value", v,
				"error", err,
			)
		} else {
			cfg.Timeout = Duration(d)
		}
	}
}

// applyCLIOptions merges explicit CLI flags onto cfg. Flags are the
// highest-precedence source.
func applyCLIOptions(cfg *Config, opts CLIOptions) {
	if len(opts.Formatters) > 0 {
		cfg.Formatters = opts.Formatters
	}
	if opts.Timeout > 0 {
		cfg.Timeout = Duration(opts.Timeout)
	}
	if len(opts.Hints) > 0 {
		restrictHints(cfg, opts.Hints)
	}
}

// restrictHints narrows the run to exactly the given hint IDs. IDs that
// have no configuration entry are enabled at warning severity; whether
// they exist at all is the engine's call, and unknown IDs surface later
// as a HintError. Presets are dropped so they cannot re-enable hints
// outside the requested subset.
func restrictHints(cfg *Config, ids []string) {
	restricted := make(map[string]HintConfig, len(ids))
	for _, id := range ids {
		if hc, ok := cfg.Hints[id]; ok {
			restricted[id] = hc
			continue
		}
		restricted[id] = HintConfig{Severity: model.SeverityWarning}
	}
	cfg.Hints = restricted
	cfg.Extends = nil
}

// resolveLanguage picks the effective language for the run.
// Order: explicit CLI flag > configuration value > OS locale. The first
// match wins; there is no merging of region and base language across
// sources. Tags are canonicalized through BCP-47 parsing so "en_US"
// and "en-us" both resolve to "en-US".
func resolveLanguage(cliLang, configLang string) string {
	for _, candidate := range []string{cliLang, configLang, systemLocale()} {
		if candidate == "" {
			continue
		}
		if tag, err := language.Parse(candidate); err == nil {
			return tag.String()
		}
	}
	return DefaultLanguage
}

// systemLocale reads the OS default locale from the usual environment
// variables, stripping any charset suffix ("en_US.UTF-8" -> "en_US").
func systemLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(name)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexByte(v, '.'); i >= 0 {
			v = v[:i]
		}
		return v
	}
	return ""
}

// splitList splits a comma-separated environment value into a clean
// string slice.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
