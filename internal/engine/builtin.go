package engine

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hintscan/hintscan/internal/config"
	"github.com/hintscan/hintscan/internal/model"
)

// defaultConcurrency is the number of targets analyzed in parallel.
// Five keeps multi-target runs fast without hammering a single origin.
const defaultConcurrency = 5

// presets maps preset names to the hint severities they enable.
// Extending a preset enables its hints; explicit entries in the user's
// configuration override the preset severity per hint.
var presets = map[string]map[string]model.Severity{
	config.PresetWebRecommended: {
		"content-type":       model.SeverityError,
		"html-title":         model.SeverityWarning,
		"no-x-powered-by":    model.SeverityWarning,
		"disallowed-headers": model.SeverityWarning,
	},
	config.PresetDevelopment: {
		"html-title":      model.SeverityWarning,
		"no-x-powered-by": model.SeverityHint,
	},
	config.PresetAccessibility: {
		"html-title": model.SeverityError,
	},
}

// presetPackage returns the package that provides a preset. Presets are
// distributed as installable configuration packages; an unknown preset
// therefore surfaces as a missing package, not a typo error.
func presetPackage(name string) string {
	return "@hintscan/config-" + name
}

// DefaultBuilder constructs the built-in analyzer. Construction
// validates the configuration and classifies every failure so the
// bootstrap state machine can decide whether recovery is possible.
type DefaultBuilder struct {
	// Logger receives debug output during construction. Defaults to
	// slog.Default() when nil.
	Logger *slog.Logger
}

// Build validates cfg against the engine's capabilities and returns a
// ready Analyzer. Failures are always *AnalyzerError:
//
//   - unknown connector: connector error (fatal)
//   - unknown extends preset: resource error (recoverable by install)
//   - unknown hint ID: hint error (fatal)
//   - nothing to run: configuration error (recoverable by default substitution)
func (b *DefaultBuilder) Build(_ context.Context, cfg *config.Config) (Analyzer, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := newConnector(cfg.Connector, cfg.Timeout.AsDuration()); err != nil {
		return nil, NewConnectorError(cfg.Connector)
	}

	// Presets are installable packages; unknown ones are reported as
	// missing resources so the install recovery path can fetch them.
	var missing []string
	effective := make(map[string]model.Severity)
	for _, name := range cfg.Extends {
		preset, ok := presets[name]
		if !ok {
			missing = append(missing, presetPackage(name))
			continue
		}
		for id, sev := range preset {
			effective[id] = sev
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, NewResourceError(&HintResources{Missing: missing})
	}

	// User entries override preset severities and may enable hints the
	// presets left out. IDs the registry doesn't know are fatal.
	var invalid []string
	for id, hc := range cfg.Hints {
		if _, ok := builtinHints[id]; !ok {
			invalid = append(invalid, id)
			continue
		}
		effective[id] = hc.Severity
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, NewHintError(invalid)
	}

	// Drop disabled hints, then make sure something is left to run.
	enabled := make(map[string]model.Severity)
	for id, sev := range effective {
		if sev > model.SeverityOff {
			enabled[id] = sev
		}
	}
	if len(enabled) == 0 {
		return nil, NewConfigurationError("configuration enables no hints", nil)
	}

	connector, err := newConnector(cfg.Connector, cfg.Timeout.AsDuration())
	if err != nil {
		// Unreachable: the name was validated above.
		return nil, NewConnectorError(cfg.Connector)
	}

	logger.Debug("analyzer ready",
		"connector", connector.Name(),
		"hints", len(enabled),
	)

	return &builtinAnalyzer{
		connector:  connector,
		severities: enabled,
		logger:     logger,
	}, nil
}

// builtinAnalyzer runs the registered hints against targets.
type builtinAnalyzer struct {
	connector  Connector
	severities map[string]model.Severity
	logger     *slog.Logger
}

// Analyze fans out over the targets with a bounded concurrency limit.
// Progress events for different targets interleave; the sink must cope.
func (a *builtinAnalyzer) Analyze(ctx context.Context, targets []*model.Target, sink EventSink) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultConcurrency)

	for _, target := range targets {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			a.analyzeTarget(ctx, target, sink)
			return nil
		})
	}

	return g.Wait()
}

// analyzeTarget fetches one target and runs every enabled hint on it.
// Fetch failures are reported as error-severity problems rather than
// aborting the whole run; other targets keep going.
func (a *builtinAnalyzer) analyzeTarget(ctx context.Context, target *model.Target, sink EventSink) {
	id := target.String()
	sink(ProgressEvent{Kind: EventTargetStart, Target: id})
	sink(ProgressEvent{Kind: EventUpdate, Target: id, Message: "fetching"})

	resource, err := a.connector.Fetch(ctx, target)
	if err != nil {
		a.logger.Debug("fetch failed", "target", id, "error", err)
		sink(ProgressEvent{
			Kind:   EventTargetEnd,
			Target: id,
			Problems: []model.Problem{{
				HintID:   "connector",
				Severity: model.SeverityError,
				Message:  err.Error(),
				Resource: id,
			}},
		})
		return
	}

	sink(ProgressEvent{Kind: EventUpdate, Target: id, Message: "running hints"})

	var problems []model.Problem
	for hintID, sev := range a.severities {
		hint := builtinHints[hintID]
		for _, p := range hint.Check(resource) {
			p.Severity = sev
			problems = append(problems, p)
		}
	}

	// Deterministic output order regardless of map iteration.
	sort.Slice(problems, func(i, j int) bool {
		if problems[i].HintID != problems[j].HintID {
			return problems[i].HintID < problems[j].HintID
		}
		return problems[i].Message < problems[j].Message
	})

	a.logger.Debug("target analyzed",
		"target", id,
		"problems", len(problems),
	)
	sink(ProgressEvent{Kind: EventTargetEnd, Target: id, Problems: problems})
}

// KnownHintIDs returns the IDs in the built-in registry, sorted.
// The init command uses it to tell users what they can enable.
func KnownHintIDs() []string {
	ids := make([]string, 0, len(builtinHints))
	for id := range builtinHints {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// KnownPresets returns the preset names this engine ships, sorted.
func KnownPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
