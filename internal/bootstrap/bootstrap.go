package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hintscan/hintscan/internal/config"
	"github.com/hintscan/hintscan/internal/engine"
	"github.com/hintscan/hintscan/internal/installer"
	"github.com/hintscan/hintscan/internal/model"
	"github.com/hintscan/hintscan/internal/prompt"
)

// ResourceTracker receives the unmet-dependency report before an
// install recovery is offered. *telemetry.Gate satisfies it.
type ResourceTracker interface {
	TrackResources(ctx context.Context, resources *engine.HintResources)
}

// Bootstrapper drives analyzer construction with bounded recovery.
type Bootstrapper struct {
	builder   engine.Builder
	asker     prompt.Asker
	installer installer.Installer
	tracker   ResourceTracker
	logger    *slog.Logger
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithAsker sets the interactive asker for recovery consent. Without
// one, every recovery question is answered no.
func WithAsker(asker prompt.Asker) Option {
	return func(b *Bootstrapper) { b.asker = asker }
}

// WithInstaller sets the package installer used for resource recovery.
func WithInstaller(inst installer.Installer) Option {
	return func(b *Bootstrapper) { b.installer = inst }
}

// WithTracker sets the telemetry sink for unmet-dependency reports.
func WithTracker(tracker ResourceTracker) Option {
	return func(b *Bootstrapper) { b.tracker = tracker }
}

// WithLogger sets the bootstrapper's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bootstrapper) { b.logger = logger }
}

// New creates a Bootstrapper around the given analyzer builder.
func New(builder engine.Builder, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{builder: builder}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Result is the outcome of a successful bootstrap. Config is the
// configuration the analyzer was actually built from, which differs
// from the input when default substitution ran.
type Result struct {
	Analyzer engine.Analyzer
	Config   *config.Config

	// Substituted is true when the computed default configuration
	// replaced the user's configuration.
	Substituted bool

	// Installed is true when missing packages were installed.
	Installed bool
}

// Bootstrap builds an analyzer from cfg, attempting at most one default
// substitution and at most one package installation. Every attempted
// recovery requires interactive consent; a declined recovery returns
// the original construction error.
func (b *Bootstrapper) Bootstrap(ctx context.Context, cfg *config.Config, targets []*model.Target) (*Result, error) {
	result := &Result{Config: cfg}

	for {
		analyzer, err := b.builder.Build(ctx, result.Config)
		if err == nil {
			result.Analyzer = analyzer
			return result, nil
		}

		var aerr *engine.AnalyzerError
		if !errors.As(err, &aerr) {
			// Unclassified failures are surfaced locally only; they
			// never reach telemetry and never trigger recovery.
			b.logger.Error("analyzer construction failed", "error", err)
			return nil, fmt.Errorf("failed to create analyzer: %w", err)
		}

		b.logger.Debug("analyzer construction failed",
			"status", aerr.Status.String(),
			"message", aerr.Message,
		)

		switch aerr.Status {
		case engine.StatusConfigurationError:
			if result.Substituted {
				return nil, fmt.Errorf("default configuration is also unusable: %w", aerr)
			}
			if !b.ask("Invalid configuration. Use the default configuration instead?") {
				return nil, aerr
			}
			result.Config = config.Default(targets)
			result.Substituted = true

		case engine.StatusResourceError:
			if result.Installed {
				return nil, fmt.Errorf("packages still unmet after installation: %w", aerr)
			}
			if b.tracker != nil {
				b.tracker.TrackResources(ctx, aerr.Resources)
			}
			if !b.ask(installQuestion(aerr.Resources)) {
				return nil, aerr
			}
			if installErr := b.install(ctx, aerr.Resources); installErr != nil {
				// The unmet-dependency error stays in the chain so
				// callers can still classify the failure.
				return nil, fmt.Errorf("install failed (%v): %w", installErr, aerr)
			}
			result.Installed = true

		case engine.StatusHintError:
			return nil, fmt.Errorf("unknown hints %s: remove or correct them in the configuration: %w",
				strings.Join(aerr.InvalidHints, ", "), aerr)

		case engine.StatusConnectorError:
			return nil, fmt.Errorf("the configured connector is not available: %w", aerr)

		default:
			return nil, aerr
		}
	}
}

// ask poses a recovery question. Without an asker the answer is no, so
// non-interactive runs never mutate configuration or install packages.
func (b *Bootstrapper) ask(question string) bool {
	if b.asker == nil {
		return false
	}
	accepted, err := b.asker.Ask(question)
	if err != nil {
		b.logger.Debug("recovery prompt failed", "error", err)
		return false
	}
	return accepted
}

// install fetches the missing packages and reinstalls the incompatible
// ones at their latest version. Both must succeed for the recovery to
// count.
func (b *Bootstrapper) install(ctx context.Context, resources *engine.HintResources) error {
	if b.installer == nil {
		return errors.New("no package installer available")
	}
	if err := b.installer.Install(ctx, resources.Missing); err != nil {
		return fmt.Errorf("failed to install missing packages: %w", err)
	}
	if err := b.installer.InstallLatest(ctx, resources.Incompatible); err != nil {
		return fmt.Errorf("failed to update incompatible packages: %w", err)
	}
	return nil
}

// installQuestion describes what the install recovery is about to do.
func installQuestion(resources *engine.HintResources) string {
	var parts []string
	if len(resources.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("install %s", strings.Join(resources.Missing, ", ")))
	}
	if len(resources.Incompatible) > 0 {
		parts = append(parts, fmt.Sprintf("update %s to the latest version", strings.Join(resources.Incompatible, ", ")))
	}
	return fmt.Sprintf("Some packages are unmet. %s?", strings.Join(parts, " and "))
}
