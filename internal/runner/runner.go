package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hintscan/hintscan/internal/config"
	"github.com/hintscan/hintscan/internal/engine"
	"github.com/hintscan/hintscan/internal/formatter"
	"github.com/hintscan/hintscan/internal/model"
)

// ErrNoTargets is returned when a run is started without any targets.
var ErrNoTargets = errors.New("no targets to analyze")

// AnalyzeTracker receives the single per-run usage event after the
// analysis completed. *telemetry.Gate satisfies it.
type AnalyzeTracker interface {
	TrackAnalyze(ctx context.Context, cfg *config.Config, durations map[string]float64)
}

// Runner executes one analysis run: analyze, collect, format, verdict.
type Runner struct {
	analyzer engine.Analyzer
	writer   formatter.Writer
	tracker  AnalyzeTracker
	status   io.Writer
	logger   *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithWriter sets the formatter the results are rendered with.
func WithWriter(w formatter.Writer) Option {
	return func(r *Runner) { r.writer = w }
}

// WithTracker sets the telemetry sink for the per-run usage event.
func WithTracker(tracker AnalyzeTracker) Option {
	return func(r *Runner) { r.tracker = tracker }
}

// WithStatus sets where live progress lines are written, typically
// os.Stderr. Without it progress is only logged.
func WithStatus(w io.Writer) Option {
	return func(r *Runner) { r.status = w }
}

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// withClock overrides the time source in tests.
func withClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New creates a Runner around a ready analyzer.
func New(analyzer engine.Analyzer, opts ...Option) *Runner {
	r := &Runner{
		analyzer: analyzer,
		status:   io.Discard,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run analyzes the targets and renders the results. The returned
// result's Failed method is the run verdict; Run itself errors only
// when the analysis or the output could not complete.
//
// The per-run usage event is emitted exactly once, after the analysis
// finished without error.
func (r *Runner) Run(ctx context.Context, cfg *config.Config, targets []*model.Target) (*model.RunResult, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	started := r.now()
	collector := newCollector(r.status, r.logger, r.now)

	r.logger.Info("analysis started", "targets", len(targets))

	if err := r.analyzer.Analyze(ctx, targets, collector.consume); err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	result := collector.result()
	result.Started = started
	result.Elapsed = r.now().Sub(started)

	r.logger.Info("analysis finished",
		"targets", len(result.Results),
		"problems", result.TotalProblems(),
		"failed", result.Failed(),
		"elapsed", result.Elapsed,
	)

	if r.writer != nil {
		if _, err := r.writer.Write(result); err != nil {
			return nil, fmt.Errorf("failed to write results: %w", err)
		}
	}

	if r.tracker != nil {
		r.tracker.TrackAnalyze(ctx, cfg, map[string]float64{
			"analysis-seconds": result.Elapsed.Seconds(),
			"targets":          float64(len(result.Results)),
		})
	}

	return result, nil
}
