package engine

import (
	"context"

	"github.com/hintscan/hintscan/internal/config"
	"github.com/hintscan/hintscan/internal/model"
)

// EventKind discriminates progress events emitted during analysis.
type EventKind int

const (
	// EventTargetStart marks the beginning of a target's analysis.
	EventTargetStart EventKind = iota

	// EventUpdate reports a textual status change for a target.
	EventUpdate

	// EventTargetEnd marks completion of a target and carries its
	// problems. It is the last event emitted for a target.
	EventTargetEnd
)

// ProgressEvent is one entry in the per-run progress stream. Targets may
// be analyzed concurrently, so events from different targets interleave;
// within one target the order is start, updates, end.
type ProgressEvent struct {
	// Kind is the event discriminant.
	Kind EventKind

	// Target is the normalized URL string of the target this event
	// belongs to.
	Target string

	// Message is the status text for EventUpdate events.
	Message string

	// Problems carries the target's findings on EventTargetEnd.
	Problems []model.Problem
}

// EventSink receives progress events. Implementations must be safe for
// concurrent calls because targets are analyzed in parallel.
type EventSink func(ProgressEvent)

// Analyzer is a ready-to-run analysis engine.
type Analyzer interface {
	// Analyze runs every configured hint against every target, emitting
	// progress events to sink as it goes. It returns an error only when
	// the run itself breaks (for example context cancellation); hint
	// findings and per-target fetch failures are reported as problems,
	// not errors.
	Analyze(ctx context.Context, targets []*model.Target, sink EventSink) error
}

// Builder constructs a ready Analyzer from an effective configuration.
// Construction validates the configuration against the engine's actual
// capabilities and fails with an *AnalyzerError describing what is wrong
// and whether it is recoverable.
type Builder interface {
	Build(ctx context.Context, cfg *config.Config) (Analyzer, error)
}
