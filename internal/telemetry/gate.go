package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hintscan/hintscan/internal/config"
	"github.com/hintscan/hintscan/internal/engine"
	"github.com/hintscan/hintscan/internal/prompt"
)

// EnvTracking forces telemetry on or off for the process without
// persisting anything. Values: "on" or "off".
const EnvTracking = "HINTSCAN_TRACKING"

// Settings keys in the persistent store.
const (
	// keyEnabled records the consent decision. Absent means "never asked".
	keyEnabled = "telemetry.enabled"

	// keyAlreadyRun marks that hintscan has run at least once.
	keyAlreadyRun = "already.run"
)

// Status is the gate lifecycle state. A gate is constructed
// uninitialized, and Begin moves it to enabled or disabled for the rest
// of the run.
type Status int

const (
	// StatusUninitialized means Begin has not run; nothing is sent.
	StatusUninitialized Status = iota

	// StatusDisabled means telemetry is off for this run.
	StatusDisabled

	// StatusEnabled means events may be sent.
	StatusEnabled
)

// Settings is the slice of the persistent store the gate needs.
type Settings interface {
	GetBool(ctx context.Context, key string) (value, ok bool, err error)
	SetBool(ctx context.Context, key string, value bool) error
}

// Gate decides whether telemetry events are sent for one run and sends
// them. It is constructed once per process and passed explicitly to the
// bootstrap step and the runner rather than living in a global.
type Gate struct {
	settings  Settings
	asker     prompt.Asker
	transport Transport
	notices   io.Writer
	logger    *slog.Logger

	// isCI is swappable for tests; defaults to config.IsCI.
	isCI func() bool

	status    Status
	repeatRun bool
}

// Option configures a Gate.
type Option func(*Gate)

// WithAsker sets the interactive asker for the consent question.
func WithAsker(asker prompt.Asker) Option {
	return func(g *Gate) { g.asker = asker }
}

// WithTransport sets the event transport.
func WithTransport(transport Transport) Option {
	return func(g *Gate) { g.transport = transport }
}

// WithNotices sets where non-interactive notices are written,
// typically os.Stderr.
func WithNotices(w io.Writer) Option {
	return func(g *Gate) { g.notices = w }
}

// WithLogger sets the gate's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

// withCIDetector overrides CI detection in tests.
func withCIDetector(isCI func() bool) Option {
	return func(g *Gate) { g.isCI = isCI }
}

// NewGate creates a Gate over the given persistent settings.
// The gate starts uninitialized; call Begin before tracking anything.
func NewGate(settings Settings, opts ...Option) *Gate {
	g := &Gate{
		settings:  settings,
		transport: Noop{},
		notices:   io.Discard,
		isCI:      config.IsCI,
		status:    StatusUninitialized,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Status returns the gate's current lifecycle state.
func (g *Gate) Status() Status {
	return g.status
}

// RepeatRun reports whether this process is a repeat invocation.
// Meaningful only after Begin.
func (g *Gate) RepeatRun() bool {
	return g.repeatRun
}

// Begin runs the per-run consent state machine:
//
//  1. Read and set the first-run marker. The first run never blocks on
//     a prompt regardless of consent state.
//  2. Apply the HINTSCAN_TRACKING override if present.
//  3. If consent was never recorded: under CI print a notice and stay
//     disabled; otherwise, on a repeat run, ask interactively and
//     persist the answer. A fresh opt-in emits the "opt-in" event
//     before any other event.
//
// Store errors disable telemetry for the run rather than failing it.
// The environment override is honored even when the store is broken.
func (g *Gate) Begin(ctx context.Context) {
	override, hasOverride := trackingOverride()

	alreadyRun, _, err := g.settings.GetBool(ctx, keyAlreadyRun)
	if err != nil {
		g.logger.Debug("failed to read first-run marker", "error", err)
		if hasOverride {
			g.status = override
		} else {
			g.status = StatusDisabled
		}
		return
	}
	g.repeatRun = alreadyRun
	if !alreadyRun {
		if err := g.settings.SetBool(ctx, keyAlreadyRun, true); err != nil {
			g.logger.Debug("failed to persist first-run marker", "error", err)
		}
	}

	if hasOverride {
		g.status = override
		return
	}

	enabled, recorded, err := g.settings.GetBool(ctx, keyEnabled)
	if err != nil {
		g.logger.Debug("failed to read consent", "error", err)
		g.status = StatusDisabled
		return
	}

	if recorded {
		if enabled {
			g.status = StatusEnabled
		} else {
			g.status = StatusDisabled
		}
		return
	}

	// Consent was never recorded.
	if g.isCI() {
		fmt.Fprintf(g.notices, "Telemetry is disabled. Set %s=on or run hintscan interactively to opt in.\n", EnvTracking)
		g.status = StatusDisabled
		return
	}

	if !g.repeatRun {
		// First invocation: never prompt, leave consent unrecorded.
		g.status = StatusDisabled
		return
	}

	if g.asker == nil {
		g.status = StatusDisabled
		return
	}

	accepted, err := g.asker.Ask("Help improve hintscan by sending anonymous usage data?")
	if err != nil {
		g.logger.Debug("consent prompt failed", "error", err)
		g.status = StatusDisabled
		return
	}

	if err := g.settings.SetBool(ctx, keyEnabled, accepted); err != nil {
		g.logger.Debug("failed to persist consent", "error", err)
	}

	if accepted {
		g.status = StatusEnabled
		g.track(ctx, "opt-in", nil, nil)
	} else {
		g.status = StatusDisabled
	}
}

// trackingOverride reads the HINTSCAN_TRACKING variable. The second
// return is false when the variable is unset or carries another value.
func trackingOverride() (Status, bool) {
	switch os.Getenv(EnvTracking) {
	case "on":
		return StatusEnabled, true
	case "off":
		return StatusDisabled, true
	default:
		return StatusUninitialized, false
	}
}

// TrackAnalyze emits the single per-run "analyze" event carrying the
// pruned configuration projection and run measurements. The runner
// calls it exactly once, after all targets completed cleanly.
func (g *Gate) TrackAnalyze(ctx context.Context, cfg *config.Config, durations map[string]float64) {
	props := Projection(cfg)
	props["ci"] = g.isCI()
	props["repeat"] = g.repeatRun

	measurements := Measurements(cfg)
	for k, v := range durations {
		measurements[k] = v
	}

	g.track(ctx, "analyze", props, measurements)
}

// TrackResources emits package counts and names before an install
// recovery attempt. Package names identify public packages, not user
// content, so they are safe to send.
func (g *Gate) TrackResources(ctx context.Context, resources *engine.HintResources) {
	g.track(ctx, "missing-packages", map[string]any{
		"missing":      resources.Missing,
		"incompatible": resources.Incompatible,
	}, map[string]float64{
		"missing":      float64(len(resources.Missing)),
		"incompatible": float64(len(resources.Incompatible)),
	})
}

// track delivers one event when the gate is enabled. Transport failures
// are logged and swallowed; telemetry must never break a run.
func (g *Gate) track(ctx context.Context, name string, props map[string]any, measurements map[string]float64) {
	if g.status != StatusEnabled {
		return
	}
	if err := g.transport.Track(ctx, name, props, measurements); err != nil {
		g.logger.Debug("telemetry send failed", "event", name, "error", err)
	}
}
