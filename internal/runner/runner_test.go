package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hintscan/hintscan/internal/config"
	"github.com/hintscan/hintscan/internal/engine"
	"github.com/hintscan/hintscan/internal/model"
)

// scriptedAnalyzer replays a fixed event sequence through the sink.
type scriptedAnalyzer struct {
	events []engine.ProgressEvent
	err    error
}

func (a *scriptedAnalyzer) Analyze(_ context.Context, _ []*model.Target, sink engine.EventSink) error {
	for _, ev := range a.events {
		sink(ev)
	}
	return a.err
}

// countingTracker records TrackAnalyze invocations.
type countingTracker struct {
	mu        sync.Mutex
	calls     int
	durations map[string]float64
}

func (c *countingTracker) TrackAnalyze(_ context.Context, _ *config.Config, durations map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.durations = durations
}

// recordingWriter captures the result it was asked to render.
type recordingWriter struct {
	result *model.RunResult
	err    error
}

func (w *recordingWriter) Write(result *model.RunResult) (int, error) {
	w.result = result
	return 0, w.err
}

// stepClock returns times advancing by a fixed step per call.
func stepClock(step time.Duration) func() time.Time {
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	var mu sync.Mutex
	var calls int
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return base.Add(time.Duration(calls) * step)
	}
}

func testTargets(t *testing.T, raw ...string) []*model.Target {
	t.Helper()
	targets := make([]*model.Target, len(raw))
	for i, r := range raw {
		target, err := model.ParseTarget(r)
		if err != nil {
			t.Fatal(err)
		}
		targets[i] = target
	}
	return targets
}

func TestRunZeroTargets(t *testing.T) {
	t.Parallel()

	r := New(&scriptedAnalyzer{})
	if _, err := r.Run(context.Background(), config.NewConfig(), nil); !errors.Is(err, ErrNoTargets) {
		t.Errorf("expected ErrNoTargets, got %v", err)
	}
}

func TestRunCollectsResults(t *testing.T) {
	t.Parallel()

	problems := []model.Problem{{
		HintID:   "html-title",
		Severity: model.SeverityWarning,
		Message:  "page should have a non-empty <title>",
	}}
	analyzer := &scriptedAnalyzer{events: []engine.ProgressEvent{
		{Kind: engine.EventTargetStart, Target: "https://a.test/"},
		{Kind: engine.EventUpdate, Target: "https://a.test/", Message: "fetching"},
		{Kind: engine.EventTargetEnd, Target: "https://a.test/", Problems: problems},
	}}
	writer := &recordingWriter{}
	r := New(analyzer, WithWriter(writer))

	result, err := r.Run(context.Background(), config.NewConfig(), testTargets(t, "https://a.test/"))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(result.Results))
	}
	if result.Results[0].Target != "https://a.test/" {
		t.Errorf("unexpected target: %s", result.Results[0].Target)
	}
	if len(result.Results[0].Problems) != 1 {
		t.Errorf("expected one problem, got %d", len(result.Results[0].Problems))
	}
	if result.Failed() {
		t.Error("warnings alone must not fail the run")
	}
	if writer.result != result {
		t.Error("expected the writer to receive the run result")
	}
}

func TestRunFailsOnErrorSeverity(t *testing.T) {
	t.Parallel()

	analyzer := &scriptedAnalyzer{events: []engine.ProgressEvent{
		{Kind: engine.EventTargetStart, Target: "https://a.test/"},
		{Kind: engine.EventTargetEnd, Target: "https://a.test/", Problems: []model.Problem{
			{HintID: "content-type", Severity: model.SeverityError, Message: "missing header"},
		}},
	}}
	r := New(analyzer)

	result, err := r.Run(context.Background(), config.NewConfig(), testTargets(t, "https://a.test/"))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Failed() {
		t.Error("expected an error-severity problem to fail the run")
	}
}

// TestRunPerTargetTiming verifies each target's elapsed time is
// measured from its own start event even when completions interleave.
func TestRunPerTargetTiming(t *testing.T) {
	t.Parallel()

	// Event order: a starts, b starts, b ends, a ends. With a stepping
	// clock, a spans more ticks than b.
	analyzer := &scriptedAnalyzer{events: []engine.ProgressEvent{
		{Kind: engine.EventTargetStart, Target: "https://a.test/"},
		{Kind: engine.EventTargetStart, Target: "https://b.test/"},
		{Kind: engine.EventTargetEnd, Target: "https://b.test/"},
		{Kind: engine.EventTargetEnd, Target: "https://a.test/"},
	}}
	step := 10 * time.Millisecond
	r := New(analyzer, withClock(stepClock(step)))

	result, err := r.Run(context.Background(), config.NewConfig(), testTargets(t, "https://a.test/", "https://b.test/"))
	if err != nil {
		t.Fatal(err)
	}

	byTarget := make(map[string]model.TargetResult, len(result.Results))
	for _, tr := range result.Results {
		byTarget[tr.Target] = tr
	}

	a, b := byTarget["https://a.test/"], byTarget["https://b.test/"]
	if a.Elapsed == 0 || b.Elapsed == 0 {
		t.Fatalf("expected nonzero elapsed times, got a=%v b=%v", a.Elapsed, b.Elapsed)
	}
	if b.Elapsed >= a.Elapsed {
		t.Errorf("expected b to be faster than a, got a=%v b=%v", a.Elapsed, b.Elapsed)
	}
}

func TestRunEndWithoutStart(t *testing.T) {
	t.Parallel()

	analyzer := &scriptedAnalyzer{events: []engine.ProgressEvent{
		{Kind: engine.EventTargetEnd, Target: "https://a.test/"},
	}}
	r := New(analyzer)

	result, err := r.Run(context.Background(), config.NewConfig(), testTargets(t, "https://a.test/"))
	if err != nil {
		t.Fatal(err)
	}
	if result.Results[0].Elapsed != 0 {
		t.Errorf("expected zero elapsed without a start event, got %v", result.Results[0].Elapsed)
	}
}

func TestRunTracksOnce(t *testing.T) {
	t.Parallel()

	t.Run("clean run emits one usage event", func(t *testing.T) {
		t.Parallel()

		analyzer := &scriptedAnalyzer{events: []engine.ProgressEvent{
			{Kind: engine.EventTargetStart, Target: "https://a.test/"},
			{Kind: engine.EventTargetEnd, Target: "https://a.test/"},
		}}
		tracker := &countingTracker{}
		r := New(analyzer, WithTracker(tracker))

		if _, err := r.Run(context.Background(), config.NewConfig(), testTargets(t, "https://a.test/")); err != nil {
			t.Fatal(err)
		}
		if tracker.calls != 1 {
			t.Errorf("expected exactly one usage event, got %d", tracker.calls)
		}
		if tracker.durations["targets"] != 1 {
			t.Errorf("unexpected measurements: %v", tracker.durations)
		}
	})

	t.Run("failed analysis emits nothing", func(t *testing.T) {
		t.Parallel()

		analyzer := &scriptedAnalyzer{err: errors.New("context canceled")}
		tracker := &countingTracker{}
		r := New(analyzer, WithTracker(tracker))

		if _, err := r.Run(context.Background(), config.NewConfig(), testTargets(t, "https://a.test/")); err == nil {
			t.Fatal("expected an error")
		}
		if tracker.calls != 0 {
			t.Errorf("expected no usage event after a failed analysis, got %d", tracker.calls)
		}
	})
}

func TestRunStatusStream(t *testing.T) {
	t.Parallel()

	analyzer := &scriptedAnalyzer{events: []engine.ProgressEvent{
		{Kind: engine.EventTargetStart, Target: "https://a.test/"},
		{Kind: engine.EventUpdate, Target: "https://a.test/", Message: "running hints"},
		{Kind: engine.EventTargetEnd, Target: "https://a.test/"},
	}}
	var status bytes.Buffer
	r := New(analyzer, WithStatus(&status))

	if _, err := r.Run(context.Background(), config.NewConfig(), testTargets(t, "https://a.test/")); err != nil {
		t.Fatal(err)
	}

	out := status.String()
	for _, want := range []string{"started", "running hints", "done"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected status stream to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunWriterFailure(t *testing.T) {
	t.Parallel()

	analyzer := &scriptedAnalyzer{events: []engine.ProgressEvent{
		{Kind: engine.EventTargetStart, Target: "https://a.test/"},
		{Kind: engine.EventTargetEnd, Target: "https://a.test/"},
	}}
	writer := &recordingWriter{err: errors.New("disk full")}
	r := New(analyzer, WithWriter(writer))

	if _, err := r.Run(context.Background(), config.NewConfig(), testTargets(t, "https://a.test/")); err == nil {
		t.Fatal("expected a write error to surface")
	}
}
