package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hintscan/hintscan/internal/config"
	"github.com/hintscan/hintscan/internal/engine"
	"github.com/hintscan/hintscan/internal/model"
)

// scriptedBuilder returns its scripted outcomes in order, then succeeds.
type scriptedBuilder struct {
	outcomes []error
	calls    int
	configs  []*config.Config
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) Analyze(context.Context, []*model.Target, engine.EventSink) error {
	return nil
}

func (b *scriptedBuilder) Build(_ context.Context, cfg *config.Config) (engine.Analyzer, error) {
	b.configs = append(b.configs, cfg)
	defer func() { b.calls++ }()
	if b.calls < len(b.outcomes) && b.outcomes[b.calls] != nil {
		return nil, b.outcomes[b.calls]
	}
	return fakeAnalyzer{}, nil
}

// yesAsker accepts every recovery and records the questions.
type yesAsker struct {
	questions []string
}

func (a *yesAsker) Ask(q string) (bool, error) {
	a.questions = append(a.questions, q)
	return true, nil
}

// noAsker declines every recovery.
type noAsker struct {
	asked int
}

func (a *noAsker) Ask(string) (bool, error) {
	a.asked++
	return false, nil
}

// fakeInstaller records install calls and can be scripted to fail.
type fakeInstaller struct {
	installed []string
	latest    []string
	fail      error
}

func (f *fakeInstaller) Install(_ context.Context, packages []string) error {
	if f.fail != nil {
		return f.fail
	}
	f.installed = append(f.installed, packages...)
	return nil
}

func (f *fakeInstaller) InstallLatest(_ context.Context, packages []string) error {
	if f.fail != nil {
		return f.fail
	}
	f.latest = append(f.latest, packages...)
	return nil
}

// recordingTracker captures unmet-dependency reports.
type recordingTracker struct {
	reports []*engine.HintResources
}

func (r *recordingTracker) TrackResources(_ context.Context, res *engine.HintResources) {
	r.reports = append(r.reports, res)
}

func remoteTargets(t *testing.T) []*model.Target {
	t.Helper()
	target, err := model.ParseTarget("https://example.test")
	if err != nil {
		t.Fatal(err)
	}
	return []*model.Target{target}
}

func TestBootstrapSucceedsFirstTry(t *testing.T) {
	t.Parallel()

	builder := &scriptedBuilder{}
	b := New(builder)

	cfg := config.NewConfig()
	result, err := b.Bootstrap(context.Background(), cfg, remoteTargets(t))
	if err != nil {
		t.Fatal(err)
	}
	if result.Config != cfg {
		t.Error("expected the input configuration on a clean build")
	}
	if result.Substituted || result.Installed {
		t.Error("expected no recovery on a clean build")
	}
}

func TestBootstrapConfigurationRecovery(t *testing.T) {
	t.Parallel()

	t.Run("accepted substitution retries with default", func(t *testing.T) {
		t.Parallel()

		builder := &scriptedBuilder{outcomes: []error{
			engine.NewConfigurationError("configuration enables no hints", nil),
		}}
		asker := &yesAsker{}
		b := New(builder, WithAsker(asker))

		cfg := config.NewConfig()
		result, err := b.Bootstrap(context.Background(), cfg, remoteTargets(t))
		if err != nil {
			t.Fatal(err)
		}
		if !result.Substituted {
			t.Error("expected substitution to be reported")
		}
		if result.Config == cfg {
			t.Error("expected a fresh default configuration")
		}
		if len(result.Config.Extends) == 0 || result.Config.Extends[0] != config.PresetWebRecommended {
			t.Errorf("expected default preset for remote targets, got %v", result.Config.Extends)
		}
		if builder.calls != 2 {
			t.Errorf("expected two build attempts, got %d", builder.calls)
		}
	})

	t.Run("declined substitution returns the original error", func(t *testing.T) {
		t.Parallel()

		original := engine.NewConfigurationError("configuration enables no hints", nil)
		builder := &scriptedBuilder{outcomes: []error{original}}
		asker := &noAsker{}
		b := New(builder, WithAsker(asker))

		_, err := b.Bootstrap(context.Background(), config.NewConfig(), remoteTargets(t))
		if !errors.Is(err, original) {
			t.Errorf("expected the original error, got %v", err)
		}
		if builder.calls != 1 {
			t.Errorf("expected one build attempt, got %d", builder.calls)
		}
	})

	t.Run("second configuration failure is final", func(t *testing.T) {
		t.Parallel()

		builder := &scriptedBuilder{outcomes: []error{
			engine.NewConfigurationError("configuration enables no hints", nil),
			engine.NewConfigurationError("configuration enables no hints", nil),
		}}
		b := New(builder, WithAsker(&yesAsker{}))

		_, err := b.Bootstrap(context.Background(), config.NewConfig(), remoteTargets(t))
		if err == nil {
			t.Fatal("expected an error")
		}
		if builder.calls != 2 {
			t.Errorf("expected exactly two build attempts, got %d", builder.calls)
		}
	})
}

func TestBootstrapResourceRecovery(t *testing.T) {
	t.Parallel()

	t.Run("accepted install retries once", func(t *testing.T) {
		t.Parallel()

		resources := &engine.HintResources{
			Missing:      []string{"@hintscan/config-axe"},
			Incompatible: []string{"@hintscan/config-old"},
		}
		builder := &scriptedBuilder{outcomes: []error{engine.NewResourceError(resources)}}
		inst := &fakeInstaller{}
		tracker := &recordingTracker{}
		b := New(builder, WithAsker(&yesAsker{}), WithInstaller(inst), WithTracker(tracker))

		result, err := b.Bootstrap(context.Background(), config.NewConfig(), remoteTargets(t))
		if err != nil {
			t.Fatal(err)
		}
		if !result.Installed {
			t.Error("expected installation to be reported")
		}
		if len(inst.installed) != 1 || inst.installed[0] != "@hintscan/config-axe" {
			t.Errorf("unexpected installs: %v", inst.installed)
		}
		if len(inst.latest) != 1 || inst.latest[0] != "@hintscan/config-old" {
			t.Errorf("unexpected latest installs: %v", inst.latest)
		}
		if len(tracker.reports) != 1 {
			t.Errorf("expected one dependency report, got %d", len(tracker.reports))
		}
	})

	t.Run("dependency report precedes consent", func(t *testing.T) {
		t.Parallel()

		resources := &engine.HintResources{Missing: []string{"@hintscan/config-axe"}}
		builder := &scriptedBuilder{outcomes: []error{engine.NewResourceError(resources)}}
		tracker := &recordingTracker{}
		b := New(builder, WithAsker(&noAsker{}), WithTracker(tracker))

		_, err := b.Bootstrap(context.Background(), config.NewConfig(), remoteTargets(t))
		if err == nil {
			t.Fatal("expected an error after declined install")
		}
		if len(tracker.reports) != 1 {
			t.Error("dependency report must be sent even when install is declined")
		}
	})

	t.Run("install failure surfaces the original error", func(t *testing.T) {
		t.Parallel()

		resources := &engine.HintResources{Missing: []string{"@hintscan/config-axe"}}
		original := engine.NewResourceError(resources)
		builder := &scriptedBuilder{outcomes: []error{original}}
		inst := &fakeInstaller{fail: errors.New("network down")}
		b := New(builder, WithAsker(&yesAsker{}), WithInstaller(inst))

		_, err := b.Bootstrap(context.Background(), config.NewConfig(), remoteTargets(t))
		if err == nil || !strings.Contains(err.Error(), "failed to install") {
			t.Fatalf("expected install failure, got %v", err)
		}
		if !errors.Is(err, original) {
			t.Errorf("expected the unmet-dependency error in the chain, got %v", err)
		}
		var aerr *engine.AnalyzerError
		if !errors.As(err, &aerr) || aerr.Status != engine.StatusResourceError {
			t.Errorf("expected a classifiable resource error, got %v", err)
		}
		if builder.calls != 1 {
			t.Errorf("expected no retry after failed install, got %d attempts", builder.calls)
		}
	})

	t.Run("second resource failure is final", func(t *testing.T) {
		t.Parallel()

		resources := &engine.HintResources{Missing: []string{"@hintscan/config-axe"}}
		builder := &scriptedBuilder{outcomes: []error{
			engine.NewResourceError(resources),
			engine.NewResourceError(resources),
		}}
		b := New(builder, WithAsker(&yesAsker{}), WithInstaller(&fakeInstaller{}))

		_, err := b.Bootstrap(context.Background(), config.NewConfig(), remoteTargets(t))
		if err == nil || !strings.Contains(err.Error(), "still unmet") {
			t.Errorf("expected final resource error, got %v", err)
		}
		if builder.calls != 2 {
			t.Errorf("expected exactly two build attempts, got %d", builder.calls)
		}
	})
}

func TestBootstrapFatalErrors(t *testing.T) {
	t.Parallel()

	t.Run("hint error names the offending IDs", func(t *testing.T) {
		t.Parallel()

		builder := &scriptedBuilder{outcomes: []error{
			engine.NewHintError([]string{"no-such-hint", "typo-hint"}),
		}}
		asker := &noAsker{}
		b := New(builder, WithAsker(asker))

		_, err := b.Bootstrap(context.Background(), config.NewConfig(), remoteTargets(t))
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(err.Error(), "no-such-hint") || !strings.Contains(err.Error(), "typo-hint") {
			t.Errorf("expected both hint IDs in the error, got %v", err)
		}
		if asker.asked != 0 {
			t.Error("hint errors must not offer recovery")
		}
	})

	t.Run("connector error offers no recovery", func(t *testing.T) {
		t.Parallel()

		builder := &scriptedBuilder{outcomes: []error{engine.NewConnectorError("chrome")}}
		asker := &noAsker{}
		b := New(builder, WithAsker(asker))

		_, err := b.Bootstrap(context.Background(), config.NewConfig(), remoteTargets(t))
		if err == nil {
			t.Fatal("expected an error")
		}
		if asker.asked != 0 {
			t.Error("connector errors must not offer recovery")
		}
	})

	t.Run("unclassified error stays local", func(t *testing.T) {
		t.Parallel()

		builder := &scriptedBuilder{outcomes: []error{errors.New("disk on fire")}}
		asker := &noAsker{}
		tracker := &recordingTracker{}
		b := New(builder, WithAsker(asker), WithTracker(tracker))

		_, err := b.Bootstrap(context.Background(), config.NewConfig(), remoteTargets(t))
		if err == nil || !strings.Contains(err.Error(), "disk on fire") {
			t.Errorf("expected the cause in the error, got %v", err)
		}
		if asker.asked != 0 {
			t.Error("unclassified errors must not offer recovery")
		}
		if len(tracker.reports) != 0 {
			t.Error("unclassified errors must never reach telemetry")
		}
	})
}

func TestBootstrapWithoutAskerDeclines(t *testing.T) {
	t.Parallel()

	original := engine.NewConfigurationError("configuration enables no hints", nil)
	builder := &scriptedBuilder{outcomes: []error{original}}
	b := New(builder)

	_, err := b.Bootstrap(context.Background(), config.NewConfig(), remoteTargets(t))
	if !errors.Is(err, original) {
		t.Errorf("expected the original error without an asker, got %v", err)
	}
}
