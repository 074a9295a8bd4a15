package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hintscan/hintscan/internal/bootstrap"
	"github.com/hintscan/hintscan/internal/config"
	"github.com/hintscan/hintscan/internal/engine"
	"github.com/hintscan/hintscan/internal/formatter"
	"github.com/hintscan/hintscan/internal/installer"
	"github.com/hintscan/hintscan/internal/log"
	"github.com/hintscan/hintscan/internal/model"
	"github.com/hintscan/hintscan/internal/prompt"
	"github.com/hintscan/hintscan/internal/runner"
	"github.com/hintscan/hintscan/internal/store"
	"github.com/hintscan/hintscan/internal/telemetry"
)

// telemetryEndpoint is where opted-in usage events are delivered.
const telemetryEndpoint = "https://telemetry.hintscan.dev/v1/events"

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <url-or-path>...",
		Short: "Analyze targets against the configured hints",
		Long: `Analyze runs every configured hint against the given targets and
reports the issues it finds.

Targets may be remote URLs or local files, but not both in one run.
A bare domain is treated as http://, an existing local path as file://.

Examples:
  # Analyze a web page
  hintscan analyze https://example.com

  # Analyze several pages concurrently
  hintscan analyze https://example.com https://example.org

  # Analyze local files
  hintscan analyze ./dist/index.html ./dist/about.html

  # Restrict the run to specific hints
  hintscan analyze --hints content-type,html-title https://example.com

  # Render JSON and write it to a file
  hintscan analyze --formatters json --output report.json https://example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .hintscanrc in current or home directory)")
	cmd.Flags().StringSliceP("formatters", "f", nil,
		"Formatters to render results with (summary, json, markdown)")
	cmd.Flags().StringSlice("hints", nil,
		"Restrict the run to the listed hint IDs")
	cmd.Flags().StringP("language", "l", "",
		"Language tag for messages (default: configuration, then OS locale)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for fetching each target")
	cmd.Flags().StringP("output", "o", "",
		"Write rendered results to the specified file instead of stdout")
	cmd.Flags().BoolP("quiet", "q", false,
		"Suppress the live progress stream")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	targets, err := model.ParseTargets(args)
	if err != nil {
		return err
	}

	opts, err := buildCLIOptions(cmd)
	if err != nil {
		return err
	}

	// Set up structured logging
	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	cfg, err := config.Resolve(opts, targets)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	asker := prompt.NewTerminal(cmd.InOrStdin(), cmd.ErrOrStderr())
	gate, closeSettings := newGate(asker, logger)
	defer closeSettings()
	gate.Begin(ctx)

	boot := bootstrap.New(
		&engine.DefaultBuilder{Logger: logger},
		bootstrap.WithAsker(asker),
		bootstrap.WithInstaller(&installer.NPM{Logger: logger}),
		bootstrap.WithTracker(gate),
		bootstrap.WithLogger(logger),
	)
	booted, err := boot.Bootstrap(ctx, cfg, targets)
	if err != nil {
		return err
	}

	writer, closeOutput, err := buildWriter(cmd, booted.Config)
	if err != nil {
		return err
	}
	defer closeOutput()

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	status := io.Writer(cmd.ErrOrStderr())
	if quiet {
		status = io.Discard
	}

	run := runner.New(booted.Analyzer,
		runner.WithWriter(writer),
		runner.WithTracker(gate),
		runner.WithStatus(status),
		runner.WithLogger(logger),
	)
	result, err := run.Run(ctx, booted.Config, targets)
	if err != nil {
		return err
	}

	if result.Failed() {
		counts := result.Counts()
		return fmt.Errorf("found %d error(s) across %d target(s)",
			counts[model.SeverityError], len(result.Results))
	}
	return nil
}

// buildCLIOptions collects explicitly set flags. Flags the user did not
// touch stay zero so the resolver's precedence rules can tell "default"
// from "given".
func buildCLIOptions(cmd *cobra.Command) (config.CLIOptions, error) {
	var opts config.CLIOptions
	var err error

	opts.ConfigPath, err = cmd.Flags().GetString("config")
	if err != nil {
		return opts, err
	}

	if cmd.Flags().Changed("formatters") {
		opts.Formatters, err = cmd.Flags().GetStringSlice("formatters")
		if err != nil {
			return opts, err
		}
	}

	if cmd.Flags().Changed("hints") {
		opts.Hints, err = cmd.Flags().GetStringSlice("hints")
		if err != nil {
			return opts, err
		}
	}

	if cmd.Flags().Changed("language") {
		opts.Language, err = cmd.Flags().GetString("language")
		if err != nil {
			return opts, err
		}
	}

	if cmd.Flags().Changed("timeout") {
		var timeout time.Duration
		timeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return opts, err
		}
		opts.Timeout = timeout
	}

	return opts, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// newGate opens the persistent settings store and wraps it in the
// telemetry gate. When the store cannot be opened the gate still works,
// it just never enables telemetry for the run.
func newGate(asker prompt.Asker, logger *slog.Logger) (*telemetry.Gate, func()) {
	closeFn := func() {}

	var settings telemetry.Settings
	st, err := store.Open(config.XDGDataDir(), store.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open settings store, telemetry disabled", "error", err)
		settings = unavailableSettings{err: err}
	} else {
		settings = st
		closeFn = func() {
			if err := st.Close(); err != nil {
				logger.Debug("failed to close settings store", "error", err)
			}
		}
	}

	gate := telemetry.NewGate(settings,
		telemetry.WithAsker(asker),
		telemetry.WithTransport(&telemetry.HTTP{Endpoint: telemetryEndpoint}),
		telemetry.WithNotices(os.Stderr),
		telemetry.WithLogger(logger),
	)
	return gate, closeFn
}

// unavailableSettings stands in when the store cannot be opened; every
// read fails, which keeps the gate disabled.
type unavailableSettings struct {
	err error
}

func (s unavailableSettings) GetBool(context.Context, string) (bool, bool, error) {
	return false, false, s.err
}

func (s unavailableSettings) SetBool(context.Context, string, bool) error {
	return s.err
}

// buildWriter assembles the formatter fan-out from the effective
// configuration. With --output all formatters write to the file,
// otherwise to stdout.
func buildWriter(cmd *cobra.Command, cfg *config.Config) (formatter.Writer, func(), error) {
	closeFn := func() {}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, closeFn, err
	}

	out := io.Writer(cmd.OutOrStdout())
	if outputPath != "" {
		dir := filepath.Dir(outputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, closeFn, fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, closeFn, fmt.Errorf("failed to create output file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	writers := make([]formatter.Writer, 0, len(cfg.Formatters))
	for _, name := range cfg.Formatters {
		w, err := formatter.New(name, out)
		if err != nil {
			closeFn()
			return nil, func() {}, err
		}
		writers = append(writers, w)
	}
	return formatter.NewMultiWriter(writers...), closeFn, nil
}
