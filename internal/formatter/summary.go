package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/hintscan/hintscan/internal/model"
)

// SummaryWriter outputs human-readable text results.
// This format is designed for terminal display with clear section
// formatting and per-severity totals.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SummaryWriter struct {
	baseWriter

	// verbose enables the resource and position columns per problem.
	verbose bool
}

// SummaryWriterOption configures a SummaryWriter.
type SummaryWriterOption func(*SummaryWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SummaryWriterOption {
	return func(w *SummaryWriter) {
		w.verbose = verbose
	}
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer, opts ...SummaryWriterOption) *SummaryWriter {
	w := &SummaryWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run result in human-readable format.
func (w *SummaryWriter) Write(result *model.RunResult) (int, error) {
	var sb strings.Builder

	for i := range result.Results {
		w.writeTarget(&sb, &result.Results[i])
	}

	w.writeTotals(&sb, result)

	return w.output.Write([]byte(sb.String()))
}

// writeTarget writes one target section with its problems grouped by hint.
func (w *SummaryWriter) writeTarget(sb *strings.Builder, target *model.TargetResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s (%s)\n", target.Target, target.Elapsed.Round(elapsedPrecision)))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(target.Problems) == 0 {
		sb.WriteString("  No issues found\n\n")
		return
	}

	for _, p := range target.Problems {
		indicator := severityIndicator(p.Severity)
		sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", indicator, p.HintID, p.Message))
		if w.verbose {
			sb.WriteString(fmt.Sprintf("      Resource: %s\n", p.Resource))
			if p.Line > 0 {
				sb.WriteString(fmt.Sprintf("      Position: %d:%d\n", p.Line, p.Column))
			}
		}
	}
	sb.WriteString("\n")
}

// writeTotals writes the aggregate severity counts and the verdict.
func (w *SummaryWriter) writeTotals(sb *strings.Builder, result *model.RunResult) {
	counts := result.Counts()

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%d target(s), %d issue(s) in %s\n",
		len(result.Results), result.TotalProblems(), result.Elapsed.Round(elapsedPrecision)))
	sb.WriteString(fmt.Sprintf("  errors: %d, warnings: %d, hints: %d, information: %d\n",
		counts[model.SeverityError],
		counts[model.SeverityWarning],
		counts[model.SeverityHint],
		counts[model.SeverityInformation],
	))

	if result.Failed() {
		sb.WriteString("Result: FAILED\n")
	} else {
		sb.WriteString("Result: PASSED\n")
	}
}

// severityIndicator returns a short marker for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityError:
		return "!!"
	case model.SeverityWarning:
		return "!"
	case model.SeverityHint:
		return "-"
	case model.SeverityInformation:
		return "i"
	default:
		return "?"
	}
}
