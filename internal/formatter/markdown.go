package formatter

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/hintscan/hintscan/internal/model"
)

// MarkdownWriter outputs run results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run result in Markdown format.
func (w *MarkdownWriter) Write(result *model.RunResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)

	for i := range result.Results {
		w.writeTarget(md, &result.Results[i])
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.RunResult) {
	md.H1("Analysis Report")
	md.PlainText("")

	verdict := "✅ Passed"
	if result.Failed() {
		verdict = "❌ Failed"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Date", result.Started.Format("2006-01-02 15:04:05 MST")},
			{"Targets", strconv.Itoa(len(result.Results))},
			{"Duration", result.Elapsed.Round(elapsedPrecision).String()},
			{"Result", verdict},
		},
	})
	md.PlainText("")
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.RunResult) {
	counts := result.Counts()

	md.H2("Severity Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Error", strconv.Itoa(counts[model.SeverityError])},
			{"🟡 Warning", strconv.Itoa(counts[model.SeverityWarning])},
			{"🔵 Hint", strconv.Itoa(counts[model.SeverityHint])},
			{"⚪ Information", strconv.Itoa(counts[model.SeverityInformation])},
			{"**Total**", "**" + strconv.Itoa(result.TotalProblems()) + "**"},
		},
	})
	md.PlainText("")

	if result.TotalProblems() > 0 {
		w.writePieChart(md, counts)
	}

	w.writeAlert(md, counts)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts map[model.Severity]int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Severity Distribution"),
		piechart.WithShowData(true),
	)

	if counts[model.SeverityError] > 0 {
		chart.LabelAndIntValue("Error", uint64(counts[model.SeverityError]))
	}
	if counts[model.SeverityWarning] > 0 {
		chart.LabelAndIntValue("Warning", uint64(counts[model.SeverityWarning]))
	}
	if counts[model.SeverityHint] > 0 {
		chart.LabelAndIntValue("Hint", uint64(counts[model.SeverityHint]))
	}
	if counts[model.SeverityInformation] > 0 {
		chart.LabelAndIntValue("Information", uint64(counts[model.SeverityInformation]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, counts map[model.Severity]int) {
	switch {
	case counts[model.SeverityError] > 0:
		md.Cautionf(
			"%d error(s) detected. The run failed; fix these before shipping.",
			counts[model.SeverityError],
		)
	case counts[model.SeverityWarning] > 0:
		md.Warningf(
			"%d warning(s) detected. These should be addressed.",
			counts[model.SeverityWarning],
		)
	case counts[model.SeverityHint]+counts[model.SeverityInformation] > 0:
		md.Note("Only hints and informational issues detected.")
	default:
		md.Tip("No issues detected.")
	}
	md.PlainText("")
}

// writeTarget writes one target section with its problems.
func (w *MarkdownWriter) writeTarget(md *markdown.Markdown, target *model.TargetResult) {
	md.H2(target.Target)
	md.PlainText("")

	if len(target.Problems) == 0 {
		md.PlainText("No issues found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(target.Problems))
	for i, p := range target.Problems {
		position := "-"
		if p.Line > 0 {
			position = strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
		}
		rows[i] = []string{
			p.Severity.String(),
			p.HintID,
			truncateString(p.Message, 60),
			truncateString(p.Resource, 40),
			position,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Hint", "Message", "Resource", "Position"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [hintscan](https://github.com/hintscan/hintscan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
