package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/hintscan/hintscan/internal/config"
	"github.com/hintscan/hintscan/internal/model"
)

// elapsedPrecision is how finely durations are printed. Millisecond
// keeps output readable without hiding slow targets.
const elapsedPrecision = time.Millisecond

// Writer renders one run result to its configured destination.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write renders the run result. It returns the number of bytes
	// written and any error encountered.
	Write(result *model.RunResult) (int, error)
}

// New creates the writer for a formatter name from the configuration.
// Unknown names are an error; the resolver validates names earlier, so
// hitting one here means the registry and the resolver disagree.
func New(name string, output io.Writer) (Writer, error) {
	switch name {
	case config.FormatterSummary:
		return NewSummaryWriter(output), nil
	case config.FormatterJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case config.FormatterMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown formatter %q", name)
	}
}

// Names returns the formatter names this registry knows.
func Names() []string {
	return []string{config.FormatterSummary, config.FormatterJSON, config.FormatterMarkdown}
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write run results, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the result with all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(result *model.RunResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for result writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
