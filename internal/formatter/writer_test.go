package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hintscan/hintscan/internal/model"
)

// createTestResult creates a run result with sample data for testing.
func createTestResult() *model.RunResult {
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &model.RunResult{
		Started: started,
		Elapsed: 1250 * time.Millisecond,
		Results: []model.TargetResult{
			{
				Target:  "https://example.test/",
				Started: started,
				Elapsed: 800 * time.Millisecond,
				Problems: []model.Problem{
					{
						HintID:   "content-type",
						Severity: model.SeverityError,
						Message:  "response should include a valid content-type header",
						Resource: "https://example.test/",
					},
					{
						HintID:   "html-title",
						Severity: model.SeverityWarning,
						Message:  "page should have a non-empty <title>",
						Resource: "https://example.test/",
						Line:     3,
						Column:   1,
					},
				},
			},
			{
				Target:  "https://clean.test/",
				Started: started,
				Elapsed: 450 * time.Millisecond,
			},
		},
	}
}

// TestSummaryWriter tests the human-readable result writer.
func TestSummaryWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes per-target sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSummaryWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "https://example.test/") {
			t.Error("expected output to contain the target URL")
		}
		if !strings.Contains(output, "content-type") {
			t.Error("expected output to contain the hint ID")
		}
		if !strings.Contains(output, "No issues found") {
			t.Error("expected the clean target to report no issues")
		}
	})

	t.Run("writes severity totals and verdict", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSummaryWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "errors: 1, warnings: 1") {
			t.Errorf("expected severity totals, got:\n%s", output)
		}
		if !strings.Contains(output, "Result: FAILED") {
			t.Error("expected a failed verdict for an error-severity problem")
		}
	})

	t.Run("passes without error-severity problems", func(t *testing.T) {
		t.Parallel()

		result := createTestResult()
		result.Results[0].Problems = result.Results[0].Problems[1:]

		var buf bytes.Buffer
		w := NewSummaryWriter(&buf)

		if _, err := w.Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "Result: PASSED") {
			t.Error("expected a passed verdict for warnings only")
		}
	})

	t.Run("verbose includes resource and position", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSummaryWriter(&buf, WithVerbose(true))

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Resource:") {
			t.Error("expected verbose output to include the resource")
		}
		if !strings.Contains(output, "Position: 3:1") {
			t.Error("expected verbose output to include the position")
		}
	})
}

// TestJSONWriter tests the machine-readable result writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("produces valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.RunResult
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(decoded.Results) != 2 {
			t.Errorf("expected 2 results, got %d", len(decoded.Results))
		}
		if decoded.Results[0].Problems[0].HintID != "content-type" {
			t.Errorf("unexpected first problem: %+v", decoded.Results[0].Problems[0])
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented output")
		}
	})
}

// TestMarkdownWriter tests the markdown result writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Analysis Report") {
			t.Error("expected markdown H1 header")
		}
		if !strings.Contains(output, "Severity Summary") {
			t.Error("expected severity summary section")
		}
		if !strings.Contains(output, "https://example.test/") {
			t.Error("expected target section")
		}
	})

	t.Run("includes severity pie chart when issues exist", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "pie") {
			t.Error("expected a mermaid pie chart")
		}
	})
}

// TestMultiWriter tests fan-out to multiple writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var summary, jsonBuf bytes.Buffer
		mw := NewMultiWriter(NewSummaryWriter(&summary), NewJSONWriter(&jsonBuf))

		if _, err := mw.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if summary.Len() == 0 {
			t.Error("expected summary output")
		}
		if jsonBuf.Len() == 0 {
			t.Error("expected JSON output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var ok bytes.Buffer
		mw := NewMultiWriter(
			NewSummaryWriter(failWriter{}),
			NewSummaryWriter(&ok),
		)

		if _, err := mw.Write(createTestResult()); err == nil {
			t.Fatal("expected an error")
		}
		if ok.Len() != 0 {
			t.Error("expected the second writer to be skipped after a failure")
		}
	})
}

// TestNew tests the formatter registry.
func TestNew(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w, err := New(name, &buf)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := w.Write(createTestResult()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.Len() == 0 {
				t.Error("expected output")
			}
		})
	}

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()

		if _, err := New("xml", &bytes.Buffer{}); err == nil {
			t.Error("expected an error for an unknown formatter")
		}
	})
}

// failWriter always fails, for MultiWriter error propagation tests.
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}
