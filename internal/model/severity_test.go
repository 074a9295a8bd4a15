package model

import "testing"

// TestSeverityString verifies the canonical name of each severity.
func TestSeverityString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityOff, "off"},
		{SeverityHint, "hint"},
		{SeverityInformation, "information"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestParseSeverity verifies round-tripping and rejection of unknown names.
func TestParseSeverity(t *testing.T) {
	t.Parallel()

	t.Run("all canonical names parse back", func(t *testing.T) {
		t.Parallel()
		for _, sev := range []Severity{SeverityOff, SeverityHint, SeverityInformation, SeverityWarning, SeverityError} {
			got, err := ParseSeverity(sev.String())
			if err != nil {
				t.Fatalf("ParseSeverity(%q) returned error: %v", sev.String(), err)
			}
			if got != sev {
				t.Errorf("expected %v, got %v", sev, got)
			}
		}
	})

	t.Run("unknown name returns error", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseSeverity("fatal"); err == nil {
			t.Error("expected error for unknown severity name")
		}
	})
}

// TestSeverityOrdering verifies that error outranks every other severity.
// The runner relies on this ordering to derive the exit status.
func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	for _, sev := range []Severity{SeverityOff, SeverityHint, SeverityInformation, SeverityWarning} {
		if sev >= SeverityError {
			t.Errorf("expected %v to rank below error", sev)
		}
	}
}

// TestMaxSeverity verifies aggregation over problem slices.
func TestMaxSeverity(t *testing.T) {
	t.Parallel()

	t.Run("empty slice is off", func(t *testing.T) {
		t.Parallel()
		if got := MaxSeverity(nil); got != SeverityOff {
			t.Errorf("expected off, got %v", got)
		}
	})

	t.Run("one error among warnings wins", func(t *testing.T) {
		t.Parallel()
		problems := []Problem{
			{HintID: "a", Severity: SeverityWarning},
			{HintID: "b", Severity: SeverityError},
			{HintID: "c", Severity: SeverityWarning},
		}
		if got := MaxSeverity(problems); got != SeverityError {
			t.Errorf("expected error, got %v", got)
		}
	})
}

// TestCountBySeverity verifies the per-severity tally used by formatters.
func TestCountBySeverity(t *testing.T) {
	t.Parallel()

	problems := []Problem{
		{Severity: SeverityWarning},
		{Severity: SeverityWarning},
		{Severity: SeverityError},
	}

	counts := CountBySeverity(problems)
	if counts[SeverityWarning] != 2 {
		t.Errorf("expected 2 warnings, got %d", counts[SeverityWarning])
	}
	if counts[SeverityError] != 1 {
		t.Errorf("expected 1 error, got %d", counts[SeverityError])
	}
}
