package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/dateformat/pkg/catalog"
	"github.com/Veraticus/dateformat/pkg/types"
)

func TestTextReporter(t *testing.T) {
	instant := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		formatOnly bool
		result     Result
		expected   string
	}{
		{
			name:     "resolved",
			result:   Result{Input: "20240105", Format: "yyyyMMdd", Instant: instant},
			expected: "20240105\tyyyyMMdd\t1704412800000\t2024-01-05T00:00:00Z\n",
		},
		{
			name:       "format only",
			formatOnly: true,
			result:     Result{Input: "20240105", Format: "yyyyMMdd", Instant: instant},
			expected:   "20240105\tyyyyMMdd\n",
		},
		{
			name:     "unresolved",
			result:   Result{Input: "not-a-date", Err: errors.New("unknown date format")},
			expected: "not-a-date\terror: unknown date format\n",
		},
		{
			name:     "malformed",
			result:   Result{Input: "2024-13-05", Format: "yyyy-MM-dd", Err: errors.New("month out of range")},
			expected: "2024-13-05\tyyyy-MM-dd\terror: month out of range\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			r := NewTextReporter(buf, tt.formatOnly)

			if err := r.Report(tt.result); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.String() != tt.expected {
				t.Errorf("expected %q but got %q", tt.expected, buf.String())
			}
		})
	}
}

func TestTextReporter_Matches(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewTextReporter(buf, true)

	err := r.Report(Result{
		Input:  "1999",
		Format: "yyyy",
		Matches: []catalog.Match{
			{Index: 26, Rule: types.Rule{Regex: `^\d{4}$`, Format: "yyyy"}},
			{Index: 27, Rule: types.Rule{Regex: `^\d+$`, Format: "digits"}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines but got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "#26") || !strings.Contains(lines[1], "selected") {
		t.Errorf("expected selected rule line but got %q", lines[1])
	}
	if !strings.Contains(lines[2], "#27") || !strings.Contains(lines[2], "shadowed") {
		t.Errorf("expected shadowed rule line but got %q", lines[2])
	}
}

func TestTextReporter_MatchesWithoutSelection(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewTextReporter(buf, false)

	// A broken rule ahead of the match stopped the scan
	err := r.Report(Result{
		Input: "q",
		Err:   errors.New("rule 27: invalid rule expression"),
		Matches: []catalog.Match{
			{Index: 28, Rule: types.Rule{Regex: `^q$`, Format: "literal"}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines but got %d: %q", len(lines), buf.String())
	}
	if strings.Contains(lines[1], "selected") {
		t.Errorf("expected no selected rule but got %q", lines[1])
	}
	if !strings.Contains(lines[1], "#28") || !strings.Contains(lines[1], "matched") {
		t.Errorf("expected matched rule line but got %q", lines[1])
	}
}
