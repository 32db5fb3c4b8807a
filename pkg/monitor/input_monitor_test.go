package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/dateformat/pkg/resolver"
	"github.com/Veraticus/dateformat/pkg/testutil"
)

var jan5 = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

func newTestMonitor() (*InputMonitor, *testutil.MockResolver, *testutil.MockReporter) {
	res := testutil.NewMockResolver()
	res.Set("20240105", "yyyyMMdd", jan5)
	res.Set("2024-01-05", "yyyy-MM-dd", jan5)
	rep := testutil.NewMockReporter()
	return NewInputMonitor(res, rep, zerolog.Nop()), res, rep
}

func TestInputMonitor_HandleLine(t *testing.T) {
	m, _, rep := newTestMonitor()

	m.HandleLine("20240105")

	results := rep.GetResults()
	if len(results) != 1 {
		t.Fatalf("expected 1 result but got %d", len(results))
	}
	r := results[0]
	if r.Input != "20240105" {
		t.Errorf("expected input 20240105 but got %q", r.Input)
	}
	if r.Format != "yyyyMMdd" {
		t.Errorf("expected format yyyyMMdd but got %q", r.Format)
	}
	if !r.Instant.Equal(jan5) {
		t.Errorf("expected instant %v but got %v", jan5, r.Instant)
	}
	if r.Matches != nil {
		t.Errorf("expected no matches without explain but got %v", r.Matches)
	}
}

func TestInputMonitor_HandleData(t *testing.T) {
	tests := []struct {
		name     string
		chunks   []string
		expected []string
	}{
		{
			name:     "single chunk",
			chunks:   []string{"20240105\n2024-01-05\n"},
			expected: []string{"20240105", "2024-01-05"},
		},
		{
			name:     "line split across chunks",
			chunks:   []string{"2024", "0105\n2024-", "01-05\n"},
			expected: []string{"20240105", "2024-01-05"},
		},
		{
			name:     "crlf and padding",
			chunks:   []string{"  20240105 \r\n"},
			expected: []string{"20240105"},
		},
		{
			name:     "blank lines skipped",
			chunks:   []string{"\n\n20240105\n   \n"},
			expected: []string{"20240105"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, rep := newTestMonitor()

			for _, chunk := range tt.chunks {
				m.HandleData([]byte(chunk))
			}

			results := rep.GetResults()
			if len(results) != len(tt.expected) {
				t.Fatalf("expected %d results but got %d", len(tt.expected), len(results))
			}
			for i, want := range tt.expected {
				if results[i].Input != want {
					t.Errorf("result %d: expected input %q but got %q", i, want, results[i].Input)
				}
			}
		})
	}
}

func TestInputMonitor_Flush(t *testing.T) {
	m, _, rep := newTestMonitor()

	m.HandleData([]byte("20240105"))
	if len(rep.GetResults()) != 0 {
		t.Fatal("expected incomplete line to stay buffered")
	}

	m.Flush()
	if len(rep.GetResults()) != 1 {
		t.Fatalf("expected flush to process buffered line but got %d results", len(rep.GetResults()))
	}

	// Nothing left to flush
	m.Flush()
	if len(rep.GetResults()) != 1 {
		t.Errorf("expected second flush to be a no-op but got %d results", len(rep.GetResults()))
	}
}

func TestInputMonitor_Failures(t *testing.T) {
	m, res, rep := newTestMonitor()

	m.HandleLine("20240105")
	m.HandleLine("not a date")

	processed, failed := m.Stats()
	if processed != 2 {
		t.Errorf("expected 2 processed but got %d", processed)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed but got %d", failed)
	}

	results := rep.GetResults()
	if !errors.Is(results[1].Err, testutil.ErrUnknownInput) {
		t.Errorf("expected unknown input error but got %v", results[1].Err)
	}
	if results[1].Format != "" {
		t.Errorf("expected no format for unresolved input but got %q", results[1].Format)
	}

	// A parse failure keeps the resolved format
	parseErr := errors.New("day out of range")
	res.SetParseError(parseErr)
	m.HandleLine("2024-01-05")

	results = rep.GetResults()
	last := results[len(results)-1]
	if last.Format != "yyyy-MM-dd" {
		t.Errorf("expected format yyyy-MM-dd but got %q", last.Format)
	}
	if last.Err != parseErr {
		t.Errorf("expected parse error but got %v", last.Err)
	}
	if _, failed := m.Stats(); failed != 2 {
		t.Errorf("expected 2 failed but got %d", failed)
	}
}

func TestInputMonitor_Explain(t *testing.T) {
	m, res, rep := newTestMonitor()
	m.SetExplain(true)
	res.SetExplainError(errors.New("rule 3 broken"))

	m.HandleLine("20240105")

	results := rep.GetResults()
	if len(results) != 1 {
		t.Fatalf("expected 1 result but got %d", len(results))
	}
	if len(results[0].Matches) != 1 {
		t.Fatalf("expected 1 match but got %d", len(results[0].Matches))
	}
	if results[0].Matches[0].Rule.Format != "yyyyMMdd" {
		t.Errorf("expected match format yyyyMMdd but got %q", results[0].Matches[0].Rule.Format)
	}
	// Explain errors are logged, not reported as failures
	if !results[0].OK() {
		t.Errorf("expected result to be OK but got %v", results[0].Err)
	}
}

func TestInputMonitor_ResolvesOncePerLine(t *testing.T) {
	m, res, _ := newTestMonitor()
	m.SetExplain(true)

	m.HandleData([]byte("20240105\n2024-01-05\n"))

	calls := res.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 resolver calls but got %d: %v", len(calls), calls)
	}
	if calls[0] != "20240105" || calls[1] != "2024-01-05" {
		t.Errorf("unexpected calls %v", calls)
	}
}

func TestInputMonitor_ReporterError(t *testing.T) {
	m, _, rep := newTestMonitor()
	rep.SetError(errors.New("broken pipe"))

	m.HandleData([]byte("20240105\n2024-01-05\n"))

	if len(rep.GetAttempts()) != 2 {
		t.Errorf("expected both lines to be attempted but got %d", len(rep.GetAttempts()))
	}
	if processed, _ := m.Stats(); processed != 2 {
		t.Errorf("expected 2 processed but got %d", processed)
	}
}

func TestInputMonitor_WithResolver(t *testing.T) {
	res := resolver.New("", resolver.WithLocation(time.UTC))
	rep := testutil.NewMockReporter()
	m := NewInputMonitor(res, rep, zerolog.Nop())
	m.SetExplain(true)

	m.HandleData([]byte("20240105\nJanuary 05, 2024\nyesterday\n"))

	results := rep.GetResults()
	if len(results) != 3 {
		t.Fatalf("expected 3 results but got %d", len(results))
	}
	if results[0].EpochMillis() != 1704412800000 {
		t.Errorf("expected 1704412800000 but got %d", results[0].EpochMillis())
	}
	if results[1].Format != "MMMM dd, yyyy" {
		t.Errorf("expected MMMM dd, yyyy but got %q", results[1].Format)
	}
	if len(results[1].Matches) == 0 {
		t.Error("expected explain matches for a resolved input")
	}
	if !errors.Is(results[2].Err, resolver.ErrFormatUnresolved) {
		t.Errorf("expected ErrFormatUnresolved but got %v", results[2].Err)
	}
}
