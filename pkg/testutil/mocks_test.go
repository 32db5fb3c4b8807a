package testutil

import (
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/dateformat/pkg/report"
)

func TestMockReporter(t *testing.T) {
	t.Run("successful report", func(t *testing.T) {
		mock := NewMockReporter()

		err := mock.Report(report.Result{Input: "2024-01-05"})
		if err != nil {
			t.Errorf("Report() error = %v, want nil", err)
		}

		if len(mock.GetResults()) != 1 {
			t.Errorf("GetResults() returned %d, want 1", len(mock.GetResults()))
		}
		if len(mock.GetAttempts()) != 1 {
			t.Errorf("GetAttempts() returned %d, want 1", len(mock.GetAttempts()))
		}
	})

	t.Run("report with error", func(t *testing.T) {
		mock := NewMockReporter()
		mockErr := errors.New("test error")
		mock.SetError(mockErr)

		err := mock.Report(report.Result{Input: "2024-01-05"})
		if err != mockErr {
			t.Errorf("Report() error = %v, want %v", err, mockErr)
		}

		// Should have no successful results
		if len(mock.GetResults()) != 0 {
			t.Errorf("GetResults() returned %d, want 0", len(mock.GetResults()))
		}

		// But should have an attempt
		if len(mock.GetAttempts()) != 1 {
			t.Errorf("GetAttempts() returned %d, want 1", len(mock.GetAttempts()))
		}
	})

	t.Run("clear state", func(t *testing.T) {
		mock := NewMockReporter()
		_ = mock.Report(report.Result{Input: "x"})
		mock.SetError(errors.New("error"))

		mock.Clear()

		if len(mock.GetResults()) != 0 {
			t.Error("Clear() did not reset results")
		}
		if len(mock.GetAttempts()) != 0 {
			t.Error("Clear() did not reset attempts")
		}
		if err := mock.Report(report.Result{Input: "after clear"}); err != nil {
			t.Error("Clear() did not reset error")
		}
	})
}

func TestMockResolver(t *testing.T) {
	instant := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("known input", func(t *testing.T) {
		mock := NewMockResolver()
		mock.Set("20240105", "yyyyMMdd", instant)

		format, err := mock.DetermineFormat("20240105")
		if err != nil || format != "yyyyMMdd" {
			t.Errorf("DetermineFormat() = %q, %v, want yyyyMMdd, nil", format, err)
		}

		got, err := mock.ParseToInstant("20240105")
		if err != nil || !got.Equal(instant) {
			t.Errorf("ParseToInstant() = %v, %v, want %v, nil", got, err, instant)
		}

		matches, err := mock.Explain("20240105")
		if err != nil || len(matches) != 1 {
			t.Errorf("Explain() returned %d matches, %v, want 1, nil", len(matches), err)
		}
	})

	t.Run("unknown input", func(t *testing.T) {
		mock := NewMockResolver()

		if _, err := mock.DetermineFormat("nope"); !errors.Is(err, ErrUnknownInput) {
			t.Errorf("DetermineFormat() error = %v, want ErrUnknownInput", err)
		}
		if _, err := mock.ParseToInstant("nope"); !errors.Is(err, ErrUnknownInput) {
			t.Errorf("ParseToInstant() error = %v, want ErrUnknownInput", err)
		}
	})

	t.Run("parse error", func(t *testing.T) {
		mock := NewMockResolver()
		mock.Set("20241305", "yyyyMMdd", time.Time{})
		parseErr := errors.New("month out of range")
		mock.SetParseError(parseErr)

		if _, err := mock.ParseToInstant("20241305"); err != parseErr {
			t.Errorf("ParseToInstant() error = %v, want %v", err, parseErr)
		}

		format, _, err := mock.Resolve("20241305")
		if err != parseErr || format != "yyyyMMdd" {
			t.Errorf("Resolve() = %q, %v, want yyyyMMdd, %v", format, err, parseErr)
		}
	})

	t.Run("resolve", func(t *testing.T) {
		mock := NewMockResolver()
		mock.Set("20240105", "yyyyMMdd", instant)

		format, got, err := mock.Resolve("20240105")
		if err != nil || format != "yyyyMMdd" || !got.Equal(instant) {
			t.Errorf("Resolve() = %q, %v, %v, want yyyyMMdd, %v, nil", format, got, err, instant)
		}
		if _, _, err := mock.Resolve("nope"); !errors.Is(err, ErrUnknownInput) {
			t.Errorf("Resolve() error = %v, want ErrUnknownInput", err)
		}
	})

	t.Run("records calls", func(t *testing.T) {
		mock := NewMockResolver()
		_, _ = mock.DetermineFormat("a")
		_, _ = mock.DetermineFormat("b")

		calls := mock.Calls()
		if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
			t.Errorf("Calls() = %v, want [a b]", calls)
		}
	})
}
