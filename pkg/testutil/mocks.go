package testutil

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Veraticus/dateformat/pkg/catalog"
	"github.com/Veraticus/dateformat/pkg/report"
	"github.com/Veraticus/dateformat/pkg/types"
)

// ErrUnknownInput is returned by MockResolver for inputs it was not given
var ErrUnknownInput = errors.New("mock: unknown input")

// MockReporter is a thread-safe mock implementation of report.Reporter for testing
type MockReporter struct {
	mu        sync.Mutex
	results   []report.Result
	attempts  []report.Result // Track all report attempts
	reportErr error
}

// NewMockReporter creates a new mock reporter
func NewMockReporter() *MockReporter {
	return &MockReporter{
		results:  []report.Result{},
		attempts: []report.Result{},
	}
}

// Report implements the Reporter interface
func (m *MockReporter) Report(r report.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Always track the attempt
	m.attempts = append(m.attempts, r)

	if m.reportErr != nil {
		return m.reportErr
	}

	m.results = append(m.results, r)
	return nil
}

// GetResults returns a copy of successfully reported results
func (m *MockReporter) GetResults() []report.Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]report.Result, len(m.results))
	copy(result, m.results)
	return result
}

// GetAttempts returns a copy of all report attempts (including failures)
func (m *MockReporter) GetAttempts() []report.Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]report.Result, len(m.attempts))
	copy(result, m.attempts)
	return result
}

// SetError sets the error to return on Report calls
func (m *MockReporter) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportErr = err
}

// Clear resets the mock state
func (m *MockReporter) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = []report.Result{}
	m.attempts = []report.Result{}
	m.reportErr = nil
}

// MockResolver is a mock resolver answering from a fixed table of inputs
type MockResolver struct {
	mu         sync.Mutex
	formats    map[string]string
	instants   map[string]time.Time
	parseErr   error
	explainErr error
	calls      []string
}

// NewMockResolver creates a new mock resolver with no known inputs
func NewMockResolver() *MockResolver {
	return &MockResolver{
		formats:  make(map[string]string),
		instants: make(map[string]time.Time),
	}
}

// Set registers the format and instant returned for input
func (m *MockResolver) Set(input, format string, instant time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formats[input] = format
	m.instants[input] = instant
}

// SetParseError makes ParseToInstant and Resolve fail for every known input
func (m *MockResolver) SetParseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parseErr = err
}

// SetExplainError sets the error returned alongside Explain results
func (m *MockResolver) SetExplainError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.explainErr = err
}

// DetermineFormat implements the FormatResolver interface
func (m *MockResolver) DetermineFormat(input string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, input)

	format, ok := m.formats[input]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownInput, input)
	}
	return format, nil
}

// ParseToInstant implements the FormatResolver interface
func (m *MockResolver) ParseToInstant(input string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.formats[input]; !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownInput, input)
	}
	if m.parseErr != nil {
		return time.Time{}, m.parseErr
	}
	return m.instants[input], nil
}

// Resolve answers with the registered format and instant. The format is
// returned alongside a parse error, as the real resolver does.
func (m *MockResolver) Resolve(input string) (string, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, input)

	format, ok := m.formats[input]
	if !ok {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrUnknownInput, input)
	}
	if m.parseErr != nil {
		return format, time.Time{}, m.parseErr
	}
	return format, m.instants[input], nil
}

// Explain returns a single match for known inputs
func (m *MockResolver) Explain(input string) ([]catalog.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	format, ok := m.formats[input]
	if !ok {
		return nil, m.explainErr
	}
	match := catalog.Match{Rule: types.Rule{Regex: "mock", Format: format}}
	return []catalog.Match{match}, m.explainErr
}

// Calls returns the inputs passed to DetermineFormat or Resolve in order
func (m *MockResolver) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]string, len(m.calls))
	copy(result, m.calls)
	return result
}
