package monitor

import (
	"bytes"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Veraticus/dateformat/pkg/interfaces"
	"github.com/Veraticus/dateformat/pkg/report"
)

// InputMonitor splits input into lines, resolves each one and reports the result
type InputMonitor struct {
	resolver Resolver
	reporter report.Reporter
	log      zerolog.Logger

	mu         sync.Mutex
	lineBuffer bytes.Buffer
	explain    bool
	processed  int
	failed     int
}

// Ensure InputMonitor implements DataHandler
var _ interfaces.DataHandler = (*InputMonitor)(nil)

// NewInputMonitor creates a new input monitor
func NewInputMonitor(resolver Resolver, reporter report.Reporter, log zerolog.Logger) *InputMonitor {
	return &InputMonitor{
		resolver: resolver,
		reporter: reporter,
		log:      log,
	}
}

// SetExplain sets whether results include every matching rule
func (m *InputMonitor) SetExplain(explain bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.explain = explain
}

// HandleData processes raw input data
func (m *InputMonitor) HandleData(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Add data to line buffer
	m.lineBuffer.Write(data)

	// Process complete lines
	buffer := m.lineBuffer.Bytes()
	start := 0
	for i := 0; i < len(buffer); i++ {
		if buffer[i] == '\n' {
			m.processLine(string(buffer[start:i]))
			start = i + 1
		}
	}

	// Keep any incomplete line in the buffer
	rest := append([]byte(nil), buffer[start:]...)
	m.lineBuffer.Reset()
	m.lineBuffer.Write(rest)
}

// HandleLine implements the LineHandler interface
func (m *InputMonitor) HandleLine(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processLine(line)
}

// Flush processes any remaining data in the buffer
func (m *InputMonitor) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lineBuffer.Len() > 0 {
		line := m.lineBuffer.String()
		m.lineBuffer.Reset()
		m.processLine(line)
	}
}

// Stats returns how many lines were resolved and how many of them failed
func (m *InputMonitor) Stats() (processed, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processed, m.failed
}

// processLine resolves a single line; m.mu must be held
func (m *InputMonitor) processLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	result := m.resolve(line)
	m.processed++
	if !result.OK() {
		m.failed++
	}

	if err := m.reporter.Report(result); err != nil {
		// Keep going; one failed write shouldn't drop the rest of the input
		m.log.Error().Err(err).Str("input", line).Msg("Failed to write result")
	}
}

func (m *InputMonitor) resolve(input string) report.Result {
	result := report.Result{Input: input}

	if m.explain {
		matches, err := m.resolver.Explain(input)
		if err != nil {
			m.log.Warn().Err(err).Str("input", input).Msg("Some rules could not be evaluated")
		}
		result.Matches = matches
	}

	result.Format, result.Instant, result.Err = m.resolver.Resolve(input)
	return result
}
