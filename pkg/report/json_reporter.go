package report

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// JSONReporter writes one JSON object per line
type JSONReporter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

type jsonResult struct {
	Input       string      `json:"input"`
	Format      string      `json:"format,omitempty"`
	EpochMillis *int64      `json:"epoch_millis,omitempty"`
	Time        string      `json:"time,omitempty"`
	Error       string      `json:"error,omitempty"`
	Matches     []jsonMatch `json:"matches,omitempty"`
}

type jsonMatch struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Regex  string `json:"regex"`
	Format   string `json:"format"`
	Selected bool   `json:"selected"`
}

// NewJSONReporter creates a new JSON lines reporter
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(w)}
}

// Report writes the result
func (r *JSONReporter) Report(result Result) error {
	out := jsonResult{
		Input:  result.Input,
		Format: result.Format,
	}
	if result.Err != nil {
		out.Error = result.Err.Error()
	} else {
		millis := result.EpochMillis()
		out.EpochMillis = &millis
		out.Time = result.Instant.Format(time.RFC3339Nano)
	}
	for i, m := range result.Matches {
		out.Matches = append(out.Matches, jsonMatch{
			Index:    m.Index,
			Name:     m.Rule.Name,
			Regex:    m.Rule.Regex,
			Format:   m.Rule.Format,
			Selected: result.Selected(i),
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(out)
}
