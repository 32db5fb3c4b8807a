package report

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// TextReporter writes one tab-separated line per result
type TextReporter struct {
	mu         sync.Mutex
	w          io.Writer
	formatOnly bool
}

// NewTextReporter creates a new text reporter. With formatOnly set only the
// resolved template is written.
func NewTextReporter(w io.Writer, formatOnly bool) *TextReporter {
	return &TextReporter{
		w:          w,
		formatOnly: formatOnly,
	}
}

// Report writes the result
func (r *TextReporter) Report(result Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	switch {
	case result.Err != nil && result.Format != "":
		_, err = fmt.Fprintf(r.w, "%s\t%s\terror: %v\n", result.Input, result.Format, result.Err)
	case result.Err != nil:
		_, err = fmt.Fprintf(r.w, "%s\terror: %v\n", result.Input, result.Err)
	case r.formatOnly:
		_, err = fmt.Fprintf(r.w, "%s\t%s\n", result.Input, result.Format)
	default:
		_, err = fmt.Fprintf(r.w, "%s\t%s\t%d\t%s\n",
			result.Input,
			result.Format,
			result.EpochMillis(),
			result.Instant.Format(time.RFC3339))
	}
	if err != nil {
		return err
	}

	for i, m := range result.Matches {
		marker := "matched"
		switch {
		case result.Selected(i):
			marker = "selected"
		case result.Format != "":
			marker = "shadowed"
		}
		if _, err := fmt.Fprintf(r.w, "  #%d %s -> %s (%s)\n", m.Index, m.Rule.Regex, m.Rule.Format, marker); err != nil {
			return err
		}
	}
	return nil
}
