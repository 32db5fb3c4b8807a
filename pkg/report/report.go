// Package report writes resolution results.
package report

import (
	"time"

	"github.com/Veraticus/dateformat/pkg/catalog"
)

// Result is the outcome of resolving one input.
type Result struct {
	Input   string
	Format  string
	Instant time.Time
	Matches []catalog.Match
	Err     error
}

// OK reports whether the input resolved and parsed.
func (r Result) OK() bool {
	return r.Err == nil
}

// EpochMillis returns the instant as milliseconds since the Unix epoch.
func (r Result) EpochMillis() int64 {
	return r.Instant.UnixMilli()
}

// Selected reports whether Matches[i] is the rule the input resolved to.
// Nothing is selected when the scan failed before a format was chosen,
// for instance on a broken rule ahead of the first match.
func (r Result) Selected(i int) bool {
	return i == 0 && r.Format != "" && len(r.Matches) > 0 && r.Matches[0].Rule.Format == r.Format
}

// Reporter writes results.
type Reporter interface {
	Report(result Result) error
}
