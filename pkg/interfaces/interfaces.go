// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import "time"

// FormatResolver classifies date strings and converts them to instants.
type FormatResolver interface {
	DetermineFormat(input string) (string, error)
	ParseToInstant(input string) (time.Time, error)
}

// LineHandler processes one input line at a time.
type LineHandler interface {
	HandleLine(line string)
}

// DataHandler processes raw input data.
type DataHandler interface {
	LineHandler
	HandleData(data []byte)
	Flush()
}
