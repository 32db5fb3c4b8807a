package monitor

import (
	"time"

	"github.com/Veraticus/dateformat/pkg/catalog"
	"github.com/Veraticus/dateformat/pkg/interfaces"
)

// Resolver resolves inputs and explains which rules matched them.
type Resolver interface {
	interfaces.FormatResolver
	Resolve(input string) (string, time.Time, error)
	Explain(input string) ([]catalog.Match, error)
}
