// Package resolver determines the format of free-form date strings and
// converts them to instants.
package resolver

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/dateformat/pkg/catalog"
	"github.com/Veraticus/dateformat/pkg/interfaces"
	"github.com/Veraticus/dateformat/pkg/layout"
	"github.com/Veraticus/dateformat/pkg/types"
)

var (
	// ErrFormatUnresolved is returned when no rule matches the input.
	ErrFormatUnresolved = errors.New("unknown date format")

	// ErrEmptyInput is returned when asked to parse an empty string.
	ErrEmptyInput = errors.New("empty date string")

	// ErrMalformedValue is returned when the input matched a rule but its
	// fields could not be parsed under the rule's template.
	ErrMalformedValue = layout.ErrMalformedValue

	// ErrInvalidTemplate is returned when a matched rule's template cannot
	// be used for parsing.
	ErrInvalidTemplate = layout.ErrInvalidTemplate

	// ErrInvalidRule is returned when a scan reaches a rule whose
	// expression does not compile.
	ErrInvalidRule = catalog.ErrInvalidRule
)

// ParseError describes a failure to parse an input under its resolved format.
type ParseError struct {
	Input  string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %q as %q: %v", e.Input, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	location     *time.Location
	logger       zerolog.Logger
	rules        []types.Rule
	matchTimeout time.Duration
}

// WithLocation sets the location used for values without zone information.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// WithLogger sets the logger for debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRules appends rules after the built-in set at construction time.
func WithRules(rules ...types.Rule) Option {
	return func(o *options) {
		o.rules = append(o.rules, rules...)
	}
}

// WithMatchTimeout bounds each rule expression match.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.matchTimeout = d
	}
}

// Resolver owns a subject date string and the rule catalog used to
// interpret it.
type Resolver struct {
	mu      sync.Mutex
	subject string
	format  string

	catalog  *catalog.Catalog
	location *time.Location
	log      zerolog.Logger
}

// Ensure Resolver implements FormatResolver
var _ interfaces.FormatResolver = (*Resolver)(nil)

// New creates a resolver for subject seeded with the built-in rules.
func New(subject string, opts ...Option) *Resolver {
	o := options{
		location: time.Local,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.location == nil {
		o.location = time.Local
	}

	return &Resolver{
		subject: subject,
		catalog: catalog.NewDefault(
			catalog.WithRules(o.rules...),
			catalog.WithMatchTimeout(o.matchTimeout),
		),
		location: o.location,
		log:      o.logger,
	}
}

// NewParsed is like New but parses a non-empty subject immediately and
// fails if it cannot be converted.
func NewParsed(subject string, opts ...Option) (*Resolver, error) {
	r := New(subject, opts...)
	if subject == "" {
		return r, nil
	}
	if _, err := r.ParseToInstant(subject); err != nil {
		return nil, err
	}
	return r, nil
}

// Subject returns the stored date string.
func (r *Resolver) Subject() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subject
}

// SetSubject replaces the stored date string.
func (r *Resolver) SetSubject(subject string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subject = subject
}

// Format returns the stored format string. The resolver never sets it.
func (r *Resolver) Format() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.format
}

// SetFormat stores a format string for the caller.
func (r *Resolver) SetFormat(format string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.format = format
}

// Location returns the location used for values without zone information.
func (r *Resolver) Location() *time.Location {
	return r.location
}

// Rules returns the catalog rules in priority order.
func (r *Resolver) Rules() []types.Rule {
	return r.catalog.Rules()
}

// AddRule appends a rule with the lowest priority.
func (r *Resolver) AddRule(regex, format string) {
	r.catalog.Add(regex, format)
}

// Append is AddRule for a rule carrying a name or description. It returns
// the rule's index in the catalog.
func (r *Resolver) Append(rule types.Rule) int {
	return r.catalog.AddRule(rule)
}

// DetermineFormat returns the template of the first rule matching input,
// compared case-insensitively. It returns ErrFormatUnresolved when no rule
// matches.
func (r *Resolver) DetermineFormat(input string) (string, error) {
	normalized := strings.ToLower(input)

	m, ok, err := r.catalog.First(normalized)
	if err != nil {
		r.log.Debug().Err(err).Str("input", input).Msg("Rule scan failed")
		return "", err
	}
	if !ok {
		r.log.Debug().Str("input", input).Msg("No rule matched")
		return "", fmt.Errorf("%w: %q", ErrFormatUnresolved, input)
	}

	r.log.Debug().
		Str("input", input).
		Int("rule", m.Index).
		Str("format", m.Rule.Format).
		Msg("Resolved format")
	return m.Rule.Format, nil
}

// ParseToInstant resolves the format of input and parses it.
func (r *Resolver) ParseToInstant(input string) (time.Time, error) {
	_, t, err := r.Resolve(input)
	return t, err
}

// Resolve determines the format of input and parses it with a single scan
// of the catalog. The format is returned whenever a rule matched, even if
// the value could not be parsed.
func (r *Resolver) Resolve(input string) (string, time.Time, error) {
	if input == "" {
		return "", time.Time{}, ErrEmptyInput
	}

	format, err := r.DetermineFormat(input)
	if err != nil {
		return "", time.Time{}, err
	}

	t, err := layout.Parse(format, input, r.location)
	if err != nil {
		r.log.Debug().Err(err).Str("input", input).Str("format", format).Msg("Parse failed")
		return format, time.Time{}, &ParseError{Input: input, Format: format, Err: err}
	}
	return format, t, nil
}

// EpochMillis parses the stored subject and returns milliseconds since the
// Unix epoch.
func (r *Resolver) EpochMillis() (int64, error) {
	t, err := r.ParseToInstant(r.Subject())
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// Explain returns every rule matching input in priority order. Rules that
// fail to compile are skipped, so the first entry is the rule DetermineFormat
// would use only if no broken rule comes before it.
func (r *Resolver) Explain(input string) ([]catalog.Match, error) {
	return r.catalog.MatchAll(strings.ToLower(input))
}
