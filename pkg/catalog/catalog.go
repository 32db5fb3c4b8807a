// Package catalog holds the ordered rule set used to classify date strings.
package catalog

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/Veraticus/dateformat/pkg/types"
)

// DefaultMatchTimeout bounds a single expression match.
const DefaultMatchTimeout = 100 * time.Millisecond

var (
	// ErrInvalidRule is returned when a rule expression does not compile.
	ErrInvalidRule = errors.New("invalid rule expression")

	// ErrMatchTimeout is returned when a rule expression takes longer than
	// the match timeout.
	ErrMatchTimeout = errors.New("rule match timed out")
)

// RuleError reports a rule that could not be evaluated during a scan.
type RuleError struct {
	Index int
	Regex string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d %q: %v", e.Index, e.Regex, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Match is a rule that matched an input, with its position in the catalog.
type Match struct {
	Index int
	Rule  types.Rule
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithMatchTimeout sets the per-expression match timeout.
func WithMatchTimeout(d time.Duration) Option {
	return func(c *Catalog) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRules appends rules at construction time.
func WithRules(rules ...types.Rule) Option {
	return func(c *Catalog) {
		for _, r := range rules {
			c.entries = append(c.entries, &entry{rule: r})
		}
	}
}

// Catalog is an ordered, append-only list of rules. The first rule whose
// expression matches the whole input wins.
type Catalog struct {
	mu      sync.RWMutex
	entries []*entry
	timeout time.Duration
}

type entry struct {
	rule types.Rule
	once sync.Once
	re   *regexp2.Regexp
	err  error
}

// New creates an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{timeout: DefaultMatchTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefault creates a catalog seeded with the built-in rules, followed by
// any rules given through opts.
func NewDefault(opts ...Option) *Catalog {
	return New(append([]Option{WithRules(DefaultRules()...)}, opts...)...)
}

// Add appends a rule with the lowest priority. The expression is not
// validated until a scan reaches it.
func (c *Catalog) Add(regex, format string) {
	c.AddRule(types.Rule{Regex: regex, Format: format})
}

// AddRule appends r with the lowest priority and returns its index.
func (c *Catalog) AddRule(r types.Rule) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, &entry{rule: r})
	return len(c.entries) - 1
}

// Len returns the number of rules.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Rules returns a copy of the rules in priority order.
func (c *Catalog) Rules() []types.Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rules := make([]types.Rule, len(c.entries))
	for i, e := range c.entries {
		rules[i] = e.rule
	}
	return rules
}

// First returns the first rule matching input. ok is false when no rule
// matches. A rule that cannot be evaluated stops the scan with a *RuleError.
func (c *Catalog) First(input string) (Match, bool, error) {
	for i, e := range c.snapshot() {
		matched, err := e.match(input, c.timeout)
		if err != nil {
			return Match{}, false, &RuleError{Index: i, Regex: e.rule.Regex, Err: err}
		}
		if matched {
			return Match{Index: i, Rule: e.rule}, true, nil
		}
	}
	return Match{}, false, nil
}

// MatchAll returns every rule matching input in priority order. Rules that
// cannot be evaluated are skipped and reported in the joined error.
func (c *Catalog) MatchAll(input string) ([]Match, error) {
	var (
		matches []Match
		errs    []error
	)
	for i, e := range c.snapshot() {
		matched, err := e.match(input, c.timeout)
		if err != nil {
			errs = append(errs, &RuleError{Index: i, Regex: e.rule.Regex, Err: err})
			continue
		}
		if matched {
			matches = append(matches, Match{Index: i, Rule: e.rule})
		}
	}
	return matches, errors.Join(errs...)
}

func (c *Catalog) snapshot() []*entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[:len(c.entries):len(c.entries)]
}

func (e *entry) match(input string, timeout time.Duration) (bool, error) {
	e.once.Do(func() {
		// Compile the bare expression first so a stray ')' can't pair up
		// with the anchoring group.
		if _, err := regexp2.Compile(e.rule.Regex, regexp2.None); err != nil {
			e.err = fmt.Errorf("%w: %w", ErrInvalidRule, err)
			return
		}
		re, err := regexp2.Compile(`\A(?:`+e.rule.Regex+`)\z`, regexp2.None)
		if err != nil {
			e.err = fmt.Errorf("%w: %w", ErrInvalidRule, err)
			return
		}
		re.MatchTimeout = timeout
		e.re = re
	})
	if e.err != nil {
		return false, e.err
	}

	matched, err := e.re.MatchString(input)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMatchTimeout, err)
	}
	return matched, nil
}
