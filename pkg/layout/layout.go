// Package layout translates date format templates (yyyy-MM-dd HH:mm style)
// into Go reference layouts and parses values against them.
package layout

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidTemplate is returned when a template contains tokens or
	// literal text that cannot be expressed as a Go layout.
	ErrInvalidTemplate = errors.New("invalid format template")

	// ErrMalformedValue is returned when a value has the shape of a template
	// but its fields are out of range or otherwise unparseable.
	ErrMalformedValue = errors.New("malformed date value")
)

// goWords are literal sequences the time package would read as layout
// elements instead of text. Literals are upper-cased before the check.
var goWords = []string{"MST", "PM", "_"}

// Layout is a compiled format template.
type Layout struct {
	template string
	layout   string
	zone     bool
}

// token is either a run of one pattern letter or literal text.
type token struct {
	letter  byte
	width   int
	literal string
}

func (t token) numeric() bool {
	switch t.letter {
	case 'y', 'd', 'H', 'h', 'm', 's':
		return true
	case 'M':
		return t.width <= 2
	}
	return false
}

// Compile translates a format template into a Go reference layout.
func Compile(template string) (*Layout, error) {
	tokens, err := tokenize(template)
	if err != nil {
		return nil, err
	}

	l := &Layout{template: template}
	var b strings.Builder
	for i, tok := range tokens {
		if tok.letter == 0 {
			// Values are upper-cased before parsing.
			b.WriteString(strings.ToUpper(tok.literal))
			continue
		}

		// Adjacent numeric fields have no separator to stop on, so they are
		// read at their full width.
		fixed := tok.numeric() &&
			((i > 0 && tokens[i-1].numeric()) || (i+1 < len(tokens) && tokens[i+1].numeric()))

		if tok.letter == 'S' {
			if i < 2 || tokens[i-1].letter != 0 || tokens[i-2].letter != 's' ||
				!strings.HasSuffix(tokens[i-1].literal, ".") && !strings.HasSuffix(tokens[i-1].literal, ",") {
				return nil, fmt.Errorf("%w: %q: fraction must follow seconds and a '.' or ','", ErrInvalidTemplate, template)
			}
			b.WriteString(strings.Repeat("0", tok.width))
			continue
		}

		chunk, err := tok.chunk(fixed)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTemplate, template, err)
		}
		if tok.letter == 'z' {
			l.zone = true
		}
		b.WriteString(chunk)
	}

	l.layout = b.String()
	return l, nil
}

// MustCompile is like Compile but panics if the template is invalid.
func MustCompile(template string) *Layout {
	l, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return l
}

// Template returns the template the layout was compiled from.
func (l *Layout) Template() string {
	return l.template
}

// String returns the Go reference layout.
func (l *Layout) String() string {
	return l.layout
}

// Parse interprets value against the layout. Values without zone
// information are placed in loc; a nil loc means time.Local.
func (l *Layout) Parse(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	// Month and weekday names match case-insensitively, but AM/PM markers
	// and zone abbreviations are only recognised in upper case.
	t, err := time.ParseInLocation(l.layout, strings.ToUpper(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformedValue, err)
	}

	if l.zone {
		return resolveZone(t, loc)
	}
	return t, nil
}

// Parse compiles template and parses value against it.
func Parse(template, value string, loc *time.Location) (time.Time, error) {
	l, err := Compile(template)
	if err != nil {
		return time.Time{}, err
	}
	return l.Parse(value, loc)
}

func (t token) chunk(fixed bool) (string, error) {
	switch t.letter {
	case 'y':
		switch t.width {
		case 2:
			return "06", nil
		case 4:
			return "2006", nil
		}
		return "", fmt.Errorf("year width %d not supported (use yy or yyyy)", t.width)
	case 'M':
		switch {
		case t.width >= 4:
			return "January", nil
		case t.width == 3:
			return "Jan", nil
		case fixed:
			return "01", nil
		}
		return "1", nil
	case 'd':
		return pick(fixed, "02", "2"), nil
	case 'H':
		return "15", nil
	case 'h':
		return pick(fixed, "03", "3"), nil
	case 'm':
		return pick(fixed, "04", "4"), nil
	case 's':
		return pick(fixed, "05", "5"), nil
	case 'a':
		return "PM", nil
	case 'E':
		if t.width >= 4 {
			return "Monday", nil
		}
		return "Mon", nil
	case 'z':
		return "MST", nil
	case 'Z':
		return "-0700", nil
	case 'X':
		switch t.width {
		case 1:
			return "Z07", nil
		case 2:
			return "Z0700", nil
		}
		return "Z07:00", nil
	}
	return "", fmt.Errorf("unsupported pattern letter %q", t.letter)
}

func pick(fixed bool, wide, narrow string) string {
	if fixed {
		return wide
	}
	return narrow
}

func tokenize(template string) ([]token, error) {
	var tokens []token
	addLiteral := func(s string) {
		if n := len(tokens); n > 0 && tokens[n-1].letter == 0 {
			tokens[n-1].literal += s
			return
		}
		tokens = append(tokens, token{literal: s})
	}

	for i := 0; i < len(template); {
		c := template[i]
		switch {
		case isLetter(c):
			j := i
			for j < len(template) && template[j] == c {
				j++
			}
			tokens = append(tokens, token{letter: c, width: j - i})
			i = j
		case c == '\'':
			text, next, err := quoted(template, i)
			if err != nil {
				return nil, err
			}
			addLiteral(text)
			i = next
		default:
			addLiteral(string(c))
			i++
		}
	}

	for _, tok := range tokens {
		if tok.letter != 0 {
			continue
		}
		if strings.ContainsAny(tok.literal, "0123456789") {
			return nil, fmt.Errorf("%w: %q: digits in literal text", ErrInvalidTemplate, template)
		}
		upper := strings.ToUpper(tok.literal)
		for _, w := range goWords {
			if strings.Contains(upper, w) {
				return nil, fmt.Errorf("%w: %q: literal %q is a layout element", ErrInvalidTemplate, template, w)
			}
		}
	}
	return tokens, nil
}

// quoted reads a quoted literal starting at template[start] and returns the
// unquoted text and the index after the closing quote. '' is a single quote.
func quoted(template string, start int) (string, int, error) {
	if start+1 < len(template) && template[start+1] == '\'' {
		return "'", start + 2, nil
	}

	var b strings.Builder
	for i := start + 1; i < len(template); i++ {
		if template[i] != '\'' {
			b.WriteByte(template[i])
			continue
		}
		if i+1 < len(template) && template[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		return b.String(), i + 1, nil
	}
	return "", 0, fmt.Errorf("%w: %q: unterminated quote", ErrInvalidTemplate, template)
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
