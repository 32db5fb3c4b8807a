package layout

import (
	"errors"
	"fmt"
	"time"

	"github.com/tkuchiki/go-timezone"
)

var abbreviations = timezone.New()

// usZones names the North American meaning of the RFC 2822 abbreviations.
// Each of them is shared with other zones, so the database reports them as
// ambiguous.
var usZones = map[string]string{
	"EST": "Eastern Standard Time",
	"EDT": "Eastern Daylight Time",
	"CST": "Central Standard Time",
	"CDT": "Central Daylight Time",
	"MST": "Mountain Standard Time",
	"MDT": "Mountain Daylight Time",
	"PST": "Pacific Standard Time",
	"PDT": "Pacific Daylight Time",
}

// resolveZone fixes up times whose zone abbreviation was unknown to the
// parse location. The time package gives those a zero offset; the
// abbreviation database supplies the real one.
func resolveZone(t time.Time, loc *time.Location) (time.Time, error) {
	name, offset := t.Zone()
	if t.Location() == loc || offset != 0 {
		return t, nil
	}

	switch name {
	case "", "UTC", "GMT", "Z":
		return t, nil
	}

	offset, err := zoneOffset(name)
	if err != nil {
		return time.Time{}, err
	}

	zone := time.FixedZone(name, offset)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), zone), nil
}

// zoneOffset returns the offset in seconds east of UTC for abbr. Ambiguous
// abbreviations are accepted only for the US set.
func zoneOffset(abbr string) (int, error) {
	if tzname, ok := usZones[abbr]; ok {
		info, err := abbreviations.GetTzAbbreviationInfoByTZName(abbr, tzname)
		if err != nil {
			return 0, fmt.Errorf("%w: time zone abbreviation %q: %v", ErrMalformedValue, abbr, err)
		}
		return info.Offset(), nil
	}

	infos, err := abbreviations.GetTzAbbreviationInfo(abbr)
	switch {
	case errors.Is(err, timezone.ErrAmbiguousTzAbbreviations):
		return 0, fmt.Errorf("%w: ambiguous time zone abbreviation %q", ErrMalformedValue, abbr)
	case err != nil || len(infos) == 0:
		return 0, fmt.Errorf("%w: unknown time zone abbreviation %q", ErrMalformedValue, abbr)
	}
	return infos[0].Offset(), nil
}
