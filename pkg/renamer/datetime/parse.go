// Package datetime is the date/time engine of the renamer. It parses the loose
// timestamp strings found in file and media metadata into normalized instants,
// picks one instant among competing sources, and renders instants through
// named date, time and combiner patterns.
//
// A normalized instant is a time.Time in time.UTC whose fields are the wall
// clock of the source. Offsets found while parsing are consumed and dropped,
// so two instants compare by calendar fields alone.
package datetime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is returned when a timestamp matches none of the known layouts.
var ErrUnparseable = errors.New("unparseable timestamp")

// ErrInvalidOffset is returned when an explicit UTC offset is malformed.
var ErrInvalidOffset = errors.New("invalid utc offset")

// offsetLayouts carry their own UTC offset. They are tried first and the
// first full match wins.
var offsetLayouts = []string{
	time.RFC1123Z,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006:01:02 15:04:05-07:00",
	"2006:01:02 15:04:05 -0700",
}

// localLayouts have no offset; the caller-supplied offset qualifies them.
var localLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006.01.02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006:01:02",
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"2006-01",
	"20060102",
	"2006",
}

// OffsetLayouts returns a copy of the offset-bearing layouts in match order.
func OffsetLayouts() []string {
	return append([]string(nil), offsetLayouts...)
}

// LocalLayouts returns a copy of the offset-less layouts in match order.
func LocalLayouts() []string {
	return append([]string(nil), localLayouts...)
}

// Parse converts a metadata timestamp into a normalized instant.
//
// Layouts with an embedded offset are tried first; their offset always takes
// precedence over explicitOffset. Otherwise the offset-less layouts are tried
// and explicitOffset ("+02:00", "-0700", "Z"; empty means UTC) qualifies the
// match. Layouts must match the whole string.
func Parse(text, explicitOffset string) (time.Time, error) {
	if text == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrUnparseable)
	}

	fraction := fractionPattern.MatchString(text)

	for _, layout := range offsetLayouts {
		if fraction && layout != time.RFC3339 {
			continue
		}
		t, err := time.Parse(layout, text)
		if err == nil && weekdayAgrees(layout, text, t) {
			return Normalize(t), nil
		}
	}

	seconds, err := ParseOffset(explicitOffset)
	if err != nil {
		return time.Time{}, err
	}
	loc := time.FixedZone("", seconds)
	for _, layout := range localLayouts {
		if fraction {
			break
		}
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return Normalize(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, text)
}

// fractionPattern finds fractional seconds. time.Parse accepts them after a
// seconds field even when the layout has none, so only RFC 3339 may carry
// them.
var fractionPattern = regexp.MustCompile(`\d:\d{2}[.,]\d`)

// weekdayAgrees checks the day name of layouts starting with "Mon" against
// the parsed date; time.Parse does not.
func weekdayAgrees(layout, text string, t time.Time) bool {
	if !strings.HasPrefix(layout, "Mon") {
		return true
	}
	return strings.HasPrefix(text, t.Weekday().String()[:3])
}

// ParseOptional is Parse for callers that treat failure as "unavailable".
func ParseOptional(text, explicitOffset string) *time.Time {
	t, err := Parse(text, explicitOffset)
	if err != nil {
		return nil
	}
	return &t
}

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2})(?::?(\d{2}))?$`)

// ParseOffset parses a UTC offset such as "+02:00", "-0700", "+05" or "Z"
// and returns it in seconds east of UTC. The empty string means UTC.
func ParseOffset(s string) (int, error) {
	switch strings.ToUpper(s) {
	case "", "Z", "UTC":
		return 0, nil
	}

	m := offsetPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}

	hours, _ := strconv.Atoi(m[2])
	minutes := 0
	if m[3] != "" {
		minutes, _ = strconv.Atoi(m[3])
	}
	if hours > 18 || minutes > 59 || (hours == 18 && minutes != 0) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidOffset, s)
	}

	seconds := hours*3600 + minutes*60
	if m[1] == "-" {
		seconds = -seconds
	}
	return seconds, nil
}

// Normalize drops the location of t and keeps its wall clock, truncated to
// whole seconds.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
