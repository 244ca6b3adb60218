package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jamesainslie/renamer/pkg/renamer/datetime"
)

// ErrInvalidAge is returned when an age is neither a relative age nor a date.
var ErrInvalidAge = errors.New("invalid age")

// Age is a cutoff point in time. A relative age counts back from the current
// time in calendar units; an absolute age is a fixed local date.
type Age struct {
	Years  int
	Months int
	Days   int
	Clock  time.Duration

	// At is the absolute cutoff. It is zero for relative ages.
	At time.Time
}

// IsZero reports whether the age sets no cutoff.
func (a Age) IsZero() bool {
	return a.At.IsZero() && a.Years == 0 && a.Months == 0 && a.Days == 0 && a.Clock == 0
}

// Cutoff returns the point in time the age refers to. Years, months and
// days follow the calendar as in time.AddDate, so "1mo" from March 31 is
// March 2 or 3.
func (a Age) Cutoff(now time.Time) time.Time {
	if !a.At.IsZero() {
		return a.At
	}
	return now.AddDate(-a.Years, -a.Months, -a.Days).Add(-a.Clock)
}

func (a Age) String() string {
	if !a.At.IsZero() {
		return a.At.Format(time.DateTime)
	}
	var sb strings.Builder
	for _, part := range []struct {
		n    int
		unit string
	}{{a.Years, "y"}, {a.Months, "mo"}, {a.Days, "d"}} {
		if part.n != 0 {
			sb.WriteString(strconv.Itoa(part.n) + part.unit)
		}
	}
	if a.Clock != 0 || sb.Len() == 0 {
		sb.WriteString(a.Clock.String())
	}
	return sb.String()
}

// ageTerm is one "<count><unit>" term of a relative age.
var ageTerm = regexp.MustCompile(`(?i)(\d+)(mo|y|w|d|h|m|s)`)

// ParseAge reads a relative age such as "30d", "2w", "1y6mo" or "1h30m", or
// a date understood by datetime.Parse such as "2024-01-01" or
// "2024:06:08 15:30:00", taken in the local time zone.
func ParseAge(s string) (Age, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Age{}, fmt.Errorf("%w: empty", ErrInvalidAge)
	}

	if age, ok := parseRelative(s); ok {
		return age, nil
	}

	t, err := datetime.Parse(s, "")
	if err != nil {
		return Age{}, fmt.Errorf("%w: %q is neither an age like 30d nor a date", ErrInvalidAge, s)
	}
	// Normalized instants keep the wall clock in UTC fields.
	return Age{At: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local)}, nil
}

// parseRelative accepts only strings made entirely of age terms, so "2024"
// falls through to the date parser.
func parseRelative(s string) (Age, bool) {
	spans := ageTerm.FindAllStringSubmatchIndex(s, -1)
	if len(spans) == 0 {
		return Age{}, false
	}

	var age Age
	end := 0
	for _, m := range spans {
		if m[0] != end {
			return Age{}, false
		}
		end = m[1]

		n, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil {
			return Age{}, false
		}
		switch strings.ToLower(s[m[4]:m[5]]) {
		case "y":
			age.Years += n
		case "mo":
			age.Months += n
		case "w":
			age.Days += 7 * n
		case "d":
			age.Days += n
		case "h":
			age.Clock += time.Duration(n) * time.Hour
		case "m":
			age.Clock += time.Duration(n) * time.Minute
		case "s":
			age.Clock += time.Duration(n) * time.Second
		}
	}
	if end != len(s) {
		return Age{}, false
	}
	return age, true
}
