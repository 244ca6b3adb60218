package datetime

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPattern is returned when a pattern name is not recognized.
var ErrUnknownPattern = errors.New("unknown pattern")

// Separator names shared by the date and time pattern families. The order
// here fixes the numbering of the pattern constants below.
var separators = []struct {
	name string
	sep  string
}{
	{"TOGETHER", ""},
	{"WHITE_SPACED", " "},
	{"UNDERSCORED", "_"},
	{"DOTTED", "."},
	{"DASHED", "-"},
}

// DatePattern selects how the date part of an instant is rendered.
type DatePattern int

// Date patterns: six field orders, each with five separators.
const (
	DateUnused DatePattern = iota
	DateYYYYMMDDTogether
	DateYYYYMMDDWhiteSpaced
	DateYYYYMMDDUnderscored
	DateYYYYMMDDDotted
	DateYYYYMMDDDashed
	DateYYMMDDTogether
	DateYYMMDDWhiteSpaced
	DateYYMMDDUnderscored
	DateYYMMDDDotted
	DateYYMMDDDashed
	DateMMDDYYYYTogether
	DateMMDDYYYYWhiteSpaced
	DateMMDDYYYYUnderscored
	DateMMDDYYYYDotted
	DateMMDDYYYYDashed
	DateMMDDYYTogether
	DateMMDDYYWhiteSpaced
	DateMMDDYYUnderscored
	DateMMDDYYDotted
	DateMMDDYYDashed
	DateDDMMYYYYTogether
	DateDDMMYYYYWhiteSpaced
	DateDDMMYYYYUnderscored
	DateDDMMYYYYDotted
	DateDDMMYYYYDashed
	DateDDMMYYTogether
	DateDDMMYYWhiteSpaced
	DateDDMMYYUnderscored
	DateDDMMYYDotted
	DateDDMMYYDashed
)

// TimePattern selects how the time part of an instant is rendered.
type TimePattern int

// Time patterns: four field sets, each with five separators.
const (
	TimeUnused TimePattern = iota
	TimeHHMMSS24Together
	TimeHHMMSS24WhiteSpaced
	TimeHHMMSS24Underscored
	TimeHHMMSS24Dotted
	TimeHHMMSS24Dashed
	TimeHHMM24Together
	TimeHHMM24WhiteSpaced
	TimeHHMM24Underscored
	TimeHHMM24Dotted
	TimeHHMM24Dashed
	TimeHHMMSSAmPmTogether
	TimeHHMMSSAmPmWhiteSpaced
	TimeHHMMSSAmPmUnderscored
	TimeHHMMSSAmPmDotted
	TimeHHMMSSAmPmDashed
	TimeHHMMAmPmTogether
	TimeHHMMAmPmWhiteSpaced
	TimeHHMMAmPmUnderscored
	TimeHHMMAmPmDotted
	TimeHHMMAmPmDashed
)

// CombinePattern selects how rendered date and time are joined.
type CombinePattern int

// Combine patterns. CombineEpochMillis ignores the date and time patterns.
const (
	CombineTogether CombinePattern = iota
	CombineWhiteSpaced
	CombineUnderscored
	CombineDotted
	CombineDashed
	CombineEpochMillis
)

// patternSpec is a named Go layout (or, for combiners, a printf template).
type patternSpec struct {
	name   string
	layout string
}

var (
	datePatterns    = buildPatterns(dateOrders)
	timePatterns    = buildPatterns(timeOrders)
	combinePatterns = buildCombinePatterns()
)

type fieldOrder struct {
	name   string
	fields []string
	suffix string
}

var dateOrders = []fieldOrder{
	{name: "YYYY_MM_DD", fields: []string{"2006", "01", "02"}},
	{name: "YY_MM_DD", fields: []string{"06", "01", "02"}},
	{name: "MM_DD_YYYY", fields: []string{"01", "02", "2006"}},
	{name: "MM_DD_YY", fields: []string{"01", "02", "06"}},
	{name: "DD_MM_YYYY", fields: []string{"02", "01", "2006"}},
	{name: "DD_MM_YY", fields: []string{"02", "01", "06"}},
}

// The AM/PM marker is always emitted lowercase; see ApplyAmPmCase.
var timeOrders = []fieldOrder{
	{name: "HH_MM_SS_24", fields: []string{"15", "04", "05"}},
	{name: "HH_MM_24", fields: []string{"15", "04"}},
	{name: "HH_MM_SS_AM_PM", fields: []string{"03", "04", "05"}, suffix: "pm"},
	{name: "HH_MM_AM_PM", fields: []string{"03", "04"}, suffix: "pm"},
}

func buildPatterns(orders []fieldOrder) []patternSpec {
	specs := make([]patternSpec, 0, 1+len(orders)*len(separators))
	specs = append(specs, patternSpec{name: "UNUSED"})
	for _, o := range orders {
		for _, s := range separators {
			specs = append(specs, patternSpec{
				name:   o.name + "_" + s.name,
				layout: strings.Join(o.fields, s.sep) + o.suffix,
			})
		}
	}
	return specs
}

func buildCombinePatterns() []patternSpec {
	specs := make([]patternSpec, 0, len(separators)+1)
	for _, s := range separators {
		specs = append(specs, patternSpec{name: "DATE_TIME_" + s.name, layout: "%s" + s.sep + "%s"})
	}
	return append(specs, patternSpec{name: "EPOCH_MILLIS"})
}

// String returns the pattern name, e.g. "YYYY_MM_DD_DASHED".
func (p DatePattern) String() string {
	return specName(datePatterns, int(p))
}

// Layout returns the Go time layout for the pattern, empty for DateUnused.
func (p DatePattern) Layout() string {
	return specLayout(datePatterns, int(p))
}

// String returns the pattern name, e.g. "HH_MM_SS_24_TOGETHER".
func (p TimePattern) String() string {
	return specName(timePatterns, int(p))
}

// Layout returns the Go time layout for the pattern, empty for TimeUnused.
func (p TimePattern) Layout() string {
	return specLayout(timePatterns, int(p))
}

// String returns the pattern name, e.g. "DATE_TIME_UNDERSCORED".
func (p CombinePattern) String() string {
	return specName(combinePatterns, int(p))
}

// Template returns the printf template joining date and time, date first.
func (p CombinePattern) Template() string {
	return specLayout(combinePatterns, int(p))
}

func specName(specs []patternSpec, i int) string {
	if i < 0 || i >= len(specs) {
		return "UNKNOWN"
	}
	return specs[i].name
}

func specLayout(specs []patternSpec, i int) string {
	if i < 0 || i >= len(specs) {
		return ""
	}
	return specs[i].layout
}

// normalizeName makes pattern lookup case-insensitive and accepts dashes.
func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
}

func lookup(specs []patternSpec, kind, name string, aliases ...string) (int, error) {
	n := normalizeName(name)
	for _, a := range aliases {
		if n == a {
			return 0, nil
		}
	}
	for i, s := range specs {
		if s.name == n {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownPattern, kind, name)
}

// ParseDatePattern parses a date pattern name. "UNUSED" and "NONE" select DateUnused.
func ParseDatePattern(name string) (DatePattern, error) {
	i, err := lookup(datePatterns, "date", name, "NONE")
	return DatePattern(i), err
}

// ParseTimePattern parses a time pattern name. "UNUSED" and "NONE" select TimeUnused.
func ParseTimePattern(name string) (TimePattern, error) {
	i, err := lookup(timePatterns, "time", name, "NONE")
	return TimePattern(i), err
}

// ParseCombinePattern parses a combine pattern name. The bare separator names
// ("DASHED") are accepted as well as the full "DATE_TIME_DASHED".
func ParseCombinePattern(name string) (CombinePattern, error) {
	n := normalizeName(name)
	if !strings.HasPrefix(n, "DATE_TIME_") && n != "EPOCH_MILLIS" {
		n = "DATE_TIME_" + n
	}
	i, err := lookup(combinePatterns, "combine", n)
	if err != nil {
		return CombineTogether, fmt.Errorf("%w: combine %q", ErrUnknownPattern, name)
	}
	return CombinePattern(i), nil
}

// DatePatterns returns every date pattern in declaration order.
func DatePatterns() []DatePattern {
	out := make([]DatePattern, len(datePatterns))
	for i := range datePatterns {
		out[i] = DatePattern(i)
	}
	return out
}

// TimePatterns returns every time pattern in declaration order.
func TimePatterns() []TimePattern {
	out := make([]TimePattern, len(timePatterns))
	for i := range timePatterns {
		out[i] = TimePattern(i)
	}
	return out
}

// CombinePatterns returns every combine pattern in declaration order.
func CombinePatterns() []CombinePattern {
	out := make([]CombinePattern, len(combinePatterns))
	for i := range combinePatterns {
		out[i] = CombinePattern(i)
	}
	return out
}
