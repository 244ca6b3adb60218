package datetime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Selectors is the triple of independent choices that determine rendered
// date/time text.
type Selectors struct {
	Date    DatePattern
	Time    TimePattern
	Combine CombinePattern
}

// DefaultSelectors renders "20060102_150405".
func DefaultSelectors() Selectors {
	return Selectors{
		Date:    DateYYYYMMDDTogether,
		Time:    TimeHHMMSS24Together,
		Combine: CombineUnderscored,
	}
}

// FormatDate renders the date part of t. A nil instant or DateUnused yields "".
func FormatDate(t *time.Time, p DatePattern) string {
	layout := p.Layout()
	if t == nil || layout == "" {
		return ""
	}
	return t.Format(layout)
}

// FormatTime renders the time part of t. A nil instant or TimeUnused yields "".
// Twelve-hour patterns end in a lowercase "am"/"pm" marker.
func FormatTime(t *time.Time, p TimePattern) string {
	layout := p.Layout()
	if t == nil || layout == "" {
		return ""
	}
	return t.Format(layout)
}

// FormatDateTime renders t with all three selectors.
//
// DateUnused together with TimeUnused always yields "", whatever the combiner.
// Otherwise CombineEpochMillis ignores the date and time patterns and yields
// the milliseconds since the Unix epoch, reading the normalized instant as UTC.
// For the other combiners the date and time parts are rendered independently;
// when only one of them is non-empty it is returned as is, and when both are,
// the combiner joins them date first.
func FormatDateTime(t *time.Time, s Selectors) string {
	if s.Date == DateUnused && s.Time == TimeUnused {
		return ""
	}
	if s.Combine == CombineEpochMillis {
		if t == nil {
			return ""
		}
		return strconv.FormatInt(Normalize(*t).UnixMilli(), 10)
	}

	dateText := FormatDate(t, s.Date)
	timeText := FormatTime(t, s.Time)
	return Combine(dateText, timeText, s.Combine)
}

// Combine joins already-rendered date and time text.
func Combine(dateText, timeText string, p CombinePattern) string {
	switch {
	case dateText == "" && timeText == "":
		return ""
	case timeText == "":
		return dateText
	case dateText == "":
		return timeText
	}

	tmpl := p.Template()
	if tmpl == "" {
		tmpl = CombineTogether.Template()
	}
	return fmt.Sprintf(tmpl, dateText, timeText)
}

var upperAmPm = strings.NewReplacer("am", "AM", "pm", "PM")

// ApplyAmPmCase sets the case of the AM/PM marker in text produced by
// FormatTime or FormatDateTime. Rendered digits and separators are unaffected.
func ApplyAmPmCase(text string, upper bool) string {
	if !upper {
		return text
	}
	return upperAmPm.Replace(text)
}
