package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var afternoon = time.Date(2024, 6, 8, 15, 30, 45, 0, time.UTC)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		pattern DatePattern
		want    string
	}{
		{pattern: DateUnused, want: ""},
		{pattern: DateYYYYMMDDTogether, want: "20240608"},
		{pattern: DateYYYYMMDDDashed, want: "2024-06-08"},
		{pattern: DateYYMMDDDotted, want: "24.06.08"},
		{pattern: DateMMDDYYYYWhiteSpaced, want: "06 08 2024"},
		{pattern: DateMMDDYYUnderscored, want: "06_08_24"},
		{pattern: DateDDMMYYYYDashed, want: "08-06-2024"},
		{pattern: DateDDMMYYTogether, want: "080624"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(&afternoon, tt.pattern))
		})
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		pattern TimePattern
		want    string
	}{
		{pattern: TimeUnused, want: ""},
		{pattern: TimeHHMMSS24Together, want: "153045"},
		{pattern: TimeHHMMSS24Dotted, want: "15.30.45"},
		{pattern: TimeHHMM24Dashed, want: "15-30"},
		{pattern: TimeHHMMSSAmPmTogether, want: "033045pm"},
		{pattern: TimeHHMMSSAmPmUnderscored, want: "03_30_45pm"},
		{pattern: TimeHHMMAmPmWhiteSpaced, want: "03 30pm"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTime(&afternoon, tt.pattern))
		})
	}

	morning := time.Date(2024, 6, 8, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "09.05am", FormatTime(&morning, TimeHHMMAmPmDotted))
}

func TestFormat_NilInstant(t *testing.T) {
	for _, p := range DatePatterns() {
		assert.Empty(t, FormatDate(nil, p), p.String())
	}
	for _, p := range TimePatterns() {
		assert.Empty(t, FormatTime(nil, p), p.String())
	}
	for _, c := range CombinePatterns() {
		assert.Empty(t, FormatDateTime(nil, Selectors{
			Date:    DateYYYYMMDDTogether,
			Time:    TimeHHMMSS24Together,
			Combine: c,
		}), c.String())
	}
}

func TestFormatDateTime_BothUnusedIsEmpty(t *testing.T) {
	for _, c := range CombinePatterns() {
		got := FormatDateTime(&afternoon, Selectors{Date: DateUnused, Time: TimeUnused, Combine: c})
		assert.Empty(t, got, c.String())
	}
}

func TestFormatDateTime(t *testing.T) {
	tests := []struct {
		name string
		sel  Selectors
		want string
	}{
		{
			name: "defaults",
			sel:  DefaultSelectors(),
			want: "20240608_153045",
		},
		{
			name: "dashed combiner",
			sel:  Selectors{Date: DateYYYYMMDDTogether, Time: TimeHHMMSS24Together, Combine: CombineDashed},
			want: "20240608-153045",
		},
		{
			name: "white spaced combiner",
			sel:  Selectors{Date: DateYYYYMMDDDashed, Time: TimeHHMM24Dotted, Combine: CombineWhiteSpaced},
			want: "2024-06-08 15.30",
		},
		{
			name: "date only ignores combiner",
			sel:  Selectors{Date: DateDDMMYYYYDotted, Time: TimeUnused, Combine: CombineDashed},
			want: "08.06.2024",
		},
		{
			name: "time only ignores combiner",
			sel:  Selectors{Date: DateUnused, Time: TimeHHMMSSAmPmDashed, Combine: CombineUnderscored},
			want: "03-30-45pm",
		},
		{
			name: "epoch millis ignores patterns",
			sel:  Selectors{Date: DateYYMMDDDotted, Time: TimeHHMM24Dashed, Combine: CombineEpochMillis},
			want: "1717860645000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDateTime(&afternoon, tt.sel))
		})
	}
}

func TestCombine(t *testing.T) {
	assert.Equal(t, "", Combine("", "", CombineDashed))
	assert.Equal(t, "20240608", Combine("20240608", "", CombineDashed))
	assert.Equal(t, "153045", Combine("", "153045", CombineDashed))
	assert.Equal(t, "20240608.153045", Combine("20240608", "153045", CombineDotted))
	assert.Equal(t, "20240608153045", Combine("20240608", "153045", CombineTogether))
}

func TestApplyAmPmCase(t *testing.T) {
	assert.Equal(t, "033045pm", ApplyAmPmCase("033045pm", false))
	assert.Equal(t, "033045PM", ApplyAmPmCase("033045pm", true))
	assert.Equal(t, "20240608_0930AM", ApplyAmPmCase("20240608_0930am", true))
	assert.Equal(t, "153045", ApplyAmPmCase("153045", true))
}

func TestPatternNames(t *testing.T) {
	assert.Equal(t, "YYYY_MM_DD_TOGETHER", DateYYYYMMDDTogether.String())
	assert.Equal(t, "DD_MM_YY_DASHED", DateDDMMYYDashed.String())
	assert.Equal(t, "HH_MM_SS_AM_PM_WHITE_SPACED", TimeHHMMSSAmPmWhiteSpaced.String())
	assert.Equal(t, "DATE_TIME_UNDERSCORED", CombineUnderscored.String())
	assert.Equal(t, "EPOCH_MILLIS", CombineEpochMillis.String())
	assert.Equal(t, "UNKNOWN", DatePattern(999).String())

	assert.Len(t, DatePatterns(), 31)
	assert.Len(t, TimePatterns(), 21)
	assert.Len(t, CombinePatterns(), 6)
}

func TestParsePatterns(t *testing.T) {
	for _, p := range DatePatterns() {
		got, err := ParseDatePattern(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	for _, p := range TimePatterns() {
		got, err := ParseTimePattern(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	for _, p := range CombinePatterns() {
		got, err := ParseCombinePattern(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	d, err := ParseDatePattern("yyyy-mm-dd-dashed")
	require.NoError(t, err)
	assert.Equal(t, DateYYYYMMDDDashed, d)

	tp, err := ParseTimePattern("none")
	require.NoError(t, err)
	assert.Equal(t, TimeUnused, tp)

	c, err := ParseCombinePattern("dashed")
	require.NoError(t, err)
	assert.Equal(t, CombineDashed, c)

	_, err = ParseDatePattern("YYYY")
	assert.ErrorIs(t, err, ErrUnknownPattern)
	_, err = ParseTimePattern("HH_MM_SS_12")
	assert.ErrorIs(t, err, ErrUnknownPattern)
	_, err = ParseCombinePattern("sideways")
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

func TestParseThenFormat(t *testing.T) {
	instant, err := Parse("2005:10:12 12:00:05", "")
	require.NoError(t, err)

	assert.Equal(t, "20051012_120005", FormatDateTime(&instant, DefaultSelectors()))
	assert.Equal(t, "1129118405000", FormatDateTime(&instant, Selectors{
		Date:    DateYYYYMMDDTogether,
		Combine: CombineEpochMillis,
	}))
}
