package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/renamer/pkg/renamer/datetime"
	"github.com/jamesainslie/renamer/pkg/renamer/filter"
	"github.com/jamesainslie/renamer/pkg/renamer/output"
	"github.com/jamesainslie/renamer/pkg/renamer/rule"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List patterns, sources and output formats",
	Long: `Lists the values accepted by rule and output flags, with an example
rendering of each date and time pattern.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeFormats(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

// sampleInstant renders the pattern examples.
var sampleInstant = datetime.Normalize(time.Date(2024, time.June, 8, 15, 30, 45, 0, time.UTC))

// writeFormats prints every named value, grouped by flag.
func writeFormats(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "Date patterns (--date):")
	for _, p := range datetime.DatePatterns() {
		fmt.Fprintf(tw, "  %s\t%s\n", p, example(datetime.FormatDate(&sampleInstant, p)))
	}

	fmt.Fprintln(tw, "\nTime patterns (--time):")
	for _, p := range datetime.TimePatterns() {
		fmt.Fprintf(tw, "  %s\t%s\n", p, example(datetime.FormatTime(&sampleInstant, p)))
	}

	fmt.Fprintln(tw, "\nCombine patterns (--combine):")
	defaults := datetime.DefaultSelectors()
	for _, p := range datetime.CombinePatterns() {
		s := datetime.Selectors{Date: defaults.Date, Time: defaults.Time, Combine: p}
		fmt.Fprintf(tw, "  %s\t%s\n", p, example(datetime.FormatDateTime(&sampleInstant, s)))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	var sources []string
	for _, s := range datetime.Sources() {
		sources = append(sources, s.String())
	}

	lists := []struct {
		title  string
		values string
	}{
		{"Date/time sources (--source)", strings.Join(sources, ", ")},
		{"Positions (--position)", "begin, end, replace, everywhere"},
		{"Sequence sort keys (--sort)", rule.SortKeyNames()},
		{"Case modes (case --mode)", "upper, lower, title, sentence, invert"},
		{"Truncate modes (truncate --mode)", "begin, end, whitespace"},
		{"Dimension layouts (--layout)", dimensionLayouts()},
		{"Type groups (--type)", strings.Join(filter.TypeGroupNames(), ", ")},
		{"Output formats (-o)", strings.Join(output.Available(), ", ")},
	}
	for _, l := range lists {
		if _, err := fmt.Fprintf(out, "\n%s:\n  %s\n", l.title, l.values); err != nil {
			return err
		}
	}
	return nil
}

func example(s string) string {
	if s == "" {
		return "(empty)"
	}
	return s
}

func dimensionLayouts() string {
	layouts := []rule.DimensionLayout{
		rule.DimensionWidthXHeight,
		rule.DimensionHeightXWidth,
		rule.DimensionWidth,
		rule.DimensionHeight,
	}
	names := make([]string, len(layouts))
	for i, l := range layouts {
		names[i] = l.String()
	}
	return strings.Join(names, ", ")
}
