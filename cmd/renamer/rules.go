package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/renamer/pkg/renamer/config"
	"github.com/jamesainslie/renamer/pkg/renamer/datetime"
	"github.com/jamesainslie/renamer/pkg/renamer/rule"
)

// clock backs the CURRENT source of the datetime rule.
var clock = datetime.SystemClock

// ErrMissingCustom indicates the CUSTOM source or the custom fallback without
// --custom.
var ErrMissingCustom = errors.New("--custom is required")

// ruleBuilder turns parsed flags into a rule. needsMetadata reports whether
// the rule reads content metadata, which makes the scan extract it.
type ruleBuilder func(c *config.Config) (rl rule.Rule, needsMetadata bool, err error)

// ruleCommands maps rule subcommand names to their command and builder, so
// chain can reuse their flags.
var ruleCommands = map[string]struct {
	cmd   *cobra.Command
	build ruleBuilder
}{}

// newRuleCommand creates a subcommand that runs one rule over [path].
func newRuleCommand(name, short, long string, build ruleBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " [path]",
		Short: short,
		Long:  long,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, needsMetadata, err := build(cfg)
			if err != nil {
				return err
			}
			return runRuleCommand(cmd, args, []rule.Rule{rl}, ruleDescription(cmd), needsMetadata)
		},
	}
	ruleCommands[name] = struct {
		cmd   *cobra.Command
		build ruleBuilder
	}{cmd, build}
	return cmd
}

type dateTimeFlags struct {
	Position       string
	Date           string
	Time           string
	Combine        string
	Source         string
	UppercaseAmPm  bool
	Custom         string
	Separator      string
	Fallback       bool
	CustomFallback bool
	Offset         string
}

func defaultDateTimeFlags() dateTimeFlags {
	d := rule.DefaultDateTimeOptions()
	return dateTimeFlags{
		Position:  d.Position.String(),
		Date:      d.Selectors.Date.String(),
		Time:      d.Selectors.Time.String(),
		Combine:   d.Selectors.Combine.String(),
		Source:    d.Source.String(),
		Separator: d.Separator,
	}
}

// build parses the flags into a DateTime rule. A non-empty Offset replaces
// the configured one for both metadata parsing and --custom.
func (f *dateTimeFlags) build(c *config.Config) (rule.Rule, bool, error) {
	if f.Offset != "" {
		if _, err := datetime.ParseOffset(f.Offset); err != nil {
			return nil, false, err
		}
		c.Datetime.Offset = f.Offset
	}

	opts := rule.DefaultDateTimeOptions()
	var err error
	var errs []error

	if opts.Position, err = rule.ParsePosition(f.Position); err != nil {
		errs = append(errs, err)
	}
	if opts.Selectors.Date, err = datetime.ParseDatePattern(f.Date); err != nil {
		errs = append(errs, err)
	}
	if opts.Selectors.Time, err = datetime.ParseTimePattern(f.Time); err != nil {
		errs = append(errs, err)
	}
	if opts.Selectors.Combine, err = datetime.ParseCombinePattern(f.Combine); err != nil {
		errs = append(errs, err)
	}
	if opts.Source, err = datetime.ParseSource(f.Source); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, false, err
	}

	opts.UseUppercaseAmPm = f.UppercaseAmPm
	opts.Separator = f.Separator
	opts.UseFallback = f.Fallback || f.CustomFallback
	opts.UseExplicitAsFallback = f.CustomFallback

	if f.Custom != "" {
		t, err := datetime.Parse(f.Custom, c.Datetime.Offset)
		if err != nil {
			return nil, false, fmt.Errorf("invalid --custom: %w", err)
		}
		opts.Explicit = &t
	}
	if opts.Explicit == nil && (opts.Source == datetime.SourceCustom || f.CustomFallback) {
		return nil, false, ErrMissingCustom
	}

	rl, err := rule.NewDateTime(opts, clock)
	if err != nil {
		return nil, false, err
	}

	// The earliest-timestamp fallback also looks at the content creation time.
	needsMetadata := opts.Source == datetime.SourceContentCreation ||
		opts.UseFallback && !opts.UseExplicitAsFallback
	return rl, needsMetadata, nil
}

type sequenceFlags struct {
	Sort    string
	Start   int
	Step    int
	Padding int
}

func (f *sequenceFlags) build(*config.Config) (rule.Rule, bool, error) {
	key, err := rule.ParseSortKey(f.Sort)
	if err != nil {
		return nil, false, fmt.Errorf("%w (valid: %s)", err, rule.SortKeyNames())
	}
	if f.Padding < 0 {
		return nil, false, fmt.Errorf("--padding cannot be negative: %d", f.Padding)
	}
	rl, err := rule.NewSequence(rule.SequenceOptions{
		SortKey: key,
		Start:   f.Start,
		Step:    f.Step,
		Padding: f.Padding,
	})
	if err != nil {
		return nil, false, err
	}
	switch key {
	case rule.SortContentCreation, rule.SortWidth, rule.SortHeight:
		return rl, true, nil
	}
	return rl, false, nil
}

type textFlags struct {
	Text     string
	Find     string
	Replace  string
	Position string
}

func (f *textFlags) buildAdd(*config.Config) (rule.Rule, bool, error) {
	pos, err := rule.ParsePosition(f.Position)
	if err != nil {
		return nil, false, err
	}
	rl, err := rule.NewAddText(f.Text, pos)
	return rl, false, err
}

func (f *textFlags) buildRemove(*config.Config) (rule.Rule, bool, error) {
	if f.Text == "" {
		return nil, false, errors.New("--text is required")
	}
	pos, err := rule.ParsePosition(f.Position)
	if err != nil {
		return nil, false, err
	}
	rl, err := rule.NewRemoveText(f.Text, pos)
	return rl, false, err
}

func (f *textFlags) buildReplace(*config.Config) (rule.Rule, bool, error) {
	if f.Find == "" {
		return nil, false, errors.New("--find is required")
	}
	pos, err := rule.ParsePosition(f.Position)
	if err != nil {
		return nil, false, err
	}
	rl, err := rule.NewReplaceText(f.Find, f.Replace, pos)
	return rl, false, err
}

type caseFlags struct {
	Mode       string
	IncludeExt bool
}

func (f *caseFlags) build(*config.Config) (rule.Rule, bool, error) {
	mode, err := rule.ParseCaseMode(f.Mode)
	if err != nil {
		return nil, false, err
	}
	rl, err := rule.NewChangeCase(mode, f.IncludeExt)
	return rl, false, err
}

type truncateFlags struct {
	Mode  string
	Count int
}

func (f *truncateFlags) build(*config.Config) (rule.Rule, bool, error) {
	mode, err := rule.ParseTruncateMode(f.Mode)
	if err != nil {
		return nil, false, err
	}
	if f.Count < 0 {
		return nil, false, fmt.Errorf("--count cannot be negative: %d", f.Count)
	}
	rl, err := rule.NewTruncate(mode, f.Count)
	return rl, false, err
}

type parentsFlags struct {
	Count     int
	Position  string
	Separator string
}

func (f *parentsFlags) build(*config.Config) (rule.Rule, bool, error) {
	pos, err := rule.ParsePosition(f.Position)
	if err != nil {
		return nil, false, err
	}
	rl, err := rule.NewParentFolders(f.Count, pos, f.Separator)
	return rl, false, err
}

type extensionFlags struct {
	To string
}

func (f *extensionFlags) build(*config.Config) (rule.Rule, bool, error) {
	return rule.NewChangeExtension(f.To), false, nil
}

type dimensionFlags struct {
	Position  string
	Separator string
	Layout    string
}

func (f *dimensionFlags) build(*config.Config) (rule.Rule, bool, error) {
	pos, err := rule.ParsePosition(f.Position)
	if err != nil {
		return nil, false, err
	}
	layout, err := rule.ParseDimensionLayout(f.Layout)
	if err != nil {
		return nil, false, err
	}
	rl, err := rule.NewImageDimensions(pos, f.Separator, layout)
	return rl, true, err
}

var (
	dtFlags        = defaultDateTimeFlags()
	seqFlags       = sequenceFlags{Sort: rule.SortName.String(), Start: 1, Step: 1}
	addFlags       = textFlags{Position: "end"}
	removeFlags    = textFlags{Position: "everywhere"}
	replaceFlags   = textFlags{Position: "everywhere"}
	caseModeFlags  = caseFlags{Mode: "lower"}
	truncFlags     = truncateFlags{Mode: "end"}
	parentFlags    = parentsFlags{Count: 1, Position: "begin", Separator: "_"}
	extFlags       = extensionFlags{}
	dimensionsFlag = dimensionFlags{Position: "end", Separator: "_", Layout: rule.DimensionWidthXHeight.String()}
)

func init() {
	datetimeCmd := newRuleCommand("datetime",
		"Place a formatted date and time in each name",
		`Places a formatted timestamp before, after or instead of each name.

The timestamp comes from --source: FS_CREATION, FS_MODIFICATION,
CONTENT_CREATION (EXIF, audio tags), CURRENT or CUSTOM (--custom).
With --fallback, items lacking that timestamp use the earliest one they
have; --custom-fallback uses --custom instead.

Run "renamer formats" to list the date, time and combine patterns.

Examples:
  renamer datetime .                                     # 20240608_153045_IMG_0001.jpg
  renamer datetime --source content_creation --fallback -r ~/Pictures
  renamer datetime --position replace --date yyyy_mm_dd_dashed --time unused .`,
		dtFlags.build)
	df := datetimeCmd.Flags()
	df.StringVar(&dtFlags.Position, "position", dtFlags.Position, "where the timestamp goes: begin, end, replace")
	df.StringVar(&dtFlags.Date, "date", dtFlags.Date, "date pattern")
	df.StringVar(&dtFlags.Time, "time", dtFlags.Time, "time pattern")
	df.StringVar(&dtFlags.Combine, "combine", dtFlags.Combine, "how date and time are joined")
	df.StringVar(&dtFlags.Source, "source", dtFlags.Source, "timestamp source: "+sourceList())
	df.BoolVar(&dtFlags.UppercaseAmPm, "uppercase-ampm", false, "render AM/PM in upper case")
	df.StringVar(&dtFlags.Custom, "custom", "", "custom timestamp for the CUSTOM source and --custom-fallback")
	df.StringVar(&dtFlags.Separator, "separator", dtFlags.Separator, "text between the timestamp and the name")
	df.BoolVar(&dtFlags.Fallback, "fallback", false, "use the earliest known timestamp when the source has none")
	df.BoolVar(&dtFlags.CustomFallback, "custom-fallback", false, "use --custom when the source has no timestamp")
	df.StringVar(&dtFlags.Offset, "offset", "", "UTC offset for timestamps without one, e.g. +02:00 (default from config)")

	sequenceCmd := newRuleCommand("sequence",
		"Replace each name with a running number",
		`Sorts the items and replaces each name with a counter.

Examples:
  renamer sequence .                                   # 1.jpg, 2.jpg, ...
  renamer sequence --sort fs-creation --start 100 --step 10 --padding 4 .`,
		seqFlags.build)
	sf := sequenceCmd.Flags()
	sf.StringVar(&seqFlags.Sort, "sort", seqFlags.Sort, "sort key: "+rule.SortKeyNames())
	sf.IntVar(&seqFlags.Start, "start", seqFlags.Start, "first number")
	sf.IntVar(&seqFlags.Step, "step", seqFlags.Step, "increment between items (may be zero or negative)")
	sf.IntVar(&seqFlags.Padding, "padding", 0, "minimum number of digits, padded with zeros")

	addCmd := newRuleCommand("add", "Add text to each name", "Adds text at the beginning or end of each name.", addFlags.buildAdd)
	addCmd.Flags().StringVar(&addFlags.Text, "text", "", "text to add")
	addCmd.Flags().StringVar(&addFlags.Position, "position", addFlags.Position, "begin or end")

	removeCmd := newRuleCommand("remove", "Remove text from each name",
		"Removes text from the beginning, the end, or everywhere in each name.", removeFlags.buildRemove)
	removeCmd.Flags().StringVar(&removeFlags.Text, "text", "", "text to remove")
	removeCmd.Flags().StringVar(&removeFlags.Position, "position", removeFlags.Position, "begin, end or everywhere")

	replaceCmd := newRuleCommand("replace", "Replace text in each name",
		"Replaces text at the beginning, the end, or everywhere in each name.", replaceFlags.buildReplace)
	replaceCmd.Flags().StringVar(&replaceFlags.Find, "find", "", "text to find")
	replaceCmd.Flags().StringVar(&replaceFlags.Replace, "replace", "", "replacement text")
	replaceCmd.Flags().StringVar(&replaceFlags.Position, "position", replaceFlags.Position, "begin, end or everywhere")

	caseCmd := newRuleCommand("case", "Change the letter case of each name", "Changes letter case; the extension is kept unless --include-ext.", caseModeFlags.build)
	caseCmd.Flags().StringVar(&caseModeFlags.Mode, "mode", caseModeFlags.Mode, "upper, lower, title, sentence or invert")
	caseCmd.Flags().BoolVar(&caseModeFlags.IncludeExt, "include-ext", false, "change the extension too")

	truncateCmd := newRuleCommand("truncate", "Shorten each name", "Removes characters from the beginning or end of each name, or trims white space.", truncFlags.build)
	truncateCmd.Flags().StringVar(&truncFlags.Mode, "mode", truncFlags.Mode, "begin, end or whitespace")
	truncateCmd.Flags().IntVar(&truncFlags.Count, "count", 0, "number of characters to remove")

	parentsCmd := newRuleCommand("parents", "Add parent folder names to each name",
		"Adds the names of the nearest parent folders, outermost first.", parentFlags.build)
	parentsCmd.Flags().IntVar(&parentFlags.Count, "count", parentFlags.Count, "number of parent folders")
	parentsCmd.Flags().StringVar(&parentFlags.Position, "position", parentFlags.Position, "begin or end")
	parentsCmd.Flags().StringVar(&parentFlags.Separator, "separator", parentFlags.Separator, "text between folder names and the name")

	extCmd := newRuleCommand("ext", "Change each extension", "Replaces the extension; an empty --to removes it.", extFlags.build)
	extCmd.Flags().StringVar(&extFlags.To, "to", "", "new extension, with or without the dot")

	dimensionsCmd := newRuleCommand("dimensions", "Add image dimensions to each name",
		"Adds the pixel width and height of images to their names. Items without dimensions keep their names.",
		dimensionsFlag.build)
	dimensionsCmd.Flags().StringVar(&dimensionsFlag.Position, "position", dimensionsFlag.Position, "begin, end or replace")
	dimensionsCmd.Flags().StringVar(&dimensionsFlag.Separator, "separator", dimensionsFlag.Separator, "text between the dimensions and the name")
	dimensionsCmd.Flags().StringVar(&dimensionsFlag.Layout, "layout", dimensionsFlag.Layout, "WIDTH_X_HEIGHT, HEIGHT_X_WIDTH, WIDTH or HEIGHT")

	rootCmd.AddCommand(datetimeCmd, sequenceCmd, addCmd, removeCmd, replaceCmd,
		caseCmd, truncateCmd, parentsCmd, extCmd, dimensionsCmd)
}

func sourceList() string {
	var names []string
	for _, s := range datetime.Sources() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}
