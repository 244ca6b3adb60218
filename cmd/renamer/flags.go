package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jamesainslie/renamer/pkg/renamer/filter"
	"github.com/jamesainslie/renamer/pkg/renamer/output"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// Selection and output flags shared by every rule command.
var (
	// Output flags
	outputFormat string
	templateStr  string

	// Selection flags
	recursive     bool
	includes      []string
	excludes      []string
	extensions    []string
	fileTypes     []string
	includeDirs   bool
	dirsOnly      bool
	includeHidden bool
	minSize       string
	olderThan     string
	newerThan     string
)

// getNoCache returns true if the metadata cache should be bypassed.
func getNoCache() bool {
	return viper.GetBool("no_cache")
}

// filterFlags is the selection state read from the command line. Exclude
// holds the configured patterns followed by those given with --exclude.
type filterFlags struct {
	Include   []string
	Exclude   []string
	Ext       []string
	Types     []string
	Dirs      bool
	DirsOnly  bool
	Hidden    bool
	MinSize   string
	OlderThan string
	NewerThan string
}

// currentFilterFlags collects the package-level flag values.
func currentFilterFlags(configExcludes []string) filterFlags {
	return filterFlags{
		Include:   includes,
		Exclude:   configExcludes,
		Ext:       extensions,
		Types:     fileTypes,
		Dirs:      includeDirs,
		DirsOnly:  dirsOnly,
		Hidden:    includeHidden,
		MinSize:   minSize,
		OlderThan: olderThan,
		NewerThan: newerThan,
	}
}

// buildFilter creates a filter.Filter from the selection flags.
func buildFilter(ff filterFlags) (*filter.Filter, error) {
	var opts []filter.Option

	if ff.MinSize != "" {
		size, err := types.ParseSize(ff.MinSize)
		if err != nil {
			return nil, fmt.Errorf("invalid min-size %q: %w", ff.MinSize, err)
		}
		opts = append(opts, filter.WithMinSize(size))
	}

	if ff.OlderThan != "" {
		age, err := filter.ParseAge(ff.OlderThan)
		if err != nil {
			return nil, fmt.Errorf("invalid older-than %q: %w", ff.OlderThan, err)
		}
		opts = append(opts, filter.WithOlderThan(age))
	}

	if ff.NewerThan != "" {
		age, err := filter.ParseAge(ff.NewerThan)
		if err != nil {
			return nil, fmt.Errorf("invalid newer-than %q: %w", ff.NewerThan, err)
		}
		opts = append(opts, filter.WithNewerThan(age))
	}

	if groups := splitValues(ff.Types); len(groups) > 0 {
		opts = append(opts, filter.WithTypeGroups(groups...))
	}
	if exts := splitValues(ff.Ext); len(exts) > 0 {
		opts = append(opts, filter.WithExtensions(exts...))
	}
	if patterns := trimValues(ff.Include); len(patterns) > 0 {
		opts = append(opts, filter.WithInclude(patterns...))
	}
	if patterns := trimValues(ff.Exclude); len(patterns) > 0 {
		opts = append(opts, filter.WithExclude(patterns...))
	}

	switch {
	case ff.DirsOnly:
		opts = append(opts, filter.WithKinds(false, true))
	case ff.Dirs:
		opts = append(opts, filter.WithKinds(true, true))
	}

	if ff.Hidden {
		opts = append(opts, filter.WithHidden(true))
	}

	f := filter.New(opts...)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// resolveFormatter returns the formatter for the requested format. The
// template format uses --template when given and the built-in template
// otherwise.
func resolveFormatter(format, tmpl string) (output.Formatter, error) {
	if format == "" {
		format = "pretty"
	}
	if format == "template" && tmpl != "" {
		return output.NewTemplateFormatter(tmpl), nil
	}
	f, err := output.Get(format)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", format, output.Available())
	}
	return f, nil
}

// splitValues flattens repeated and comma-separated flag values, trimming
// whitespace and dropping empties.
func splitValues(values []string) []string {
	var result []string
	for _, v := range values {
		result = append(result, parseCommaSeparated(v)...)
	}
	return result
}

// trimValues trims whitespace and drops empties without splitting, so glob
// alternations like "{a,b}" survive.
func trimValues(values []string) []string {
	var result []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

// parseCommaSeparated splits a comma-separated string and trims whitespace.
func parseCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func typeGroupList() string {
	return strings.Join(filter.TypeGroupNames(), ", ")
}
