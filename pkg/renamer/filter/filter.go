package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// Filter defines which entries a run includes.
type Filter struct {
	// Include contains glob patterns. If non-empty, entries must match at
	// least one. Patterns with a '/' are matched against the full path,
	// others against the base name.
	Include []string

	// Exclude contains glob patterns. Matching entries are excluded.
	Exclude []string

	// Extensions contains file extensions to include (e.g., ".jpg").
	// If non-empty, only files with matching extensions are included.
	Extensions []string

	// Files includes regular files.
	Files bool

	// Dirs includes directories.
	Dirs bool

	// Hidden includes entries whose name starts with a dot.
	Hidden bool

	// MinSize is the minimum file size in bytes.
	MinSize int64

	// OlderThan excludes entries modified after its cutoff.
	OlderThan Age

	// NewerThan excludes entries modified before its cutoff.
	NewerThan Age

	include []glob.Glob
	exclude []glob.Glob
	errs    []error
	now     func() time.Time
}

// Option is a functional option for configuring a Filter.
type Option func(*Filter)

// New creates a new Filter with the given options.
// Default values:
//   - Files: true
//   - Dirs: false
//   - Hidden: false
//
// Invalid patterns and unknown type groups are reported by Validate and are
// otherwise ignored.
func New(opts ...Option) *Filter {
	f := &Filter{
		Files: true,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	f.include = f.compile(f.Include)
	f.exclude = f.compile(f.Exclude)
	return f
}

// WithInclude adds include glob patterns.
func WithInclude(patterns ...string) Option {
	return func(f *Filter) {
		f.Include = append(f.Include, nonEmpty(patterns)...)
	}
}

// WithExclude adds exclude glob patterns.
func WithExclude(patterns ...string) Option {
	return func(f *Filter) {
		f.Exclude = append(f.Exclude, nonEmpty(patterns)...)
	}
}

// WithExtensions adds file extensions to include.
// Extensions are normalized: lowercase and prefixed with "." if missing.
func WithExtensions(extensions ...string) Option {
	return func(f *Filter) {
		for _, ext := range extensions {
			if ext = NormalizeExtension(ext); ext != "" {
				f.Extensions = append(f.Extensions, ext)
			}
		}
	}
}

// WithTypeGroups adds the extensions of the named type groups.
func WithTypeGroups(groups ...string) Option {
	return func(f *Filter) {
		for _, group := range groups {
			exts, ok := TypeGroups[strings.ToLower(group)]
			if !ok {
				f.errs = append(f.errs, fmt.Errorf("%w: %q (known: %s)",
					ErrUnknownTypeGroup, group, strings.Join(TypeGroupNames(), ", ")))
				continue
			}
			f.Extensions = append(f.Extensions, exts...)
		}
	}
}

// WithKinds selects whether files and directories are included.
func WithKinds(files, dirs bool) Option {
	return func(f *Filter) {
		f.Files = files
		f.Dirs = dirs
	}
}

// WithHidden includes dot-files and dot-directories.
func WithHidden(hidden bool) Option {
	return func(f *Filter) {
		f.Hidden = hidden
	}
}

// WithMinSize sets the minimum file size in bytes.
// If minSize < 0, it is set to 0.
func WithMinSize(minSize int64) Option {
	return func(f *Filter) {
		f.MinSize = max(minSize, 0)
	}
}

// WithOlderThan sets the minimum age of entries to include.
func WithOlderThan(a Age) Option {
	return func(f *Filter) {
		f.OlderThan = a
	}
}

// WithNewerThan sets the maximum age of entries to include.
func WithNewerThan(a Age) Option {
	return func(f *Filter) {
		f.NewerThan = a
	}
}

// WithClock overrides the time source used for age checks.
func WithClock(now func() time.Time) Option {
	return func(f *Filter) {
		f.now = now
	}
}

// Validate returns every configuration problem found while building the filter.
func (f *Filter) Validate() error {
	return errors.Join(f.errs...)
}

// Match returns true if the entry passes every criterion.
func (f *Filter) Match(c Candidate) bool {
	if c.IsDir && !f.Dirs || !c.IsDir && !f.Files {
		return false
	}
	if !f.Hidden && strings.HasPrefix(c.Name, ".") {
		return false
	}
	if !c.IsDir && !f.matchExtension(c) {
		return false
	}
	if !c.IsDir && f.MinSize > 0 && c.Size < f.MinSize {
		return false
	}
	if !f.matchAge(c) {
		return false
	}
	return f.matchPatterns(c)
}

// Prune reports whether a directory should not be descended into. Only the
// hidden and exclude rules apply; include patterns and extensions select
// entries, not the directories that contain them.
func (f *Filter) Prune(c Candidate) bool {
	if !f.Hidden && strings.HasPrefix(c.Name, ".") {
		return true
	}
	return matchesAny(f.exclude, f.Exclude, c)
}

func (f *Filter) matchExtension(c Candidate) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	return slices.Contains(f.Extensions, strings.ToLower(c.Ext))
}

func (f *Filter) matchAge(c Candidate) bool {
	if f.OlderThan.IsZero() && f.NewerThan.IsZero() {
		return true
	}
	now := f.now()
	if !f.OlderThan.IsZero() && c.ModTime.After(f.OlderThan.Cutoff(now)) {
		return false
	}
	if !f.NewerThan.IsZero() && c.ModTime.Before(f.NewerThan.Cutoff(now)) {
		return false
	}
	return true
}

func (f *Filter) matchPatterns(c Candidate) bool {
	if matchesAny(f.exclude, f.Exclude, c) {
		return false
	}
	if len(f.Include) > 0 && !matchesAny(f.include, f.Include, c) {
		return false
	}
	return true
}

// compile compiles patterns, recording failures. The result is index-aligned
// with patterns; failed entries are nil.
func (f *Filter) compile(patterns []string) []glob.Glob {
	compiled := make([]glob.Glob, len(patterns))
	for i, p := range patterns {
		if !balancedBraces(p) {
			f.errs = append(f.errs, fmt.Errorf("%w: %q: unbalanced braces", ErrInvalidPattern, p))
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			f.errs = append(f.errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, p, err))
			continue
		}
		compiled[i] = g
	}
	return compiled
}

// balancedBraces reports whether every "{" in p is closed. glob.Compile
// accepts an unclosed alternation and then never matches it.
func balancedBraces(p string) bool {
	depth := 0
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return false
			}
			depth--
		}
	}
	return depth == 0
}

func matchesAny(globs []glob.Glob, patterns []string, c Candidate) bool {
	for i, g := range globs {
		if g == nil {
			continue
		}
		subject := c.Name
		if strings.Contains(patterns[i], "/") {
			subject = c.Path
		}
		if g.Match(subject) {
			return true
		}
	}
	return false
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
