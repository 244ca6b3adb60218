package rule

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// SortKey selects the order in which the Sequence rule numbers items.
type SortKey int

const (
	// SortName orders by original file name.
	SortName SortKey = iota
	// SortPath orders by absolute path.
	SortPath
	// SortSize orders by size in bytes.
	SortSize
	// SortFSCreation orders by filesystem creation time.
	SortFSCreation
	// SortFSModification orders by filesystem modification time.
	SortFSModification
	// SortContentCreation orders by the metadata creation instant.
	SortContentCreation
	// SortWidth orders by media width.
	SortWidth
	// SortHeight orders by media height.
	SortHeight
)

var sortKeyNames = []string{
	"name",
	"path",
	"size",
	"fs-creation",
	"fs-modification",
	"content-creation",
	"width",
	"height",
}

// String returns the sort key name, e.g. "fs-creation".
func (k SortKey) String() string {
	if k < 0 || int(k) >= len(sortKeyNames) {
		return "unknown"
	}
	return sortKeyNames[k]
}

// ParseSortKey parses a sort key name (case-insensitive, "_" or "-").
func ParseSortKey(s string) (SortKey, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, name := range sortKeyNames {
		if name == n {
			return SortKey(i), nil
		}
	}
	return SortName, fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
}

// SortKeyNames lists the valid sort key names for help text.
func SortKeyNames() string {
	return strings.Join(sortKeyNames, ", ")
}

// SequenceOptions configures the Sequence rule.
type SequenceOptions struct {
	SortKey SortKey
	Start   int
	// Step is added after each item and may be zero or negative.
	Step int
	// Padding is the minimum width; shorter numbers are left-padded with '0'.
	Padding int
}

// DefaultSequenceOptions numbers items 1, 2, 3... in name order.
func DefaultSequenceOptions() SequenceOptions {
	return SequenceOptions{SortKey: SortName, Start: 1, Step: 1}
}

// Sequence replaces the proposed name with a running counter. The counter is
// run-scoped: Preprocess resets it, so a Sequence must not be shared by
// concurrent runs.
type Sequence struct {
	opts    SequenceOptions
	counter int
}

var (
	_ Rule         = (*Sequence)(nil)
	_ Preprocessor = (*Sequence)(nil)
)

// NewSequence creates a Sequence rule.
func NewSequence(opts SequenceOptions) (*Sequence, error) {
	if opts.SortKey < 0 || int(opts.SortKey) >= len(sortKeyNames) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSortKey, opts.SortKey)
	}
	return &Sequence{opts: opts, counter: opts.Start}, nil
}

// Name returns "sequence".
func (r *Sequence) Name() string {
	return "sequence"
}

// Preprocess resets the counter and returns items stable-sorted ascending by
// the sort key, items with an unknown key first. The input is not modified.
func (r *Sequence) Preprocess(items []types.Item) []types.Item {
	r.counter = r.opts.Start
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, r.compare)
	return sorted
}

// Apply assigns the current counter and advances it.
func (r *Sequence) Apply(item types.Item) types.Proposal {
	text := padNumber(r.counter, r.opts.Padding)
	r.counter += r.opts.Step
	return withName(item, text)
}

// padNumber renders n left-padded with zeros to width characters. A minus
// sign counts toward the width and stays in front of the zeros.
func padNumber(n, width int) string {
	text := strconv.Itoa(n)
	if len(text) >= width {
		return text
	}
	digits, sign := strings.CutPrefix(text, "-")
	zeros := strings.Repeat("0", width-len(text))
	if sign {
		return "-" + zeros + digits
	}
	return zeros + digits
}

func (r *Sequence) compare(a, b types.Item) int {
	switch r.opts.SortKey {
	case SortPath:
		return cmp.Compare(a.AbsolutePath, b.AbsolutePath)
	case SortSize:
		return cmp.Compare(a.Size, b.Size)
	case SortFSCreation:
		return compareOptional(a.FSCreation, b.FSCreation, time.Time.Compare)
	case SortFSModification:
		return compareOptional(a.FSModification, b.FSModification, time.Time.Compare)
	case SortContentCreation:
		return compareOptional(a.ContentCreation(), b.ContentCreation(), time.Time.Compare)
	case SortWidth:
		return compareOptional(a.Width(), b.Width(), cmp.Compare[int])
	case SortHeight:
		return compareOptional(a.Height(), b.Height(), cmp.Compare[int])
	default:
		return cmp.Compare(a.OriginalFilename(), b.OriginalFilename())
	}
}

// compareOptional orders nil before any value.
func compareOptional[T any](a, b *T, compare func(T, T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return compare(*a, *b)
	}
}
