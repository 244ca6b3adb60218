package rule

import (
	"fmt"
	"strings"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// TruncateMode selects what Truncate removes.
type TruncateMode int

const (
	// TruncateBegin removes Count runes from the start.
	TruncateBegin TruncateMode = iota
	// TruncateEnd removes Count runes from the end.
	TruncateEnd
	// TruncateWhitespace trims leading and trailing white space.
	TruncateWhitespace
)

var truncateModeNames = []string{"begin", "end", "whitespace"}

// String returns the mode name.
func (m TruncateMode) String() string {
	if m < 0 || int(m) >= len(truncateModeNames) {
		return "unknown"
	}
	return truncateModeNames[m]
}

// ParseTruncateMode parses "begin", "end" or "whitespace".
func ParseTruncateMode(s string) (TruncateMode, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for i, name := range truncateModeNames {
		if name == n {
			return TruncateMode(i), nil
		}
	}
	return TruncateBegin, fmt.Errorf("%w: truncate %q", ErrInvalidMode, s)
}

// Truncate shortens the proposed name. Counts are in runes.
type Truncate struct {
	Mode  TruncateMode
	Count int
}

// NewTruncate creates a Truncate rule.
func NewTruncate(mode TruncateMode, count int) (*Truncate, error) {
	if mode < 0 || int(mode) >= len(truncateModeNames) {
		return nil, fmt.Errorf("%w: truncate %d", ErrInvalidMode, mode)
	}
	return &Truncate{Mode: mode, Count: count}, nil
}

// Name returns "truncate".
func (r *Truncate) Name() string { return "truncate" }

// Apply truncates. A count of zero or less removes nothing; a count at least
// as long as the name clears it.
func (r *Truncate) Apply(item types.Item) types.Proposal {
	if r.Mode == TruncateWhitespace {
		return withName(item, strings.TrimSpace(item.Proposed.Name))
	}
	if r.Count <= 0 {
		return item.Proposed
	}

	runes := []rune(item.Proposed.Name)
	if r.Count >= len(runes) {
		return withName(item, "")
	}
	if r.Mode == TruncateEnd {
		return withName(item, string(runes[:len(runes)-r.Count]))
	}
	return withName(item, string(runes[r.Count:]))
}
