// Package rule holds the rename rules. A rule reads an item and returns the
// proposed name and extension it wants; the pipeline threads that proposal
// into the next rule. Rules never touch the item's original fields.
package rule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// Rule transforms one item's proposed name.
//
// Apply must not panic for any item a scanner can produce. Data it cannot use
// (missing timestamps, absent metadata) yields item.Proposed unchanged.
type Rule interface {
	// Name is the short rule identifier, e.g. "datetime".
	Name() string

	// Apply returns the new proposal for item.
	Apply(item types.Item) types.Proposal
}

// Preprocessor is implemented by rules that hold run-scoped state or need
// the items in a particular order. The pipeline calls Preprocess once per run
// before any Apply, and applies the rule in the returned order.
type Preprocessor interface {
	Preprocess(items []types.Item) []types.Item
}

// Position says where a rule puts its text relative to the proposed name.
type Position int

const (
	// PositionBegin prefixes the proposed name.
	PositionBegin Position = iota
	// PositionEnd suffixes the proposed name.
	PositionEnd
	// PositionReplace replaces the proposed name.
	PositionReplace
	// PositionEverywhere applies to every occurrence in the proposed name.
	PositionEverywhere
)

const (
	positionBegin      = "begin"
	positionEnd        = "end"
	positionReplace    = "replace"
	positionEverywhere = "everywhere"
)

// String returns the lowercase position name.
func (p Position) String() string {
	switch p {
	case PositionBegin:
		return positionBegin
	case PositionEnd:
		return positionEnd
	case PositionReplace:
		return positionReplace
	case PositionEverywhere:
		return positionEverywhere
	default:
		return "unknown"
	}
}

// Errors returned by rule constructors.
var (
	// ErrInvalidPosition indicates a position the rule does not support.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidSortKey indicates that a sort key string could not be parsed.
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrInvalidMode indicates an unknown case or truncate mode.
	ErrInvalidMode = errors.New("invalid mode")
)

// ParsePosition parses "begin", "end", "replace" or "everywhere"
// (case-insensitive).
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case positionBegin:
		return PositionBegin, nil
	case positionEnd:
		return PositionEnd, nil
	case positionReplace:
		return PositionReplace, nil
	case positionEverywhere:
		return PositionEverywhere, nil
	default:
		return PositionBegin, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
}

// checkPosition reports an error unless p is one of allowed.
func checkPosition(rule string, p Position, allowed ...Position) error {
	for _, a := range allowed {
		if p == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s does not support %q", ErrInvalidPosition, rule, p)
}

// place puts text against name. An empty name takes text alone so no stray
// separator is left behind.
func place(name, text, sep string, pos Position) string {
	switch pos {
	case PositionReplace:
		return text
	case PositionEnd:
		if name == "" {
			return text
		}
		return name + sep + text
	default:
		if name == "" {
			return text
		}
		return text + sep + name
	}
}

// withName returns the item's proposal with only the name replaced.
func withName(item types.Item, name string) types.Proposal {
	return types.Proposal{Name: name, Extension: item.Proposed.Extension}
}
