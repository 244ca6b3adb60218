package rule

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// ParentFolders adds the names of an item's parent directories.
type ParentFolders struct {
	// Count is how many parents to use, nearest first. Zero or less disables
	// the rule.
	Count int

	// Position is PositionBegin or PositionEnd.
	Position Position

	// Separator joins the parent names to each other and to the proposed name.
	Separator string
}

// NewParentFolders creates a ParentFolders rule.
func NewParentFolders(count int, pos Position, separator string) (*ParentFolders, error) {
	if err := checkPosition("parents", pos, PositionBegin, PositionEnd); err != nil {
		return nil, err
	}
	return &ParentFolders{Count: count, Position: pos, Separator: separator}, nil
}

// Name returns "parents".
func (r *ParentFolders) Name() string { return "parents" }

// Apply places up to Count parent names, outermost first, so that the nearest
// parent sits last. Fewer parents than requested uses what exists.
func (r *ParentFolders) Apply(item types.Item) types.Proposal {
	if r.Count <= 0 {
		return item.Proposed
	}
	parents := ParentNames(item.AbsolutePath, r.Count)
	if len(parents) == 0 {
		return item.Proposed
	}
	text := strings.Join(parents, r.Separator)
	return withName(item, place(item.Proposed.Name, text, r.Separator, r.Position))
}

// ParentNames returns up to n directory names above path, outermost first.
// The filesystem root contributes no name.
func ParentNames(path string, n int) []string {
	var names []string
	dir := filepath.Dir(filepath.Clean(path))
	for len(names) < n {
		base := filepath.Base(dir)
		if base == string(filepath.Separator) || base == "." || base == "" || filepath.VolumeName(dir) == dir {
			break
		}
		names = append(names, base)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	slices.Reverse(names)
	return names
}
