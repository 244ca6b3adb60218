package rule

import (
	"strings"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// AddText inserts fixed text at the beginning or end of the proposed name.
type AddText struct {
	Text     string
	Position Position
}

// NewAddText creates an AddText rule. Position must be begin or end.
func NewAddText(text string, pos Position) (*AddText, error) {
	if err := checkPosition("add", pos, PositionBegin, PositionEnd); err != nil {
		return nil, err
	}
	return &AddText{Text: text, Position: pos}, nil
}

// Name returns "add".
func (r *AddText) Name() string { return "add" }

// Apply adds the text without a separator.
func (r *AddText) Apply(item types.Item) types.Proposal {
	if r.Text == "" {
		return item.Proposed
	}
	return withName(item, place(item.Proposed.Name, r.Text, "", r.Position))
}

// RemoveText removes a prefix, a suffix or every occurrence of Text.
type RemoveText struct {
	Text     string
	Position Position
}

// NewRemoveText creates a RemoveText rule. Position must be begin, end or
// everywhere.
func NewRemoveText(text string, pos Position) (*RemoveText, error) {
	if err := checkPosition("remove", pos, PositionBegin, PositionEnd, PositionEverywhere); err != nil {
		return nil, err
	}
	return &RemoveText{Text: text, Position: pos}, nil
}

// Name returns "remove".
func (r *RemoveText) Name() string { return "remove" }

// Apply removes the text from the proposed name.
func (r *RemoveText) Apply(item types.Item) types.Proposal {
	if r.Text == "" {
		return item.Proposed
	}
	name := item.Proposed.Name
	switch r.Position {
	case PositionBegin:
		name = strings.TrimPrefix(name, r.Text)
	case PositionEnd:
		name = strings.TrimSuffix(name, r.Text)
	default:
		name = strings.ReplaceAll(name, r.Text, "")
	}
	return withName(item, name)
}

// ReplaceText replaces the first, last or every occurrence of Find.
type ReplaceText struct {
	Find     string
	Replace  string
	Position Position
}

// NewReplaceText creates a ReplaceText rule. Position begin replaces the first
// occurrence, end the last, everywhere all of them.
func NewReplaceText(find, replace string, pos Position) (*ReplaceText, error) {
	if err := checkPosition("replace", pos, PositionBegin, PositionEnd, PositionEverywhere); err != nil {
		return nil, err
	}
	return &ReplaceText{Find: find, Replace: replace, Position: pos}, nil
}

// Name returns "replace".
func (r *ReplaceText) Name() string { return "replace" }

// Apply performs the replacement. An empty Find changes nothing.
func (r *ReplaceText) Apply(item types.Item) types.Proposal {
	if r.Find == "" {
		return item.Proposed
	}
	name := item.Proposed.Name
	switch r.Position {
	case PositionBegin:
		name = strings.Replace(name, r.Find, r.Replace, 1)
	case PositionEnd:
		if i := strings.LastIndex(name, r.Find); i >= 0 {
			name = name[:i] + r.Replace + name[i+len(r.Find):]
		}
	default:
		name = strings.ReplaceAll(name, r.Find, r.Replace)
	}
	return withName(item, name)
}
