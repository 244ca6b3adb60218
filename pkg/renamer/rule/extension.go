package rule

import (
	"strings"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// ChangeExtension sets the proposed extension of files. Directories are left
// alone.
type ChangeExtension struct {
	Extension string
}

// NewChangeExtension creates a ChangeExtension rule. "jpg" and ".jpg" are the
// same; an empty extension removes it.
func NewChangeExtension(ext string) *ChangeExtension {
	return &ChangeExtension{Extension: NormalizeExtension(ext)}
}

// Name returns "ext".
func (r *ChangeExtension) Name() string { return "ext" }

// Apply replaces the proposed extension.
func (r *ChangeExtension) Apply(item types.Item) types.Proposal {
	if !item.IsFile {
		return item.Proposed
	}
	return types.Proposal{Name: item.Proposed.Name, Extension: r.Extension}
}

// NormalizeExtension trims white space and dots and returns ".ext", or "" for
// an empty input.
func NormalizeExtension(ext string) string {
	ext = strings.TrimLeft(strings.TrimSpace(ext), ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}
