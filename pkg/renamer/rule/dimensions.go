package rule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// DimensionLayout selects how ImageDimensions renders width and height.
type DimensionLayout int

const (
	// DimensionWidthXHeight renders "640x480".
	DimensionWidthXHeight DimensionLayout = iota
	// DimensionHeightXWidth renders "480x640".
	DimensionHeightXWidth
	// DimensionWidth renders "640".
	DimensionWidth
	// DimensionHeight renders "480".
	DimensionHeight
)

var dimensionLayoutNames = []string{"WIDTH_X_HEIGHT", "HEIGHT_X_WIDTH", "WIDTH", "HEIGHT"}

// String returns the layout name, e.g. "WIDTH_X_HEIGHT".
func (l DimensionLayout) String() string {
	if l < 0 || int(l) >= len(dimensionLayoutNames) {
		return "UNKNOWN"
	}
	return dimensionLayoutNames[l]
}

// ParseDimensionLayout parses a layout name case-insensitively; dashes are
// accepted.
func ParseDimensionLayout(s string) (DimensionLayout, error) {
	n := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
	for i, name := range dimensionLayoutNames {
		if name == n {
			return DimensionLayout(i), nil
		}
	}
	return DimensionWidthXHeight, fmt.Errorf("%w: dimensions %q", ErrInvalidMode, s)
}

// ImageDimensions places the media width and height in the proposed name.
type ImageDimensions struct {
	Position  Position
	Separator string
	Layout    DimensionLayout
}

// NewImageDimensions creates an ImageDimensions rule.
func NewImageDimensions(pos Position, separator string, layout DimensionLayout) (*ImageDimensions, error) {
	if err := checkPosition("dimensions", pos, PositionBegin, PositionEnd, PositionReplace); err != nil {
		return nil, err
	}
	if layout < 0 || int(layout) >= len(dimensionLayoutNames) {
		return nil, fmt.Errorf("%w: dimensions %d", ErrInvalidMode, layout)
	}
	return &ImageDimensions{Position: pos, Separator: separator, Layout: layout}, nil
}

// Name returns "dimensions".
func (r *ImageDimensions) Name() string { return "dimensions" }

// Apply places the dimensions. Items without the needed metadata are unchanged.
func (r *ImageDimensions) Apply(item types.Item) types.Proposal {
	text := r.render(item.Width(), item.Height())
	if text == "" {
		return item.Proposed
	}
	return withName(item, place(item.Proposed.Name, text, r.Separator, r.Position))
}

func (r *ImageDimensions) render(width, height *int) string {
	switch r.Layout {
	case DimensionWidth:
		if width == nil {
			return ""
		}
		return strconv.Itoa(*width)
	case DimensionHeight:
		if height == nil {
			return ""
		}
		return strconv.Itoa(*height)
	}

	if width == nil || height == nil {
		return ""
	}
	if r.Layout == DimensionHeightXWidth {
		return fmt.Sprintf("%dx%d", *height, *width)
	}
	return fmt.Sprintf("%dx%d", *width, *height)
}
