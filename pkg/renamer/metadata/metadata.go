// Package metadata extracts the media facts rules read: image dimensions,
// content creation time and audio tags.
//
// Extraction is a chain of mappers tried in order. The first mapper whose
// matcher accepts the path extracts the record; paths no mapper accepts get an
// empty record. Extraction never fails the caller: a broken file yields an
// empty record and a debug log line.
package metadata

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/jamesainslie/renamer/pkg/renamer/logging"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

var logger = logging.Get("metadata")

// Matcher reports whether a mapper handles path.
type Matcher func(path string) bool

// Extractor reads a metadata record from the file at path.
type Extractor interface {
	Extract(path string) (*types.Metadata, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(path string) (*types.Metadata, error)

// Extract calls f.
func (f ExtractorFunc) Extract(path string) (*types.Metadata, error) {
	return f(path)
}

// Mapper pairs a matcher with the extractor it selects.
type Mapper struct {
	Name      string
	Match     Matcher
	Extractor Extractor
}

// Chain is an ordered list of mappers.
type Chain struct {
	mappers []Mapper
	offset  string
}

// Option configures a Chain.
type Option func(*Chain)

// WithMapper appends a mapper to the chain.
func WithMapper(m Mapper) Option {
	return func(c *Chain) {
		c.mappers = append(c.mappers, m)
	}
}

// WithOffset sets the UTC offset ("+02:00") applied to embedded timestamps
// that carry none, such as EXIF DateTimeOriginal.
func WithOffset(offset string) Option {
	return func(c *Chain) {
		c.offset = offset
	}
}

// New creates an empty chain. Options are applied in order, so mappers added
// with WithMapper keep their order.
func New(opts ...Option) *Chain {
	c := &Chain{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Default returns a chain with the image and audio mappers, followed by any
// mappers passed in opts.
func Default(opts ...Option) *Chain {
	c := New(opts...)
	builtin := []Mapper{
		{Name: "image", Match: Extensions(ImageExtensions...), Extractor: &imageExtractor{offset: c.offset}},
		{Name: "audio", Match: Extensions(AudioExtensions...), Extractor: &audioExtractor{offset: c.offset}},
	}
	c.mappers = append(builtin, c.mappers...)
	return c
}

// Supports reports whether any mapper accepts path.
func (c *Chain) Supports(path string) bool {
	_, ok := c.find(path)
	return ok
}

// Extract returns the record for path. The result is never nil; unknown
// fields are nil.
func (c *Chain) Extract(path string) *types.Metadata {
	m, ok := c.find(path)
	if !ok {
		return &types.Metadata{}
	}

	md, err := m.Extractor.Extract(path)
	if err != nil {
		logger.Debug("metadata extraction failed", "mapper", m.Name, "path", path, "error", err)
		return &types.Metadata{}
	}
	if md == nil {
		return &types.Metadata{}
	}
	return md
}

func (c *Chain) find(path string) (Mapper, bool) {
	for _, m := range c.mappers {
		if m.Match != nil && m.Extractor != nil && m.Match(path) {
			return m, true
		}
	}
	return Mapper{}, false
}

// Extensions matches paths whose extension is one of exts, ignoring case.
func Extensions(exts ...string) Matcher {
	set := make([]string, len(exts))
	for i, e := range exts {
		set[i] = strings.ToLower(e)
	}
	return func(path string) bool {
		return slices.Contains(set, strings.ToLower(filepath.Ext(path)))
	}
}
