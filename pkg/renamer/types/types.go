// Package types provides core data types for the renamer.
// It includes the per-file item model, the optional metadata record produced by
// the metadata mappers, and utility functions for parsing and formatting file sizes.
package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Metadata contains facts extracted from a file's content.
// Every field is optional: nil means unknown, never an empty or zero value.
type Metadata struct {
	// CreationInstant is the earliest known content-creation instant.
	CreationInstant *time.Time `json:"creation_instant,omitempty"`

	// Width is the media width in pixels.
	Width *int `json:"width,omitempty"`

	// Height is the media height in pixels.
	Height *int `json:"height,omitempty"`

	// Artist is the audio artist tag.
	Artist *string `json:"artist,omitempty"`

	// Album is the audio album tag.
	Album *string `json:"album,omitempty"`

	// Track is the audio track tag as written in the file (e.g. "3/12").
	Track *string `json:"track,omitempty"`

	// Year is the audio release year.
	Year *int `json:"year,omitempty"`
}

// IsEmpty reports whether no field of the record is known.
func (m *Metadata) IsEmpty() bool {
	if m == nil {
		return true
	}
	return m.CreationInstant == nil && m.Width == nil && m.Height == nil &&
		m.Artist == nil && m.Album == nil && m.Track == nil && m.Year == nil
}

// Proposal holds the mutable output of a rename pipeline: the name and
// extension a file would get if the pipeline were committed now.
type Proposal struct {
	// Name is the proposed base name without extension.
	Name string `json:"name"`

	// Extension is the proposed extension including the leading dot, or empty.
	Extension string `json:"extension"`
}

// Filename joins the proposed name and extension.
func (p Proposal) Filename() string {
	return p.Name + p.Extension
}

// Item is one file or folder being renamed.
// All fields except Proposed are set once by NewItem (or the scanner) and must
// not be changed afterwards. Rules receive items by value and return a new
// Proposal instead of writing into the item.
type Item struct {
	// OriginalName is the base name without extension.
	OriginalName string `json:"original_name"`

	// OriginalExtension is the extension including the leading dot, or empty.
	OriginalExtension string `json:"original_extension"`

	// AbsolutePath is the absolute path of the file on disk.
	AbsolutePath string `json:"absolute_path"`

	// IsFile is false for directories.
	IsFile bool `json:"is_file"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// FSCreation is the filesystem birth time, if the platform exposes one.
	FSCreation *time.Time `json:"fs_creation,omitempty"`

	// FSModification is the filesystem modification time.
	FSModification *time.Time `json:"fs_modification,omitempty"`

	// Metadata is the content metadata, nil when nothing was extracted.
	Metadata *Metadata `json:"metadata,omitempty"`

	// Proposed accumulates the output of each rule.
	Proposed Proposal `json:"proposed"`
}

// ItemOptions carries the attributes supplied by the filesystem adapter and
// metadata mappers when an Item is constructed.
type ItemOptions struct {
	IsFile         bool
	Size           int64
	FSCreation     *time.Time
	FSModification *time.Time
	Metadata       *Metadata
}

// ErrEmptyPath indicates an item was constructed without a path.
var ErrEmptyPath = errors.New("item path cannot be empty")

// NewItem builds an Item for the given absolute path and seeds its proposal
// with the original name and extension. Directories never get an extension.
func NewItem(absPath string, opts ItemOptions) (Item, error) {
	if absPath == "" {
		return Item{}, ErrEmptyPath
	}

	base := filepath.Base(absPath)
	name, ext := base, ""
	if opts.IsFile {
		name, ext = SplitName(base)
	}

	return Item{
		OriginalName:      name,
		OriginalExtension: ext,
		AbsolutePath:      absPath,
		IsFile:            opts.IsFile,
		Size:              opts.Size,
		FSCreation:        opts.FSCreation,
		FSModification:    opts.FSModification,
		Metadata:          opts.Metadata,
		Proposed:          Proposal{Name: name, Extension: ext},
	}, nil
}

// SplitName splits a file name into its base and extension.
// Leading-dot files such as ".bashrc" have no extension.
func SplitName(filename string) (name, ext string) {
	idx := strings.LastIndexByte(filename, '.')
	if idx <= 0 || idx == len(filename)-1 {
		return filename, ""
	}
	return filename[:idx], filename[idx:]
}

// OriginalFilename joins the original name and extension.
func (i Item) OriginalFilename() string {
	return i.OriginalName + i.OriginalExtension
}

// Dir returns the directory containing the item.
func (i Item) Dir() string {
	return filepath.Dir(i.AbsolutePath)
}

// Changed reports whether the proposal differs from the original name.
func (i Item) Changed() bool {
	return i.Proposed.Name != i.OriginalName || i.Proposed.Extension != i.OriginalExtension
}

// ContentCreation returns the metadata creation instant, or nil.
func (i Item) ContentCreation() *time.Time {
	if i.Metadata == nil {
		return nil
	}
	return i.Metadata.CreationInstant
}

// Width returns the metadata width, or nil.
func (i Item) Width() *int {
	if i.Metadata == nil {
		return nil
	}
	return i.Metadata.Width
}

// Height returns the metadata height, or nil.
func (i Item) Height() *int {
	if i.Metadata == nil {
		return nil
	}
	return i.Metadata.Height
}

// HumanSize returns the item size formatted as a human-readable string.
func (i Item) HumanSize() string {
	return FormatSize(i.Size)
}

// ScanProgress reports real-time progress of the filesystem adapter.
type ScanProgress struct {
	// EntriesSeen is the number of directory entries visited so far.
	EntriesSeen int64 `json:"entries_seen"`

	// ItemsCollected is the number of entries that passed the filter.
	ItemsCollected int64 `json:"items_collected"`

	// CacheHits is the number of metadata records served from cache.
	CacheHits int64 `json:"cache_hits"`

	// CurrentPath is the path currently being processed.
	CurrentPath string `json:"current_path"`
}

// ScanError pairs a path with the error encountered while reading it.
type ScanError struct {
	// Path is the file or directory path where the error occurred.
	Path string `json:"path"`

	// Error is the error message describing what went wrong.
	Error string `json:"error"`
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string such as "512K", "1.5GiB" or
// "1024" and returns the size in bytes. Units are binary.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}

// Ptr returns a pointer to v. It keeps optional-field literals short.
func Ptr[T any](v T) *T {
	return &v
}
