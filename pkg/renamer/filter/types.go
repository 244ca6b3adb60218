// Package filter decides which directory entries a rename run considers.
// It matches entries by glob pattern, extension, file type group, size, age
// and kind (file or directory).
package filter

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"time"
)

// Errors reported by Validate.
var (
	// ErrInvalidPattern indicates a glob pattern that does not compile.
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrUnknownTypeGroup indicates a type group name not in TypeGroups.
	ErrUnknownTypeGroup = errors.New("unknown type group")
)

// TypeGroups maps file type group names to their associated file extensions.
// Each group contains common extensions for that category.
var TypeGroups = map[string][]string{
	"video": {
		".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".m4v", ".mpeg", ".mpg",
	},
	"audio": {
		".mp3", ".flac", ".wav", ".aac", ".ogg", ".wma", ".m4a", ".opus", ".aiff", ".alac",
	},
	"image": {
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp", ".svg", ".ico", ".heic", ".heif", ".raw",
	},
	"archive": {
		".zip", ".tar", ".gz", ".bz2", ".xz", ".7z", ".rar", ".tgz", ".tbz2",
	},
	"document": {
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".odt", ".ods", ".odp", ".rtf", ".txt", ".epub", ".md",
	},
}

// TypeGroupNames returns the group names in sorted order.
func TypeGroupNames() []string {
	return slices.Sorted(maps.Keys(TypeGroups))
}

// Candidate describes one directory entry offered to the filter.
type Candidate struct {
	// Path is the absolute path.
	Path string

	// Name is the base name.
	Name string

	// Ext is the extension including the dot, empty for directories.
	Ext string

	// IsDir is true for directories.
	IsDir bool

	// Size is the size in bytes.
	Size int64

	// ModTime is the last modification time.
	ModTime time.Time
}

// NormalizeExtension lowercases ext and adds a leading dot if missing.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
