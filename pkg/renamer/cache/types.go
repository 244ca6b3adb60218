package cache

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// CacheVersion is incremented when the cache format changes. It is part of
// every key, so entries written by another version are never read.
const CacheVersion = 1

// KeySeparator separates the version prefix from the path in cache keys.
const KeySeparator = '\x00'

// CachedEntry is the metadata recorded for one file, together with the size
// and modification time it was extracted at.
type CachedEntry struct {
	Size     int64          `json:"size"`
	Mtime    int64          `json:"mtime"` // UnixNano
	Metadata types.Metadata `json:"metadata"`
}

// Encode serializes the entry. JSON keeps a known-but-empty field (an empty
// artist, a zero width) distinct from an unknown one.
func (e *CachedEntry) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode deserializes bytes into the entry.
func (e *CachedEntry) Decode(data []byte) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(e)
}

// Matches reports whether the entry was recorded for a file of this size and
// modification time.
func (e *CachedEntry) Matches(size, mtime int64) bool {
	return e.Size == size && e.Mtime == mtime
}

// keyPrefix is the prefix shared by every key of this cache version.
func keyPrefix() string {
	return "v" + strconv.Itoa(CacheVersion) + string(KeySeparator)
}

// MakeKey creates the cache key for an absolute path.
// Format: v<version>\x00<path>
func MakeKey(path string) []byte {
	return []byte(keyPrefix() + path)
}

// ParseKey extracts the path from a cache key. ok is false for keys written
// by another cache version.
func ParseKey(key []byte) (path string, ok bool) {
	return strings.CutPrefix(string(key), keyPrefix())
}

// MakeKeyPrefix returns the prefix of all keys for paths under dir.
// An empty dir selects every entry of this version.
func MakeKeyPrefix(dir string) []byte {
	return []byte(keyPrefix() + dir)
}
