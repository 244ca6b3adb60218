// Package cache stores extracted metadata in a Badger database keyed by
// absolute path, so repeat runs over the same files skip decoding them.
// An entry is used only while the file keeps the size and modification time
// it had when the entry was written.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/adrg/xdg"

	"github.com/jamesainslie/renamer/pkg/renamer/logging"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

var logger = logging.Get("cache")

// Cache provides high-level metadata caching.
type Cache struct {
	path      string
	store     *Store
	validator *Validator

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats describes the cache contents and this session's lookups.
type Stats struct {
	Path    string
	Entries int
	Hits    int64
	Misses  int64
}

// DefaultPath returns $XDG_CACHE_HOME/renamer/metadata.
func DefaultPath() string {
	return filepath.Join(xdg.CacheHome, "renamer", "metadata")
}

// Open opens or creates a cache at the given path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	store, err := OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening cache store: %w", err)
	}

	return &Cache{
		path:      path,
		store:     store,
		validator: NewValidator(store),
	}, nil
}

// Close closes the cache.
func (c *Cache) Close() error {
	return c.store.Close()
}

// Lookup returns the cached metadata for path if it was recorded for a file of
// the given size and modification time.
func (c *Cache) Lookup(path string, size int64, mtime time.Time) (*types.Metadata, bool) {
	entry, err := c.store.Get(path)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Debug("cache read failed", "path", path, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}

	if !entry.Matches(size, mtime.UnixNano()) {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	md := entry.Metadata
	return &md, true
}

// Store records md for path at the given size and modification time.
func (c *Cache) Store(path string, size int64, mtime time.Time, md *types.Metadata) error {
	entry := &CachedEntry{Size: size, Mtime: mtime.UnixNano()}
	if md != nil {
		entry.Metadata = *md
	}
	return c.store.Put(path, entry)
}

// Forget removes the entry for path. Renamed files are forgotten under their
// old path.
func (c *Cache) Forget(path string) error {
	return c.store.Delete(path)
}

// Clear removes all cached entries and returns how many there were.
func (c *Cache) Clear() (int, error) {
	return c.store.DeletePrefix("")
}

// Prune removes entries for files that changed or no longer exist.
func (c *Cache) Prune() (PruneResult, error) {
	return c.validator.Prune()
}

// Stats returns the entry count and this session's hit and miss counters.
func (c *Cache) Stats() (Stats, error) {
	n, err := c.store.Count()
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Path:    c.path,
		Entries: n,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}
