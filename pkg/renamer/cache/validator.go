package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Status is the state of a cached entry relative to the filesystem.
type Status int

const (
	// StatusFresh means the file still has the recorded size and mtime.
	StatusFresh Status = iota
	// StatusStale means the file changed since it was recorded.
	StatusStale
	// StatusMissing means the file no longer exists.
	StatusMissing
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "fresh"
	case StatusStale:
		return "stale"
	case StatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// PruneResult reports what Prune removed.
type PruneResult struct {
	Checked int
	Stale   int
	Missing int
}

// Removed is the number of entries deleted.
func (r PruneResult) Removed() int {
	return r.Stale + r.Missing
}

// Validator checks cached entries against the filesystem.
type Validator struct {
	store *Store
}

// NewValidator creates a new cache validator.
func NewValidator(store *Store) *Validator {
	return &Validator{store: store}
}

// Check stats path and compares it with entry.
func (v *Validator) Check(path string, entry *CachedEntry) (Status, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return StatusMissing, nil
	}
	if err != nil {
		return StatusStale, fmt.Errorf("stat %s: %w", path, err)
	}
	if !entry.Matches(info.Size(), info.ModTime().UnixNano()) {
		return StatusStale, nil
	}
	return StatusFresh, nil
}

// Prune deletes every entry whose file changed or disappeared. Entries that
// cannot be stat'ed for other reasons are treated as stale.
func (v *Validator) Prune() (PruneResult, error) {
	var result PruneResult
	var doomed [][]byte

	err := v.store.Each(func(path string, entry *CachedEntry) bool {
		result.Checked++
		status, _ := v.Check(path, entry)
		switch status {
		case StatusStale:
			result.Stale++
			doomed = append(doomed, MakeKey(path))
		case StatusMissing:
			result.Missing++
			doomed = append(doomed, MakeKey(path))
		}
		return true
	})
	if err != nil {
		return PruneResult{}, err
	}

	if err := v.store.deleteKeys(doomed); err != nil {
		return PruneResult{}, err
	}
	return result, nil
}
