package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_LookupStore(t *testing.T) {
	c := openTestCache(t)
	mtime := time.Date(2024, 6, 8, 15, 30, 45, 0, time.UTC)
	created := time.Date(2019, 5, 4, 0, 0, 0, 0, time.UTC)
	md := &types.Metadata{CreationInstant: &created, Width: types.Ptr(640)}

	_, ok := c.Lookup("/p/a.jpg", 100, mtime)
	assert.False(t, ok)

	require.NoError(t, c.Store("/p/a.jpg", 100, mtime, md))

	got, ok := c.Lookup("/p/a.jpg", 100, mtime)
	require.True(t, ok)
	assert.Equal(t, 640, *got.Width)
	assert.True(t, created.Equal(*got.CreationInstant))
	assert.Nil(t, got.Height)

	_, ok = c.Lookup("/p/a.jpg", 101, mtime)
	assert.False(t, ok, "size change invalidates")
	_, ok = c.Lookup("/p/a.jpg", 100, mtime.Add(time.Second))
	assert.False(t, ok, "mtime change invalidates")

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(3), stats.Misses)
	assert.NotEmpty(t, stats.Path)
}

func TestCache_StoreNilMetadata(t *testing.T) {
	c := openTestCache(t)
	now := time.Now()

	require.NoError(t, c.Store("/p/empty.txt", 1, now, nil))

	got, ok := c.Lookup("/p/empty.txt", 1, now)
	require.True(t, ok)
	assert.True(t, got.IsEmpty())
}

func TestCache_ForgetAndClear(t *testing.T) {
	c := openTestCache(t)
	now := time.Now()

	require.NoError(t, c.Store("/a", 1, now, nil))
	require.NoError(t, c.Store("/b", 1, now, nil))

	require.NoError(t, c.Forget("/a"))
	_, ok := c.Lookup("/a", 1, now)
	assert.False(t, ok)

	n, err := c.Clear()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestCache_Prune(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh.txt")
	changed := filepath.Join(dir, "changed.txt")
	require.NoError(t, os.WriteFile(fresh, []byte("same"), 0o600))
	require.NoError(t, os.WriteFile(changed, []byte("before"), 0o600))

	for _, p := range []string{fresh, changed} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		require.NoError(t, c.Store(p, info.Size(), info.ModTime(), nil))
	}
	require.NoError(t, c.Store(filepath.Join(dir, "gone.txt"), 1, time.Now(), nil))

	require.NoError(t, os.WriteFile(changed, []byte("after, and longer"), 0o600))

	result, err := c.Prune()
	require.NoError(t, err)
	assert.Equal(t, PruneResult{Checked: 3, Stale: 1, Missing: 1}, result)
	assert.Equal(t, 2, result.Removed())

	info, err := os.Stat(fresh)
	require.NoError(t, err)
	_, ok := c.Lookup(fresh, info.Size(), info.ModTime())
	assert.True(t, ok)
}

func TestValidator_Check(t *testing.T) {
	c := openTestCache(t)
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))
	info, err := os.Stat(path)
	require.NoError(t, err)

	v := NewValidator(c.store)

	status, err := v.Check(path, &CachedEntry{Size: 3, Mtime: info.ModTime().UnixNano()})
	require.NoError(t, err)
	assert.Equal(t, StatusFresh, status)

	status, err = v.Check(path, &CachedEntry{Size: 4, Mtime: info.ModTime().UnixNano()})
	require.NoError(t, err)
	assert.Equal(t, StatusStale, status)

	status, err = v.Check(path+".missing", &CachedEntry{})
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, status)
	assert.Equal(t, "missing", status.String())
}
