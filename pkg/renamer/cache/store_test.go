package cache

import (
	"errors"
	"testing"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreGetPut(t *testing.T) {
	store := openTestStore(t)

	entry := &CachedEntry{
		Size:  2048,
		Mtime: 1700000000000000000,
		Metadata: types.Metadata{
			Width:  types.Ptr(0),
			Artist: types.Ptr(""),
		},
	}

	if err := store.Put("/music/a.mp3", entry); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get("/music/a.mp3")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Size != entry.Size || got.Mtime != entry.Mtime {
		t.Errorf("size/mtime mismatch: got %d/%d", got.Size, got.Mtime)
	}
	// Known-but-zero values must survive the round trip.
	if got.Metadata.Width == nil || *got.Metadata.Width != 0 {
		t.Errorf("Width = %v, want pointer to 0", got.Metadata.Width)
	}
	if got.Metadata.Artist == nil || *got.Metadata.Artist != "" {
		t.Errorf("Artist = %v, want pointer to empty string", got.Metadata.Artist)
	}
	if got.Metadata.Height != nil {
		t.Errorf("Height = %v, want nil", *got.Metadata.Height)
	}
}

func TestStoreGetNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("/nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	store := openTestStore(t)

	entries := map[string]*CachedEntry{
		"/photos/2023/a.jpg": {Size: 1},
		"/photos/2023/b.jpg": {Size: 2},
		"/photos/2024/c.jpg": {Size: 3},
		"/music/d.mp3":       {Size: 4},
	}
	if err := store.PutBatch(entries); err != nil {
		t.Fatalf("PutBatch failed: %v", err)
	}

	n, err := store.DeletePrefix("/photos/2023/")
	if err != nil {
		t.Fatalf("DeletePrefix failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d entries, want 2", n)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}

	if _, err := store.Get("/photos/2024/c.jpg"); err != nil {
		t.Errorf("entry outside prefix was removed: %v", err)
	}
}

func TestStoreEach(t *testing.T) {
	store := openTestStore(t)

	if err := store.PutBatch(map[string]*CachedEntry{
		"/a": {Size: 1},
		"/b": {Size: 2},
		"/c": {Size: 3},
	}); err != nil {
		t.Fatal(err)
	}

	var total int64
	if err := store.Each(func(_ string, e *CachedEntry) bool {
		total += e.Size
		return true
	}); err != nil {
		t.Fatal(err)
	}
	if total != 6 {
		t.Errorf("sum of sizes = %d, want 6", total)
	}

	visited := 0
	if err := store.Each(func(string, *CachedEntry) bool {
		visited++
		return false
	}); err != nil {
		t.Fatal(err)
	}
	if visited != 1 {
		t.Errorf("Each visited %d entries after stop, want 1", visited)
	}
}

func TestKeys(t *testing.T) {
	key := MakeKey("/a/b.jpg")

	path, ok := ParseKey(key)
	if !ok || path != "/a/b.jpg" {
		t.Errorf("ParseKey = %q, %v", path, ok)
	}

	if _, ok := ParseKey([]byte("v0\x00/a/b.jpg")); ok {
		t.Error("ParseKey accepted a key from another version")
	}
}
