package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func setupTestManifest(t *testing.T) *Manifest {
	t.Helper()

	m, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	return m
}

// withClock makes m stamp entries with successive seconds from start.
func withClock(m *Manifest, start time.Time) {
	var mu sync.Mutex
	next := start
	m.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func sampleRenames() []RenameRecord {
	return []RenameRecord{
		{From: "/photos/IMG_0001.jpg", To: "/photos/20240608_153045.jpg", Size: 100},
		{From: "/photos/IMG_0002.jpg", To: "/photos/20240608_153112.jpg", Size: 200},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates manifest with valid directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		m, err := New(dir)
		if err != nil {
			t.Fatalf("New() error = %v, want nil", err)
		}
		if m.Dir() != dir {
			t.Errorf("Dir() = %q, want %q", m.Dir(), dir)
		}
	})

	t.Run("returns error for empty directory", func(t *testing.T) {
		t.Parallel()

		if _, err := New(""); err == nil {
			t.Fatal("New() error = nil, want error for empty directory")
		}
	})
}

func TestManifest_EnsureDir(t *testing.T) {
	t.Parallel()

	manifestDir := filepath.Join(t.TempDir(), "nested", ".manifest")
	m, err := New(manifestDir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := m.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(manifestDir)
	if err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("path is not a directory")
	}
}

func TestManifest_LogRename(t *testing.T) {
	t.Parallel()

	t.Run("records renames and summary", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)

		entry, err := m.LogRename("datetime", sampleRenames())
		if err != nil {
			t.Fatalf("LogRename() error = %v", err)
		}

		if entry.Operation != OpRename {
			t.Errorf("Operation = %v, want %v", entry.Operation, OpRename)
		}
		if entry.Source != "datetime" {
			t.Errorf("Source = %q, want %q", entry.Source, "datetime")
		}
		if entry.Summary.TotalFiles != 2 {
			t.Errorf("TotalFiles = %v, want 2", entry.Summary.TotalFiles)
		}
		if entry.Summary.TotalBytes != 300 {
			t.Errorf("TotalBytes = %v, want 300", entry.Summary.TotalBytes)
		}
		if !strings.HasPrefix(entry.ID, "rename-") {
			t.Errorf("ID = %v, want prefix 'rename-'", entry.ID)
		}
	})

	t.Run("persists entry to file", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)

		entry, err := m.LogRename("sequence", sampleRenames())
		if err != nil {
			t.Fatalf("LogRename() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(m.Dir(), entry.ID+".json")); err != nil {
			t.Fatalf("entry file missing: %v", err)
		}

		got, err := m.Get(entry.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(got.Renames) != 2 || got.Renames[1].To != "/photos/20240608_153112.jpg" {
			t.Errorf("Renames = %+v, want the logged records", got.Renames)
		}
		if !got.Timestamp.Equal(entry.Timestamp) {
			t.Errorf("Timestamp = %v, want %v", got.Timestamp, entry.Timestamp)
		}
	})

	t.Run("nil renames are stored as empty list", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)

		entry, err := m.LogRename("case", nil)
		if err != nil {
			t.Fatalf("LogRename() error = %v", err)
		}
		got, err := m.Get(entry.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Renames == nil {
			t.Error("Renames = nil, want empty slice")
		}
	})
}

func TestManifest_LogUndo(t *testing.T) {
	t.Parallel()
	m := setupTestManifest(t)

	original, err := m.LogRename("datetime", sampleRenames())
	if err != nil {
		t.Fatalf("LogRename() error = %v", err)
	}

	undo, err := m.LogUndo(original.ID, []RenameRecord{{From: "/b", To: "/a"}})
	if err != nil {
		t.Fatalf("LogUndo() error = %v", err)
	}
	if undo.Operation != OpUndo || undo.UndoOf != original.ID {
		t.Errorf("undo entry = %+v, want OpUndo of %s", undo, original.ID)
	}
	if !strings.HasPrefix(undo.ID, "undo-") {
		t.Errorf("ID = %v, want prefix 'undo-'", undo.ID)
	}
}

func TestManifest_Outstanding(t *testing.T) {
	t.Parallel()
	m := setupTestManifest(t)
	renames := sampleRenames()

	original, err := m.LogRename("datetime", renames)
	if err != nil {
		t.Fatalf("LogRename() error = %v", err)
	}

	outstanding, undos, err := m.Outstanding(original)
	if err != nil {
		t.Fatalf("Outstanding() error = %v", err)
	}
	if len(outstanding) != 2 || len(undos) != 0 {
		t.Fatalf("Outstanding() = %d records, %d undos, want 2, 0", len(outstanding), len(undos))
	}

	// Reverse only the second rename.
	first, err := m.LogUndo(original.ID, []RenameRecord{{From: renames[1].To, To: renames[1].From}})
	if err != nil {
		t.Fatalf("LogUndo() error = %v", err)
	}
	outstanding, undos, err = m.Outstanding(original)
	if err != nil {
		t.Fatalf("Outstanding() error = %v", err)
	}
	if len(outstanding) != 1 || outstanding[0] != renames[0] {
		t.Errorf("outstanding = %+v, want only %+v", outstanding, renames[0])
	}
	if len(undos) != 1 || undos[0].ID != first.ID {
		t.Errorf("undos = %+v, want [%s]", undos, first.ID)
	}

	// An undo of another entry does not count.
	if _, err := m.LogUndo("rename-other", []RenameRecord{{From: renames[0].To, To: renames[0].From}}); err != nil {
		t.Fatalf("LogUndo() error = %v", err)
	}
	if _, err := m.LogUndo(original.ID, []RenameRecord{{From: renames[0].To, To: renames[0].From}}); err != nil {
		t.Fatalf("LogUndo() error = %v", err)
	}
	outstanding, undos, err = m.Outstanding(original)
	if err != nil {
		t.Fatalf("Outstanding() error = %v", err)
	}
	if len(outstanding) != 0 || len(undos) != 2 {
		t.Errorf("Outstanding() = %d records, %d undos, want 0, 2", len(outstanding), len(undos))
	}
}

func TestManifest_List(t *testing.T) {
	t.Parallel()

	t.Run("returns entries sorted by timestamp descending", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)
		withClock(m, time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC))

		var ids []string
		for range 3 {
			e, err := m.LogRename("add", nil)
			if err != nil {
				t.Fatalf("LogRename() error = %v", err)
			}
			ids = append(ids, e.ID)
		}

		entries, err := m.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("len(entries) = %d, want 3", len(entries))
		}
		for i, e := range entries {
			if want := ids[len(ids)-1-i]; e.ID != want {
				t.Errorf("entries[%d].ID = %s, want %s", i, e.ID, want)
			}
		}
	})

	t.Run("respects limit parameter", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)
		withClock(m, time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC))

		for range 5 {
			if _, err := m.LogRename("add", nil); err != nil {
				t.Fatalf("LogRename() error = %v", err)
			}
		}

		entries, err := m.List(2)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("len(entries) = %d, want 2", len(entries))
		}
	})

	t.Run("skips unparseable files", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)

		if err := os.WriteFile(filepath.Join(m.Dir(), "junk.json"), []byte("{"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := m.LogRename("add", nil); err != nil {
			t.Fatalf("LogRename() error = %v", err)
		}

		entries, err := m.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("len(entries) = %d, want 1", len(entries))
		}
	})

	t.Run("returns empty slice for missing directory", func(t *testing.T) {
		t.Parallel()
		m, err := New(filepath.Join(t.TempDir(), "absent"))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		entries, err := m.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if entries == nil || len(entries) != 0 {
			t.Errorf("List() = %v, want empty non-nil slice", entries)
		}
	})
}

func TestManifest_Get(t *testing.T) {
	t.Parallel()
	m := setupTestManifest(t)
	withClock(m, time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC))

	first, err := m.LogRename("add", nil)
	if err != nil {
		t.Fatalf("LogRename() error = %v", err)
	}
	if _, err := m.LogRename("add", nil); err != nil {
		t.Fatalf("LogRename() error = %v", err)
	}

	tests := []struct {
		name    string
		id      string
		wantID  string
		wantErr error
	}{
		{name: "exact id", id: first.ID, wantID: first.ID},
		{name: "unique prefix", id: first.ID[:len("rename-2024-06-08T12-00-00")], wantID: first.ID},
		{name: "ambiguous prefix", id: "rename-", wantErr: ErrAmbiguousID},
		{name: "unknown", id: "rename-1999", wantErr: ErrNotFound},
		{name: "empty", id: "", wantErr: ErrEmptyID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Get(tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Get(%q) error = %v, want %v", tt.id, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.id, err)
			}
			if got.ID != tt.wantID {
				t.Errorf("Get(%q).ID = %s, want %s", tt.id, got.ID, tt.wantID)
			}
		})
	}
}

func TestManifest_Cleanup(t *testing.T) {
	t.Parallel()

	t.Run("removes entries older than retention days", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)

		old, err := m.LogRename("add", nil)
		if err != nil {
			t.Fatalf("LogRename() error = %v", err)
		}
		fresh, err := m.LogRename("add", nil)
		if err != nil {
			t.Fatalf("LogRename() error = %v", err)
		}

		past := time.Now().AddDate(0, 0, -40)
		if err := os.Chtimes(filepath.Join(m.Dir(), old.ID+".json"), past, past); err != nil {
			t.Fatal(err)
		}

		removed, err := m.Cleanup(30)
		if err != nil {
			t.Fatalf("Cleanup() error = %v", err)
		}
		if removed != 1 {
			t.Errorf("removed = %d, want 1", removed)
		}
		if _, err := m.Get(old.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("old entry still present: %v", err)
		}
		if _, err := m.Get(fresh.ID); err != nil {
			t.Errorf("fresh entry removed: %v", err)
		}
	})

	t.Run("non-positive retention keeps everything", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)

		if _, err := m.LogRename("add", nil); err != nil {
			t.Fatalf("LogRename() error = %v", err)
		}
		removed, err := m.Cleanup(0)
		if err != nil || removed != 0 {
			t.Errorf("Cleanup(0) = %d, %v, want 0, nil", removed, err)
		}
	})

	t.Run("handles missing directory", func(t *testing.T) {
		t.Parallel()
		m, err := New(filepath.Join(t.TempDir(), "absent"))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := m.Cleanup(30); err != nil {
			t.Errorf("Cleanup() error = %v", err)
		}
	})
}

func TestManifest_ConcurrentWrites(t *testing.T) {
	t.Parallel()
	m := setupTestManifest(t)

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.LogRename("concurrent", sampleRenames()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("LogRename() error = %v", err)
	}

	entries, err := m.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != writers {
		t.Errorf("len(entries) = %d, want %d", len(entries), writers)
	}
}

func TestGenerateID(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	id := generateID(OpRename, ts)
	if !strings.HasPrefix(id, "rename-2024-06-15T10-30-00-") {
		t.Errorf("generateID() = %s, want timestamped rename prefix", id)
	}
	if suffix := strings.TrimPrefix(id, "rename-2024-06-15T10-30-00-"); len(suffix) != 8 {
		t.Errorf("suffix = %q, want 8 hex characters", suffix)
	}

	seen := make(map[string]bool)
	for range 100 {
		id := generateID(OpUndo, ts)
		if seen[id] {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = true
	}
}
