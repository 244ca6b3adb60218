package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manifest manages operation logging to the filesystem.
type Manifest struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// New creates a new Manifest with the given directory.
// The directory is not created until EnsureDir is called.
func New(dir string) (*Manifest, error) {
	if dir == "" {
		return nil, errors.New("manifest directory cannot be empty")
	}
	return &Manifest{dir: dir, now: time.Now}, nil
}

// Dir returns the manifest directory.
func (m *Manifest) Dir() string {
	return m.dir
}

// EnsureDir creates the manifest directory if it does not exist.
func (m *Manifest) EnsureDir() error {
	return os.MkdirAll(m.dir, 0o755)
}

// LogRename journals a committed rename batch and returns the created entry.
func (m *Manifest) LogRename(source string, renames []RenameRecord) (*Entry, error) {
	return m.log(&Entry{Operation: OpRename, Source: source, Renames: renames})
}

// LogUndo journals the reversal of the entry with ID undoOf.
func (m *Manifest) LogUndo(undoOf string, renames []RenameRecord) (*Entry, error) {
	return m.log(&Entry{Operation: OpUndo, Source: "undo " + undoOf, UndoOf: undoOf, Renames: renames})
}

// log fills in identity and summary and persists the entry.
func (m *Manifest) log(entry *Entry) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.Timestamp = m.now().UTC()
	entry.ID = generateID(entry.Operation, entry.Timestamp)
	if entry.Renames == nil {
		entry.Renames = []RenameRecord{}
	}

	var totalBytes int64
	for _, r := range entry.Renames {
		totalBytes += r.Size
	}
	entry.Summary = Summary{
		TotalFiles: int64(len(entry.Renames)),
		TotalBytes: totalBytes,
	}

	if err := m.writeEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to write manifest entry: %w", err)
	}

	return entry, nil
}

// writeEntry writes an entry to a JSON file in the manifest directory.
func (m *Manifest) writeEntry(entry *Entry) error {
	filePath := filepath.Join(m.dir, entry.ID+".json")

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	// Write atomically using a temp file and rename
	tmpPath := filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// List returns all manifest entries sorted by timestamp descending (newest first).
// If limit is 0 or negative, all entries are returned.
func (m *Manifest) List(limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Get retrieves an entry by its ID or by a prefix that matches exactly one ID.
func (m *Manifest) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return nil, err
	}

	var match *Entry
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
		if strings.HasPrefix(entries[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
			}
			match = &entries[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}

// Outstanding returns the records of entry that no undo has reversed yet, in
// journal order, together with the undo entries of entry, oldest first. An
// entry with undos and no outstanding records is fully undone.
func (m *Manifest) Outstanding(entry *Entry) ([]RenameRecord, []Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return nil, nil, err
	}

	type move struct{ from, to string }
	reversed := make(map[move]bool)
	var undos []Entry
	for _, e := range entries {
		if e.Operation != OpUndo || e.UndoOf != entry.ID {
			continue
		}
		undos = append(undos, e)
		for _, r := range e.Renames {
			reversed[move{r.To, r.From}] = true
		}
	}
	sort.SliceStable(undos, func(i, j int) bool {
		return undos[i].Timestamp.Before(undos[j].Timestamp)
	})

	var outstanding []RenameRecord
	for _, r := range entry.Renames {
		if !reversed[move{r.From, r.To}] {
			outstanding = append(outstanding, r)
		}
	}
	return outstanding, undos, nil
}

// readAll parses every entry file. Unparseable files are skipped.
func (m *Manifest) readAll() ([]Entry, error) {
	files, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read manifest directory: %w", err)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		entry, err := m.readEntryFile(f.Name())
		if err != nil {
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// readEntryFile reads and parses a manifest entry from a JSON file.
func (m *Manifest) readEntryFile(filename string) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}

	return &entry, nil
}

// Cleanup removes entries older than retentionDays and returns how many
// were removed. A non-positive retention keeps everything.
func (m *Manifest) Cleanup(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().AddDate(0, 0, -retentionDays)

	files, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read manifest directory: %w", err)
	}

	removed := 0
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		info, err := f.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(m.dir, f.Name())); err != nil {
				continue
			}
			removed++
		}
	}

	return removed, nil
}

// generateID creates a unique ID like "rename-2024-06-15T10-30-00-1b4e28ba".
func generateID(op OperationType, ts time.Time) string {
	suffix, _, _ := strings.Cut(uuid.NewString(), "-")
	return fmt.Sprintf("%s-%s-%s", op, ts.Format("2006-01-02T15-04-05"), suffix)
}
