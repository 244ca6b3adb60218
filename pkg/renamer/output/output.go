// Package output provides formatters for displaying rename previews and
// commit results in various output formats (pretty, plain, json, yaml, etc.).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/renamer/pkg/renamer/logging"
)

// logger is the package-level logger for output operations.
var logger = logging.Get("output")

// ErrUnknownFormatter indicates a formatter name that is not registered.
var ErrUnknownFormatter = errors.New("unknown formatter")

// Row statuses shared by previews and commit reports.
const (
	StatusUnchanged = "unchanged"
	StatusRename    = "rename"
	StatusPlanned   = "planned"
	StatusRenamed   = "renamed"
	StatusFailed    = "failed"
	StatusInvalid   = "invalid"
)

// Row is one item of a rename run.
type Row struct {
	// Path is the absolute path before renaming.
	Path string `json:"path" yaml:"path"`

	// Original is the file name before renaming.
	Original string `json:"original" yaml:"original"`

	// Proposed is the file name after renaming. Collision suffixes are
	// included once the plan has been computed.
	Proposed string `json:"proposed" yaml:"proposed"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SizeHuman is the human-readable file size (e.g., "1.5 MiB").
	SizeHuman string `json:"size_human" yaml:"size_human"`

	// IsDir is true for folders.
	IsDir bool `json:"is_dir,omitempty" yaml:"is_dir,omitempty"`

	// Changed reports whether Proposed differs from Original.
	Changed bool `json:"changed" yaml:"changed"`

	// Status is one of the Status constants.
	Status string `json:"status" yaml:"status"`

	// Reason explains failures and collision suffixes.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Stats contains statistics about a run.
type Stats struct {
	// Items is the number of items the rule ran over.
	Items int `json:"items" yaml:"items"`

	// Changed is the number of items whose name changes.
	Changed int `json:"changed" yaml:"changed"`

	// Failed is the number of items that could not be renamed.
	Failed int `json:"failed" yaml:"failed"`

	// CacheHits is the number of metadata records served from cache.
	CacheHits int64 `json:"cache_hits" yaml:"cache_hits"`

	// ScanDuration is the time spent collecting items.
	ScanDuration time.Duration `json:"scan_duration" yaml:"scan_duration"`

	// RuleDuration is the time spent computing proposals.
	RuleDuration time.Duration `json:"rule_duration" yaml:"rule_duration"`
}

// Result contains the complete output data for formatting.
type Result struct {
	// Source is the root directory of the run.
	Source string `json:"source" yaml:"source"`

	// Rule describes the rule that produced the proposals.
	Rule string `json:"rule" yaml:"rule"`

	// Rows holds one row per item, in pipeline order.
	Rows []Row `json:"rows" yaml:"rows"`

	// Stats contains run statistics.
	Stats Stats `json:"stats" yaml:"stats"`

	// Applied is true when renames were performed rather than previewed.
	Applied bool `json:"applied" yaml:"applied"`

	// ManifestID is the journal entry of an applied run.
	ManifestID string `json:"manifest_id,omitempty" yaml:"manifest_id,omitempty"`

	// Warnings contains any warning messages generated during the run.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Interrupted indicates if the run was interrupted by the user.
	Interrupted bool `json:"interrupted" yaml:"interrupted"`
}

// ChangedRows returns the rows whose name changes.
func (r *Result) ChangedRows() []Row {
	rows := make([]Row, 0, r.Stats.Changed)
	for _, row := range r.Rows {
		if row.Changed {
			rows = append(rows, row)
		}
	}
	return rows
}

// TotalSize returns the sum of all row sizes in the result.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, row := range r.Rows {
		total += row.Size
	}
	return total
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		logger.Debug("formatter lookup failed", "name", name)
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormatter, name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
