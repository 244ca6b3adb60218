// Package scanner collects the files and folders a rename run operates on.
// It walks a root directory with fastwalk, applies the entry filter, stats
// each candidate and attaches content metadata, consulting the metadata
// cache before running the extractors.
package scanner

import (
	"runtime"

	"github.com/jamesainslie/renamer/pkg/renamer/cache"
	"github.com/jamesainslie/renamer/pkg/renamer/filter"
	"github.com/jamesainslie/renamer/pkg/renamer/metadata"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// DefaultRoot is the directory scanned when Options.Root is empty.
const DefaultRoot = "."

// Options configures the scanner behavior.
type Options struct {
	// Root is the directory whose entries are collected.
	Root string

	// Recursive descends into subdirectories. Without it only the direct
	// children of Root are considered.
	Recursive bool

	// Filter selects entries. If nil, every non-hidden file is included.
	Filter *filter.Filter

	// Metadata extracts content metadata from files. If nil, items carry no
	// metadata.
	Metadata *metadata.Chain

	// Cache is an optional metadata cache for speeding up repeat runs.
	// If nil, caching is disabled.
	Cache *cache.Cache

	// Workers is the number of concurrent walk workers.
	Workers int

	// OnProgress is called periodically with scan progress updates.
	// It must be safe to call from multiple goroutines.
	OnProgress func(types.ScanProgress)
}

// DefaultOptions returns options with sensible defaults for most systems.
func DefaultOptions() Options {
	return Options{
		Root:     DefaultRoot,
		Filter:   filter.New(),
		Metadata: metadata.Default(),
		Workers:  defaultWorkers(),
	}
}

// Validate fills in defaults for unset or invalid values.
func (o *Options) Validate() error {
	if o.Root == "" {
		o.Root = DefaultRoot
	}
	if o.Filter == nil {
		o.Filter = filter.New()
	}
	if o.Workers < 1 {
		o.Workers = defaultWorkers()
	}
	return o.Filter.Validate()
}

func defaultWorkers() int {
	return max(4, runtime.NumCPU())
}
