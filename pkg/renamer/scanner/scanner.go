package scanner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/renamer/pkg/renamer/filter"
	"github.com/jamesainslie/renamer/pkg/renamer/logging"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

var logger = logging.Get("scanner")

// ErrNotDirectory indicates the scan root is not a directory.
var ErrNotDirectory = errors.New("scan root is not a directory")

// Result is the outcome of a scan.
type Result struct {
	// Items are the collected entries, sorted by path.
	Items []types.Item

	// Errors are per-entry failures. They never abort the scan.
	Errors []types.ScanError

	// EntriesSeen is the number of directory entries visited.
	EntriesSeen int64

	// CacheHits is the number of metadata records served from cache.
	CacheHits int64

	// CacheMisses is the number of records extracted fresh.
	CacheMisses int64

	// Elapsed is the wall time of the scan.
	Elapsed time.Duration
}

// Scanner collects rename items using fastwalk.
type Scanner struct {
	opts Options

	// Atomic counters for thread-safe progress reporting.
	entriesSeen atomic.Int64
	collected   atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64

	// currentPath is the path currently being scanned (for progress).
	currentPath atomic.Value

	// lastProgress tracks when we last reported progress to avoid excessive callbacks.
	lastProgress atomic.Int64

	errors   []types.ScanError
	errorsMu sync.Mutex

	items   []types.Item
	itemsMu sync.Mutex

	root string
}

// New creates a new Scanner with the given options.
// Defaults are applied to unset options; configuration problems are
// reported by Scan.
func New(opts Options) *Scanner {
	s := &Scanner{opts: opts}
	s.currentPath.Store("")
	return s
}

// Scan walks the root and returns the collected items.
// It blocks until complete or context is cancelled.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	start := time.Now()

	if err := s.opts.Validate(); err != nil {
		return nil, err
	}

	root, err := s.validateRoot()
	if err != nil {
		return nil, err
	}
	s.root = root

	s.currentPath.Store(root)
	s.reportProgressForce()

	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: s.opts.Workers,
	}
	walkErr := fastwalk.Walk(&conf, root, s.walkCallback(ctx))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	slices.SortFunc(s.items, func(a, b types.Item) int {
		return cmp.Compare(a.AbsolutePath, b.AbsolutePath)
	})
	slices.SortFunc(s.errors, func(a, b types.ScanError) int {
		return cmp.Compare(a.Path, b.Path)
	})

	s.currentPath.Store("")
	s.reportProgressForce()

	logger.Debug("scan finished",
		"root", root,
		"items", len(s.items),
		"errors", len(s.errors),
		"elapsed", time.Since(start))

	return &Result{
		Items:       s.items,
		Errors:      s.errors,
		EntriesSeen: s.entriesSeen.Load(),
		CacheHits:   s.cacheHits.Load(),
		CacheMisses: s.cacheMisses.Load(),
		Elapsed:     time.Since(start),
	}, nil
}

// validateRoot resolves the root path to absolute and verifies it is a directory.
func (s *Scanner) validateRoot() (string, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	return root, nil
}

// walkCallback returns the callback function for fastwalk.Walk.
func (s *Scanner) walkCallback(ctx context.Context) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if filepath.Clean(path) == s.root {
			if err != nil {
				return err
			}
			return nil
		}

		// Handle errors gracefully - record and continue.
		if err != nil {
			s.addError(path, err)
			if d != nil && d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		s.entriesSeen.Add(1)
		s.currentPath.Store(path)
		s.reportProgress()

		switch {
		case d.IsDir():
			return s.handleDirectory(path, d)
		case d.Type().IsRegular():
			s.handleFile(path, d)
		}
		return nil
	}
}

// handleDirectory considers a directory as a candidate and decides whether
// the walk descends into it.
func (s *Scanner) handleDirectory(path string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		s.addError(path, err)
		return fastwalk.SkipDir
	}

	c := candidate(path, info)
	if s.opts.Filter.Match(c) {
		s.collect(path, info, nil)
	}

	if !s.opts.Recursive || s.opts.Filter.Prune(c) {
		return fastwalk.SkipDir
	}
	return nil
}

// handleFile processes a regular file entry.
func (s *Scanner) handleFile(path string, d fs.DirEntry) {
	info, err := d.Info()
	if err != nil {
		s.addError(path, err)
		return
	}

	if !s.opts.Filter.Match(candidate(path, info)) {
		return
	}

	s.collect(path, info, s.metadataFor(path, info))
}

// metadataFor returns the content metadata of a file, from cache when the
// cached record still matches the file's size and modification time.
func (s *Scanner) metadataFor(path string, info fs.FileInfo) *types.Metadata {
	chain := s.opts.Metadata
	if chain == nil || !chain.Supports(path) {
		return nil
	}

	if s.opts.Cache != nil {
		if md, ok := s.opts.Cache.Lookup(path, info.Size(), info.ModTime()); ok {
			s.cacheHits.Add(1)
			return nonEmpty(md)
		}
	}

	s.cacheMisses.Add(1)
	md := chain.Extract(path)

	if s.opts.Cache != nil {
		if err := s.opts.Cache.Store(path, info.Size(), info.ModTime(), md); err != nil {
			logger.Warn("cache write failed", "path", path, "error", err)
		}
	}
	return nonEmpty(md)
}

func (s *Scanner) collect(path string, info fs.FileInfo, md *types.Metadata) {
	modTime := info.ModTime()
	item, err := types.NewItem(path, types.ItemOptions{
		IsFile:         !info.IsDir(),
		Size:           info.Size(),
		FSCreation:     birthTime(path),
		FSModification: &modTime,
		Metadata:       md,
	})
	if err != nil {
		s.addError(path, err)
		return
	}
	if info.IsDir() {
		item.Size = 0
	}

	s.collected.Add(1)

	s.itemsMu.Lock()
	s.items = append(s.items, item)
	s.itemsMu.Unlock()
}

// addError adds an error to the error list thread-safely.
func (s *Scanner) addError(path string, err error) {
	logger.Debug("scan error", "path", path, "error", err)

	s.errorsMu.Lock()
	s.errors = append(s.errors, types.ScanError{
		Path:  path,
		Error: err.Error(),
	})
	s.errorsMu.Unlock()
}

// reportProgress calls the progress callback if configured.
// Throttles calls to avoid excessive overhead.
func (s *Scanner) reportProgress() {
	if s.opts.OnProgress == nil {
		return
	}

	// Throttle progress updates to every 10ms.
	now := time.Now().UnixMilli()
	last := s.lastProgress.Load()
	if now-last < 10 {
		return
	}
	if !s.lastProgress.CompareAndSwap(last, now) {
		return // Another goroutine updated it.
	}

	s.sendProgress()
}

// reportProgressForce calls the progress callback immediately, bypassing throttle.
func (s *Scanner) reportProgressForce() {
	if s.opts.OnProgress == nil {
		return
	}
	s.lastProgress.Store(time.Now().UnixMilli())
	s.sendProgress()
}

func (s *Scanner) sendProgress() {
	currentPath, _ := s.currentPath.Load().(string)

	s.opts.OnProgress(types.ScanProgress{
		EntriesSeen:    s.entriesSeen.Load(),
		ItemsCollected: s.collected.Load(),
		CacheHits:      s.cacheHits.Load(),
		CurrentPath:    currentPath,
	})
}

func candidate(path string, info fs.FileInfo) filter.Candidate {
	c := filter.Candidate{
		Path:    path,
		Name:    info.Name(),
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if !c.IsDir {
		_, c.Ext = types.SplitName(c.Name)
	}
	return c
}

func nonEmpty(md *types.Metadata) *types.Metadata {
	if md == nil || md.IsEmpty() {
		return nil
	}
	return md
}
