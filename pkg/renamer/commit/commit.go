package commit

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jamesainslie/renamer/pkg/renamer/cache"
	"github.com/jamesainslie/renamer/pkg/renamer/logging"
	"github.com/jamesainslie/renamer/pkg/renamer/manifest"
)

var logger = logging.Get("commit")

// ErrTargetExists indicates the target appeared on disk after planning.
var ErrTargetExists = errors.New("target already exists")

// Status is the outcome of one operation.
type Status int

const (
	// StatusSkipped means nothing was done.
	StatusSkipped Status = iota
	// StatusPlanned means the rename would happen without a dry run.
	StatusPlanned
	// StatusRenamed means the rename happened.
	StatusRenamed
	// StatusFailed means the rename was attempted or refused and did not happen.
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusPlanned:
		return "planned"
	case StatusRenamed:
		return "renamed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OpResult pairs an operation with its outcome.
type OpResult struct {
	Operation
	Status Status
	Err    error
}

// Result is the outcome of Apply or Undo, in plan order.
type Result struct {
	Ops     []OpResult
	Renamed int
	Planned int
	Skipped int
	Failed  int

	// Entry is the manifest entry journaling the renames, if any.
	Entry *manifest.Entry
}

// Committer applies plans to the filesystem.
type Committer struct {
	manifest *manifest.Manifest
	cache    *cache.Cache
	source   string
	progress func(current, total int)
	rename   func(from, to string) error
}

// Option configures a Committer.
type Option func(*Committer)

// WithManifest journals applied renames to m.
func WithManifest(m *manifest.Manifest) Option {
	return func(c *Committer) {
		c.manifest = m
	}
}

// WithCache forgets cached metadata under renamed paths.
func WithCache(mc *cache.Cache) Option {
	return func(c *Committer) {
		c.cache = mc
	}
}

// WithSource sets the description recorded in manifest entries.
func WithSource(source string) Option {
	return func(c *Committer) {
		c.source = source
	}
}

// WithProgress calls fn with the zero-based index after each operation of
// Apply, then once more with (total, total).
func WithProgress(fn func(current, total int)) Option {
	return func(c *Committer) {
		c.progress = fn
	}
}

// New creates a Committer.
func New(opts ...Option) *Committer {
	c := &Committer{rename: os.Rename}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply performs the planned renames. One failure never stops the others.
// With dryRun nothing on disk changes and renames are reported as planned.
//
// Renames run deepest path first so that renaming a folder does not
// invalidate the paths of items inside it.
func (c *Committer) Apply(plan []Operation, dryRun bool) Result {
	res := Result{Ops: make([]OpResult, len(plan))}
	for i, op := range plan {
		res.Ops[i] = OpResult{Operation: op}
	}

	total := len(plan)
	order := executionOrder(plan)
	for n, i := range order {
		r := &res.Ops[i]
		switch {
		case r.Action == ActionSkip:
			r.Status = StatusSkipped
		case r.Action == ActionInvalid:
			r.Status = StatusFailed
			r.Err = r.err
		case dryRun:
			r.Status = StatusPlanned
		default:
			c.apply(r)
		}
		c.report(n, total)
	}
	c.report(total, total)

	// Records are journaled in execution order; Undo replays them backwards.
	var records []manifest.RenameRecord
	for _, i := range order {
		r := res.Ops[i]
		res.count(r.Status)
		if r.Status == StatusRenamed {
			records = append(records, manifest.RenameRecord{
				From:  r.From,
				To:    r.To,
				Size:  r.Item.Size,
				IsDir: !r.Item.IsFile,
			})
		}
	}

	if len(records) > 0 && c.manifest != nil {
		entry, err := c.manifest.LogRename(c.source, records)
		if err != nil {
			logger.Error("failed to journal renames", "error", err)
		}
		res.Entry = entry
	}

	logger.Info("commit finished",
		"renamed", res.Renamed,
		"planned", res.Planned,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"dry_run", dryRun)
	return res
}

func (c *Committer) apply(r *OpResult) {
	if err := c.move(r.From, r.To); err != nil {
		r.Status = StatusFailed
		r.Err = err
		logger.Warn("rename failed", "from", r.From, "to", r.To, "error", err)
		return
	}
	r.Status = StatusRenamed
	logger.Debug("renamed", "from", r.From, "to", r.To)
}

// move renames from to to, refusing to overwrite another file.
func (c *Committer) move(from, to string) error {
	if pathExists(to, from) {
		return fmt.Errorf("%w: %s", ErrTargetExists, to)
	}
	if err := c.rename(from, to); err != nil {
		return err
	}
	if c.cache != nil {
		if err := c.cache.Forget(from); err != nil {
			logger.Debug("cache forget failed", "path", from, "error", err)
		}
	}
	return nil
}

func (c *Committer) report(current, total int) {
	if c.progress != nil {
		c.progress(current, total)
	}
}

func (r *Result) count(s Status) {
	switch s {
	case StatusRenamed:
		r.Renamed++
	case StatusPlanned:
		r.Planned++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
}

// executionOrder returns plan indexes sorted by path depth, deepest first.
// Ties keep plan order.
func executionOrder(plan []Operation) []int {
	order := make([]int, len(plan))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(depth(plan[b].From), depth(plan[a].From))
	})
	return order
}

func depth(path string) int {
	return strings.Count(filepath.Clean(path), string(filepath.Separator))
}
