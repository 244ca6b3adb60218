// Package pipeline applies rename rules to a collection of items.
//
// A run is synchronous: the runner preprocesses the items when the rule asks
// for it, applies the rule to each item in order and reports progress on the
// caller's goroutine after every item. Callers that must stay responsive run
// the pipeline on their own goroutine.
package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/jamesainslie/renamer/pkg/renamer/logging"
	"github.com/jamesainslie/renamer/pkg/renamer/rule"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

var logger = logging.Get("pipeline")

// ErrRulePanicked wraps a panic recovered from a rule.
var ErrRulePanicked = errors.New("rule panicked")

// ProgressFunc receives (current, total) after every item and once more with
// current == total when the run ends. It runs on the pipeline's goroutine and
// must return quickly.
type ProgressFunc func(current, total int)

// State is the phase of a run.
type State int32

const (
	// StateIdle means no run is in progress.
	StateIdle State = iota
	// StatePreprocessing means the rule is reordering the items.
	StatePreprocessing
	// StateApplying means the rule is being applied item by item.
	StateApplying
	// StateDone means the last run has finished.
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreprocessing:
		return "preprocessing"
	case StateApplying:
		return "applying"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Stats summarizes the last run.
type Stats struct {
	// Items is the number of items processed.
	Items int

	// Changed counts items whose proposal differs from their original name.
	Changed int

	// Unchanged counts the rest.
	Unchanged int

	// Failed counts rule applications that panicked and were skipped.
	Failed int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Runner applies rules to items. A Runner may be reused but not shared by
// concurrent runs.
type Runner struct {
	state atomic.Int32
	stats Stats
}

// New creates an idle Runner.
func New() *Runner {
	return &Runner{}
}

// State returns the current phase. It is safe to call from any goroutine.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Stats returns the statistics of the last completed run.
func (r *Runner) Stats() Stats {
	return r.stats
}

// Run applies rl to every item and returns the items in the order the rule
// was applied. The input slice is not modified.
//
// A panic inside the rule is recovered and logged, and that item keeps its
// previous proposal; the remaining items are still processed. A nil rule
// returns the items unchanged.
func (r *Runner) Run(items []types.Item, rl rule.Rule, progress ProgressFunc) []types.Item {
	start := time.Now()
	total := len(items)

	out, failed := r.stage(items, rl, func(i int) {
		report(progress, i, total)
	})
	report(progress, total, total)

	r.finish(out, failed, start)
	return out
}

// RunAll chains rules, feeding each stage the previous stage's output.
// Progress is scaled so that total is len(items) * len(rules).
func (r *Runner) RunAll(items []types.Item, rules []rule.Rule, progress ProgressFunc) []types.Item {
	start := time.Now()
	n := len(items)
	total := n * len(rules)

	out := slices.Clone(items)
	failed := 0
	for k, rl := range rules {
		offset := k * n
		var f int
		out, f = r.stage(out, rl, func(i int) {
			report(progress, offset+i, total)
		})
		failed += f
	}
	report(progress, total, total)

	r.finish(out, failed, start)
	return out
}

// stage runs one rule over items and returns the result and the number of
// contained failures. after is called with the index of each applied item.
func (r *Runner) stage(items []types.Item, rl rule.Rule, after func(i int)) ([]types.Item, int) {
	if rl == nil {
		logger.Error("nil rule, items left unchanged")
		out := slices.Clone(items)
		for i := range out {
			after(i)
		}
		return out, 0
	}

	r.state.Store(int32(StatePreprocessing))
	out := preprocess(rl, items)

	r.state.Store(int32(StateApplying))
	failed := 0
	for i := range out {
		proposal, err := applySafely(rl, out[i])
		if err != nil {
			failed++
			logger.Warn("rule failed, item unchanged", "rule", rl.Name(), "path", out[i].AbsolutePath, "error", err)
		} else {
			out[i].Proposed = proposal
		}
		after(i)
	}

	logger.Debug("stage finished", "rule", rl.Name(), "items", len(out), "failed", failed)
	return out, failed
}

func (r *Runner) finish(items []types.Item, failed int, start time.Time) {
	stats := Stats{Items: len(items), Failed: failed, Elapsed: time.Since(start)}
	for _, item := range items {
		if item.Changed() {
			stats.Changed++
		} else {
			stats.Unchanged++
		}
	}
	r.stats = stats
	r.state.Store(int32(StateDone))

	logger.Info("run finished",
		"items", stats.Items,
		"changed", stats.Changed,
		"failed", stats.Failed,
		"elapsed", stats.Elapsed)
}

// preprocess lets a Preprocessor reorder a copy of items. A panicking
// preprocessor leaves the input order in place.
func preprocess(rl rule.Rule, items []types.Item) (out []types.Item) {
	p, ok := rl.(rule.Preprocessor)
	if !ok {
		return slices.Clone(items)
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("preprocess failed, keeping input order", "rule", rl.Name(), "panic", rec)
			out = slices.Clone(items)
		}
	}()

	sorted := p.Preprocess(slices.Clone(items))
	if len(sorted) != len(items) {
		logger.Warn("preprocess changed the item count, keeping input order",
			"rule", rl.Name(), "want", len(items), "got", len(sorted))
		return slices.Clone(items)
	}
	return sorted
}

func applySafely(rl rule.Rule, item types.Item) (p types.Proposal, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: %v", ErrRulePanicked, rl.Name(), rec)
		}
	}()
	return rl.Apply(item), nil
}

func report(progress ProgressFunc, current, total int) {
	if progress != nil {
		progress(current, total)
	}
}
