package commit

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/jamesainslie/renamer/pkg/renamer/manifest"
)

var (
	// ErrNotUndoable indicates an entry that does not record renames.
	ErrNotUndoable = errors.New("entry is not a rename batch")

	// ErrAlreadyUndone indicates the entry was already reversed.
	ErrAlreadyUndone = errors.New("entry was already undone")

	// ErrNoManifest indicates Undo was called without a manifest.
	ErrNoManifest = errors.New("undo requires a manifest")
)

// Undo reverses the renames recorded in entry that no earlier undo reversed,
// newest first, and journals the reversal. Records whose renamed file is gone,
// or whose original name is taken again, fail individually and stay
// outstanding, so a later Undo of the same entry retries only those.
func (c *Committer) Undo(entry *manifest.Entry) (Result, error) {
	if c.manifest == nil {
		return Result{}, ErrNoManifest
	}
	if entry.Operation != manifest.OpRename {
		return Result{}, fmt.Errorf("%w: %s is %s", ErrNotUndoable, entry.ID, entry.Operation)
	}
	records, undos, err := c.manifest.Outstanding(entry)
	if err != nil {
		return Result{}, err
	}
	if len(records) == 0 && len(undos) > 0 {
		return Result{}, fmt.Errorf("%w: by %s", ErrAlreadyUndone, undos[len(undos)-1].ID)
	}
	slices.Reverse(records)

	res := Result{Ops: make([]OpResult, len(records))}
	var reversed []manifest.RenameRecord
	for i, rec := range records {
		r := &res.Ops[i]
		r.Operation = Operation{From: rec.To, To: rec.From, Action: ActionRename}

		if _, err := os.Lstat(rec.To); err != nil {
			r.Status = StatusFailed
			r.Err = err
		} else {
			c.apply(r)
		}

		res.count(r.Status)
		if r.Status == StatusRenamed {
			reversed = append(reversed, manifest.RenameRecord{
				From:  rec.To,
				To:    rec.From,
				Size:  rec.Size,
				IsDir: rec.IsDir,
			})
		}
	}

	if len(reversed) == 0 {
		logger.Warn("undo restored nothing", "entry", entry.ID, "failed", res.Failed)
		return res, nil
	}

	undo, err := c.manifest.LogUndo(entry.ID, reversed)
	if err != nil {
		return res, fmt.Errorf("journal undo: %w", err)
	}
	res.Entry = undo

	logger.Info("undo finished", "entry", entry.ID, "restored", res.Renamed, "failed", res.Failed)
	return res, nil
}
