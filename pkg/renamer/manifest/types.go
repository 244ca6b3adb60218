// Package manifest journals committed rename batches so they can be listed
// and undone later. Each batch is one JSON file in the manifest directory.
package manifest

import (
	"errors"
	"time"
)

// OperationType represents the type of operation.
type OperationType string

const (
	// OpRename records a committed rename batch.
	OpRename OperationType = "rename"
	// OpUndo records the reversal of an earlier rename batch.
	OpUndo OperationType = "undo"
)

var (
	// ErrNotFound indicates no entry has the requested ID.
	ErrNotFound = errors.New("manifest entry not found")

	// ErrAmbiguousID indicates an ID prefix matches more than one entry.
	ErrAmbiguousID = errors.New("ambiguous manifest entry ID")

	// ErrEmptyID indicates a lookup without an ID.
	ErrEmptyID = errors.New("entry ID cannot be empty")
)

// Entry represents a single manifest entry.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`

	// Source describes what produced the batch, e.g. the rule that ran.
	Source string `json:"source,omitempty"`

	// UndoOf is the ID of the reversed entry, set for OpUndo.
	UndoOf string `json:"undo_of,omitempty"`

	Renames []RenameRecord `json:"renames"`
	Summary Summary        `json:"summary"`
}

// RenameRecord is one completed rename.
type RenameRecord struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Size  int64  `json:"size"`
	IsDir bool   `json:"is_dir,omitempty"`
}

// Summary contains operation summary.
type Summary struct {
	TotalFiles int64 `json:"total_files"`
	TotalBytes int64 `json:"total_bytes"`
}
