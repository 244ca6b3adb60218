// Package commit turns proposed names into filesystem renames. Plan checks
// every proposal and resolves name collisions without touching the disk;
// Apply performs the renames, journals them to the manifest and keeps the
// metadata cache consistent; Undo reverses a journaled batch.
package commit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// maxNameBytes is the common NAME_MAX limit of Linux and macOS filesystems.
const maxNameBytes = 255

// ErrInvalidName indicates a proposed file name that cannot exist on disk.
var ErrInvalidName = errors.New("invalid file name")

// Action is what the plan intends for one item.
type Action int

const (
	// ActionSkip leaves the item alone because its name is unchanged.
	ActionSkip Action = iota
	// ActionRename renames the item.
	ActionRename
	// ActionInvalid refuses the item because the proposed name is unusable.
	ActionInvalid
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "unchanged"
	case ActionRename:
		return "rename"
	case ActionInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Operation is one planned rename.
type Operation struct {
	Item   types.Item
	From   string
	To     string
	Action Action

	// Reason explains invalid items and collision suffixes.
	Reason string

	err error
}

func (o *Operation) invalidate(err error) {
	o.Action = ActionInvalid
	o.Reason = err.Error()
	o.err = err
}

// ToName returns the base name of the target.
func (o Operation) ToName() string {
	return filepath.Base(o.To)
}

// ValidateName reports whether name can be used as a single path element.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: contains NUL", ErrInvalidName)
	case len(name) > maxNameBytes:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidName, maxNameBytes)
	}
	return nil
}

// Plan computes the target path of every item, in input order.
//
// Unchanged items are skipped and unusable names are marked invalid. When a
// target is already claimed by an earlier item or by an existing file, " (n)"
// is appended to the name with the smallest free n. An item never collides
// with itself, so case-only renames on case-insensitive filesystems go through.
func Plan(items []types.Item) []Operation {
	return planWith(items, pathExists)
}

// existsFunc reports whether target exists as anything other than source.
type existsFunc func(target, source string) bool

func planWith(items []types.Item, exists existsFunc) []Operation {
	ops := make([]Operation, len(items))
	claimed := make(map[string]bool, len(items))

	for i, it := range items {
		op := Operation{Item: it, From: it.AbsolutePath, To: it.AbsolutePath}

		if !it.Changed() {
			op.Action = ActionSkip
			ops[i] = op
			continue
		}

		if it.Proposed.Name == "" {
			op.invalidate(fmt.Errorf("%w: empty", ErrInvalidName))
			ops[i] = op
			continue
		}
		filename := it.Proposed.Filename()
		if err := ValidateName(filename); err != nil {
			op.invalidate(err)
			ops[i] = op
			continue
		}

		dir := it.Dir()
		target := filepath.Join(dir, filename)
		taken := func(p string) bool {
			return claimed[p] || exists(p, it.AbsolutePath)
		}

		if taken(target) {
			name, err := freeName(it.Proposed, func(name string) bool {
				return taken(filepath.Join(dir, name))
			})
			if err != nil {
				op.invalidate(err)
				ops[i] = op
				continue
			}
			op.Reason = fmt.Sprintf("%s already taken", filename)
			target = filepath.Join(dir, name)
		}

		claimed[target] = true
		op.To = target
		op.Action = ActionRename
		ops[i] = op
	}

	return ops
}

// freeName returns the first "name (n).ext" that is not taken.
func freeName(p types.Proposal, taken func(string) bool) (string, error) {
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s (%d)%s", p.Name, n, p.Extension)
		if err := ValidateName(name); err != nil {
			return "", err
		}
		if !taken(name) {
			return name, nil
		}
	}
}

// pathExists reports whether target exists and is not the same file as source.
func pathExists(target, source string) bool {
	ti, err := os.Lstat(target)
	if err != nil {
		return false
	}
	si, err := os.Lstat(source)
	if err != nil {
		return true
	}
	return !os.SameFile(ti, si)
}
