package output

import (
	"path/filepath"
	"strings"
)

// displayPath returns the row's original path relative to the run source,
// or the absolute path when it lies outside of it.
func displayPath(r *Result, row Row) string {
	if r.Source == "" {
		return row.Path
	}
	rel, err := filepath.Rel(r.Source, row.Path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return row.Path
	}
	return rel
}

// targetPath returns the absolute path the row is renamed to.
func targetPath(row Row) string {
	return filepath.Join(filepath.Dir(row.Path), row.Proposed)
}

var columnHeaders = []string{"STATUS", "ORIGINAL", "PROPOSED", "SIZE", "REASON"}

// columns returns the tabular fields shared by plain, tsv, csv and markdown.
func columns(r *Result, row Row) []string {
	return []string{row.Status, displayPath(r, row), row.Proposed, row.SizeHuman, row.Reason}
}
