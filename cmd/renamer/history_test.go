package main

import (
	"strings"
	"testing"
	"time"

	"github.com/jamesainslie/renamer/pkg/renamer/manifest"
)

func renameEntry(n int) *manifest.Entry {
	entry := &manifest.Entry{
		ID:        "20240608-153045-abcd",
		Timestamp: time.Date(2024, time.June, 8, 15, 30, 45, 0, time.UTC),
		Operation: manifest.OpRename,
		Source:    "add --text=_final",
	}
	for i := range n {
		from := "/photos/img" + string(rune('a'+i)) + ".jpg"
		entry.Renames = append(entry.Renames, manifest.RenameRecord{
			From: from,
			To:   strings.TrimSuffix(from, ".jpg") + "_final.jpg",
			Size: 1024,
		})
	}
	entry.Summary.TotalFiles = int64(n)
	entry.Summary.TotalBytes = int64(n) * 1024
	return entry
}

func TestFormatEntry(t *testing.T) {
	tests := []struct {
		name     string
		renames  int
		limit    int
		contains []string
		excludes []string
	}{
		{
			name:     "all shown",
			renames:  2,
			limit:    50,
			contains: []string{"ID:         20240608-153045-abcd", "Source:     add --text=_final", "Files:      2", "/photos/imga.jpg\n  -> /photos/imga_final.jpg", "/photos/imgb.jpg"},
			excludes: []string{"more renames", "Undo of:"},
		},
		{
			name:     "limited",
			renames:  3,
			limit:    1,
			contains: []string{"/photos/imga.jpg", "... and 2 more renames"},
			excludes: []string{"/photos/imgb.jpg"},
		},
		{
			name:     "zero limit shows everything",
			renames:  3,
			limit:    0,
			contains: []string{"/photos/imgc.jpg"},
			excludes: []string{"more renames"},
		},
		{
			name:     "no renames",
			renames:  0,
			limit:    10,
			contains: []string{"Files:      0"},
			excludes: []string{"Renames:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatEntry(renameEntry(tt.renames), tt.limit)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("output contains %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestFormatEntry_Undo(t *testing.T) {
	entry := renameEntry(1)
	entry.Operation = manifest.OpUndo
	entry.UndoOf = "20240601-000000-ffff"

	got := formatEntry(entry, 0)
	if !strings.Contains(got, "Undo of:    20240601-000000-ffff") {
		t.Errorf("output missing undo reference:\n%s", got)
	}
}

func TestFormatHistory(t *testing.T) {
	undo := renameEntry(1)
	undo.ID = "20240609-090000-0001"
	undo.Operation = manifest.OpUndo
	undo.UndoOf = "20240608-153045-abcd"

	got := formatHistory([]manifest.Entry{*undo, *renameEntry(2)})

	for _, want := range []string{"ID", "SOURCE", "undo of 20240608-153045-abcd", "add --text=_final", "rename"} {
		if !strings.Contains(got, want) {
			t.Errorf("history missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "20240609-090000-0001") > strings.Index(got, "add --text=_final") {
		t.Error("entries are not listed in the given order")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
		{"abcdef", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestFormatUndoState(t *testing.T) {
	entry := renameEntry(3)
	undo := manifest.Entry{
		ID:        "undo-20240609-090000-0001",
		Timestamp: time.Date(2024, time.June, 9, 9, 0, 0, 0, time.UTC),
		Operation: manifest.OpUndo,
		UndoOf:    entry.ID,
	}

	tests := []struct {
		name        string
		outstanding []manifest.RenameRecord
		undos       []manifest.Entry
		want        string
	}{
		{name: "never undone", outstanding: entry.Renames, want: "Undo with: renamer undo 20240608-153045-abcd"},
		{name: "fully undone", undos: []manifest.Entry{undo}, want: "Undone by undo-20240609-090000-0001 on 2024-06-09 09:00:00"},
		{
			name:        "partly undone",
			outstanding: entry.Renames[:1],
			undos:       []manifest.Entry{undo},
			want:        "1 of 3 renames remain.\nRetry with: renamer undo 20240608-153045-abcd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatUndoState(entry, tt.outstanding, tt.undos); !strings.Contains(got, tt.want) {
				t.Errorf("formatUndoState() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
