package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/renamer/pkg/renamer/config"
	"github.com/jamesainslie/renamer/pkg/renamer/manifest"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View applied renames",
	Long: `View the journal of applied rename batches and undos.

Every run with --apply records which files were renamed, so a batch can be
reversed later with "renamer undo <id>".`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a batch",
	Long:  `Display every rename of a batch. A unique prefix of the ID is enough.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
	showLimit    int
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")
	historyShowCmd.Flags().IntVarP(&showLimit, "limit", "l", 50, "maximum number of renames to show (0 for all)")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getManifest returns a manifest instance with the configured directory.
func getManifest() (*manifest.Manifest, error) {
	if cfg != nil && cfg.Manifest.Path != "" {
		return manifest.New(cfg.Manifest.Path)
	}
	manifestDir, err := config.ManifestDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest directory: %w", err)
	}
	return manifest.New(manifestDir)
}

// runHistory lists recent batches.
func runHistory(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	entries, err := m.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run a rule with --apply to rename files, e.g. 'renamer datetime --apply .'.")
		return nil
	}

	fmt.Print(formatHistory(entries))
	fmt.Println("\nUse 'renamer history show <id>' for details, 'renamer undo <id>' to reverse a batch.")
	return nil
}

// formatHistory renders one line per entry, newest first.
func formatHistory(entries []manifest.Entry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%-42s  %-6s  %-14s  %6s  %s\n", "ID", "TYPE", "WHEN", "FILES", "SOURCE")
	sb.WriteString(strings.Repeat("-", 90) + "\n")

	for _, entry := range entries {
		source := entry.Source
		if entry.Operation == manifest.OpUndo {
			source = "undo of " + entry.UndoOf
		}
		fmt.Fprintf(&sb, "%-42s  %-6s  %-14s  %6d  %s\n",
			truncateString(entry.ID, 42),
			entry.Operation,
			humanize.Time(entry.Timestamp),
			entry.Summary.TotalFiles,
			truncateString(source, 60),
		)
	}

	sb.WriteString(strings.Repeat("-", 90) + "\n")
	return sb.String()
}

// runHistoryShow displays the renames of one batch.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	entry, err := m.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	fmt.Print(formatEntry(entry, showLimit))

	if entry.Operation == manifest.OpRename {
		outstanding, undos, err := m.Outstanding(entry)
		if err == nil {
			fmt.Print(formatUndoState(entry, outstanding, undos))
		}
	}
	return nil
}

// formatUndoState tells whether a rename batch was undone, partly or fully.
func formatUndoState(entry *manifest.Entry, outstanding []manifest.RenameRecord, undos []manifest.Entry) string {
	if len(undos) == 0 {
		return fmt.Sprintf("\nUndo with: renamer undo %s\n", entry.ID)
	}
	last := undos[len(undos)-1]
	when := last.Timestamp.Format("2006-01-02 15:04:05")
	if len(outstanding) == 0 {
		return fmt.Sprintf("\nUndone by %s on %s\n", last.ID, when)
	}
	return fmt.Sprintf("\nPartly undone by %s on %s; %d of %d renames remain.\nRetry with: renamer undo %s\n",
		last.ID, when, len(outstanding), len(entry.Renames), entry.ID)
}

// formatEntry renders an entry's header and up to limit renames; zero or
// less shows all of them.
func formatEntry(entry *manifest.Entry, limit int) string {
	var sb strings.Builder

	sb.WriteString("\nBatch Details\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&sb, "ID:         %s\n", entry.ID)
	fmt.Fprintf(&sb, "Timestamp:  %s\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Operation:  %s\n", entry.Operation)
	if entry.Source != "" {
		fmt.Fprintf(&sb, "Source:     %s\n", entry.Source)
	}
	if entry.UndoOf != "" {
		fmt.Fprintf(&sb, "Undo of:    %s\n", entry.UndoOf)
	}
	fmt.Fprintf(&sb, "Files:      %d\n", entry.Summary.TotalFiles)
	fmt.Fprintf(&sb, "Total Size: %s\n", types.FormatSize(entry.Summary.TotalBytes))

	if len(entry.Renames) == 0 {
		return sb.String()
	}

	sb.WriteString("\nRenames:\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	shown := len(entry.Renames)
	if limit > 0 && limit < shown {
		shown = limit
	}
	for _, rec := range entry.Renames[:shown] {
		fmt.Fprintf(&sb, "%s\n  -> %s\n", rec.From, rec.To)
	}
	if shown < len(entry.Renames) {
		fmt.Fprintf(&sb, "\n... and %d more renames\n", len(entry.Renames)-shown)
	}

	return sb.String()
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	retentionDays := config.DefaultRetentionDays
	if cfg != nil && cfg.Manifest.RetentionDays > 0 {
		retentionDays = cfg.Manifest.RetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	removed, err := m.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("Removed %d entries.", removed)
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
