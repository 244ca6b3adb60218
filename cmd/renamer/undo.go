package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/renamer/pkg/renamer/cache"
	"github.com/jamesainslie/renamer/pkg/renamer/commit"
)

var undoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Reverse an applied rename batch",
	Long: `Renames every file of a batch back to its original name, newest first.

Files that were moved or deleted since, and original names that are taken
again, are reported and left alone. The undo itself is journaled, so
"renamer history" shows it. Running undo again on the same batch retries
only the files that could not be restored.`,
	Args: cobra.ExactArgs(1),
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	entry, err := m.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	opts := []commit.Option{commit.WithManifest(m)}
	if cfg != nil && cfg.Cache.Enabled && !getNoCache() {
		if mc, err := cache.Open(cfg.Cache.Path); err != nil {
			logger.Warn("metadata cache unavailable", "path", cfg.Cache.Path, "error", err)
		} else {
			defer mc.Close()
			opts = append(opts, commit.WithCache(mc))
		}
	}

	res, err := commit.New(opts...).Undo(entry)
	if err != nil {
		return fmt.Errorf("undo %s: %w", entry.ID, err)
	}

	for _, op := range res.Ops {
		if op.Status == commit.StatusFailed {
			printError("%s: %v", op.From, op.Err)
		} else {
			printVerbose("%s -> %s", op.From, op.To)
		}
	}

	printInfo("Restored %d of %d files.", res.Renamed, len(res.Ops))
	if res.Entry != nil {
		printVerbose("Journaled as %s", res.Entry.ID)
	}

	if res.Failed > 0 {
		printInfo("Fix the reported files and retry with: renamer undo %s", entry.ID)
		return fmt.Errorf("%w: %d of %d", ErrRenamesFailed, res.Failed, len(res.Ops))
	}
	return nil
}
