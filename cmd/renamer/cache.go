package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/renamer/pkg/renamer/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the metadata cache",
	Long: `Commands for managing the renamer metadata cache.

The cache stores EXIF, audio tag and image dimension metadata so repeat runs
over the same files skip extraction. Entries are keyed by path and reused
only while the file's size and modification time are unchanged.
Cache data is stored in the XDG cache directory (typically ~/.cache/renamer/metadata).`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cached data",
	Long:  `Removes all cached metadata. The next run extracts it again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(func(c *cache.Cache) error {
			n, err := c.Clear()
			if err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			printInfo("Cache cleared (%d entries).", n)
			return nil
		})
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stale entries",
	Long:  `Removes entries whose file is gone or has changed since it was cached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(func(c *cache.Cache) error {
			res, err := c.Prune()
			if err != nil {
				return fmt.Errorf("failed to prune cache: %w", err)
			}
			printInfo("Checked %d entries: removed %d stale and %d missing.", res.Checked, res.Stale, res.Missing)
			return nil
		})
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long:  `Displays the cache location and the number of cached entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cachePath()); os.IsNotExist(err) {
			fmt.Println("Cache: empty (no cache directory)")
			fmt.Printf("Cache location: %s\n", cachePath())
			return nil
		}
		return withCache(func(c *cache.Cache) error {
			stats, err := c.Stats()
			if err != nil {
				return fmt.Errorf("failed to read cache: %w", err)
			}
			fmt.Printf("Cache location: %s\n", stats.Path)
			fmt.Printf("Cache entries:  %d\n", stats.Entries)
			if !cfg.Cache.Enabled {
				fmt.Println("Cache is disabled in the configuration.")
			}
			return nil
		})
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show cache location",
	Long:  `Prints the path to the cache directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cachePath())
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}

func cachePath() string {
	if cfg != nil && cfg.Cache.Path != "" {
		return cfg.Cache.Path
	}
	return cache.DefaultPath()
}

// withCache opens the configured cache for the duration of fn.
func withCache(fn func(*cache.Cache) error) error {
	c, err := cache.Open(cachePath())
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer c.Close()
	return fn(c)
}
