package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/renamer/pkg/renamer/config"
)

var (
	cfgFile string

	// cfg is the loaded configuration, set by initializeLogging.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "renamer",
		Short: "Batch-rename files with rules",
		Long: `Renamer renames files by applying a rule to every file in a directory.

Each rule is a subcommand. Without --apply, renamer only shows what would
change; with --apply the renames happen and are journaled, so they can be
reversed with "renamer undo".

Examples:
  renamer datetime ~/Pictures                 # Preview date prefixes
  renamer datetime -r -a --source content_creation --date yyyy_mm_dd_dashed .
  renamer sequence --sort fs-creation --padding 3 .
  renamer replace --find IMG --replace Holiday --type image .
  renamer history                             # View applied renames
  renamer undo <id>                           # Reverse a batch`,
		SilenceUsage:      true,
		PersistentPreRunE: initializeLogging,
		PersistentPostRun: func(*cobra.Command, []string) {
			closeLogging()
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&cfgFile, "config", "", "config file (default: ~/.config/renamer/config.yaml)")
	pf.BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	pf.StringArrayVar(&includes, "include", nil, "only rename names matching this glob pattern (repeatable)")
	pf.StringArrayVarP(&excludes, "exclude", "e", nil, "skip names matching this glob pattern (repeatable)")
	pf.StringSliceVar(&extensions, "ext", nil, "only rename files with these extensions (e.g., jpg,png)")
	pf.StringSliceVar(&fileTypes, "type", nil, "only rename files of these type groups: "+typeGroupList())
	pf.BoolVar(&includeDirs, "dirs", false, "rename directories as well as files")
	pf.BoolVar(&dirsOnly, "dirs-only", false, "rename directories only")
	pf.BoolVar(&includeHidden, "hidden", false, "include hidden files and directories")
	pf.StringVar(&minSize, "min-size", "", "only rename files at least this large (e.g., 10M)")
	pf.StringVar(&olderThan, "older-than", "", "only rename entries modified before this age or date (e.g., 30d, 1y6mo, 2024-01-01)")
	pf.StringVar(&newerThan, "newer-than", "", "only rename entries modified within this age or since this date (e.g., 24h, 2w)")
	pf.StringVarP(&outputFormat, "output", "o", "", "output format (default from config: pretty)")
	pf.StringVar(&templateStr, "template", "", "Go template for -o template")
	pf.BoolP("apply", "a", false, "perform the renames (default is a preview)")
	pf.BoolP("quiet", "q", false, "minimal output")
	pf.BoolP("verbose", "v", false, "debug output")
	pf.Bool("no-cache", false, "bypass the metadata cache")

	_ = viper.BindPFlag("apply", pf.Lookup("apply"))
	_ = viper.BindPFlag("quiet", pf.Lookup("quiet"))
	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("no_cache", pf.Lookup("no-cache"))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// getApply returns true if renames should be performed.
func getApply() bool {
	return viper.GetBool("apply")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
