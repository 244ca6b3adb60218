package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/renamer/pkg/renamer/config"
	"github.com/jamesainslie/renamer/pkg/renamer/logging"
)

// initializeLogging loads the configuration, applies flag overrides and
// starts file logging. It runs before every command.
func initializeLogging(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	applyFlagOverrides(cmd, loaded)
	cfg = loaded

	if err := logging.Init(loggingOptions(loaded, false)); err != nil {
		// A broken log location must not prevent renaming.
		printError("logging disabled: %v", err)
		return nil
	}

	logging.Get("cli").Debug("configuration loaded",
		"file", loaded.File,
		"command", commandPath(cmd))
	return nil
}

// initTUILogging re-initializes logging with console output suppressed while
// the progress view owns the terminal.
func initTUILogging() error {
	if cfg == nil {
		return nil
	}
	return logging.Init(loggingOptions(cfg, true))
}

// loggingOptions maps the configuration and the verbosity flags to logging
// options. --verbose echoes debug output to stderr, --quiet only errors.
func loggingOptions(c *config.Config, tuiMode bool) logging.Config {
	opts := c.LoggingOptions()
	opts.TUIMode = tuiMode
	switch {
	case getVerbose():
		opts.ConsoleLevel = "debug"
		opts.Level = "debug"
	case getQuiet():
		opts.ConsoleLevel = "error"
	default:
		opts.ConsoleLevel = "warn"
	}
	return opts
}

func closeLogging() {
	_ = logging.Close()
}

// applyFlagOverrides lets explicitly set flags win over the config file and
// environment.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	if cmd == nil {
		return
	}
	flags := cmd.Flags()
	if flags.Changed("recursive") {
		c.Recursive = recursive
	}
	if flags.Changed("exclude") {
		c.Exclude = append(c.Exclude, excludes...)
	}
	if flags.Changed("output") {
		c.Output = outputFormat
	}
	if flags.Changed("no-cache") && getNoCache() {
		c.Cache.Enabled = false
	}
}

func commandPath(cmd *cobra.Command) string {
	if cmd == nil {
		return ""
	}
	return cmd.CommandPath()
}
