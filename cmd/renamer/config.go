package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/renamer/pkg/renamer/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage renamer configuration settings.

Configuration is loaded from:
  1. --config, when given
  2. $XDG_CONFIG_HOME/renamer/config.yaml (if set)
  3. ~/.config/renamer/config.yaml

Environment variables override config file settings using the RENAMER_ prefix:
  RENAMER_RECURSIVE=true
  RENAMER_OUTPUT=plain
  RENAMER_DATETIME_OFFSET=+02:00`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after files, environment and flags.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// envOverrides lists the environment variables that map to config keys.
var envOverrides = []string{
	"RENAMER_RECURSIVE",
	"RENAMER_EXCLUDE",
	"RENAMER_OUTPUT",
	"RENAMER_MANIFEST_ENABLED",
	"RENAMER_MANIFEST_PATH",
	"RENAMER_MANIFEST_RETENTION_DAYS",
	"RENAMER_CACHE_ENABLED",
	"RENAMER_CACHE_PATH",
	"RENAMER_LOGGING_LEVEL",
	"RENAMER_LOGGING_PATH",
	"RENAMER_DATETIME_OFFSET",
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Print(formatConfig(cfg))

	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	anyOverrides := false
	for _, name := range envOverrides {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// formatConfig renders the effective settings, one key per line.
func formatConfig(c *config.Config) string {
	var sb strings.Builder

	if c.File != "" {
		fmt.Fprintf(&sb, "Config file: %s\n\n", c.File)
	} else {
		sb.WriteString("Config file: (using defaults, no file found)\n\n")
	}

	sb.WriteString("Current Configuration:\n")
	sb.WriteString("----------------------\n")
	fmt.Fprintf(&sb, "recursive:                %t\n", c.Recursive)
	fmt.Fprintf(&sb, "exclude:                  %v\n", c.Exclude)
	fmt.Fprintf(&sb, "output:                   %s\n", c.Output)
	fmt.Fprintf(&sb, "manifest.enabled:         %t\n", c.Manifest.Enabled)
	fmt.Fprintf(&sb, "manifest.path:            %s\n", c.Manifest.Path)
	fmt.Fprintf(&sb, "manifest.retention_days:  %d\n", c.Manifest.RetentionDays)
	fmt.Fprintf(&sb, "cache.enabled:            %t\n", c.Cache.Enabled)
	fmt.Fprintf(&sb, "cache.path:               %s\n", c.Cache.Path)
	fmt.Fprintf(&sb, "logging.level:            %s\n", c.Logging.Level)
	fmt.Fprintf(&sb, "logging.path:             %s\n", c.Logging.Path)
	fmt.Fprintf(&sb, "datetime.offset:          %s\n", c.Datetime.Offset)
	for name, level := range c.Logging.Components {
		fmt.Fprintf(&sb, "logging.components.%s: %s\n", name, level)
	}

	return sb.String()
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'renamer config edit' to modify it.")
		return nil
	}

	if _, err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	fmt.Println(configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
