// Package config loads renamer settings from config.yaml and RENAMER_*
// environment variables.
package config

// Default configuration values for renamer.
const (
	// AppName names the XDG subdirectories and the environment prefix.
	AppName = "renamer"

	// EnvPrefix prefixes environment overrides (RENAMER_OUTPUT, ...).
	EnvPrefix = "RENAMER"

	// DefaultOutput is the preview formatter used when none is given.
	DefaultOutput = "pretty"

	// DefaultRetentionDays is the default number of days to retain manifests.
	DefaultRetentionDays = 30

	// DefaultLogLevel is the level of the log file.
	DefaultLogLevel = "info"
)

// DefaultExclusions contains patterns that are never renamed by default.
var DefaultExclusions = []string{
	".git",
	"node_modules",
}
