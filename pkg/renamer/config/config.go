package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jamesainslie/renamer/pkg/renamer/cache"
	"github.com/jamesainslie/renamer/pkg/renamer/datetime"
	"github.com/jamesainslie/renamer/pkg/renamer/logging"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// ManifestConfig configures the rename journal.
type ManifestConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// CacheConfig configures the metadata cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// DatetimeConfig holds defaults for the datetime rule.
type DatetimeConfig struct {
	// Offset qualifies metadata timestamps that carry no UTC offset.
	Offset string `mapstructure:"offset"`
}

// Config represents the application configuration.
type Config struct {
	Recursive bool           `mapstructure:"recursive"`
	Exclude   []string       `mapstructure:"exclude"`
	Output    string         `mapstructure:"output"`
	Manifest  ManifestConfig `mapstructure:"manifest"`
	Cache     CacheConfig    `mapstructure:"cache"`
	Logging   LoggingConfig  `mapstructure:"logging"`
	Datetime  DatetimeConfig `mapstructure:"datetime"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - explicitPath, when not empty
//   - $XDG_CONFIG_HOME/renamer/config.yaml
//   - $HOME/.config/renamer/config.yaml
//
// Environment variables are prefixed with RENAMER_ (e.g., RENAMER_OUTPUT).
func Load(explicitPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	manifestDir, err := ManifestDir()
	if err != nil {
		return nil, err
	}
	setDefaults(v, manifestDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	for _, p := range []*string{&cfg.Manifest.Path, &cfg.Cache.Path, &cfg.Logging.Path} {
		if *p, err = ExpandPath(*p); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, manifestDir string) {
	v.SetDefault("recursive", false)
	v.SetDefault("exclude", DefaultExclusions)
	v.SetDefault("output", DefaultOutput)

	v.SetDefault("manifest.enabled", true)
	v.SetDefault("manifest.path", manifestDir)
	v.SetDefault("manifest.retention_days", DefaultRetentionDays)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", cache.DefaultPath())

	rotation := logging.DefaultRotationConfig()
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size_mb", rotation.MaxSizeMB)
	v.SetDefault("logging.rotation.max_age_days", rotation.MaxAgeDays)
	v.SetDefault("logging.rotation.max_backups", rotation.MaxBackups)
	v.SetDefault("logging.rotation.compress", rotation.Compress)
	v.SetDefault("logging.components", map[string]string{})

	v.SetDefault("datetime.offset", "")
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	for comp, lvl := range c.Logging.Components {
		if _, err := logging.ParseLevel(lvl); err != nil {
			errs = append(errs, fmt.Errorf("logging.components.%s: %w", comp, err))
		}
	}
	if _, err := datetime.ParseOffset(c.Datetime.Offset); err != nil {
		errs = append(errs, fmt.Errorf("datetime.offset: %w", err))
	}
	return errors.Join(errs...)
}

// LoggingOptions converts the logging section for logging.Init.
func (c *Config) LoggingOptions() logging.Config {
	return logging.Config{
		Level: c.Logging.Level,
		Path:  c.Logging.Path,
		Rotation: logging.RotationConfig{
			MaxSizeMB:  c.Logging.Rotation.MaxSizeMB,
			MaxAgeDays: c.Logging.Rotation.MaxAgeDays,
			MaxBackups: c.Logging.Rotation.MaxBackups,
			Compress:   c.Logging.Rotation.Compress,
		},
		Components: c.Logging.Components,
	}
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", AppName), nil
}

// ConfigPath returns the default config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ManifestDir returns the default manifest directory path.
func ManifestDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ".manifest"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists and returns its
// path. An existing file is left untouched.
func WriteDefault() (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", err
	}

	configPath, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	manifestDir, err := ManifestDir()
	if err != nil {
		return "", err
	}

	defaultConfig := fmt.Sprintf(`# renamer configuration

# Descend into subdirectories by default
recursive: false

# Patterns never renamed (matched against names, or full paths when they contain /)
exclude:
  - .git
  - node_modules

# Preview format: pretty, plain, tsv, csv, markdown, json, jsonl, yaml, paths, null, template
output: %s

# Journal of applied renames, used by "renamer undo"
manifest:
  enabled: true
  path: %s
  retention_days: %d

# Metadata cache (EXIF, ID3 and image dimensions)
cache:
  enabled: true
  path: %s

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: %s
  # Log file path (empty means use default: %s)
  path: ""
  rotation:
    max_size_mb: 10
    max_age_days: 30
    max_backups: 5
    compress: false
  # Per-component log levels, e.g. scanner: debug
  components: {}

datetime:
  # UTC offset applied to metadata timestamps without one, e.g. "+02:00"
  offset: ""
`, DefaultOutput, manifestDir, DefaultRetentionDays, cache.DefaultPath(), DefaultLogLevel, logging.DefaultLogPath())

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}

	return configPath, nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
