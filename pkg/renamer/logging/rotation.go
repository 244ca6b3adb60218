package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	// MaxSizeMB is the size in megabytes at which the file is rotated.
	// Zero uses the default of 10.
	MaxSizeMB int

	// MaxAgeDays is how long rotated files are kept. Zero keeps them forever.
	MaxAgeDays int

	// MaxBackups is how many rotated files are kept. Zero keeps all of them
	// (subject to MaxAgeDays).
	MaxBackups int

	// Compress gzips rotated files.
	Compress bool
}

// DefaultRotationConfig returns the rotation used when none is configured.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSizeMB:  10,
		MaxAgeDays: 30,
		MaxBackups: 5,
	}
}

// newRotatingWriter opens a lumberjack writer at path, creating the parent
// directory up front so an unwritable location fails at Init rather than on
// the first log line.
func newRotatingWriter(path string, cfg RotationConfig) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = DefaultRotationConfig().MaxSizeMB
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}

	// Touch the file so permission problems surface now.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing log file: %w", err)
	}

	return w, nil
}
