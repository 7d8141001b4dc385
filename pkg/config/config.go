// Package config loads ailang settings from defaults, ailang.yaml, AILANG_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"

	"ailang/interpreter-go/pkg/logger"
)

const (
	FileName    = "ailang.yaml"
	FileNameAlt = "ailang.yml"
	EnvPrefix   = "AILANG_"

	ExecModeTreewalker = "treewalker"
	ExecModeCompiled   = "compiled"

	DefaultMaxSteps int64 = 10_000_000
)

// Config is the merged runtime configuration.
type Config struct {
	ExecMode    string        `koanf:"exec_mode"`
	MaxSteps    int64         `koanf:"max_steps"`
	Timeout     time.Duration `koanf:"timeout"`
	Seed        uint64        `koanf:"seed"`
	VagueErrors bool          `koanf:"vague_errors"`
	HistoryFile string        `koanf:"history_file"`
	CacheDir    string        `koanf:"cache_dir"`
	Log         logger.Config `koanf:"log"`

	// File is the config file that was merged, if any.
	File string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"exec_mode":    ExecModeTreewalker,
		"max_steps":    DefaultMaxSteps,
		"timeout":      "0s",
		"seed":         0,
		"vague_errors": false,
		"history_file": "",
		"cache_dir":    "",
		"log.format":   "auto",
		"log.level":    zapcore.WarnLevel.String(),
	}
}

// StepBudget converts max_steps to the engines' convention, where zero means
// "use the default". A configured 0 disables the guard, so it maps to -1.
func (c *Config) StepBudget() int64 {
	if c.MaxSteps <= 0 {
		return -1
	}
	return c.MaxSteps
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.ExecMode {
	case ExecModeTreewalker, ExecModeCompiled:
	default:
		return fmt.Errorf("config: unsupported exec_mode %q (expected %s or %s)", c.ExecMode, ExecModeTreewalker, ExecModeCompiled)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative")
	}
	switch c.Log.Format {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("config: unsupported log.format %q", c.Log.Format)
	}
	return nil
}

// ResolveCacheDir returns CacheDir, defaulting to the user cache directory.
func (c *Config) ResolveCacheDir() (string, error) {
	if c.CacheDir != "" {
		return filepath.Abs(c.CacheDir)
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("config: locate cache dir: %w", err)
	}
	return filepath.Join(base, "ailang"), nil
}

// ResolveHistoryFile returns HistoryFile, defaulting to ~/.ailang_history.
func (c *Config) ResolveHistoryFile() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ailang_history")
}
