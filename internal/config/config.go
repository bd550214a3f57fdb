// Package config provides configuration types and defaults for bbh.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/bbh/internal/log"
)

// Config holds all configuration options for bbh.
type Config struct {
	Aligner AlignerConfig `mapstructure:"aligner" yaml:"aligner"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
}

// AlignerConfig configures the external aligner invocation.
type AlignerConfig struct {
	Executable string   `mapstructure:"executable" yaml:"executable"`
	Model      string   `mapstructure:"model" yaml:"model"`           // optional exonerate --model
	ExtraArgs  []string `mapstructure:"extra_args" yaml:"extra_args"` // appended after the fixed arguments
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"` // empty means stderr
}

// TracingConfig configures OpenTelemetry span export.
type TracingConfig struct {
	// Exporter selects where spans go.
	// Valid values: "none", "stdout", "otlp"
	Exporter string `mapstructure:"exporter" yaml:"exporter"`

	// Endpoint is the OTLP gRPC collector address, e.g. "localhost:4317".
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

// HistoryConfig configures the run-history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"` // empty means paths.DefaultHistoryPath()
}

// WatchConfig configures `bbh watch`.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Tracing exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Aligner: AlignerConfig{
			Executable: "exonerate",
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracing: TracingConfig{
			Exporter: ExporterNone,
		},
		Watch: WatchConfig{
			Debounce: 2 * time.Second,
		},
	}
}

// Validate checks configuration for errors.
func (c Config) Validate() error {
	if c.Aligner.Executable == "" {
		return fmt.Errorf("aligner.executable is required")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Tracing.Exporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing.endpoint is required when tracing.exporter is %q", ExporterOTLP)
		}
	default:
		return fmt.Errorf("tracing.exporter: unknown exporter %q (want none, stdout or otlp)", c.Tracing.Exporter)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# bbh Configuration

# External aligner
aligner:
  executable: exonerate   # name (looked up in ~/.local/bin, Homebrew, /usr/local/bin, /usr/bin, PATH) or path
  # model: affine:local   # passed as --model
  # extra_args: ["--percent", "30"]

# Logging
log:
  level: info             # debug, info, warn, error
  # file: /tmp/bbh.log    # default: stderr

# OpenTelemetry tracing of pipeline stages
tracing:
  exporter: none          # none, stdout, otlp
  # endpoint: localhost:4317

# Record every run in a local SQLite database ('bbh history' lists them)
history:
  enabled: false
  # path: ~/.config/bbh/history.db

# 'bbh watch' waits this long after the last input change before re-running
watch:
  debounce: 2s
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
