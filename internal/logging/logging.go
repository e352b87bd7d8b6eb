// Package logging builds the charmbracelet/log loggers used by nesconf.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Environment variables read by FromEnv.
const (
	EnvLevel  = "NESCONF_LOG_LEVEL"
	EnvFormat = "NESCONF_LOG_FORMAT"
)

// Options holds logger configuration.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Level:     log.InfoLevel,
		Formatter: log.TextFormatter,
		Prefix:    "nesconf",
	}
}

// FromEnv returns DefaultOptions overridden by NESCONF_LOG_LEVEL and
// NESCONF_LOG_FORMAT.
func FromEnv() Options {
	opts := DefaultOptions()
	if v := os.Getenv(EnvLevel); v != "" {
		opts.Level = ParseLevel(v)
	}
	if v := os.Getenv(EnvFormat); v != "" {
		opts.Formatter = ParseFormatter(v)
	}
	return opts
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// Setup creates a logger and installs it as the package default, so that
// library code logging through log.Debug and friends uses it.
func Setup(w io.Writer, opts Options) *log.Logger {
	logger := New(w, opts)
	log.SetDefault(logger)
	return logger
}

// OpenFile opens path for appending, creating parent directories. The
// caller closes the file.
func OpenFile(path string) (*os.File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

// ParseLevel parses a level name. Unknown names map to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a formatter name: text, json or logfmt.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
