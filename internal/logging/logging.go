// Package logging configures the structured logger shared by the CLI, server and build pipeline.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Config controls logger output
type Config struct {
	Level      string
	JSON       bool
	Output     io.Writer
	TimeFormat string
}

// DefaultConfig returns an info-level text logger writing to stderr
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

// New builds a logger from cfg. Unknown levels fall back to info.
func New(cfg Config) *log.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(cfg.Output, log.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           level,
	})
	if cfg.JSON {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
