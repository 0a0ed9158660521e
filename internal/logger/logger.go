// Package logger provides structured logging for galaxy-launch.
//
// It wraps charmbracelet/log behind a small [Logger] interface so packages can
// accept a logger without depending on the backend, and tests can pass
// [Discard].
package logger

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Logger defines the interface for structured logging.
// Keyvals are alternating key/value pairs.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

// Config controls logger construction.
type Config struct {
	// Level is "debug", "info", "warn" or "error". Unknown values mean "info".
	Level string

	// JSON selects the JSON formatter instead of the text one.
	JSON bool

	// Output defaults to os.Stderr so that stdout stays clean for command output.
	Output io.Writer
}

type charmLogger struct {
	l *charmlog.Logger
}

// New creates a [Logger] backed by charmbracelet/log.
func New(cfg Config) Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           ParseLevel(cfg.Level),
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
	}
	return &charmLogger{l: l}
}

// Discard returns a [Logger] that drops everything.
func Discard() Logger {
	return New(Config{Level: "error", Output: io.Discard})
}

// ParseLevel maps a level name to a charmbracelet/log level.
func ParseLevel(level string) charmlog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return charmlog.DebugLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

func (c *charmLogger) Debug(msg string, keyvals ...any) {
	c.l.Debug(msg, keyvals...)
}

func (c *charmLogger) Info(msg string, keyvals ...any) {
	c.l.Info(msg, keyvals...)
}

func (c *charmLogger) Warn(msg string, keyvals ...any) {
	c.l.Warn(msg, keyvals...)
}

func (c *charmLogger) Error(msg string, keyvals ...any) {
	c.l.Error(msg, keyvals...)
}

func (c *charmLogger) With(keyvals ...any) Logger {
	return &charmLogger{l: c.l.With(keyvals...)}
}
