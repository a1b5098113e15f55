// Package logger holds the process-wide structured logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Format selects the handler used for log records.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" or "json" in any case. An empty string is text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q (expected text or json)", s)
	}
}

type state struct {
	logger *slog.Logger
	debug  bool
}

var current atomic.Pointer[state]

// New returns a logger writing records of at least info level to w, or of
// debug level when debug is set.
func New(w io.Writer, format Format, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup installs a logger writing to w as the global logger.
func Setup(w io.Writer, format Format, debug bool) {
	SetGlobal(New(w, format, debug), debug)
}

// SetGlobal sets the global logger and debug state
func SetGlobal(logger *slog.Logger, debug bool) {
	current.Store(&state{logger: logger, debug: debug})
}

// Get returns the global logger. Before Setup it logs text to stderr.
func Get() *slog.Logger {
	if s := current.Load(); s != nil && s.logger != nil {
		return s.logger
	}
	return New(os.Stderr, FormatText, IsDebug())
}

// ForUnit returns the global logger with the unit key attached to every record.
func ForUnit(key string) *slog.Logger {
	return Get().With("unit", key)
}

// IsDebug returns whether debug mode is enabled
func IsDebug() bool {
	s := current.Load()
	return s != nil && s.debug
}
