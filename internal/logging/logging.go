// Package logging builds the slog logger used across the module.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

// New returns a logger writing to w in the given format ("json" or "text").
func New(w io.Writer, format, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		h = slog.NewJSONHandler(w, opts)
	case "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}
	return slog.New(h), nil
}

// Open returns a logger appending to the file at path. An empty path
// discards everything. The returned closer must be closed on exit.
func Open(path, format, level string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		if _, err := ParseLevel(level); err != nil {
			return nil, nil, err
		}
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(f, format, level)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
