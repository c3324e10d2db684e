// Package logging builds the zerolog logger shared by all components.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New creates a logger writing to w at the given level name. An empty or
// invalid level falls back to info; the returned bool reports whether the
// level was valid.
func New(w io.Writer, level string) (zerolog.Logger, bool) {
	lvl, ok := ParseLevel(level)
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), ok
}

// ParseLevel parses a zerolog level name, defaulting to info.
func ParseLevel(level string) (zerolog.Level, bool) {
	if level == "" {
		return zerolog.InfoLevel, true
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel, false
	}
	return lvl, true
}

// OpenFile opens (creating parents) an append-only log file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
