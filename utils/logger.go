package utils

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// NewLogger creates the application logger.
// Frames go to stdout, so callers normally pass stderr here.
func NewLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLogLevel maps debug, info, warn and error onto slog levels
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, errors.Wrapf(err, "[ParseLogLevel] unknown level %q", s)
	}
	return level, nil
}
