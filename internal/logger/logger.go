// Package logger configures the process-wide slog logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Options controls where diagnostics go.
type Options struct {
	Level string
	File  string

	// Stderr mirrors records to stderr as text. Never set while the TUI owns the terminal.
	Stderr bool
}

// Init builds the default logger: JSON into File, plus text on stderr when asked.
// The returned closer flushes and closes the log file.
func Init(opts Options) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(opts.Level)

	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return nil, nil, fmt.Errorf("creating log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600) //nolint:gosec // configured by the local user
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		closer = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	if opts.Stderr {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	log := New(handlers...)
	slog.SetDefault(log)
	return log, closer, nil
}

// New fans records out to all handlers. With none it discards.
func New(handlers ...slog.Handler) *slog.Logger {
	switch len(handlers) {
	case 0:
		return Discard()
	case 1:
		return slog.New(handlers[0])
	default:
		return slog.New(slogmulti.Fanout(handlers...))
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel maps "debug", "info", "warn", "error" to a slog level. Unknown means info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
