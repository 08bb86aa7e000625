// Package logger provides structured logging setup for the brain compiler.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"github.com/Strob0t/brainnode/internal/config"
)

// New creates a *slog.Logger from the given Logging config.
// Output is JSON to stderr so stdout stays free for rendered documents.
// When cfg.File is set, records are also appended to that file.
// The returned Closer must be called on shutdown to flush async records
// and close the log file.
func New(cfg config.Logging) (*slog.Logger, Closer) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit primary writer.
func NewWithWriter(cfg config.Logging, w io.Writer) (*slog.Logger, Closer) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	handlers := []slog.Handler{slog.NewJSONHandler(w, opts)}
	closers := closerList{}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // G304: path comes from config
		if err != nil {
			fmt.Fprintf(w, "logger: open %s: %v\n", cfg.File, err)
		} else {
			handlers = append(handlers, slog.NewJSONHandler(f, opts))
			closers = append(closers, fileCloser{f})
		}
	}

	var handler slog.Handler = handlers[0]
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	}

	if cfg.Async {
		ah := NewAsyncHandler(handler, 4096, 1)
		handler = ah
		// Drain before the file is closed.
		closers = append(closerList{ah}, closers...)
	}

	return slog.New(&contextHandler{Handler: handler}).With("service", cfg.Service), closers
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

type closerList []Closer

func (l closerList) Close() {
	for _, c := range l {
		c.Close()
	}
}

type fileCloser struct{ f *os.File }

func (c fileCloser) Close() { _ = c.f.Close() }
