package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON logger writing to stdout at info level. Extractors
// are applied to every record via the record's context.
func New(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(WrapHandler(h, extractors...))
}

// NewNope returns a logger that discards everything. Used as the
// default when no logger is configured.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
