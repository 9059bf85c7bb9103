package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls a single attribute out of a context. Returning
// false skips the attribute for that record.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler runs extractors against the record's context on every
// Handle call, so run-scoped values (request IDs, user IDs) show up on
// each log line without the caller passing them explicitly.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// WrapHandler decorates next with the given extractors. Nil extractors
// are dropped.
func WrapHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	kept := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	if len(kept) == 0 {
		return next
	}
	return &contextHandler{next: next, extractors: kept}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
