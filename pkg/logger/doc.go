// Package logger builds slog loggers with context-extracted attributes
// and optional Sentry forwarding.
//
// A ContextExtractor pulls a run-scoped value (request ID, user ID) out
// of a context and turns it into a slog.Attr. Extractors run on every
// log call, so they always see the current context:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "request handled", slog.Int("status", 200))
//
// WrapHandler decorates any slog.Handler with extractors, so custom
// handler setups keep the same behavior:
//
//	h := slog.NewTextHandler(os.Stderr, nil)
//	log := slog.New(logger.WrapHandler(h, extractors...))
//
// NewWithSentry mirrors New but additionally sends warnings and errors
// to Sentry. An empty DSN degrades to stdout only, so the same
// construction works in development and production.
package logger
