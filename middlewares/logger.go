package middlewares

import (
	"context"
	"log/slog"
	"time"

	"github.com/blurname/farrow/internal"
)

// Logger returns middleware that logs one line per run: method, path,
// outcome, and duration. Errors are logged at error level with the
// error attached; fallthrough out of the router is not logged here.
func Logger(log *slog.Logger) internal.Middleware {
	return func(ctx context.Context, req *internal.RequestDescriptor, next internal.Next) (*internal.Response, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		elapsed := time.Since(start)

		attrs := []any{
			slog.String("method", req.Method),
			slog.String("path", req.Pathname),
			slog.Duration("duration", elapsed),
		}

		switch {
		case err != nil:
			log.ErrorContext(ctx, "request failed", append(attrs, slog.Any("error", err))...)
		case resp != nil:
			log.InfoContext(ctx, "request handled", append(attrs,
				slog.String("kind", resp.Kind.String()),
				slog.Int("status", resp.Status),
			)...)
		}

		return resp, err
	}
}
