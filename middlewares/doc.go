// Package middlewares provides pipeline middleware for farrow
// applications.
//
// # Request ID
//
// RequestID assigns a unique ID to each run for tracing. It checks
// incoming headers for existing IDs or generates new ones using ULID,
// stores the ID in a run-scoped cell, and echoes it on the response:
//
//	app := farrow.New(
//	    farrow.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// Use RequestIDExtractor() with the logger factory for automatic
// request_id in all log entries.
//
// # Recover
//
// Recover catches handler panics and converts them to a *PanicError,
// which the HTTP adapter renders as a 500:
//
//	farrow.WithMiddleware(middlewares.Recover())
//
// # Timeout
//
// Timeout enforces a per-run deadline and returns a *TimeoutError,
// rendered as 504. The handler goroutine continues after the deadline;
// use ctx.Done() in long-running operations for early termination.
//
//	farrow.WithMiddleware(middlewares.Timeout(5 * time.Second))
//
// # CORS
//
// CORS answers preflight (OPTIONS) requests directly and merges CORS
// metadata onto responses of ordinary requests:
//
//	farrow.WithMiddleware(middlewares.CORS(
//	    middlewares.WithAllowOrigins("https://app.example.com"),
//	    middlewares.WithAllowCredentials(),
//	))
//
// # Logger and Metrics
//
// Logger writes one slog line per run with method, path, outcome, and
// duration. Metrics records Prometheus request totals, in-flight count,
// and duration histograms.
//
// # Recommended Middleware Order
//
//	farrow.WithMiddleware(
//	    middlewares.Recover(),
//	    middlewares.RequestID(),
//	    middlewares.Logger(log),
//	    middlewares.Metrics(),
//	    middlewares.CORS(),
//	    middlewares.Timeout(30 * time.Second),
//	)
package middlewares
