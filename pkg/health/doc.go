// Package health runs named readiness checks and aggregates their
// results into a single report.
//
// Checks are plain func(context.Context) error closures, so database
// pools, caches, and workers can expose probes without depending on
// this package. [Run] executes a [Checks] set in parallel under a
// shared timeout and returns a [Report] ready for JSON serialization:
//
//	report := health.Run(ctx, health.Checks{
//	    "postgres": pg.Healthcheck(pool),
//	    "redis":    redis.Healthcheck(client),
//	}, health.WithTimeout(3*time.Second))
//
// JSON report structure:
//
//	{
//	  "status": "healthy",
//	  "checks": {
//	    "postgres": {"status": "healthy"},
//	    "redis": {"status": "unhealthy", "error": "connection refused"}
//	  }
//	}
//
// The HTTP endpoints serving these reports live in the application
// layer; this package only produces the data.
package health
