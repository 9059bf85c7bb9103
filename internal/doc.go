// Package internal provides the core types and implementation for the
// farrow framework.
//
// This package is internal and should not be used directly. Import
// "github.com/blurname/farrow" instead, which re-exports the public API.
//
// # Core Types
//
//   - Router: binds route templates (or explicit schemas) to handler
//     chains and composes them into one pipeline
//   - RequestDescriptor: the raw, transport-neutral input to a run
//   - ValidatedRequest: the typed request handlers consume after
//     pattern capture and schema validation
//   - Response: a tagged response value serialized by the HTTP adapter
//   - Handler / Middleware: pipeline functions over validated and raw
//     requests respectively
//   - App: bundles a router with a logger and the server runtime
//
// # Matching Model
//
// Routes are tried in registration order. The first registration whose
// pattern (and method) matches commits the request: a validation
// failure after that point is reported as an error instead of trying
// later routes. A pattern or method mismatch falls through. Handlers
// can also fall through explicitly by calling next, and an entirely
// unhandled request surfaces as ErrNoMatch from the outermost run.
//
// # Application Structure
//
// Create an application with New() and configure it using options:
//
//	app := internal.New(
//	    internal.WithRoutes(userHandler, billingHandler),
//	    internal.WithMiddleware(requestID, accessLog),
//	    internal.WithHealth(internal.WithReadinessCheck("db", dbCheck)),
//	)
//
// Registrars implement the Registrar interface and declare routes:
//
//	func (h *UserHandler) Routes(r *internal.Router) {
//	    r.Get("/users/<id:id>").Use(h.show)
//	    r.Post("/users").Use(h.create)
//	}
//
// # Server Runtime
//
// Start a single app with App.Run, or compose several apps behind host
// patterns with Run:
//
//	// Single app
//	err := app.Run(":8080", internal.Logger(log))
//
//	// Multi-host
//	err := internal.Run(
//	    internal.Host("api.example.com", apiApp),
//	    internal.Host("*.example.com", tenantApp),
//	    internal.Address(":8080"),
//	)
//
// # Design Principles
//
//   - No reflection in the hot path: schemas are explicit values
//   - Handlers receive typed data, never raw transport objects
//   - Constructor injection: all dependencies visible in main.go
//   - Fallthrough over exceptions: unmatched work moves to the next
//     registration instead of failing the run
//
// See the farrow package documentation for the public API and usage
// examples.
package internal
