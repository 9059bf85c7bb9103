// Package farrow is a progressive, type-safe request routing framework.
//
// Routes are declared as templates with typed captures; incoming
// requests are matched, validated, and coerced before a handler ever
// sees them. Handlers receive a fully typed request and return a typed
// response value; serialization lives in the HTTP adapter, not in
// handlers.
//
// # Quick Start
//
// Create an application with farrow.New(), declare routes through
// registrars, and call Run() to start the HTTP server:
//
//	app := farrow.New(
//	    farrow.WithLogger(logger),
//	    farrow.WithRoutes(
//	        handlers.NewUsers(repo),
//	    ),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
// Registrars implement the [Registrar] interface to declare routes.
// Captures are written as <name:type> with optional ?, * and +
// modifiers, and query constraints follow after a ?:
//
//	func (h *Users) Routes(r *farrow.Router) {
//	    r.Get("/users/<id:int>").Use(h.show)
//	    r.Get("/users?<page:int>").Use(h.list)
//	    r.Post("/users").Use(h.create)
//	}
//
// A handler gets the typed values straight from the request:
//
//	func (h *Users) show(ctx context.Context, req *farrow.ValidatedRequest, next farrow.HandlerNext) (*farrow.Response, error) {
//	    id := req.Params["id"].(int64)
//	    user, err := h.repo.Get(ctx, id)
//	    if err != nil {
//	        return nil, farrow.ErrNotFound("user not found", farrow.WithError(err))
//	    }
//	    return farrow.JSON(user), nil
//	}
//
// # Matching
//
// Routes are tried in registration order. The first pattern match
// commits the request; a validation failure after that point is an
// error, not a fallthrough. Handlers can decline a request explicitly
// by calling next. A request no route handles surfaces as [ErrNoMatch]
// and is rendered as 404 by the adapter.
//
// # Composition
//
// Routers nest under prefixes and compose as middleware:
//
//	admin := farrow.NewRouter()
//	admin.Get("/stats").Use(h.stats)
//
//	root := farrow.NewRouter()
//	root.Route("/admin", admin)
//
// # Design Principles
//
//   - Handlers never touch raw transport objects
//   - Schemas are explicit values, no struct-tag reflection
//   - Fallthrough over exceptions for unmatched work
//   - Constructor injection, all dependencies visible in main.go
package farrow
