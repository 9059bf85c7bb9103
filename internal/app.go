package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/blurname/farrow/pkg/health"
	"github.com/blurname/farrow/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// Registrar declares routes on a router.
//
// Example:
//
//	type UserHandler struct {
//	    repo *repository.Queries
//	}
//
//	func (h *UserHandler) Routes(r *farrow.Router) {
//	    r.Get("/users/<id:id>").Use(h.show)
//	    r.Post("/users").Use(h.create)
//	}
type Registrar interface {
	Routes(r *Router)
}

// RegistrarFunc adapts a function to the Registrar interface.
type RegistrarFunc func(r *Router)

func (f RegistrarFunc) Routes(r *Router) { f(r) }

// App bundles a router with a logger and the HTTP runtime.
// App is immutable after creation; all configuration goes through New.
type App struct {
	router       *Router
	logger       *slog.Logger
	registrars   []Registrar
	healthConfig *healthConfig
}

// Option configures an App during New.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMiddleware appends router-level middleware; it runs before any
// route registered afterwards.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.router.Use(mw...)
	}
}

// WithRoutes appends route registrars. Their Routes methods run after
// all other options, in registration order.
func WithRoutes(registrars ...Registrar) Option {
	return func(a *App) {
		a.registrars = append(a.registrars, registrars...)
	}
}

// WithCapture installs a response rewrite hook for one response kind.
func WithCapture(kind ResponseKind, transform CaptureFunc) Option {
	return func(a *App) {
		a.router.Capture(kind, transform)
	}
}

// WithStatic mounts a static file rule before route registrars run.
func WithStatic(prefix, dir string) Option {
	return func(a *App) {
		a.router.Serve(prefix, dir)
	}
}

// WithHealth registers liveness and readiness endpoints.
//
// Example:
//
//	farrow.WithHealth(farrow.WithReadinessCheck("db", db.Healthcheck(pool)))
func WithHealth(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// New creates an application with the given options. The App is
// immutable after creation.
//
// Example:
//
//	app := farrow.New(
//	    farrow.WithLogger(log),
//	    farrow.WithRoutes(handlers.NewUserHandler(repo)),
//	)
func New(opts ...Option) *App {
	a := &App{
		router: NewRouter(),
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.healthConfig != nil {
		a.setupHealthRoutes()
	}
	for _, reg := range a.registrars {
		reg.Routes(a.router)
	}
	return a
}

func (a *App) setupHealthRoutes() {
	cfg := a.healthConfig
	a.router.Get(cfg.livenessPath).Use(
		func(ctx context.Context, _ *ValidatedRequest, _ HandlerNext) (*Response, error) {
			return JSON(health.Report{Status: health.StatusHealthy}), nil
		},
	)
	a.router.Get(cfg.readinessPath).Use(
		func(ctx context.Context, _ *ValidatedRequest, _ HandlerNext) (*Response, error) {
			report := health.Run(ctx, cfg.checks, health.WithLogger(a.logger))
			resp := JSON(report)
			if report.Status != health.StatusHealthy {
				resp = resp.WithStatus(http.StatusServiceUnavailable)
			}
			return resp, nil
		},
	)
}

// Router returns the App's router, usable for further composition.
func (a *App) Router() *Router {
	return a.router
}

// Logger returns the App's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Handler returns the App as a net/http handler.
func (a *App) Handler() http.Handler {
	return NewHTTPHandler(a.router, a.logger)
}

// Middleware returns the App's router as a nestable middleware.
func (a *App) Middleware() Middleware {
	return a.router.Middleware()
}

// Run starts a single-app HTTP server and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080", farrow.Logger(log))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if addr != "" {
		cfg.address = addr
	}
	if cfg.logger == nil {
		cfg.logger = a.logger
	}
	return runServer(runtimeConfig{
		handler:         a.Handler(),
		address:         cfg.address,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during the readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
