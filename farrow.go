package farrow

import (
	"context"
	"io"
	"net/http"

	"github.com/blurname/farrow/internal"
	"github.com/blurname/farrow/pkg/logger"
	"github.com/blurname/farrow/pkg/pattern"
	"github.com/blurname/farrow/pkg/pipeline"
	"github.com/blurname/farrow/pkg/schema"
)

// Type aliases - public API
type (
	// App bundles a router with a logger and the HTTP runtime.
	App = internal.App

	// Router binds route templates to handler chains.
	Router = internal.Router

	// RouteBuilder collects the handler chain of one registration.
	RouteBuilder = internal.RouteBuilder

	// RouteSchema is the lower-level route declaration: a pathname
	// template or regexp plus per-category schemas.
	RouteSchema = internal.RouteSchema

	// RequestDescriptor is the raw, transport-neutral request input.
	RequestDescriptor = internal.RequestDescriptor

	// ValidatedRequest is the typed request handlers consume.
	ValidatedRequest = internal.ValidatedRequest

	// Response is a tagged response value.
	Response = internal.Response

	// ResponseKind discriminates response body variants.
	ResponseKind = internal.ResponseKind

	// Handler processes a validated request.
	Handler = internal.Handler

	// HandlerNext is the continuation passed to a Handler.
	HandlerNext = internal.HandlerNext

	// Middleware processes a raw descriptor before route matching.
	Middleware = internal.Middleware

	// Next is the continuation passed to a Middleware.
	Next = internal.Next

	// CaptureFunc rewrites a produced response on its way back out.
	CaptureFunc = internal.CaptureFunc

	// Registrar declares routes on a router.
	Registrar = internal.Registrar

	// RegistrarFunc adapts a function to the Registrar interface.
	RegistrarFunc = internal.RegistrarFunc

	// HTTPError is an error carrying an HTTP status.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// ContextExtractor extracts a slog attribute from context.
	// Used with logger factories to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// Pattern is a compiled route template.
	Pattern = pattern.Pattern

	// SyntaxError reports a malformed route template.
	SyntaxError = pattern.SyntaxError
)

// Response kind values.
const (
	KindEmpty    = internal.KindEmpty
	KindJSON     = internal.KindJSON
	KindText     = internal.KindText
	KindHTML     = internal.KindHTML
	KindString   = internal.KindString
	KindBuffer   = internal.KindBuffer
	KindStream   = internal.KindStream
	KindFile     = internal.KindFile
	KindRedirect = internal.KindRedirect
	KindRaw      = internal.KindRaw
	KindCustom   = internal.KindCustom
)

// Sentinel errors.
var (
	// ErrNoMatch reports an entirely unhandled request from the
	// outermost router run.
	ErrNoMatch = internal.ErrNoMatch

	// ErrUnhandled is the pipeline-level fallthrough sentinel.
	ErrUnhandled = pipeline.ErrUnhandled

	// ErrOutsideRun reports cell access outside an active run.
	ErrOutsideRun = pipeline.ErrOutsideRun
)

// Constructors

// New creates an application with the given options. The App is
// immutable after creation.
//
// Example:
//
//	app := farrow.New(
//	    farrow.WithLogger(log),
//	    farrow.WithRoutes(
//	        handlers.NewUsers(repo),
//	        handlers.NewBilling(repo),
//	    ),
//	)
//
//	err := app.Run(":8080", farrow.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewRouter creates an empty router for standalone composition.
func NewRouter() *Router {
	return internal.NewRouter()
}

// Run starts a multi-host HTTP server and blocks until shutdown.
//
// Example:
//
//	err := farrow.Run(
//	    farrow.Host("api.acme.com", apiApp),
//	    farrow.Host("*.acme.com", tenantApp),
//	    farrow.Address(":8080"),
//	)
func Run(opts ...RunOption) error {
	return internal.Run(opts...)
}

// Basenames returns the route prefixes stripped so far in the current
// run, outermost first.
func Basenames(ctx context.Context) ([]string, error) {
	return internal.Basenames(ctx)
}

// Prefix returns the stripped route prefixes joined into one path.
func Prefix(ctx context.Context) (string, error) {
	return internal.Prefix(ctx)
}

// Compile compiles a route template.
func Compile(source string) (*Pattern, error) {
	return pattern.Compile(source)
}

// MustCompile compiles a route template, panicking on a syntax error.
func MustCompile(source string) *Pattern {
	return pattern.MustCompile(source)
}

// App options

var (
	// WithLogger sets the application logger.
	WithLogger = internal.WithLogger

	// WithMiddleware appends router-level middleware.
	WithMiddleware = internal.WithMiddleware

	// WithRoutes appends route registrars.
	WithRoutes = internal.WithRoutes

	// WithCapture installs a response rewrite hook for one kind.
	WithCapture = internal.WithCapture

	// WithStatic mounts a static file rule.
	WithStatic = internal.WithStatic

	// WithHealth registers liveness and readiness endpoints.
	WithHealth = internal.WithHealth

	// WithLivenessPath sets a custom liveness endpoint path.
	WithLivenessPath = internal.WithLivenessPath

	// WithReadinessPath sets a custom readiness endpoint path.
	WithReadinessPath = internal.WithReadinessPath

	// WithReadinessCheck adds a named readiness check.
	WithReadinessCheck = internal.WithReadinessCheck
)

// Run options

var (
	// Address sets the HTTP server address.
	Address = internal.Address

	// Logger sets the runtime logger.
	Logger = internal.Logger

	// ShutdownTimeout sets the graceful shutdown timeout.
	ShutdownTimeout = internal.ShutdownTimeout

	// StartupHook registers a pre-serve hook.
	StartupHook = internal.StartupHook

	// ShutdownHook registers a cleanup hook.
	ShutdownHook = internal.ShutdownHook

	// Host maps a host pattern to an App.
	Host = internal.Host

	// Fallback sets the default App for unmatched hosts.
	Fallback = internal.Fallback

	// WithContext sets a custom base context for signal handling.
	WithContext = internal.WithContext
)

// Responses

// JSON builds a json response around v.
func JSON(v any) *Response { return internal.JSON(v) }

// Text builds a plain-text response.
func Text(s string) *Response { return internal.Text(s) }

// HTML builds an html response from pre-rendered markup.
func HTML(s string) *Response { return internal.HTML(s) }

// String builds a bare string response.
func String(s string) *Response { return internal.String(s) }

// Buffer builds a binary response.
func Buffer(b []byte) *Response { return internal.Buffer(b) }

// Stream builds a response copied from r.
func Stream(r io.Reader) *Response { return internal.Stream(r) }

// Empty builds a body-less response.
func Empty() *Response { return internal.Empty() }

// Redirect builds a redirect to url.
func Redirect(url string) *Response { return internal.Redirect(url) }

// Raw builds a response written without a content type.
func Raw(s string) *Response { return internal.Raw(s) }

// File builds a response serving the file at path.
func File(path string) *Response { return internal.File(path) }

// Custom builds a response serialized by fn directly.
func Custom(fn func(w http.ResponseWriter, r *http.Request)) *Response {
	return internal.Custom(fn)
}

// Errors

var (
	// NewHTTPError creates an HTTPError with a status code and message.
	NewHTTPError = internal.NewHTTPError

	// WithErrorCode attaches an application-specific error code.
	WithErrorCode = internal.WithErrorCode

	// WithError attaches the underlying cause.
	WithError = internal.WithError

	// AsHTTPError extracts an HTTPError from an error chain, or nil.
	AsHTTPError = internal.AsHTTPError

	ErrBadRequest    = internal.ErrBadRequest
	ErrUnauthorized  = internal.ErrUnauthorized
	ErrForbidden     = internal.ErrForbidden
	ErrNotFound      = internal.ErrNotFound
	ErrConflict      = internal.ErrConflict
	ErrUnprocessable = internal.ErrUnprocessable
	ErrInternal      = internal.ErrInternal
)

// IsValidationError reports whether err is a schema validation failure.
func IsValidationError(err error) bool {
	return schema.IsValidationError(err)
}
