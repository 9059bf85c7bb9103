package internal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/blurname/farrow/pkg/pattern"
	"github.com/blurname/farrow/pkg/pipeline"
)

// ErrNoMatch reports that no registration's pattern matched. Nested
// routers fall through instead; only the outermost run surfaces it.
var ErrNoMatch = errors.New("router: no route matched")

// Handler processes a validated request. Calling next falls through to
// the rest of the route chain and, past its end, to the routes declared
// after this one.
type Handler = pipeline.Middleware[*ValidatedRequest, *Response]

// HandlerNext is the continuation passed to a Handler.
type HandlerNext = pipeline.Next[*ValidatedRequest, *Response]

// Middleware processes a raw descriptor before any route matching.
type Middleware = pipeline.Middleware[*RequestDescriptor, *Response]

// Next is the continuation passed to a Middleware.
type Next = pipeline.Next[*RequestDescriptor, *Response]

// CaptureFunc rewrites a produced response on its way back out.
type CaptureFunc func(*Response) *Response

// basenamesCell accumulates the path prefixes consumed by nested
// routers during a run.
var basenamesCell = pipeline.NewCell[[]string]("basenames", nil)

// Basenames returns the route prefixes stripped so far in the current
// run, outermost first. Calling it outside an active run is an error.
func Basenames(ctx context.Context) ([]string, error) {
	return basenamesCell.Get(ctx)
}

// Prefix returns the stripped route prefixes joined into one path.
func Prefix(ctx context.Context) (string, error) {
	names, err := basenamesCell.Get(ctx)
	if err != nil {
		return "", err
	}
	return strings.Join(names, ""), nil
}

// Router binds route schemas to handler chains and composes them into a
// single pipeline. Registrations are tried in order; the first whose
// pattern matches commits. After a commit a validation failure is
// reported as an error, it is not retried against later routes. Only a
// pattern or method mismatch falls through.
//
// Registration is a single-threaded setup phase. Once running, the
// route table is read-only and safe for concurrent runs.
type Router struct {
	pl       *pipeline.Pipeline[*RequestDescriptor, *Response]
	captures map[ResponseKind]CaptureFunc
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		pl:       pipeline.New[*RequestDescriptor, *Response](),
		captures: make(map[ResponseKind]CaptureFunc),
	}
}

// Use appends plain middleware that runs before later registrations.
func (r *Router) Use(mw ...Middleware) *Router {
	r.pl.Use(mw...)
	return r
}

// RouteBuilder collects the handler chain of one registration.
type RouteBuilder struct {
	chain *pipeline.Pipeline[*ValidatedRequest, *Response]
}

// Use appends handlers to the route's chain.
func (b *RouteBuilder) Use(handlers ...Handler) *RouteBuilder {
	b.chain.Use(handlers...)
	return b
}

// Match registers a route for the given template and returns its
// builder. Extra schemas overlay method and category descriptors onto
// the template-derived schema. A malformed template panics: syntax
// errors are fatal at registration time.
func (r *Router) Match(source string, extra ...*RouteSchema) *RouteBuilder {
	rs := &RouteSchema{Pathname: source}
	for _, e := range extra {
		rs = rs.merge(e)
	}
	return r.MatchSchema(rs)
}

// MatchSchema registers a route from an explicit schema. A schema with
// a Regexp matches by regular expression instead of a compiled
// template; everything else behaves the same as Match.
func (r *Router) MatchSchema(rs *RouteSchema) *RouteBuilder {
	var compiled *pattern.Pattern
	if rs.Regexp != nil {
		compiled = pattern.FromRegexp(rs.Regexp)
	} else {
		compiled = pattern.MustCompile(rs.Pathname)
	}

	b := &RouteBuilder{chain: pipeline.New[*ValidatedRequest, *Response]()}

	r.pl.Use(func(ctx context.Context, req *RequestDescriptor, next Next) (*Response, error) {
		if rs.Method != "" && !strings.EqualFold(rs.Method, req.Method) {
			return next(ctx, req)
		}
		caps, ok := compiled.Match(req.Pathname, req.Query)
		if !ok {
			return next(ctx, req)
		}

		validated, err := validateRequest(rs, compiled, caps, req)
		if err != nil {
			// The pattern match committed; no fallthrough to siblings.
			return nil, err
		}

		return b.chain.Run(ctx, validated, pipeline.WithDefaultNext(
			func(ctx context.Context, _ *ValidatedRequest) (*Response, error) {
				return next(ctx, req)
			},
		))
	})

	return b
}

func (r *Router) method(m, source string, extra []*RouteSchema) *RouteBuilder {
	rs := &RouteSchema{Pathname: source, Method: m}
	for _, e := range extra {
		rs = rs.merge(e)
	}
	return r.MatchSchema(rs)
}

// Get registers a route restricted to GET requests.
func (r *Router) Get(source string, extra ...*RouteSchema) *RouteBuilder {
	return r.method("GET", source, extra)
}

// Post registers a route restricted to POST requests.
func (r *Router) Post(source string, extra ...*RouteSchema) *RouteBuilder {
	return r.method("POST", source, extra)
}

// Put registers a route restricted to PUT requests.
func (r *Router) Put(source string, extra ...*RouteSchema) *RouteBuilder {
	return r.method("PUT", source, extra)
}

// Patch registers a route restricted to PATCH requests.
func (r *Router) Patch(source string, extra ...*RouteSchema) *RouteBuilder {
	return r.method("PATCH", source, extra)
}

// Delete registers a route restricted to DELETE requests.
func (r *Router) Delete(source string, extra ...*RouteSchema) *RouteBuilder {
	return r.method("DELETE", source, extra)
}

// Head registers a route restricted to HEAD requests.
func (r *Router) Head(source string, extra ...*RouteSchema) *RouteBuilder {
	return r.method("HEAD", source, extra)
}

// Options registers a route restricted to OPTIONS requests.
func (r *Router) Options(source string, extra ...*RouteSchema) *RouteBuilder {
	return r.method("OPTIONS", source, extra)
}

// Route nests a sub-router under a path prefix. The prefix is stripped
// before the sub-router matches and is exposed via Basenames.
func (r *Router) Route(prefix string, sub *Router) *Router {
	r.pl.Use(mountPrefix(prefix, sub.Middleware()))
	return r
}

// RouteMiddleware nests a single middleware under a path prefix.
func (r *Router) RouteMiddleware(prefix string, mw Middleware) *Router {
	r.pl.Use(mountPrefix(prefix, mw))
	return r
}

// mountPrefix strips prefix from the pathname seen by the nested
// middleware and restores the original request and basenames when the
// nested middleware falls through.
func mountPrefix(prefix string, mw Middleware) Middleware {
	prefix = normalizePrefix(prefix)
	return func(ctx context.Context, req *RequestDescriptor, next Next) (*Response, error) {
		rest, ok := stripPrefix(req.Pathname, prefix)
		if !ok {
			return next(ctx, req)
		}

		prev, err := basenamesCell.Get(ctx)
		if err != nil {
			return nil, err
		}
		if err := basenamesCell.Set(ctx, append(slices.Clone(prev), prefix)); err != nil {
			return nil, err
		}

		stripped := *req
		stripped.Pathname = rest
		return mw(ctx, &stripped, func(ctx context.Context, _ *RequestDescriptor) (*Response, error) {
			if err := basenamesCell.Set(ctx, prev); err != nil {
				return nil, err
			}
			return next(ctx, req)
		})
	}
}

// Capture registers a hook that rewrites, on the way back out, any
// response whose kind equals kind. One hook per kind; each response is
// rewritten at most once.
func (r *Router) Capture(kind ResponseKind, transform CaptureFunc) *Router {
	r.captures[kind] = transform
	return r
}

func (r *Router) applyCaptures(resp *Response) *Response {
	if resp == nil {
		return nil
	}
	if hook, ok := r.captures[resp.Kind]; ok {
		return hook(resp)
	}
	return resp
}

// Run executes the router as the outermost pipeline: with nothing left
// to fall through to, an unhandled request becomes ErrNoMatch.
func (r *Router) Run(ctx context.Context, req *RequestDescriptor) (*Response, error) {
	resp, err := r.pl.Run(ctx, req)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnhandled) {
			return nil, fmt.Errorf("%w: %s %s", ErrNoMatch, req.Method, req.Pathname)
		}
		return nil, err
	}
	return r.applyCaptures(resp), nil
}

// Middleware exposes the router as a single middleware for nesting; an
// unhandled request falls through to the outer next.
func (r *Router) Middleware() Middleware {
	return func(ctx context.Context, req *RequestDescriptor, next Next) (*Response, error) {
		resp, err := r.pl.Run(ctx, req, pipeline.WithDefaultNext(next))
		if err != nil {
			return nil, err
		}
		return r.applyCaptures(resp), nil
	}
}

// normalizePrefix forces a single leading slash and no trailing slash.
func normalizePrefix(prefix string) string {
	return "/" + strings.Trim(prefix, "/")
}

// stripPrefix removes a segment-aligned prefix from pathname. The
// remainder keeps a leading slash.
func stripPrefix(pathname, prefix string) (string, bool) {
	if prefix == "/" {
		return pathname, true
	}
	if !strings.HasPrefix(pathname, prefix) {
		return "", false
	}
	rest := pathname[len(prefix):]
	if rest == "" {
		return "/", true
	}
	if rest[0] != '/' {
		return "", false
	}
	return rest, true
}
