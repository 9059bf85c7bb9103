// Package pipeline provides generic ordered-handler composition with
// run-scoped context state.
//
// A pipeline threads an input through its middleware in registration
// order. Each middleware receives the current input and a next
// continuation: code before the next call is pre-processing, code after
// it is post-processing. A middleware that never calls next terminates
// the chain and owns the run.
//
// Context cells give a run named, scoped storage. Cell state lives in a
// per-run container carried through the context.Context chain, so
// concurrent runs never observe each other's values.
package pipeline

import (
	"context"
	"errors"
)

// ErrUnhandled is returned by Run when the chain is exhausted without any
// middleware producing an output.
var ErrUnhandled = errors.New("pipeline: no handler produced an output")

// Next invokes the remainder of the chain with a (possibly replaced)
// input.
type Next[I, O any] func(ctx context.Context, input I) (O, error)

// Middleware is one handler in a pipeline.
type Middleware[I, O any] func(ctx context.Context, input I, next Next[I, O]) (O, error)

// Pipeline is an append-only ordered middleware chain. Registration is a
// single-threaded setup phase; after that the pipeline is read-only and
// safe for concurrent runs.
type Pipeline[I, O any] struct {
	middlewares []Middleware[I, O]
}

// New creates an empty pipeline.
func New[I, O any]() *Pipeline[I, O] {
	return &Pipeline[I, O]{}
}

// Use appends middleware to the chain. Returns the pipeline for chaining.
func (p *Pipeline[I, O]) Use(mw ...Middleware[I, O]) *Pipeline[I, O] {
	p.middlewares = append(p.middlewares, mw...)
	return p
}

// RunOption configures a single run.
type RunOption[I, O any] func(*runConfig[I, O])

type runConfig[I, O any] struct {
	defaultNext Next[I, O]
	bindings    []Binding
}

// WithDefaultNext sets the continuation invoked when the chain is
// exhausted, instead of failing with ErrUnhandled. Nested pipelines use
// this to fall through to their outer chain.
func WithDefaultNext[I, O any](next Next[I, O]) RunOption[I, O] {
	return func(cfg *runConfig[I, O]) {
		cfg.defaultNext = next
	}
}

// WithBindings seeds cell values for this run.
func WithBindings[I, O any](bindings ...Binding) RunOption[I, O] {
	return func(cfg *runConfig[I, O]) {
		cfg.bindings = append(cfg.bindings, bindings...)
	}
}

// Run executes the chain on input. If ctx does not already carry a run
// container a fresh one is installed, isolating this run's cell state;
// reusing a running pipeline's ctx (as nested runs do) shares the
// enclosing run's cells.
func (p *Pipeline[I, O]) Run(ctx context.Context, input I, opts ...RunOption[I, O]) (O, error) {
	cfg := runConfig[I, O]{}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cont := ensureContainer(ctx)
	for _, bind := range cfg.bindings {
		bind(cont)
	}

	var dispatch func(ctx context.Context, i int, input I) (O, error)
	dispatch = func(ctx context.Context, i int, input I) (O, error) {
		if i >= len(p.middlewares) {
			if cfg.defaultNext != nil {
				return cfg.defaultNext(ctx, input)
			}
			var zero O
			return zero, ErrUnhandled
		}
		return p.middlewares[i](ctx, input, func(ctx context.Context, input I) (O, error) {
			return dispatch(ctx, i+1, input)
		})
	}
	return dispatch(ctx, 0, input)
}

// Middleware exposes the whole pipeline as a single middleware, running
// it nested with fallthrough to the outer next.
func (p *Pipeline[I, O]) Middleware() Middleware[I, O] {
	return func(ctx context.Context, input I, next Next[I, O]) (O, error) {
		return p.Run(ctx, input, WithDefaultNext(next))
	}
}
