package pipeline

import (
	"context"
	"errors"
	"sync"
)

// ErrOutsideRun is returned when a cell is read or written outside an
// active pipeline run. This is a programmer error.
var ErrOutsideRun = errors.New("pipeline: context cell used outside an active run")

// containerKey is the context key carrying the per-run container.
type containerKey struct{}

// cellAnchor gives each declared cell a unique identity; lookups key on
// the anchor pointer, not the name.
type cellAnchor struct {
	name string
}

// container holds one run's cell values.
type container struct {
	mu     sync.Mutex
	values map[*cellAnchor]any
}

// ensureContainer returns ctx carrying a container, installing a fresh
// one when absent.
func ensureContainer(ctx context.Context) (context.Context, *container) {
	if cont, ok := ctx.Value(containerKey{}).(*container); ok {
		return ctx, cont
	}
	cont := &container{values: make(map[*cellAnchor]any)}
	return context.WithValue(ctx, containerKey{}, cont), cont
}

func currentContainer(ctx context.Context) (*container, bool) {
	cont, ok := ctx.Value(containerKey{}).(*container)
	return cont, ok
}

// Cell is a named, run-scoped storage location with a default value.
// Declare cells once at package level; read and write them only inside an
// active run.
type Cell[T any] struct {
	anchor *cellAnchor
	def    T
}

// NewCell declares a cell. The name is used for diagnostics only; two
// cells with the same name remain distinct.
func NewCell[T any](name string, def T) *Cell[T] {
	return &Cell[T]{anchor: &cellAnchor{name: name}, def: def}
}

// Get reads the cell's current value within an active run, falling back
// to the declared default when the run never set it.
func (c *Cell[T]) Get(ctx context.Context) (T, error) {
	cont, ok := currentContainer(ctx)
	if !ok {
		var zero T
		return zero, ErrOutsideRun
	}
	cont.mu.Lock()
	defer cont.mu.Unlock()
	if v, ok := cont.values[c.anchor]; ok {
		return v.(T), nil
	}
	return c.def, nil
}

// Set binds a fresh value for the duration of the current run.
func (c *Cell[T]) Set(ctx context.Context, v T) error {
	cont, ok := currentContainer(ctx)
	if !ok {
		return ErrOutsideRun
	}
	cont.mu.Lock()
	defer cont.mu.Unlock()
	cont.values[c.anchor] = v
	return nil
}

// Binding seeds a cell value at run start. Build bindings with
// Cell.Provide and pass them via WithBindings.
type Binding func(cont *container)

// Provide returns a binding that seeds the cell with v for a run.
func (c *Cell[T]) Provide(v T) Binding {
	return func(cont *container) {
		cont.mu.Lock()
		defer cont.mu.Unlock()
		cont.values[c.anchor] = v
	}
}
