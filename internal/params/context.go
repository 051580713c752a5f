package params

import (
	"context"
	"errors"
	"fmt"

	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/input"
)

var (
	// ErrNilInjection indicates an injector returned no value and no error.
	ErrNilInjection = errors.New("params: injector returned nil")

	// ErrInjectionCycle indicates an injector depends on itself.
	ErrInjectionCycle = errors.New("params: injection cycle")
)

// Injector produces a parameter value from ambient context only. It never
// reads the cursor. Absent host state must be reported as an error.
type Injector func(ic *Context) (any, error)

// Context is the per-request invocation context. It is owned by one request
// and discarded after dispatch.
type Context struct {
	ctx       context.Context
	Cursor    *input.Cursor
	Actor     domain.Actor
	Host      domain.Host
	injectors *InjectorRegistry
	injected  map[argtype.Type]any
	resolving map[argtype.Type]bool
}

// NewContext creates the invocation context for one request.
func NewContext(ctx context.Context, actor domain.Actor, host domain.Host, cur *input.Cursor, injectors *InjectorRegistry) *Context {
	if cur == nil {
		cur = input.NewCursor()
	}
	if injectors == nil {
		injectors = NewInjectorRegistry()
	}
	return &Context{
		ctx:       ctx,
		Cursor:    cur,
		Actor:     actor,
		Host:      host,
		injectors: injectors,
		injected:  make(map[argtype.Type]any),
		resolving: make(map[argtype.Type]bool),
	}
}

// Context returns the request's Go context.
func (c *Context) Context() context.Context {
	return c.ctx
}

// CanInject reports whether t is resolved by an injector.
func (c *Context) CanInject(t argtype.Type) bool {
	return c.injectors.Has(t)
}

// Inject resolves t through its injector. Values are memoized for the
// lifetime of the request, so parsers and later parameters share them.
func (c *Context) Inject(t argtype.Type) (any, error) {
	if v, ok := c.injected[t]; ok {
		return v, nil
	}
	if c.resolving[t] {
		return nil, fmt.Errorf("%s: %w", t, ErrInjectionCycle)
	}

	inj, err := c.injectors.Resolve(t)
	if err != nil {
		return nil, err
	}

	c.resolving[t] = true
	v, err := inj(c)
	delete(c.resolving, t)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%s: %w", t, ErrNilInjection)
	}

	c.injected[t] = v
	return v, nil
}

// Store memoizes an already resolved value for t.
func (c *Context) Store(t argtype.Type, v any) {
	c.injected[t] = v
}

// InjectAs resolves t and asserts its Go type.
func InjectAs[T any](c *Context, t argtype.Type) (T, error) {
	var zero T
	v, err := c.Inject(t)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("params: injected %s is %T, not %T", t, v, zero)
	}
	return out, nil
}
