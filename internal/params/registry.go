package params

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pgm-community/dispatch/internal/argtype"
)

// Registry errors.
var (
	// ErrNotFound indicates no entry is registered for the exact type.
	ErrNotFound = errors.New("params: no registration for type")

	// ErrDuplicateType indicates the type was registered twice.
	ErrDuplicateType = errors.New("params: type already registered")

	// ErrSealed indicates registration was attempted after startup.
	ErrSealed = errors.New("params: registry is sealed")

	// ErrInvalidEntry indicates a registration without a function.
	ErrInvalidEntry = errors.New("params: invalid registration")
)

// registry maps exact semantic types to values. It has no locking: writes
// happen during startup only, and Seal turns later writes into errors.
type registry[V any] struct {
	kind    string
	entries map[argtype.Type]V
	sealed  bool
}

func newRegistry[V any](kind string) registry[V] {
	return registry[V]{kind: kind, entries: make(map[argtype.Type]V)}
}

func (r *registry[V]) register(t argtype.Type, v V) error {
	if r.sealed {
		return fmt.Errorf("%s %s: %w", r.kind, t, ErrSealed)
	}
	if t.IsZero() {
		return fmt.Errorf("%s: empty type: %w", r.kind, ErrInvalidEntry)
	}
	if _, exists := r.entries[t]; exists {
		return fmt.Errorf("%s %s: %w", r.kind, t, ErrDuplicateType)
	}
	r.entries[t] = v
	return nil
}

func (r *registry[V]) resolve(t argtype.Type) (V, error) {
	v, ok := r.entries[t]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%s %s: %w", r.kind, t, ErrNotFound)
	}
	return v, nil
}

func (r *registry[V]) has(t argtype.Type) bool {
	_, ok := r.entries[t]
	return ok
}

func (r *registry[V]) types() []argtype.Type {
	out := make([]argtype.Type, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// ParserRegistry maps semantic types to parsers.
type ParserRegistry struct {
	reg registry[Parser]
}

// NewParserRegistry creates an empty parser registry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{reg: newRegistry[Parser]("parser")}
}

// Register adds the parser for t. Each type may be registered once.
func (r *ParserRegistry) Register(t argtype.Type, p Parser) error {
	if p.Parse == nil {
		return fmt.Errorf("parser %s: %w", t, ErrInvalidEntry)
	}
	return r.reg.register(t, p)
}

// MustRegister is Register that panics on error. Registration errors are
// programming errors that must abort startup.
func (r *ParserRegistry) MustRegister(t argtype.Type, p Parser) {
	if err := r.Register(t, p); err != nil {
		panic(err)
	}
}

// Resolve returns the parser registered for exactly t.
func (r *ParserRegistry) Resolve(t argtype.Type) (Parser, error) {
	return r.reg.resolve(t)
}

// Has reports whether a parser is registered for t.
func (r *ParserRegistry) Has(t argtype.Type) bool {
	return r.reg.has(t)
}

// Types returns the registered types in stable order.
func (r *ParserRegistry) Types() []argtype.Type {
	return r.reg.types()
}

// Seal rejects further registration.
func (r *ParserRegistry) Seal() {
	r.reg.sealed = true
}

// InjectorRegistry maps semantic types to injectors.
type InjectorRegistry struct {
	reg registry[Injector]
}

// NewInjectorRegistry creates an empty injector registry.
func NewInjectorRegistry() *InjectorRegistry {
	return &InjectorRegistry{reg: newRegistry[Injector]("injector")}
}

// Register adds the injector for t. Each type may be registered once.
func (r *InjectorRegistry) Register(t argtype.Type, inj Injector) error {
	if inj == nil {
		return fmt.Errorf("injector %s: %w", t, ErrInvalidEntry)
	}
	return r.reg.register(t, inj)
}

// MustRegister is Register that panics on error.
func (r *InjectorRegistry) MustRegister(t argtype.Type, inj Injector) {
	if err := r.Register(t, inj); err != nil {
		panic(err)
	}
}

// Resolve returns the injector registered for exactly t.
func (r *InjectorRegistry) Resolve(t argtype.Type) (Injector, error) {
	return r.reg.resolve(t)
}

// Has reports whether an injector is registered for t.
func (r *InjectorRegistry) Has(t argtype.Type) bool {
	return r.reg.has(t)
}

// Types returns the registered types in stable order.
func (r *InjectorRegistry) Types() []argtype.Type {
	return r.reg.types()
}

// Seal rejects further registration.
func (r *InjectorRegistry) Seal() {
	r.reg.sealed = true
}
