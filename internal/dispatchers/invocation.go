package dispatchers

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/params"
)

// Invocation is a command together with its bound arguments. It is
// immutable once Bind returns, so it can be stored and replayed later.
type Invocation struct {
	Command   *Command
	Actor     domain.Actor
	Host      domain.Host
	RequestID string

	values map[string]any
}

func newInvocation(c *Command, ic *params.Context) *Invocation {
	return &Invocation{
		Command: c,
		Actor:   ic.Actor,
		Host:    ic.Host,
		values:  make(map[string]any),
	}
}

// Run invokes the command handler.
func (inv *Invocation) Run(ctx context.Context) error {
	return inv.Command.Spec.Handler(ctx, inv)
}

// Has reports whether name was bound, either from input or a default.
func (inv *Invocation) Has(name string) bool {
	_, ok := inv.values[name]
	return ok
}

// Value returns the bound value of name, or nil.
func (inv *Invocation) Value(name string) any {
	return inv.values[name]
}

// Args returns a copy of every bound value.
func (inv *Invocation) Args() map[string]any {
	return maps.Clone(inv.values)
}

func (inv *Invocation) String(name string) string {
	s, _ := Arg[string](inv, name)
	return s
}

func (inv *Invocation) Int(name string) int {
	n, _ := Arg[int](inv, name)
	return n
}

func (inv *Invocation) Bool(name string) bool {
	b, _ := Arg[bool](inv, name)
	return b
}

func (inv *Invocation) Duration(name string) time.Duration {
	d, _ := Arg[time.Duration](inv, name)
	return d
}

// Reply sends a regular message to the invoking actor.
func (inv *Invocation) Reply(format string, args ...any) {
	if inv.Host == nil {
		return
	}
	inv.Host.SendMessage(inv.Actor, fmt.Sprintf(format, args...))
}

// Arg returns the bound value of name as T.
func Arg[T any](inv *Invocation, name string) (T, bool) {
	v, ok := inv.values[name].(T)
	return v, ok
}
