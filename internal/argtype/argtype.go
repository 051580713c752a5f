// Package argtype describes the semantic types handler parameters are
// resolved by.
//
// A Type is comparable and is the key of both the parser and the injector
// registries. Parameterized types are keyed by their full parameterization,
// so "collection[team]" and "team" are unrelated entries.
package argtype

import "strings"

// Type identifies a semantic parameter type.
type Type struct {
	name string
	args string
}

// Named returns the plain type with the given name.
func Named(name string) Type {
	return Type{name: strings.ToLower(strings.TrimSpace(name))}
}

// Of returns name parameterized by args, e.g. Of("collection", Team).
func Of(name string, args ...Type) Type {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return Type{
		name: strings.ToLower(strings.TrimSpace(name)),
		args: strings.Join(parts, ","),
	}
}

// Name returns the raw type name without parameters.
func (t Type) Name() string {
	return t.name
}

// Parameterized reports whether t carries type arguments.
func (t Type) Parameterized() bool {
	return t.args != ""
}

// IsZero reports whether t is the zero Type.
func (t Type) IsZero() bool {
	return t.name == ""
}

func (t Type) String() string {
	if t.args == "" {
		return t.name
	}
	return t.name + "[" + t.args + "]"
}

// Built-in types. The engine registers parsers for the textual ones.
var (
	String   = Named("string")
	Int      = Named("int")
	Bool     = Named("bool")
	Duration = Named("duration")
)
