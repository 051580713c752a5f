// Package params resolves handler parameters.
//
// Each declared parameter has a semantic type. At binding time the injector
// registry is consulted first; types without an injector are parsed from the
// request's input cursor using the parser registry. Both registries are
// filled once at startup and read without locking afterwards.
package params

import (
	"strings"

	"github.com/pgm-community/dispatch/internal/argtype"
)

// Spec declares one handler parameter.
type Spec struct {
	Name        string
	Type        argtype.Type
	Optional    bool
	Greedy      bool
	Flag        bool
	Aliases     []string
	Default     string
	Description string
}

// Option customizes a Spec.
type Option func(*Spec)

// New returns a required parameter spec.
func New(name string, t argtype.Type, opts ...Option) Spec {
	s := Spec{Name: name, Type: t}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Optional marks the parameter optional. def is parsed with the type's
// parser when the argument is absent; an empty def leaves it unset.
func Optional(def string) Option {
	return func(s *Spec) {
		s.Optional = true
		s.Default = def
	}
}

// Greedy makes the parameter consume every remaining token.
func Greedy() Option {
	return func(s *Spec) {
		s.Greedy = true
	}
}

// Describe sets the help description.
func Describe(desc string) Option {
	return func(s *Spec) {
		s.Description = desc
	}
}

// Aliases sets short names for a flag parameter.
func Aliases(names ...string) Option {
	return func(s *Spec) {
		s.Aliases = append(s.Aliases, names...)
	}
}

// IsBoolFlag reports whether the flag is set by presence alone.
func (s Spec) IsBoolFlag() bool {
	return s.Flag && s.Type == argtype.Bool
}

// MatchesFlag reports whether name (without dashes) selects this flag.
func (s Spec) MatchesFlag(name string) bool {
	if !s.Flag {
		return false
	}
	if strings.EqualFold(name, s.Name) {
		return true
	}
	for _, a := range s.Aliases {
		if strings.EqualFold(name, a) {
			return true
		}
	}
	return false
}

// FlagNames returns the dashed spellings of the flag, long form first.
func (s Spec) FlagNames() []string {
	names := []string{"--" + s.Name}
	for _, a := range s.Aliases {
		if len(a) == 1 {
			names = append(names, "-"+a)
		} else {
			names = append(names, "--"+a)
		}
	}
	return names
}

// Placeholder renders the parameter for a usage line.
func (s Spec) Placeholder() string {
	if s.Flag {
		names := s.FlagNames()
		if s.IsBoolFlag() {
			return "[" + strings.Join(names, "|") + "]"
		}
		return "[" + names[0] + "=<" + s.Type.String() + ">]"
	}

	name := s.Name
	if s.Greedy {
		name += "..."
	}
	if s.Optional {
		return "[" + name + "]"
	}
	return "<" + name + ">"
}
