package dispatchers

import (
	"slices"

	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/params"
)

// Builder assembles a CommandSpec.
//
//	dispatchers.NewCommand("kick|k").
//		Permission("pgm.community.kick").
//		Arg("target", commands.PlayerType).
//		Arg("reason", argtype.String, params.Greedy()).
//		Flag("silent", "s").
//		Handler(kick).
//		Build()
type Builder struct {
	spec CommandSpec
}

// NewCommand starts a command declaration for path.
func NewCommand(path string) *Builder {
	return &Builder{spec: CommandSpec{Path: path}}
}

func (b *Builder) Describe(desc string) *Builder {
	b.spec.Description = desc
	return b
}

func (b *Builder) Permission(perm string) *Builder {
	b.spec.Permission = perm
	return b
}

// Arg declares the next parameter. Parameters whose type has an injector
// are resolved from context and take no input.
func (b *Builder) Arg(name string, t argtype.Type, opts ...params.Option) *Builder {
	b.spec.Params = append(b.spec.Params, params.New(name, t, opts...))
	return b
}

// Flag declares a boolean flag set by presence.
func (b *Builder) Flag(name string, aliases ...string) *Builder {
	p := params.New(name, argtype.Bool, params.Aliases(aliases...))
	p.Flag = true
	p.Optional = true
	b.spec.Params = append(b.spec.Params, p)
	return b
}

// ValueFlag declares a flag given as --name=value.
func (b *Builder) ValueFlag(name string, t argtype.Type, aliases ...string) *Builder {
	p := params.New(name, t, params.Aliases(aliases...))
	p.Flag = true
	p.Optional = true
	b.spec.Params = append(b.spec.Params, p)
	return b
}

// Confirm requires the actor to confirm before the handler runs.
func (b *Builder) Confirm() *Builder {
	b.spec.Confirm = true
	return b
}

// PlayerOnly rejects actors that are not players.
func (b *Builder) PlayerOnly() *Builder {
	b.spec.PlayerOnly = true
	return b
}

func (b *Builder) Category(c CommandCategory) *Builder {
	b.spec.Category = c
	return b
}

func (b *Builder) Handler(h Handler) *Builder {
	b.spec.Handler = h
	return b
}

// Build returns the finished spec. The builder may be reused afterwards
// without affecting it.
func (b *Builder) Build() CommandSpec {
	spec := b.spec
	spec.Params = slices.Clone(b.spec.Params)
	return spec
}
