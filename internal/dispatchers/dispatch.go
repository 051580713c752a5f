package dispatchers

import (
	"strings"

	"github.com/pgm-community/dispatch/internal/input"
	"github.com/pgm-community/dispatch/internal/params"
	"github.com/pgm-community/dispatch/internal/usage"
)

const defaultSuggestionsCount = 3

// Route is a matched command and where its arguments start in the cursor.
type Route struct {
	Command *Command
	Start   int
}

// Route walks the graph over the unconsumed tokens of cur.
//
// Literal children are tried before the argument child, so a token equal
// to a literal alias never reaches an argument. Argument nodes consume
// their arity without parsing; typed parsing happens in Bind, after the
// caller has checked permissions.
func (g *Graph) Route(cur *input.Cursor) (Route, error) {
	if cur.Empty() {
		return Route{}, usage.EmptyInput()
	}

	node := g.root
	start := cur.Position()

	for {
		tok, ok := cur.Peek()
		if !ok {
			break
		}
		if child := node.Literal(tok); child != nil {
			cur.Next()
			node = child
			start = cur.Position()
			continue
		}

		arg := node.argument
		if arg == nil {
			break
		}
		if arg.Arity == 0 {
			cur.Rest()
		} else {
			if cur.Len() < arg.Arity {
				break
			}
			cur.Seek(cur.Position() + arg.Arity)
		}
		node = arg
	}

	if node == g.root {
		tok, _ := cur.Peek()
		return Route{}, usage.UnknownCommand(tok, FindSimilarCommands(tok, g.root, defaultSuggestionsCount)...)
	}
	if node.Command == nil {
		return Route{}, usage.Syntax(node.nearest().usage)
	}
	return Route{Command: node.Command, Start: start}, nil
}

// Find returns the command whose path is exactly words, matched through
// any alias.
func (g *Graph) Find(words ...string) *Command {
	node := g.root
	for _, w := range words {
		node = node.Literal(w)
		if node == nil {
			return nil
		}
	}
	for node != nil && node.Command == nil {
		node = node.argument
	}
	if node == nil || !node.Command.Matches(words) {
		return nil
	}
	return node.Command
}

// Bind materializes every parameter of the routed command.
//
// Flags are bound first, then parameters in declared order: injected
// types from ic, the rest parsed from the cursor starting at r.Start.
// Binding fails on the first error and no partial invocation escapes.
func (r Route) Bind(ic *params.Context, flags *ParsedFlags) (*Invocation, error) {
	c := r.Command
	inv := newInvocation(c, ic)

	if err := c.bindFlags(ic, flags, inv); err != nil {
		return nil, err
	}

	ic.Cursor.Seek(r.Start)
	for _, p := range c.params {
		switch p.mode {
		case bindInject:
			v, err := ic.Inject(p.spec.Type)
			if err != nil {
				return nil, err
			}
			inv.values[p.spec.Name] = v

		case bindParse:
			if ic.Cursor.Empty() {
				if !p.spec.Optional {
					return nil, usage.MissingArgument(p.spec.Name, c.usage)
				}
				if p.spec.Default == "" {
					continue
				}
				v, err := c.parseText(ic, p, strings.Fields(p.spec.Default)...)
				if err != nil {
					return nil, err
				}
				inv.values[p.spec.Name] = v
				continue
			}

			v, err := p.parser.Apply(ic, p.spec)
			if err != nil {
				return nil, c.withUsage(err)
			}
			inv.values[p.spec.Name] = v
		}
	}

	if !ic.Cursor.Empty() {
		return nil, usage.TooManyArguments(c.usage, ic.Cursor.Remaining())
	}
	return inv, nil
}

func (c *Command) bindFlags(ic *params.Context, flags *ParsedFlags, inv *Invocation) error {
	for _, tok := range flags.Raw() {
		name, value, hasValue := input.SplitFlag(tok)
		f := c.flag(name)
		if f == nil {
			return usage.InvalidFlag(tok, c.usage)
		}

		if f.spec.IsBoolFlag() {
			if hasValue {
				return usage.InvalidFlag(tok, c.usage)
			}
			inv.values[f.spec.Name] = true
			continue
		}

		if !hasValue || value == "" {
			return usage.MissingArgument("--"+f.spec.Name, c.usage)
		}
		v, err := c.parseText(ic, *f, value)
		if err != nil {
			return err
		}
		inv.values[f.spec.Name] = v
	}

	for _, f := range c.flags {
		if _, set := inv.values[f.spec.Name]; !set && f.spec.IsBoolFlag() {
			inv.values[f.spec.Name] = false
		}
	}
	return nil
}

func (c *Command) flag(name string) *boundParam {
	for i := range c.flags {
		if c.flags[i].spec.MatchesFlag(name) {
			return &c.flags[i]
		}
	}
	return nil
}

// parseText runs the parser of p over tokens that are not part of the
// request input, such as defaults and flag values.
func (c *Command) parseText(ic *params.Context, p boundParam, tokens ...string) (any, error) {
	saved := ic.Cursor
	ic.Cursor = input.NewCursor(tokens...)
	defer func() { ic.Cursor = saved }()

	v, err := p.parser.Apply(ic, p.spec)
	if err != nil {
		return nil, c.withUsage(err)
	}
	return v, nil
}

// withUsage points syntax failures raised by parsers at the usage of the
// whole command.
func (c *Command) withUsage(err error) error {
	if ue := usage.Find(err, usage.ErrSyntax); ue != nil {
		ue.Usage = c.usage
	}
	return err
}
