package dispatchers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pgm-community/dispatch/internal/argtype"
)

// Registration errors. They are programming errors and abort startup.
var (
	ErrInvalidCommand    = errors.New("dispatchers: invalid command")
	ErrUnresolvedType    = errors.New("dispatchers: no parser or injector for type")
	ErrAmbiguousArgument = errors.New("dispatchers: conflicting argument at the same position")
	ErrDuplicateCommand  = errors.New("dispatchers: command already registered")
	ErrAliasClash        = errors.New("dispatchers: alias belongs to another node")
	ErrSealed            = errors.New("dispatchers: graph is sealed")
)

// Graph is the literal/argument tree of every registered command.
//
// It is written only during startup. After Seal it is never mutated and is
// safe for concurrent readers without locking.
type Graph struct {
	root     *Node
	commands []*Command
	sealed   bool
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{root: newLiteral(nil, nil)}
}

// Root returns the root node. It has no aliases.
func (g *Graph) Root() *Node {
	return g.root
}

// Commands returns every command in registration order.
func (g *Graph) Commands() []*Command {
	return g.commands
}

// Seal rejects further inserts.
func (g *Graph) Seal() {
	g.sealed = true
}

// Insert compiles spec and adds it to the graph. The graph is left
// unchanged when an error is returned.
func (g *Graph) Insert(spec CommandSpec, reg Registries) (*Command, error) {
	if g.sealed {
		return nil, fmt.Errorf("%s: %w", spec.Path, ErrSealed)
	}

	cmd, err := compile(spec, reg)
	if err != nil {
		return nil, err
	}

	if err := g.place(cmd, false); err != nil {
		return nil, err
	}
	if err := g.place(cmd, true); err != nil {
		return nil, err
	}

	g.commands = append(g.commands, cmd)
	return cmd, nil
}

// place walks the path of cmd. With create unset it only checks for
// conflicts; with create set it adds the missing nodes.
func (g *Graph) place(cmd *Command, create bool) error {
	node := g.root

	for _, aliases := range cmd.aliases {
		if node == nil {
			continue
		}
		child, err := node.literalFor(aliases)
		if err != nil {
			return fmt.Errorf("%s: %w", cmd.label, err)
		}
		if create {
			if child == nil {
				child = newLiteral(node, nil)
				node.literals = append(node.literals, child)
			}
			for _, a := range aliases {
				if node.index[a] == nil {
					child.Aliases = append(child.Aliases, a)
					node.index[a] = child
				}
			}
		}
		node = child
	}

	for _, p := range cmd.params {
		if p.mode != bindParse || p.spec.Optional {
			continue
		}
		if node == nil {
			continue
		}

		arity := p.parser.Arity()
		if p.spec.Greedy {
			arity = 0
		}

		child := node.argument
		if child != nil && (child.Param.Type != p.spec.Type || child.Arity != arity) {
			return fmt.Errorf("%s: %s after %q: %w", cmd.label, p.spec.Placeholder(), node.Name(), ErrAmbiguousArgument)
		}
		if other := node.Command; other != nil && conflictsWithOptional(other, p.spec.Type, arity) {
			return fmt.Errorf("%s: %s competes with the optional arguments of %s: %w", cmd.label, p.spec.Placeholder(), other.usage, ErrAmbiguousArgument)
		}
		if child == nil && create {
			child = &Node{Kind: ArgumentNode, Param: p.spec, Arity: arity, parent: node, parser: p.parser, index: make(map[string]*Node)}
			node.argument = child
		}
		node = child
	}

	if node == nil {
		return nil
	}
	if arg := node.argument; arg != nil && conflictsWithOptional(cmd, arg.Param.Type, arg.Arity) {
		return fmt.Errorf("%s: optional arguments compete with %s: %w", cmd.label, arg.Param.Placeholder(), ErrAmbiguousArgument)
	}
	if node.Command != nil {
		return fmt.Errorf("%s: conflicts with %s: %w", cmd.label, node.Command.usage, ErrDuplicateCommand)
	}
	if create {
		node.Command = cmd
		cmd.node = node
	}
	return nil
}

// conflictsWithOptional reports whether an argument of type t and arity
// placed after the path of cmd would read the same tokens as the first
// optional argument of cmd while parsing them as something else.
func conflictsWithOptional(cmd *Command, t argtype.Type, arity int) bool {
	if len(cmd.optional) == 0 {
		return false
	}
	first := cmd.optional[0]
	optArity := first.parser.Arity()
	if first.spec.Greedy {
		optArity = 0
	}
	return first.spec.Type != t || optArity != arity
}

// literalFor returns the literal child owning any of aliases, or nil when
// none does. Aliases spread over more than one child are a clash.
func (n *Node) literalFor(aliases []string) (*Node, error) {
	var found *Node
	for _, a := range aliases {
		c := n.index[a]
		if c == nil {
			continue
		}
		if found != nil && found != c {
			return nil, fmt.Errorf("%q and %q: %w", found.Name(), c.Name(), ErrAliasClash)
		}
		found = c
	}
	return found, nil
}

func parsePath(path string) ([][]string, error) {
	fields := strings.Fields(path)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty path: %w", ErrInvalidCommand)
	}

	segments := make([][]string, 0, len(fields))
	for _, f := range fields {
		var aliases []string
		for _, a := range strings.Split(strings.ToLower(f), "|") {
			if a == "" || strings.HasPrefix(a, "-") {
				return nil, fmt.Errorf("%q: bad segment %q: %w", path, f, ErrInvalidCommand)
			}
			aliases = append(aliases, a)
		}
		segments = append(segments, aliases)
	}
	return segments, nil
}

func compile(spec CommandSpec, reg Registries) (*Command, error) {
	segments, err := parsePath(spec.Path)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(segments))
	for i, s := range segments {
		labels[i] = s[0]
	}
	label := strings.Join(labels, " ")

	if spec.Handler == nil {
		return nil, fmt.Errorf("%s: nil handler: %w", label, ErrInvalidCommand)
	}

	cmd := &Command{Spec: spec, label: label, aliases: segments}

	names := make(map[string]bool)
	flagNames := make(map[string]bool)
	sawOptional, sawGreedy := false, false

	for _, p := range spec.Params {
		key := strings.ToLower(p.Name)
		if key == "" {
			return nil, fmt.Errorf("%s: unnamed parameter: %w", label, ErrInvalidCommand)
		}
		if names[key] {
			return nil, fmt.Errorf("%s: duplicate parameter %q: %w", label, p.Name, ErrInvalidCommand)
		}
		names[key] = true

		switch {
		case p.Flag:
			bp := boundParam{spec: p, mode: bindFlag}
			if !p.IsBoolFlag() {
				parser, err := reg.Parsers.Resolve(p.Type)
				if err != nil {
					return nil, fmt.Errorf("%s: flag %s: %w", label, p.Name, ErrUnresolvedType)
				}
				bp.parser = parser
			}
			for _, n := range append([]string{p.Name}, p.Aliases...) {
				n = strings.ToLower(n)
				if flagNames[n] {
					return nil, fmt.Errorf("%s: duplicate flag %q: %w", label, n, ErrInvalidCommand)
				}
				flagNames[n] = true
			}
			cmd.flags = append(cmd.flags, bp)

		case reg.Injectors.Has(p.Type):
			cmd.params = append(cmd.params, boundParam{spec: p, mode: bindInject})

		default:
			parser, err := reg.Parsers.Resolve(p.Type)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %s (%s): %w", label, p.Name, p.Type, ErrUnresolvedType)
			}
			if sawGreedy {
				return nil, fmt.Errorf("%s: %s follows a greedy parameter: %w", label, p.Name, ErrInvalidCommand)
			}
			if !p.Optional && sawOptional {
				return nil, fmt.Errorf("%s: required %s follows an optional parameter: %w", label, p.Name, ErrInvalidCommand)
			}
			bp := boundParam{spec: p, mode: bindParse, parser: parser}
			if p.Optional {
				sawOptional = true
				cmd.optional = append(cmd.optional, bp)
			}
			sawGreedy = sawGreedy || p.Greedy
			cmd.params = append(cmd.params, bp)
		}
	}

	cmd.usage = buildUsage(label, cmd.params, cmd.flags)
	return cmd, nil
}
