package dispatchers

import (
	"strings"

	"github.com/pgm-community/dispatch/internal/params"
)

type NodeKind int

const (
	LiteralNode NodeKind = iota
	ArgumentNode
)

// Node is one position in the command graph. Literal nodes match one of
// their aliases case-insensitively. Argument nodes consume Arity tokens
// structurally; an Arity of zero consumes the rest of the input.
type Node struct {
	Kind    NodeKind
	Aliases []string
	Param   params.Spec
	Arity   int

	// Command is set on terminal nodes.
	Command *Command

	parent   *Node
	parser   params.Parser
	literals []*Node
	index    map[string]*Node
	argument *Node
}

func newLiteral(parent *Node, aliases []string) *Node {
	return &Node{Kind: LiteralNode, Aliases: aliases, parent: parent, index: make(map[string]*Node)}
}

// Name returns the display name: the first alias of a literal, or the
// parameter placeholder of an argument.
func (n *Node) Name() string {
	if n.Kind == ArgumentNode {
		return n.Param.Placeholder()
	}
	if len(n.Aliases) == 0 {
		return ""
	}
	return n.Aliases[0]
}

// Literal returns the literal child matching tok, if any.
func (n *Node) Literal(tok string) *Node {
	return n.index[strings.ToLower(tok)]
}

// Literals returns the literal children in insertion order.
func (n *Node) Literals() []*Node {
	return n.literals
}

// Argument returns the argument child, if any.
func (n *Node) Argument() *Node {
	return n.argument
}

// Terminal reports whether a command ends at this node.
func (n *Node) Terminal() bool {
	return n.Command != nil
}

// Walk visits n and every descendant, literals before the argument child.
// It stops early when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.literals {
		if !child.Walk(fn) {
			return false
		}
	}
	if n.argument != nil {
		return n.argument.Walk(fn)
	}
	return true
}

// nearest returns the terminal closest to n in breadth-first order.
func (n *Node) nearest() *Command {
	queue := []*Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Command != nil {
			return cur.Command
		}
		queue = append(queue, cur.literals...)
		if cur.argument != nil {
			queue = append(queue, cur.argument)
		}
	}
	return nil
}

// anyCommand reports whether keep accepts a command at or below n.
func (n *Node) anyCommand(keep func(*Command) bool) bool {
	found := false
	n.Walk(func(c *Node) bool {
		if c.Command != nil && (keep == nil || keep(c.Command)) {
			found = true
		}
		return !found
	})
	return found
}

type bindMode int

const (
	bindParse bindMode = iota
	bindInject
	bindFlag
)

type boundParam struct {
	spec   params.Spec
	mode   bindMode
	parser params.Parser
}

// Command is a CommandSpec compiled into the graph.
type Command struct {
	Spec CommandSpec

	label    string
	aliases  [][]string
	params   []boundParam
	optional []boundParam
	flags    []boundParam
	usage    string
	node     *Node
}

// Label returns the canonical path, e.g. "mutate add".
func (c *Command) Label() string {
	return c.label
}

// Aliases returns the accepted aliases of each path segment.
func (c *Command) Aliases() [][]string {
	return c.aliases
}

// Usage returns the usage line without the command prefix, e.g.
// "kick <target> <reason...> [--silent|-s]".
func (c *Command) Usage() string {
	return c.usage
}

// Flags returns the declared flag parameters.
func (c *Command) Flags() []params.Spec {
	out := make([]params.Spec, len(c.flags))
	for i, f := range c.flags {
		out[i] = f.spec
	}
	return out
}

// Node returns the terminal node of the command.
func (c *Command) Node() *Node {
	return c.node
}

// Matches reports whether words name this command through any alias.
func (c *Command) Matches(words []string) bool {
	if len(words) != len(c.aliases) {
		return false
	}
	for i, w := range words {
		ok := false
		for _, a := range c.aliases[i] {
			if strings.EqualFold(w, a) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func buildUsage(label string, bound []boundParam, flags []boundParam) string {
	parts := []string{label}
	for _, p := range bound {
		if p.mode == bindParse {
			parts = append(parts, p.spec.Placeholder())
		}
	}
	for _, f := range flags {
		parts = append(parts, f.spec.Placeholder())
	}
	return strings.Join(parts, " ")
}
