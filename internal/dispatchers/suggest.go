package dispatchers

import (
	"iter"
	"sort"
	"strings"

	"github.com/pgm-community/dispatch/internal/input"
	"github.com/pgm-community/dispatch/internal/params"
)

// levenshtein calculates the edit distance between two strings
func levenshtein(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}

	return prev[len(b)]
}

type suggestion struct {
	name     string
	distance int
}

// FindSimilarCommands returns up to maxResults literal children of node
// whose aliases are within edit distance 3 of input, closest first.
func FindSimilarCommands(input string, node *Node, maxResults int) []string {
	if node == nil || len(node.literals) == 0 {
		return nil
	}

	const maxDistance = 3

	var suggestions []suggestion
	for _, child := range node.literals {
		best := -1
		for _, alias := range child.Aliases {
			if d := levenshtein(input, alias); best < 0 || d < best {
				best = d
			}
		}
		if best <= maxDistance && best > 0 {
			suggestions = append(suggestions, suggestion{name: child.Name(), distance: best})
		}
	}

	// Sort by distance (ascending), then alphabetically for stability
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].distance != suggestions[j].distance {
			return suggestions[i].distance < suggestions[j].distance
		}
		return suggestions[i].name < suggestions[j].name
	})

	if len(suggestions) > maxResults {
		suggestions = suggestions[:maxResults]
	}

	result := make([]string, len(suggestions))
	for i, s := range suggestions {
		result[i] = s.name
	}
	return result
}

// Suggest returns the completions of the token being typed at the end of
// ic.Cursor. Commands rejected by visible are hidden along with branches
// leading only to them; a nil visible keeps everything.
//
// The sequence is computed anew on every iteration and never touches the
// graph or the registries, so it is safe to run off the dispatch path.
// Parser candidates are passed through as returned by the parser.
func (g *Graph) Suggest(ic *params.Context, visible func(*Command) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]bool)
		for _, s := range g.candidates(ic, visible) {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			if !yield(s) {
				return
			}
		}
	}
}

func (g *Graph) candidates(ic *params.Context, visible func(*Command) bool) []string {
	allowed := func(c *Command) bool {
		return c != nil && (visible == nil || visible(c))
	}

	tokens := ic.Cursor.Remaining()
	partial := ""
	complete := tokens
	if len(tokens) > 0 && !ic.Cursor.TrailingSpace() {
		partial = tokens[len(tokens)-1]
		complete = tokens[:len(tokens)-1]
	}

	var positional, typedFlags []string
	for _, tok := range complete {
		if input.IsFlag(tok) {
			typedFlags = append(typedFlags, tok)
			continue
		}
		positional = append(positional, tok)
	}

	node := g.root
	i := 0
	for i < len(positional) {
		if child := node.Literal(positional[i]); child != nil {
			node = child
			i++
			continue
		}
		arg := node.argument
		if arg == nil {
			break
		}
		if arg.Arity == 0 {
			i = len(positional)
			node = arg
			break
		}
		if len(positional)-i < arg.Arity {
			// The partial token is inside a multi-token argument.
			if !arg.anyCommand(allowed) {
				return nil
			}
			return arg.parser.Candidates(ic, arg.Param, partial)
		}
		i += arg.Arity
		node = arg
	}

	if input.IsFlag(partial) || partial == "-" || partial == "--" {
		if !allowed(node.Command) {
			return nil
		}
		return flagCandidates(node.Command, typedFlags, partial)
	}

	// Inside a greedy argument every further token belongs to it.
	if node.Kind == ArgumentNode && node.Arity == 0 {
		if !node.anyCommand(allowed) {
			return nil
		}
		return node.parser.Candidates(ic, node.Param, partial)
	}

	if extra := len(positional) - i; extra > 0 {
		if !allowed(node.Command) {
			return nil
		}
		return optionalCandidates(ic, node.Command, extra, partial)
	}

	var out []string
	for _, child := range node.literals {
		if !child.anyCommand(allowed) {
			continue
		}
		if partial == "" {
			out = append(out, child.Name())
			continue
		}
		out = append(out, params.FilterPrefix(child.Aliases, partial)...)
	}
	if arg := node.argument; arg != nil && arg.anyCommand(allowed) {
		out = append(out, arg.parser.Candidates(ic, arg.Param, partial)...)
	}
	if allowed(node.Command) {
		out = append(out, optionalCandidates(ic, node.Command, 0, partial)...)
	}
	return out
}

// optionalCandidates completes the optional parameter at index idx of c.
// A trailing greedy parameter absorbs every index past its own.
func optionalCandidates(ic *params.Context, c *Command, idx int, partial string) []string {
	if len(c.optional) == 0 {
		return nil
	}
	if idx >= len(c.optional) {
		last := c.optional[len(c.optional)-1]
		if !last.spec.Greedy {
			return nil
		}
		idx = len(c.optional) - 1
	}
	p := c.optional[idx]
	return p.parser.Candidates(ic, p.spec, partial)
}

func flagCandidates(c *Command, typed []string, partial string) []string {
	used := NewParsedFlags(typed)
	var out []string
	for _, f := range c.flags {
		names := f.spec.FlagNames()
		if used.Has(names...) {
			continue
		}
		for _, n := range names {
			if !f.spec.IsBoolFlag() {
				n += "="
			}
			if strings.HasPrefix(strings.ToLower(n), strings.ToLower(partial)) {
				out = append(out, n)
			}
		}
	}
	return out
}
