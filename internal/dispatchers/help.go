package dispatchers

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/ui/style"
)

// HelpOptions controls help rendering.
type HelpOptions struct {
	// Prefix is prepended to every usage line, e.g. "/".
	Prefix string

	// HelpCommand is the label of the help command itself, for the footer.
	HelpCommand string

	Styler domain.Styler
}

// HelpText lists cmds grouped by category. A query naming a command
// exactly, through any alias, renders that command in detail; any other
// query is fuzzy matched against command paths and descriptions.
func HelpText(cmds []*Command, query string, opts HelpOptions) string {
	if opts.Styler == nil {
		opts.Styler = style.NopStyler{}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return helpList(cmds, opts)
	}

	words := strings.Fields(query)
	for _, c := range cmds {
		if c.Matches(words) {
			return helpDetail(c, opts)
		}
	}

	matches := searchCommands(cmds, query)
	if len(matches) == 0 {
		return fmt.Sprintf("No commands match '%s'.\n", query)
	}
	return helpList(matches, opts)
}

// searchCommands ranks cmds by fuzzy distance to query.
func searchCommands(cmds []*Command, query string) []*Command {
	var targets []string
	var owners []int
	for i, c := range cmds {
		for _, t := range searchTargets(c) {
			targets = append(targets, t)
			owners = append(owners, i)
		}
	}

	ranks := fuzzy.RankFindFold(query, targets)
	sort.Sort(ranks)

	seen := make(map[int]bool)
	var out []*Command
	for _, r := range ranks {
		idx := owners[r.OriginalIndex]
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, cmds[idx])
	}
	return out
}

func searchTargets(c *Command) []string {
	targets := []string{c.label}
	rest := strings.TrimPrefix(c.label, c.aliases[0][0])
	for _, a := range c.aliases[0][1:] {
		targets = append(targets, a+rest)
	}
	if c.Spec.Description != "" {
		targets = append(targets, c.Spec.Description)
	}
	return targets
}

func helpList(cmds []*Command, opts HelpOptions) string {
	var out bytes.Buffer
	s := opts.Styler

	out.WriteString(s.Header("Commands"))
	out.WriteString("\n\n")

	width := 0
	for _, c := range cmds {
		width = max(width, len(opts.Prefix)+len(c.usage))
	}
	width = min(width, 40)

	grouped := make(map[CommandCategory][]*Command)
	for _, c := range cmds {
		grouped[c.Spec.Category] = append(grouped[c.Spec.Category], c)
	}

	for _, cat := range categoryOrder {
		group := grouped[cat]
		if len(group) == 0 {
			continue
		}

		out.WriteString(cat.String())
		out.WriteString("\n")

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].label < group[j].label
		})

		for _, c := range group {
			line := fmt.Sprintf("%-*s", width, opts.Prefix+c.usage)
			fmt.Fprintf(&out, "   %s  %s\n", s.Info(line), c.Spec.Description)
		}
		out.WriteString("\n")
	}

	if opts.HelpCommand != "" {
		fmt.Fprintf(&out, "See '%s%s <command>' for details on a command.\n", opts.Prefix, opts.HelpCommand)
	}
	return out.String()
}

func helpDetail(c *Command, opts HelpOptions) string {
	var out bytes.Buffer
	s := opts.Styler

	out.WriteString(s.Header(opts.Prefix + c.label))
	if c.Spec.Description != "" {
		out.WriteString(" - ")
		out.WriteString(c.Spec.Description)
	}
	out.WriteString("\n\n")

	fmt.Fprintf(&out, "USAGE\n   %s\n\n", s.Info(opts.Prefix+c.usage))

	var aliases []string
	for _, seg := range c.aliases {
		aliases = append(aliases, seg[1:]...)
	}
	if len(aliases) > 0 {
		fmt.Fprintf(&out, "ALIASES\n   %s\n\n", strings.Join(aliases, ", "))
	}

	if len(c.flags) > 0 {
		out.WriteString("FLAGS\n")
		for _, f := range c.flags {
			name := strings.Join(f.spec.FlagNames(), ", ")
			if !f.spec.IsBoolFlag() {
				name += "=<" + f.spec.Type.String() + ">"
			}
			fmt.Fprintf(&out, "   %s  %s\n", s.Info(fmt.Sprintf("%-24s", name)), f.spec.Description)
		}
		out.WriteString("\n")
	}

	var notes []string
	if c.Spec.Permission != "" {
		notes = append(notes, "permission: "+c.Spec.Permission)
	}
	if c.Spec.PlayerOnly {
		notes = append(notes, "players only")
	}
	if c.Spec.Confirm {
		notes = append(notes, "requires confirmation (skip with --yes)")
	}
	for _, n := range notes {
		fmt.Fprintf(&out, "%s\n", s.Muted(n))
	}

	return strings.TrimRight(out.String(), "\n") + "\n"
}
