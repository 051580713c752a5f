package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/match"
	"github.com/pgm-community/dispatch/internal/params"
	"github.com/pgm-community/dispatch/internal/usage"
)

const (
	mutationPath     = "mutate|mutation|mt"
	mutationsPerPage = 7

	// MsgMutationsLocked is shown when the match can no longer be changed.
	MsgMutationsLocked = "Mutations can not be adjusted at this time!"
)

type mutations struct {
	env *match.Environment
}

func (m mutations) specs() []dispatchers.CommandSpec {
	return []dispatchers.CommandSpec{
		dispatchers.NewCommand(mutationPath).
			Describe("View a list of mutations").
			Category(dispatchers.CategoryMatch).
			Arg("match", MatchType).
			Arg("page", argtype.Int, params.Optional("1")).
			Handler(m.list).
			Build(),

		dispatchers.NewCommand(mutationPath+" add").
			Describe("Add a mutation to the match").
			Permission(PermMutation).
			Category(dispatchers.CategoryMatch).
			Confirm().
			Arg("match", MatchType).
			Arg("type", MutationType).
			Handler(m.add).
			Build(),

		dispatchers.NewCommand(mutationPath+" remove").
			Describe("Remove an active mutation from the match").
			Permission(PermMutation).
			Category(dispatchers.CategoryMatch).
			Confirm().
			Arg("match", MatchType).
			Arg("type", MutationType).
			Handler(m.remove).
			Build(),

		dispatchers.NewCommand("teams").
			Describe("List the teams of the match and their players").
			Category(dispatchers.CategoryMatch).
			Arg("teams", TeamsType, params.Optional("*")).
			Handler(m.teams).
			Build(),
	}
}

func checkForMatch(inv *dispatchers.Invocation) error {
	if cur, _ := dispatchers.Arg[match.Match](inv, "match"); cur.Finished {
		return usage.Message(MsgMutationsLocked)
	}
	return nil
}

func (m mutations) list(_ context.Context, inv *dispatchers.Invocation) error {
	if err := checkForMatch(inv); err != nil {
		return err
	}
	active, _ := dispatchers.Arg[match.Match](inv, "match")

	if len(active.Mutations) == 0 {
		inv.Reply("No mutations are enabled")
		return nil
	}

	pages := (len(active.Mutations) + mutationsPerPage - 1) / mutationsPerPage
	page := max(1, min(inv.Int("page"), pages))

	var b strings.Builder
	fmt.Fprintf(&b, "Active Mutations (%d) » Page %d of %d", len(active.Mutations), page, pages)
	start := (page - 1) * mutationsPerPage
	for _, mt := range active.Mutations[start:min(start+mutationsPerPage, len(active.Mutations))] {
		fmt.Fprintf(&b, "\n- %s", mt)
	}
	inv.Reply("%s", b.String())
	return nil
}

func (m mutations) add(_ context.Context, inv *dispatchers.Invocation) error {
	if err := checkForMatch(inv); err != nil {
		return err
	}
	mt, _ := dispatchers.Arg[match.Mutation](inv, "type")

	added, err := m.env.AddMutation(mt)
	if err != nil {
		return mutationError(err)
	}
	if !added {
		return usage.Message("%s has already been added to the match.", mt)
	}
	inv.Reply("Added mutation %s", mt)
	return nil
}

func (m mutations) remove(_ context.Context, inv *dispatchers.Invocation) error {
	if err := checkForMatch(inv); err != nil {
		return err
	}
	mt, _ := dispatchers.Arg[match.Mutation](inv, "type")

	removed, err := m.env.RemoveMutation(mt)
	if err != nil {
		return mutationError(err)
	}
	if !removed {
		return usage.Message("%s can not be removed from the match.", mt)
	}
	inv.Reply("Removed mutation %s", mt)
	return nil
}

// mutationError maps state that changed between confirmation and
// execution onto the locked message.
func mutationError(err error) error {
	if errors.Is(err, match.ErrNoMatch) || errors.Is(err, match.ErrMatchFinished) {
		return usage.Message(MsgMutationsLocked)
	}
	return err
}

func (m mutations) teams(_ context.Context, inv *dispatchers.Invocation) error {
	teams, _ := dispatchers.Arg[[]match.Team](inv, "teams")

	lines := make([]string, 0, len(teams))
	for _, t := range teams {
		members := "no players"
		if len(t.Members) > 0 {
			members = strings.Join(t.Members, ", ")
		}
		lines = append(lines, fmt.Sprintf("%s (%d): %s", t.Name, len(t.Members), members))
	}
	inv.Reply("%s", strings.Join(lines, "\n"))
	return nil
}
