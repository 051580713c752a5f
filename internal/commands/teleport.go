package commands

import (
	"context"
	"strings"

	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/match"
	"github.com/pgm-community/dispatch/internal/params"
	"github.com/pgm-community/dispatch/internal/usage"
)

type teleports struct {
	env *match.Environment
}

func (t teleports) specs() []dispatchers.CommandSpec {
	return []dispatchers.CommandSpec{
		dispatchers.NewCommand("tp|teleport").
			Describe("Teleport to another player").
			Permission(PermTeleport).
			Category(dispatchers.CategoryTeleport).
			Arg("target", TargetsType).
			Arg("destination", PlayerType, params.Optional("")).
			Handler(t.teleport).
			Build(),

		dispatchers.NewCommand("tphere|bring|tph").
			Describe("Teleport players to you").
			Permission(PermTeleportOthers).
			Category(dispatchers.CategoryTeleport).
			Arg("self", SelfType).
			Arg("target", TargetsType).
			Handler(t.here).
			Build(),

		dispatchers.NewCommand("tplocation|tpl|tploc").
			Describe("Teleport to specific coordinates").
			Permission(PermTeleportLocation).
			Category(dispatchers.CategoryTeleport).
			Arg("coords", LocationType).
			Arg("target", TargetsType, params.Optional("")).
			Handler(t.location).
			Build(),
	}
}

// teleport moves the actor to a single target, or with a destination
// moves every target to it, which needs the others permission.
func (t teleports) teleport(_ context.Context, inv *dispatchers.Invocation) error {
	targets, _ := dispatchers.Arg[Selection](inv, "target")
	dest, hasDest := dispatchers.Arg[match.Player](inv, "destination")

	if !hasDest {
		self, ok := inv.Actor.(domain.Player)
		if !ok {
			return usage.PlayerOnly()
		}
		if len(targets.Players) != 1 {
			return usage.Message("You can only teleport to a single player.")
		}
		return t.move(inv, targets.Players[0], self.Name())
	}

	if !inv.Host.HasPermission(inv.Actor, PermTeleportOthers) {
		return usage.NoPermission(PermTeleportOthers)
	}
	return t.move(inv, dest.Name, targets.Players...)
}

func (t teleports) here(_ context.Context, inv *dispatchers.Invocation) error {
	self, _ := dispatchers.Arg[domain.Player](inv, "self")
	targets, _ := dispatchers.Arg[Selection](inv, "target")
	return t.move(inv, self.Name(), targets.Players...)
}

func (t teleports) move(inv *dispatchers.Invocation, to string, who ...string) error {
	if err := t.env.Teleport(to, who...); err != nil {
		return err
	}
	inv.Reply("Teleported %s to %s", strings.Join(who, ", "), to)
	return nil
}

func (t teleports) location(_ context.Context, inv *dispatchers.Invocation) error {
	loc, _ := dispatchers.Arg[match.Location](inv, "coords")

	var who []string
	if targets, ok := dispatchers.Arg[Selection](inv, "target"); ok {
		who = targets.Players
	} else if self, ok := inv.Actor.(domain.Player); ok {
		who = []string{self.Name()}
	} else {
		return usage.PlayerOnly()
	}

	if err := t.env.TeleportTo(loc, who...); err != nil {
		return err
	}
	inv.Reply("Teleported %s to %s", strings.Join(who, ", "), loc)
	return nil
}
