package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/match"
	"github.com/pgm-community/dispatch/internal/params"
	"github.com/pgm-community/dispatch/internal/usage"
)

type moderation struct {
	env *match.Environment
}

func (m moderation) specs() []dispatchers.CommandSpec {
	return []dispatchers.CommandSpec{
		dispatchers.NewCommand("kick|k").
			Describe("Kick a player from the server").
			Permission(PermKick).
			Category(dispatchers.CategoryModeration).
			Arg("target", UsernameType).
			Arg("reason", argtype.String, params.Greedy()).
			Flag("silent", "s").
			Flag("off-record", "o").
			Handler(m.kick).
			Build(),

		dispatchers.NewCommand("warn|w").
			Describe("Warn a player for bad behavior").
			Permission(PermWarn).
			Category(dispatchers.CategoryModeration).
			Arg("target", UsernameType).
			Arg("reason", argtype.String, params.Greedy()).
			Handler(m.warn).
			Build(),

		dispatchers.NewCommand("freeze|fz|f").
			Describe("Toggle a player's frozen state").
			Permission(PermFreeze).
			Category(dispatchers.CategoryModeration).
			Arg("player", PlayerType).
			Handler(m.freeze).
			Build(),

		dispatchers.NewCommand("frozenlist|fls|flist").
			Describe("View a list of frozen players").
			Permission(PermFreeze).
			Category(dispatchers.CategoryModeration).
			Arg("audience", AudienceType).
			Handler(m.frozenList).
			Build(),
	}
}

func (m moderation) kick(_ context.Context, inv *dispatchers.Invocation) error {
	target := inv.String("target")
	if _, online := m.env.Player(target); !online {
		return usage.Message("%s could not be found.", target)
	}

	p := match.Punishment{
		Type:      match.PunishmentKick,
		Target:    target,
		Issuer:    inv.Actor.Name(),
		Reason:    inv.String("reason"),
		Silent:    inv.Bool("silent"),
		OffRecord: inv.Bool("off-record"),
	}
	m.env.Punish(p)
	inv.Reply("%s", punishmentLine("Kicked", p))
	return nil
}

func (m moderation) warn(_ context.Context, inv *dispatchers.Invocation) error {
	p := match.Punishment{
		Type:   match.PunishmentWarn,
		Target: inv.String("target"),
		Issuer: inv.Actor.Name(),
		Reason: inv.String("reason"),
	}
	m.env.Punish(p)
	inv.Reply("%s", punishmentLine("Warned", p))
	return nil
}

func punishmentLine(verb string, p match.Punishment) string {
	line := fmt.Sprintf("%s %s: %s", verb, p.Target, p.Reason)
	var tags []string
	if p.Silent {
		tags = append(tags, "silent")
	}
	if p.OffRecord {
		tags = append(tags, "off record")
	}
	if len(tags) > 0 {
		line += " (" + strings.Join(tags, ", ") + ")"
	}
	return line
}

func (m moderation) freeze(_ context.Context, inv *dispatchers.Invocation) error {
	target, _ := dispatchers.Arg[match.Player](inv, "player")

	frozen := !m.env.IsFrozen(target.Name)
	m.env.SetFrozen(target.Name, frozen)
	if frozen {
		inv.Reply("%s has been frozen", target.Name)
	} else {
		inv.Reply("%s has been unfrozen", target.Name)
	}
	return nil
}

func (m moderation) frozenList(_ context.Context, inv *dispatchers.Invocation) error {
	audience, _ := dispatchers.Arg[*Audience](inv, "audience")

	online, offline := m.env.Frozen()
	if len(online)+len(offline) == 0 {
		audience.Warn("There are no frozen players.")
		return nil
	}
	if len(online) > 0 {
		audience.Send(fmt.Sprintf("Frozen players (%d): %s", len(online), strings.Join(online, ", ")))
	}
	if len(offline) > 0 {
		audience.Send(fmt.Sprintf("Offline frozen players (%d): %s", len(offline), strings.Join(offline, ", ")))
	}
	return nil
}
