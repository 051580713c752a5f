package commands

import (
	"context"
	"errors"
	"time"

	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/match"
	"github.com/pgm-community/dispatch/internal/params"
	"github.com/pgm-community/dispatch/internal/usage"
)

// MsgMuted is shown to muted players asking for assistance.
const MsgMuted = "You are muted and can not request assistance."

type assistance struct {
	env *match.Environment
}

func (a assistance) specs() []dispatchers.CommandSpec {
	return []dispatchers.CommandSpec{
		dispatchers.NewCommand("assistance|assist|helpop|helpme").
			Describe("Request help from staff members").
			Category(dispatchers.CategoryAssistance).
			Arg("self", SelfType).
			Arg("reason", argtype.String, params.Greedy()).
			Handler(a.assist).
			Build(),
	}
}

func (a assistance) assist(_ context.Context, inv *dispatchers.Invocation) error {
	self, _ := dispatchers.Arg[domain.Player](inv, "self")

	if p, ok := a.env.Player(self.Name()); ok && p.Muted {
		return usage.Message(MsgMuted)
	}

	err := a.env.RequestAssist(self.Name(), inv.String("reason"))
	var cd *match.CooldownError
	if errors.As(err, &cd) {
		return usage.Message("You must wait %s before requesting assistance again.", cd.Remaining.Round(time.Second))
	}
	if err != nil {
		return err
	}

	inv.Reply("Your request has been sent to the staff.")
	return nil
}
