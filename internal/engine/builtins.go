package engine

import (
	"context"
	"strings"

	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/params"
)

const (
	confirmPath = "community confirm"
	helpPath    = "communityhelp"
)

func (e *Engine) builtins() []dispatchers.CommandSpec {
	return []dispatchers.CommandSpec{
		dispatchers.NewCommand(confirmPath).
			Describe("Confirm a pending command").
			Category(dispatchers.CategoryUtility).
			Handler(e.handleConfirm).
			Build(),

		dispatchers.NewCommand(helpPath).
			Describe("List commands or show help for one command").
			Category(dispatchers.CategoryUtility).
			Arg("query", argtype.String, params.Optional(""), params.Greedy()).
			Handler(e.handleHelp).
			Build(),
	}
}

// handleConfirm runs the actor's pending invocation. Its failure, or the
// absence of one, is reported like any other command failure.
func (e *Engine) handleConfirm(ctx context.Context, inv *dispatchers.Invocation) error {
	_, err := e.confirms.Confirm(ctx, inv.Actor.ID())
	return err
}

func (e *Engine) handleHelp(_ context.Context, inv *dispatchers.Invocation) error {
	var cmds []*dispatchers.Command
	visible := e.visible(inv.Actor)
	for _, c := range e.graph.Commands() {
		if visible(c) {
			cmds = append(cmds, c)
		}
	}

	text := dispatchers.HelpText(cmds, inv.String("query"), dispatchers.HelpOptions{
		Prefix:      e.prefix,
		HelpCommand: helpPath,
		Styler:      e.styler,
	})
	inv.Reply("%s", strings.TrimRight(text, "\n"))
	return nil
}
