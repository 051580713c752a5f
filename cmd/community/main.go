package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/pgm-community/dispatch/internal/app"
	"github.com/pgm-community/dispatch/internal/cli"
	"github.com/pgm-community/dispatch/internal/completions"
	"github.com/pgm-community/dispatch/internal/config"
	"github.com/pgm-community/dispatch/internal/console"
	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/ui/prompt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// globalFlags are understood by the binary itself and never reach an
// engine.
type globalFlags struct {
	as      string
	noColor bool
	noPager bool
	pager   string
}

// extractFlags removes the global flags from args. Every other argument,
// flags of operator commands included, is kept in order.
func extractFlags(args []string) (globalFlags, []string) {
	var (
		g    globalFlags
		rest []string
	)
	for i := 0; i < len(args); i++ {
		a := args[i]
		name, value, hasValue := strings.Cut(a, "=")
		switch name {
		case "--no-color":
			g.noColor = true
		case "--no-pager":
			g.noPager = true
		case "--as", "--pager":
			if !hasValue && i+1 < len(args) {
				i++
				value = args[i]
			}
			if name == "--as" {
				g.as = value
			} else {
				g.pager = value
			}
		default:
			rest = append(rest, a)
		}
	}
	return g, rest
}

func isTerminal(f any) bool {
	file, ok := f.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, rest := extractFlags(args)

	settings, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	actors, err := console.LoadActors(settings.ActorsPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	styleConfig, _ := config.GetAll()

	a, err := app.New(app.Options{
		Settings:      settings,
		Actors:        actors,
		Out:           stdout,
		ErrOut:        stderr,
		PagerDisabled: flags.noPager,
		PagerOverride: flags.pager,
		StyleEnabled:  settings.Color && !flags.noColor && isTerminal(stdout),
		StyleConfig:   styleConfig,
		Binary:        completions.BinaryName(),
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = a.Close() }()

	if len(rest) > 0 {
		res := a.CLI.Execute(ctx, a.Operator(), cli.Line(rest))
		if res.Status == domain.StatusFailed {
			return 1
		}
		return 0
	}

	actor, err := a.Actor(flags.as)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if interval := settings.SweepInterval; interval > 0 {
		go a.Engine.RunSweeper(ctx, interval)
	}

	submit := func(ctx context.Context, line string) {
		a.Engine.Execute(ctx, actor, line)
	}

	if isTerminal(stdin) && isTerminal(stdout) {
		p := prompt.New(ctx, prompt.Config{
			Actor:     actor,
			Suggester: a.Engine,
			Submit:    submit,
			Prompt:    actor.Name() + "> ",
			Styler:    a.Styler,
		})
		a.Host.SetOutput(p.Writer())
		if err := p.Run(); err != nil {
			a.Host.SetOutput(stderr)
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	if err := console.RunLines(ctx, stdin, stdout, "", submit); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
