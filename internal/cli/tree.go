// Package cli declares the operator commands of the community binary,
// such as config, audit and logs. They run on their own engine, separate
// from the in-game commands.
package cli

import (
	"context"
	"fmt"
	"strings"

	auditactions "github.com/pgm-community/dispatch/internal/actions/audit"
	configactions "github.com/pgm-community/dispatch/internal/actions/config"
	logsactions "github.com/pgm-community/dispatch/internal/actions/logs"
	themeactions "github.com/pgm-community/dispatch/internal/actions/theme"
	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/completions"
	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/params"
	"github.com/pgm-community/dispatch/internal/usage"
)

var (
	ConfigKeyType = argtype.Named("config-key")
	StatusType    = argtype.Named("dispatch-status")
	ShellType     = argtype.Named("shell")
	ThemeType     = argtype.Named("theme")
)

// Registrar is where the operator commands and their parsers go.
type Registrar interface {
	Parsers() *params.ParserRegistry
	Register(spec dispatchers.CommandSpec) error
	Commands() []*dispatchers.Command
}

type Deps struct {
	Config configactions.Deps
	Theme  themeactions.Deps
	Logs   logsactions.Deps

	// Audit is nil when the audit log is disabled.
	Audit *auditactions.Deps

	Version string
	Binary  string

	// Suggest completes a partial operator command line.
	Suggest func(ctx context.Context, line string) []string
}

// Register declares the operator parsers and commands against r.
func Register(r Registrar, deps Deps) error {
	parsers := []struct {
		t argtype.Type
		p params.Parser
	}{
		{ConfigKeyType, params.Enum("config key", configactions.KeyNames(deps.Config.Keys())...)},
		{StatusType, params.Enum("status", auditactions.Statuses()...)},
		{ShellType, params.Enum("shell", completions.ShellNames()...)},
		{ThemeType, params.Enum("theme", deps.Theme.Names...)},
	}
	for _, p := range parsers {
		if err := r.Parsers().Register(p.t, p.p); err != nil {
			return fmt.Errorf("cli: parsers: %w", err)
		}
	}

	for _, spec := range BuildTree(r, deps) {
		if err := r.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// BuildTree returns every operator command. Audit commands are left out
// when deps.Audit is nil.
func BuildTree(r Registrar, deps Deps) []dispatchers.CommandSpec {
	specs := []dispatchers.CommandSpec{
		dispatchers.NewCommand("version").
			Describe("Show the community version").
			Category(dispatchers.CategoryAdmin).
			Handler(showVersion(deps)).
			Build(),

		dispatchers.NewCommand("help").
			Describe("List operator commands or show help for one").
			Category(dispatchers.CategoryAdmin).
			Arg("query", argtype.String, params.Optional(""), params.Greedy()).
			Handler(showHelp(r, deps)).
			Build(),

		dispatchers.NewCommand("config get").
			Describe("Get a config value").
			Category(dispatchers.CategoryAdmin).
			Arg("key", ConfigKeyType, params.Describe("Configuration key to read")).
			Handler(configactions.Get(deps.Config)).
			Build(),

		dispatchers.NewCommand("config set").
			Describe("Set a config value").
			Category(dispatchers.CategoryAdmin).
			Arg("key", ConfigKeyType, params.Describe("Configuration key to write")).
			Arg("value", argtype.String, params.Greedy(), params.Describe("Value to assign")).
			Handler(configactions.Set(deps.Config)).
			Build(),

		dispatchers.NewCommand("config unset").
			Describe("Restore the default of a config value").
			Category(dispatchers.CategoryAdmin).
			Arg("key", ConfigKeyType, params.Optional("")).
			Flag("all").
			Handler(configactions.Unset(deps.Config)).
			Build(),

		dispatchers.NewCommand("config list").
			Describe("List every config value").
			Category(dispatchers.CategoryAdmin).
			Handler(configactions.List(deps.Config)).
			Build(),

		dispatchers.NewCommand("theme list").
			Describe("List the color themes").
			Category(dispatchers.CategoryAdmin).
			Handler(themeactions.List(deps.Theme)).
			Build(),

		dispatchers.NewCommand("theme set").
			Describe("Choose the color theme").
			Category(dispatchers.CategoryAdmin).
			Arg("name", ThemeType).
			Handler(themeactions.Set(deps.Theme)).
			Build(),

		dispatchers.NewCommand("logs show").
			Describe("Show the last lines of the log file").
			Category(dispatchers.CategoryAdmin).
			ValueFlag("limit", argtype.Int, "n").
			Flag("json").
			Handler(logsactions.Show(deps.Logs)).
			Build(),

		dispatchers.NewCommand("logs tail").
			Describe("Follow the log file").
			Category(dispatchers.CategoryAdmin).
			Handler(logsactions.Tail(deps.Logs)).
			Build(),

		dispatchers.NewCommand("logs clear").
			Describe("Empty the log file").
			Category(dispatchers.CategoryAdmin).
			Handler(logsactions.Clear(deps.Logs)).
			Build(),

		dispatchers.NewCommand("completions").
			Describe("Show how to enable shell completion, or print the script").
			Category(dispatchers.CategoryAdmin).
			Arg("shell", ShellType, params.Optional("")).
			Flag("script").
			Handler(printCompletions(deps)).
			Build(),

		dispatchers.NewCommand("complete").
			Describe("Complete a partial command line, used by completion scripts").
			Arg("line", argtype.String, params.Optional(""), params.Greedy()).
			Handler(complete(deps)).
			Build(),
	}

	if deps.Audit == nil {
		return specs
	}
	audit := *deps.Audit
	return append(specs,
		withFilterFlags(dispatchers.NewCommand("audit list")).
			Describe("List recent dispatches, newest first").
			Category(dispatchers.CategoryAdmin).
			ValueFlag("limit", argtype.Int, "n").
			Handler(auditactions.List(audit)).
			Build(),

		dispatchers.NewCommand("audit show").
			Describe("Show every record of one request").
			Category(dispatchers.CategoryAdmin).
			Arg("request", argtype.String, params.Describe("Request id or a unique prefix")).
			Handler(auditactions.Show(audit)).
			Build(),

		withFilterFlags(dispatchers.NewCommand("audit stats")).
			Describe("Count dispatches per status").
			Category(dispatchers.CategoryAdmin).
			Handler(auditactions.Stats(audit)).
			Build(),

		dispatchers.NewCommand("audit prune").
			Describe("Delete records older than an age such as 30d").
			Category(dispatchers.CategoryAdmin).
			Arg("age", argtype.Duration).
			Handler(auditactions.Prune(audit)).
			Build(),
	)
}

func withFilterFlags(b *dispatchers.Builder) *dispatchers.Builder {
	return b.
		ValueFlag("actor", argtype.String, "a").
		ValueFlag("command", argtype.String, "c").
		ValueFlag("status", StatusType, "s").
		ValueFlag("since", argtype.Duration)
}

func showVersion(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		inv.Reply("%s version %s", deps.Binary, deps.Version)
		return nil
	}
}

func showHelp(r Registrar, deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		text := dispatchers.HelpText(r.Commands(), inv.String("query"), dispatchers.HelpOptions{
			Prefix:      deps.Binary + " ",
			HelpCommand: "help",
		})
		inv.Reply("%s", strings.TrimRight(text, "\n"))
		return nil
	}
}

func printCompletions(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		shell := completions.RunningShell()
		if name, ok := dispatchers.Arg[string](inv, "shell"); ok {
			shell = completions.Shell(name)
		}
		if shell == "" {
			return usage.Message("Could not detect your shell. Name one of: %s.",
				strings.Join(completions.ShellNames(), ", "))
		}

		if !inv.Bool("script") {
			inv.Reply("%s", completions.Instructions(shell, deps.Binary))
			return nil
		}
		script, err := completions.Script(shell, deps.Binary)
		if err != nil {
			return err
		}
		inv.Reply("%s", strings.TrimRight(script, "\n"))
		return nil
	}
}

func complete(deps Deps) dispatchers.Handler {
	return func(ctx context.Context, inv *dispatchers.Invocation) error {
		if deps.Suggest == nil {
			return nil
		}
		if out := deps.Suggest(ctx, inv.String("line")); len(out) > 0 {
			inv.Reply("%s", strings.Join(out, "\n"))
		}
		return nil
	}
}

// Line joins command line arguments into one input line, quoting those
// the tokenizer would otherwise split or unescape.
func Line(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = quote(a)
	}
	return strings.Join(quoted, " ")
}

func quote(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n'\"\\$`") {
		return arg
	}
	if !strings.Contains(arg, "'") {
		return "'" + arg + "'"
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return `"` + r.Replace(arg) + `"`
}
