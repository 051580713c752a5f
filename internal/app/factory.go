// Package app wires the community binary together: logging, the audit
// store, styling, the console host and the two engines.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	auditactions "github.com/pgm-community/dispatch/internal/actions/audit"
	configactions "github.com/pgm-community/dispatch/internal/actions/config"
	logsactions "github.com/pgm-community/dispatch/internal/actions/logs"
	themeactions "github.com/pgm-community/dispatch/internal/actions/theme"
	"github.com/pgm-community/dispatch/internal/cli"
	"github.com/pgm-community/dispatch/internal/commands"
	"github.com/pgm-community/dispatch/internal/config"
	"github.com/pgm-community/dispatch/internal/console"
	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/engine"
	"github.com/pgm-community/dispatch/internal/format"
	"github.com/pgm-community/dispatch/internal/log"
	"github.com/pgm-community/dispatch/internal/match"
	"github.com/pgm-community/dispatch/internal/store"
	"github.com/pgm-community/dispatch/internal/ui"
	"github.com/pgm-community/dispatch/internal/ui/style"
)

// Version is stamped at build time with
// -ldflags "-X github.com/pgm-community/dispatch/internal/app.Version=...".
var Version = "dev"

// DefaultTeams are started when no actor names a team.
var DefaultTeams = []string{"Red", "Blue"}

// Options configures the application factory.
type Options struct {
	Settings config.Settings
	Actors   []console.ActorConfig

	Out    io.Writer
	ErrOut io.Writer

	// Pager options
	PagerDisabled bool
	PagerOverride string

	// Style options
	StyleEnabled bool
	StyleConfig  map[string]string

	// Config backs the operator config commands. Defaults to the
	// config file.
	Config domain.ConfigProvider

	Version string
	Binary  string
}

// DefaultOptions reads settings and actors from their usual places.
func DefaultOptions() (Options, error) {
	settings, err := config.Load()
	if err != nil {
		return Options{}, err
	}
	actors, err := console.LoadActors(settings.ActorsPath)
	if err != nil {
		return Options{}, err
	}
	styleConfig, _ := config.GetAll()

	return Options{
		Settings:     settings,
		Actors:       actors,
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		StyleEnabled: settings.Color,
		StyleConfig:  styleConfig,
	}, nil
}

// App is the assembled application.
type App struct {
	Settings config.Settings
	Logger   domain.Logger

	// Store is nil when auditing is disabled.
	Store *store.Store

	Styler domain.Styler
	Host   *console.Host
	Env    *match.Environment
	Output *ui.Writer

	// Engine runs in-game commands, CLI runs operator commands.
	Engine *engine.Engine
	CLI    *engine.Engine

	operator domain.Actor
}

// New creates an App with every dependency wired up. Both engines are
// sealed on return.
func New(opts Options) (*App, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	if len(opts.Actors) == 0 {
		opts.Actors = console.DefaultActors()
	}
	if opts.Config == nil {
		opts.Config = config.NewProvider()
	}
	if opts.Version == "" {
		opts.Version = Version
	}
	if opts.Binary == "" {
		opts.Binary = "community"
	}
	s := opts.Settings

	a := &App{Settings: s, Logger: newLogger(s, opts.ErrOut)}

	if s.EnableAudit {
		st, err := store.New(s.DBPath)
		if err != nil {
			_ = a.Logger.Close()
			return nil, fmt.Errorf("app: audit store: %w", err)
		}
		a.Store = st
	}

	var styler domain.Styler = style.NopStyler{}
	if opts.StyleEnabled {
		styler = style.New(true, s.ColorTheme, opts.StyleConfig)
	}
	a.Styler = styler

	a.Host = console.NewHost(opts.Out, opts.ErrOut, styler, opts.Actors)
	a.Env = newEnvironment(opts.Actors)

	var writerOpts []ui.WriterOption
	if opts.PagerDisabled {
		writerOpts = append(writerOpts, ui.WithPagerDisabled())
	}
	if opts.PagerOverride != "" {
		writerOpts = append(writerOpts, ui.WithPagerOverride(opts.PagerOverride))
	}
	writerOpts = append(writerOpts, ui.WithConfigGetter(opts.Config.Get))
	a.Output = ui.NewWriterTo(opts.Out, writerOpts...)

	a.operator = operator(opts.Actors)

	if err := a.buildEngine(); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.buildCLI(opts); err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Logger.Debug("app: ready with %d actor(s), audit %t", len(opts.Actors), a.Store != nil)
	return a, nil
}

func newLogger(s config.Settings, errOut io.Writer) domain.Logger {
	if s.LogPath == "" {
		return log.NopLogger{}
	}
	l, err := log.New(s.LogPath, log.ParseLevel(s.LogLevel))
	if err != nil {
		fmt.Fprintf(errOut, "warning: logging disabled: %v\n", err)
		return log.NopLogger{}
	}
	log.SetDefault(l)
	return l
}

// newEnvironment starts a match for the teams named by actors and brings
// every player actor online. Players without a team are spread across
// the teams in turn.
func newEnvironment(actors []console.ActorConfig) *match.Environment {
	var teams []string
	seen := make(map[string]bool)
	for _, a := range actors {
		if a.Team != "" && !seen[strings.ToLower(a.Team)] {
			seen[strings.ToLower(a.Team)] = true
			teams = append(teams, a.Team)
		}
	}
	if len(teams) == 0 {
		teams = DefaultTeams
	}

	env := match.NewEnvironment()
	env.Start("1", "Lobby", teams...)

	next := 0
	for _, a := range actors {
		if !a.Player {
			continue
		}
		team := a.Team
		if team == "" {
			team = teams[next%len(teams)]
			next++
		}
		env.Join(a.Actor().Name(), team)
	}
	return env
}

// operator picks the actor that runs operator commands: the console
// actor when listed, otherwise the first one.
func operator(actors []console.ActorConfig) domain.Actor {
	for _, a := range actors {
		if strings.EqualFold(a.ID, console.OperatorID) {
			return a.Actor()
		}
	}
	return actors[0].Actor()
}

func (a *App) buildEngine() error {
	s := a.Settings
	opts := []engine.Option{
		engine.WithLogger(a.Logger),
		engine.WithConfirmTTL(s.ConfirmTTL),
		engine.WithSuggestWorkers(s.SuggestWorkers),
		engine.WithSuggestRate(s.SuggestRate),
		engine.WithPrefix(s.CommandPrefix),
		engine.WithStyler(a.Styler),
	}
	if a.Store != nil {
		opts = append(opts, engine.WithAudit(a.Store))
	}

	e, err := engine.New(a.Host, opts...)
	if err != nil {
		return err
	}
	if err := commands.Register(e, a.Env); err != nil {
		return err
	}
	if err := e.Seal(); err != nil {
		return err
	}
	a.Engine = e
	return nil
}

func (a *App) buildCLI(opts Options) error {
	e, err := engine.New(a.Host,
		engine.WithLogger(a.Logger),
		engine.WithPrefix(""),
		engine.WithStyler(a.Styler),
	)
	if err != nil {
		return err
	}

	deps := cli.Deps{
		Config: configactions.Deps{
			Provider: opts.Config,
			Keys:     domain.VisibleConfigKeys,
		},
		Theme:   themeactions.DefaultDeps(opts.Config, a.Styler.Enabled()),
		Logs:    logsactions.DefaultDeps(a.Settings.LogPath, a.Output, a.Styler),
		Version: opts.Version,
		Binary:  opts.Binary,
		Suggest: func(ctx context.Context, line string) []string {
			return e.Suggest(ctx, a.operator, line)
		},
	}
	if a.Store != nil {
		deps.Audit = &auditactions.Deps{
			Store:  a.Store,
			Pager:  a.Output,
			Layout: format.FromConfig(opts.Config.Get),
			Now:    time.Now,
		}
	}

	if err := cli.Register(e, deps); err != nil {
		return err
	}
	if err := e.Seal(); err != nil {
		return err
	}
	a.CLI = e
	return nil
}

// Operator returns the actor operator commands run as.
func (a *App) Operator() domain.Actor {
	return a.operator
}

// Actor resolves id through the console host. An empty id is the
// operator.
func (a *App) Actor(id string) (domain.Actor, error) {
	if id == "" {
		return a.operator, nil
	}
	return a.Host.Actor(id)
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.Logger != nil {
		errs = append(errs, a.Logger.Close())
	}
	return errors.Join(errs...)
}
