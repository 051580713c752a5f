// Package engine coordinates one request from raw input to a single
// actor-visible outcome.
//
// An Engine has two phases. During registration, parsers, injectors and
// commands are added. Seal freezes all of them; after that the engine is
// safe for concurrent use and the only mutable state is the set of
// pending confirmations.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pgm-community/dispatch/internal/confirm"
	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/failures"
	"github.com/pgm-community/dispatch/internal/input"
	"github.com/pgm-community/dispatch/internal/log"
	"github.com/pgm-community/dispatch/internal/params"
	"github.com/pgm-community/dispatch/internal/usage"
)

// Spellings that skip the confirmation step of a command.
var bypassFlags = []string{"--yes", "-y"}

// Result is the outcome of Execute.
type Result struct {
	RequestID string
	Status    domain.DispatchStatus

	// Label is the routed command, empty when routing failed.
	Label string

	// Message is the warning sent to the actor, if any.
	Message string

	Err error
}

// Engine is the dispatch coordinator.
type Engine struct {
	host      domain.Host
	parsers   *params.ParserRegistry
	injectors *params.InjectorRegistry
	graph     *dispatchers.Graph
	confirms  *confirm.Manager
	pipeline  *failures.Pipeline

	logger         domain.Logger
	audit          domain.AuditStore
	styler         domain.Styler
	prefix         string
	now            func() time.Time
	confirmTTL     time.Duration
	suggestWorkers int
	suggestRate    rate.Limit

	sealOnce sync.Once
	sealErr  error

	suggestSem chan struct{}
	limitersMu sync.Mutex
	limiters   map[string]*actorLimiter
	lastSweep  time.Time
}

// New creates an engine reporting to host, with the built-in parsers
// registered.
func New(host domain.Host, opts ...Option) (*Engine, error) {
	if host == nil {
		return nil, errors.New("engine: nil host")
	}

	e := &Engine{
		host:           host,
		parsers:        params.NewParserRegistry(),
		injectors:      params.NewInjectorRegistry(),
		graph:          dispatchers.NewGraph(),
		logger:         log.NopLogger{},
		prefix:         DefaultPrefix,
		now:            time.Now,
		confirmTTL:     confirm.DefaultTTL,
		suggestWorkers: DefaultSuggestWorkers,
		suggestRate:    DefaultSuggestRate,
		limiters:       make(map[string]*actorLimiter),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := params.RegisterDefaults(e.parsers); err != nil {
		return nil, fmt.Errorf("engine: register default parsers: %w", err)
	}

	e.confirms = confirm.New(
		confirm.WithTTL(e.confirmTTL),
		confirm.WithClock(e.now),
		confirm.WithLogger(e.logger),
	)
	e.pipeline = failures.New(
		failures.WithPrefix(e.prefix),
		failures.WithLogger(e.logger),
	)
	e.suggestSem = make(chan struct{}, e.suggestWorkers)
	return e, nil
}

// Parsers returns the parser registry for registration.
func (e *Engine) Parsers() *params.ParserRegistry {
	return e.parsers
}

// Injectors returns the injector registry for registration.
func (e *Engine) Injectors() *params.InjectorRegistry {
	return e.injectors
}

// Pipeline returns the failure pipeline, so hosts can override handlers
// before the first request.
func (e *Engine) Pipeline() *failures.Pipeline {
	return e.pipeline
}

// Confirmations returns the pending confirmation store.
func (e *Engine) Confirmations() *confirm.Manager {
	return e.confirms
}

// Commands returns every registered command.
func (e *Engine) Commands() []*dispatchers.Command {
	return e.graph.Commands()
}

// Register compiles spec into the command graph. Parameter types must be
// registered first.
func (e *Engine) Register(spec dispatchers.CommandSpec) error {
	if _, err := e.graph.Insert(spec, e.registries()); err != nil {
		return fmt.Errorf("engine: register %q: %w", spec.Path, err)
	}
	return nil
}

// MustRegister is Register for static command tables; it panics on error.
func (e *Engine) MustRegister(specs ...dispatchers.CommandSpec) {
	for _, spec := range specs {
		if err := e.Register(spec); err != nil {
			panic(err)
		}
	}
}

// Seal registers the built-in commands and freezes every registry. It is
// idempotent; Execute and Suggest seal on first use.
func (e *Engine) Seal() error {
	e.sealOnce.Do(func() {
		for _, spec := range e.builtins() {
			if err := e.Register(spec); err != nil {
				e.sealErr = err
				return
			}
		}
		e.parsers.Seal()
		e.injectors.Seal()
		e.graph.Seal()
		e.logger.Debug("engine: sealed with %d commands", len(e.graph.Commands()))
	})
	return e.sealErr
}

// RunSweeper discards expired confirmations every interval until ctx is
// done. Expiry is also checked lazily, so this is optional.
func (e *Engine) RunSweeper(ctx context.Context, interval time.Duration) {
	e.confirms.Run(ctx, interval)
}

// Execute dispatches one line of input for actor. Every failure is
// rendered into exactly one warning sent through the host; nothing is
// returned as a Go error except in Result.Err.
func (e *Engine) Execute(ctx context.Context, actor domain.Actor, line string) Result {
	res := Result{RequestID: uuid.NewString()}

	if err := e.Seal(); err != nil {
		res.Status = domain.StatusFailed
		res.Err = err
		e.logger.Error("engine: %v", err)
		return res
	}

	status, label, err := e.execute(ctx, actor, line, res.RequestID)
	res.Status = status
	res.Label = label
	res.Err = err

	if err != nil {
		res.Status = domain.StatusFailed
		res.Message = e.pipeline.Render(err)
		e.host.SendWarning(actor, res.Message)
		e.logger.Debug("engine: [%s] %s failed for %s: %s (%s)",
			res.RequestID, labelOr(label, line), actor.ID(), usage.KindOf(err), err)
	} else {
		e.logger.Debug("engine: [%s] %s %s for %s", res.RequestID, label, res.Status, actor.ID())
	}

	e.record(res.RequestID, actor, line, label, res.Status, err, res.Message)
	return res
}

func (e *Engine) execute(ctx context.Context, actor domain.Actor, line, requestID string) (domain.DispatchStatus, string, error) {
	cur, err := input.Tokenize(e.trimPrefix(line))
	if err != nil {
		return domain.StatusFailed, "", &usage.Error{Kind: usage.ErrSyntax, Message: err.Error(), Cause: err}
	}
	route, flags, cur, err := e.route(cur)
	if err != nil {
		return domain.StatusFailed, "", err
	}
	cmd := route.Command
	label := cmd.Label()

	if err := e.checkAccess(actor, cmd); err != nil {
		return domain.StatusFailed, label, err
	}

	bypass := false
	if cmd.Spec.Confirm && flags.Has(bypassFlags...) {
		bypass = true
		flags = flags.Without(bypassFlags...)
	}

	ic := params.NewContext(ctx, actor, e.host, cur, e.injectors)
	inv, err := route.Bind(ic, flags)
	if err != nil {
		return domain.StatusFailed, label, err
	}
	inv.RequestID = requestID

	if cmd.Spec.Confirm && !bypass {
		e.awaitConfirmation(actor, line, inv)
		return domain.StatusPending, label, nil
	}

	if err := e.invoke(ctx, inv); err != nil {
		return domain.StatusFailed, label, err
	}
	return domain.StatusExecuted, label, nil
}

// flagPolicy is one way of splitting flag tokens from the input before
// routing, valid only for the commands accept admits.
type flagPolicy struct {
	extract func(tok string) bool
	accept  func(cmd *dispatchers.Command) bool
}

var flagPolicies = []flagPolicy{
	// Commands that declare flags yield every flag-looking token, so an
	// unknown one is reported as an invalid flag.
	{
		extract: input.IsFlag,
		accept:  func(cmd *dispatchers.Command) bool { return len(cmd.Flags()) > 0 },
	},
	// Others keep dash-led tokens as text.
	{
		accept: func(cmd *dispatchers.Command) bool { return len(cmd.Flags()) == 0 && !cmd.Spec.Confirm },
	},
	// Confirmation commands without flags still give up the bypass.
	{
		extract: isBypassFlag,
		accept:  func(cmd *dispatchers.Command) bool { return len(cmd.Flags()) == 0 && cmd.Spec.Confirm },
	},
}

func isBypassFlag(tok string) bool {
	return slices.Contains(bypassFlags, strings.ToLower(tok))
}

// route resolves the command for cur together with its flag tokens. It
// returns the cursor the route was taken on, positioned for binding.
func (e *Engine) route(cur *input.Cursor) (dispatchers.Route, *dispatchers.ParsedFlags, *input.Cursor, error) {
	var (
		fallback      *dispatchers.Route
		fallbackFlags []string
		fallbackCur   *input.Cursor
		firstErr      error
	)
	for i, policy := range flagPolicies {
		c := cur.Clone()
		var raw []string
		if policy.extract != nil {
			raw = c.ExtractFlagsFunc(policy.extract)
		}
		route, err := e.graph.Route(c)
		if err != nil {
			if i == 0 {
				firstErr = err
			}
			continue
		}
		if policy.accept(route.Command) {
			return route, dispatchers.NewParsedFlags(raw), c, nil
		}
		if i == 0 {
			fallback, fallbackFlags, fallbackCur = &route, raw, c
		}
	}

	// The flag-free routing was the only one that worked: binding reports
	// the flags the command does not take.
	if fallback != nil {
		return *fallback, dispatchers.NewParsedFlags(fallbackFlags), fallbackCur, nil
	}
	return dispatchers.Route{}, nil, cur, firstErr
}

// awaitConfirmation stores inv as the actor's pending confirmation and
// tells the actor how to confirm it.
func (e *Engine) awaitConfirmation(actor domain.Actor, line string, inv *dispatchers.Invocation) {
	label := inv.Command.Label()
	_, superseded := e.confirms.Request(actor.ID(), label, func(ctx context.Context) error {
		err := e.invoke(ctx, inv)
		status := domain.StatusConfirmed
		if err != nil {
			status = domain.StatusFailed
		}
		e.record(inv.RequestID, actor, line, label, status, err, "")
		return err
	})
	if superseded {
		e.logger.Debug("engine: [%s] %s replaced a pending confirmation of %s", inv.RequestID, label, actor.ID())
	}
	e.host.SendWarning(actor, e.confirmPrompt())
}

func (e *Engine) confirmPrompt() string {
	return fmt.Sprintf("Confirmation required. Confirm using %s%s.", e.prefix, confirmPath)
}

// invoke runs the handler. Panics become execution failures and plain
// errors are wrapped so the pipeline can classify them.
func (e *Engine) invoke(ctx context.Context, inv *dispatchers.Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("engine: [%s] %s panicked: %v", inv.RequestID, inv.Command.Label(), r)
			err = failures.Recovered(r)
		}
	}()

	if err := inv.Run(ctx); err != nil {
		var ue *usage.Error
		if errors.As(err, &ue) {
			return err
		}
		return usage.Execution(err)
	}
	return nil
}

// checkAccess runs the permission predicate, then the sender type check.
// Neither reads the arguments.
func (e *Engine) checkAccess(actor domain.Actor, cmd *dispatchers.Command) error {
	if perm := cmd.Spec.Permission; perm != "" && !e.host.HasPermission(actor, perm) {
		return usage.NoPermission(perm)
	}
	if cmd.Spec.PlayerOnly {
		if _, ok := actor.(domain.Player); !ok {
			return usage.PlayerOnly()
		}
	}
	return nil
}

// visible reports which commands actor may run, for help and
// suggestions.
func (e *Engine) visible(actor domain.Actor) func(*dispatchers.Command) bool {
	return func(c *dispatchers.Command) bool {
		return e.checkAccess(actor, c) == nil
	}
}

func (e *Engine) registries() dispatchers.Registries {
	return dispatchers.Registries{Parsers: e.parsers, Injectors: e.injectors}
}

func (e *Engine) trimPrefix(line string) string {
	line = strings.TrimLeft(line, " \t")
	if e.prefix != "" {
		line = strings.TrimPrefix(line, e.prefix)
	}
	return line
}

func (e *Engine) record(requestID string, actor domain.Actor, line, label string, status domain.DispatchStatus, err error, msg string) {
	if e.audit == nil {
		return
	}

	rec := domain.DispatchRecord{
		ID:        uuid.NewString(),
		RequestID: requestID,
		ActorID:   actor.ID(),
		ActorName: actor.Name(),
		Input:     line,
		Command:   label,
		Status:    status,
		Message:   msg,
		CreatedAt: e.now(),
	}
	if err != nil {
		rec.Failure = usage.KindOf(err).String()
	}

	if err := e.audit.RecordDispatch(rec); err != nil {
		e.logger.Warn("engine: [%s] audit failed: %v", requestID, err)
	}
}

func labelOr(label, line string) string {
	if label != "" {
		return label
	}
	return fmt.Sprintf("%q", line)
}
