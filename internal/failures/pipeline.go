// Package failures turns any error escaping a dispatch into the single
// message shown to the actor.
package failures

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/log"
	"github.com/pgm-community/dispatch/internal/usage"
)

const (
	MsgNoPermission = "You do not have permission to use this command."
	MsgPlayerOnly   = "You must be a player to use this command."
	MsgNoPending    = "You don't have any pending commands."
	MsgUnexpected   = "An unexpected error occurred."
)

// Handler renders a failure of one kind. err is the outermost *usage.Error
// of that kind; cause is the full error as it left the dispatch.
type Handler func(err *usage.Error, cause error) string

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPrefix sets the command prefix put before usage strings.
func WithPrefix(prefix string) Option {
	return func(p *Pipeline) {
		p.prefix = prefix
	}
}

func WithLogger(l domain.Logger) Option {
	return func(p *Pipeline) {
		p.logger = log.OrNop(l)
	}
}

// Pipeline maps failure kinds to handlers. Handle is only called while
// the engine is being set up; Render is safe for concurrent use after
// that.
type Pipeline struct {
	handlers map[usage.ErrorKind]Handler
	prefix   string
	logger   domain.Logger
}

// New creates a pipeline with the default handlers installed.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		handlers: make(map[usage.ErrorKind]Handler),
		prefix:   "/",
		logger:   log.NopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}

	p.Handle(usage.ErrSyntax, p.syntax)
	p.Handle(usage.ErrPermissionDenied, fixed(MsgNoPermission))
	p.Handle(usage.ErrSenderType, fixed(MsgPlayerOnly))
	p.Handle(usage.ErrNoPending, fixed(MsgNoPending))
	p.Handle(usage.ErrParse, p.chain)
	p.Handle(usage.ErrExecution, p.chain)
	p.Handle(usage.ErrMessage, p.chain)
	p.Handle(usage.ErrUnknown, p.chain)
	return p
}

// Handle installs fn for kind, replacing any previous handler.
func (p *Pipeline) Handle(kind usage.ErrorKind, fn Handler) {
	p.handlers[kind] = fn
}

// Render returns the message for err. It returns "" for a nil error and
// never panics; a failing handler falls back to the catch-all message.
func (p *Pipeline) Render(err error) (msg string) {
	if err == nil {
		return ""
	}

	var ue *usage.Error
	if !errors.As(err, &ue) {
		ue = &usage.Error{Kind: usage.ErrUnknown, Cause: err}
	}

	fn, ok := p.handlers[ue.Kind]
	if !ok {
		fn = p.chain
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("failures: handler for %s panicked: %v", ue.Kind, r)
			msg = MsgUnexpected
		}
	}()

	msg = fn(ue, err)
	if msg == "" {
		msg = MsgUnexpected
	}
	return msg
}

// Usage formats a usage line the way syntax failures show it.
func (p *Pipeline) Usage(correct string) string {
	return "Usage: " + p.prefix + correct
}

func (p *Pipeline) syntax(err *usage.Error, _ error) string {
	if err.Usage != "" {
		return p.Usage(err.Usage)
	}
	return Capitalize(err.Message)
}

// chain prefers a message-bearing failure anywhere in the cause chain,
// then a parse failure, and otherwise logs the cause and returns the
// catch-all.
func (p *Pipeline) chain(_ *usage.Error, cause error) string {
	if m := usage.Find(cause, usage.ErrMessage); m != nil {
		return m.Message
	}
	if pe := usage.Find(cause, usage.ErrParse); pe != nil {
		return Capitalize(pe.Message)
	}
	p.logger.Error("failures: unexpected error: %v", cause)
	return MsgUnexpected
}

func fixed(msg string) Handler {
	return func(*usage.Error, error) string {
		return msg
	}
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Recovered converts a recovered panic value into an execution failure.
func Recovered(r any) error {
	if err, ok := r.(error); ok {
		return usage.Execution(fmt.Errorf("panic: %w", err))
	}
	return usage.Execution(fmt.Errorf("panic: %v", r))
}
