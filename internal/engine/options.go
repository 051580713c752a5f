package engine

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/log"
)

const (
	DefaultSuggestWorkers = 4
	DefaultSuggestRate    = 20
	DefaultPrefix         = "/"
)

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l domain.Logger) Option {
	return func(e *Engine) {
		e.logger = log.OrNop(l)
	}
}

// WithAudit records every request outcome in store.
func WithAudit(store domain.AuditStore) Option {
	return func(e *Engine) {
		e.audit = store
	}
}

// WithConfirmTTL sets how long a pending confirmation stays valid.
func WithConfirmTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.confirmTTL = ttl
	}
}

// WithSuggestWorkers bounds concurrent SuggestAsync computations.
func WithSuggestWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.suggestWorkers = n
		}
	}
}

// WithSuggestRate limits SuggestAsync calls per actor and second. Zero or
// less disables the limit.
func WithSuggestRate(perSecond float64) Option {
	return func(e *Engine) {
		if perSecond <= 0 {
			e.suggestRate = rate.Inf
			return
		}
		e.suggestRate = rate.Limit(perSecond)
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithPrefix sets the command prefix. It is stripped from input and shown
// in usage messages.
func WithPrefix(prefix string) Option {
	return func(e *Engine) {
		e.prefix = prefix
	}
}

// WithStyler styles help output.
func WithStyler(s domain.Styler) Option {
	return func(e *Engine) {
		e.styler = s
	}
}
