package engine

import (
	"context"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/input"
	"github.com/pgm-community/dispatch/internal/params"
)

// Suggest returns completions for the last token of line. Commands the
// actor may not run are hidden. It has no side effects and never fails;
// malformed input yields no suggestions.
func (e *Engine) Suggest(ctx context.Context, actor domain.Actor, line string) []string {
	if e.Seal() != nil {
		return nil
	}

	cur, err := input.Tokenize(e.trimPrefix(line))
	if err != nil {
		return nil
	}
	ic := params.NewContext(ctx, actor, e.host, cur, e.injectors)
	return slices.Collect(e.graph.Suggest(ic, e.visible(actor)))
}

// SuggestAsync computes Suggest on a bounded worker pool. The channel
// yields at most one result and is then closed. It is closed without a
// result when the actor exceeds its suggestion rate or ctx ends first.
func (e *Engine) SuggestAsync(ctx context.Context, actor domain.Actor, line string) <-chan []string {
	out := make(chan []string, 1)

	if !e.limiter(actor.ID()).Allow() {
		e.logger.Debug("engine: suggestion throttled for %s", actor.ID())
		close(out)
		return out
	}

	go func() {
		defer close(out)

		select {
		case e.suggestSem <- struct{}{}:
		case <-ctx.Done():
			return
		}
		defer func() { <-e.suggestSem }()

		if ctx.Err() != nil {
			return
		}
		out <- e.Suggest(ctx, actor, line)
	}()
	return out
}

// limiterIdle is how long an actor's suggestion limiter may go unused
// before it is dropped. A limiter idle that long has refilled its burst.
const limiterIdle = 10 * time.Minute

type actorLimiter struct {
	*rate.Limiter
	seen time.Time
}

func (e *Engine) limiter(actorID string) *rate.Limiter {
	e.limitersMu.Lock()
	defer e.limitersMu.Unlock()

	now := e.now()
	if now.Sub(e.lastSweep) >= limiterIdle {
		for id, l := range e.limiters {
			if now.Sub(l.seen) >= limiterIdle {
				delete(e.limiters, id)
			}
		}
		e.lastSweep = now
	}

	l, ok := e.limiters[actorID]
	if !ok {
		burst := 1
		if e.suggestRate != rate.Inf && e.suggestRate > 1 {
			burst = int(e.suggestRate)
		}
		l = &actorLimiter{Limiter: rate.NewLimiter(e.suggestRate, burst)}
		e.limiters[actorID] = l
	}
	l.seen = now
	return l.Limiter
}
