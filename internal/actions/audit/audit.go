package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/format"
	"github.com/pgm-community/dispatch/internal/usage"
)

var statusOrder = []domain.DispatchStatus{
	domain.StatusExecuted,
	domain.StatusPending,
	domain.StatusConfirmed,
	domain.StatusFailed,
}

// Statuses returns every dispatch status as text.
func Statuses() []string {
	out := make([]string, len(statusOrder))
	for i, s := range statusOrder {
		out[i] = string(s)
	}
	return out
}

// filter reads the shared --actor, --command, --status and --since flags.
func filter(deps Deps, inv *dispatchers.Invocation) domain.DispatchFilter {
	f := domain.DispatchFilter{
		ActorID: inv.String("actor"),
		Command: inv.String("command"),
		Status:  domain.DispatchStatus(inv.String("status")),
	}
	if since := inv.Duration("since"); since > 0 {
		t := deps.Now().Add(-since)
		f.Since = &t
	}
	return f
}

// List pages the most recent dispatches, newest first.
func List(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		f := filter(deps, inv)
		f.Limit = DefaultLimit
		if inv.Has("limit") {
			f.Limit = inv.Int("limit")
		}

		recs, err := deps.Store.ListDispatches(f)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			inv.Reply("No dispatches recorded.")
			return nil
		}

		var b strings.Builder
		for _, rec := range recs {
			b.WriteString(line(deps, rec))
			b.WriteByte('\n')
		}
		deps.Pager.Pager(b.String())
		return nil
	}
}

func line(deps Deps, rec domain.DispatchRecord) string {
	cmd := rec.Command
	if cmd == "" {
		cmd = fmt.Sprintf("%q", rec.Input)
	}
	s := fmt.Sprintf("%s  %-9s  %-12s  %s  [%s]",
		deps.Layout.DateTimeShort(rec.CreatedAt.Local()), rec.Status, rec.ActorName, cmd, shortID(rec.RequestID))
	if rec.Failure != "" {
		s += "  " + rec.Failure
		if rec.Message != "" {
			s += ": " + rec.Message
		}
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Show prints the history of one request: the dispatch and, for
// confirmed commands, the later confirmation. A unique request id prefix
// is accepted.
func Show(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		id := inv.String("request")
		recs, err := deps.Store.Request(id)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			if id, err = resolvePrefix(deps, id); err != nil {
				return err
			}
			if recs, err = deps.Store.Request(id); err != nil {
				return err
			}
		}

		now := deps.Now()
		lines := []string{fmt.Sprintf("Request %s by %s (%s)", id, recs[0].ActorName, recs[0].ActorID)}
		for _, rec := range recs {
			s := fmt.Sprintf("  %s  %s  %s (%s)",
				deps.Layout.Full(rec.CreatedAt.Local()), rec.Status, rec.Input, format.Ago(now, rec.CreatedAt))
			if rec.Message != "" {
				s += "\n    " + rec.Message
			}
			lines = append(lines, s)
		}
		inv.Reply("%s", strings.Join(lines, "\n"))
		return nil
	}
}

func resolvePrefix(deps Deps, prefix string) (string, error) {
	recs, err := deps.Store.ListDispatches(domain.DispatchFilter{})
	if err != nil {
		return "", err
	}

	var match string
	for _, rec := range recs {
		if !strings.HasPrefix(rec.RequestID, prefix) || rec.RequestID == match {
			continue
		}
		if match != "" {
			return "", usage.Message("Request id %s is ambiguous.", prefix)
		}
		match = rec.RequestID
	}
	if match == "" {
		return "", usage.Message("No request matches %s.", prefix)
	}
	return match, nil
}

// Stats counts dispatches per status.
func Stats(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		counts, err := deps.Store.CountByStatus(filter(deps, inv))
		if err != nil {
			return err
		}

		total := 0
		parts := make([]string, 0, len(statusOrder))
		for _, s := range statusOrder {
			total += counts[s]
			parts = append(parts, fmt.Sprintf("%s %d", s, counts[s]))
		}
		inv.Reply("%d dispatches: %s", total, strings.Join(parts, ", "))
		return nil
	}
}

// Prune deletes records older than the given age.
func Prune(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		age := inv.Duration("age")
		if age <= 0 {
			return usage.Message("The age must be positive.")
		}

		n, err := deps.Store.Prune(deps.Now().Add(-age))
		if err != nil {
			return err
		}
		inv.Reply("Pruned %d %s older than %s.", n, plural(n, "record"), age)
		return nil
	}
}

func plural(n int64, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
