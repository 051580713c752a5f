package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/ui/style"
)

// Host is a domain.Host for a terminal. Messages go to out and warnings
// to errOut, one line each.
type Host struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	styler domain.Styler

	actors map[string]ActorConfig
	order  []string
}

// NewHost returns a host for actors writing to out and errOut.
func NewHost(out, errOut io.Writer, styler domain.Styler, actors []ActorConfig) *Host {
	if styler == nil {
		styler = style.NopStyler{}
	}
	h := &Host{
		out:    out,
		errOut: errOut,
		styler: styler,
		actors: make(map[string]ActorConfig, len(actors)),
	}
	for _, a := range actors {
		key := strings.ToLower(a.ID)
		h.actors[key] = a
		h.order = append(h.order, key)
	}
	return h
}

// SetOutput redirects both streams to w.
func (h *Host) SetOutput(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.out = w
	h.errOut = w
}

// Actor looks up an actor by id, case-insensitively.
func (h *Host) Actor(id string) (domain.Actor, error) {
	a, ok := h.actors[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownActor, id)
	}
	return a.Actor(), nil
}

// Actors returns the configured actors in file order.
func (h *Host) Actors() []ActorConfig {
	out := make([]ActorConfig, 0, len(h.order))
	for _, key := range h.order {
		out = append(out, h.actors[key])
	}
	return out
}

// HasPermission grants exact permissions, "*" and trailing wildcards
// such as "community.teleport.*".
func (h *Host) HasPermission(actor domain.Actor, permission string) bool {
	a, ok := h.actors[strings.ToLower(actor.ID())]
	if !ok {
		return false
	}
	for _, p := range a.Permissions {
		if grants(p, permission) {
			return true
		}
	}
	return false
}

func grants(granted, permission string) bool {
	if granted == "*" || strings.EqualFold(granted, permission) {
		return true
	}
	prefix, ok := strings.CutSuffix(granted, ".*")
	return ok && len(permission) > len(prefix) &&
		strings.EqualFold(permission[:len(prefix)+1], prefix+".")
}

func (h *Host) SendWarning(_ domain.Actor, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintln(h.errOut, h.styler.Warning(message))
}

func (h *Host) SendMessage(_ domain.Actor, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintln(h.out, message)
}

var _ domain.Host = (*Host)(nil)
