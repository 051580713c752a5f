// Package confirm holds commands waiting for their actor to confirm them.
//
// Each actor has at most one pending entry. A new request replaces the
// previous one, a confirmation runs and removes it, and entries older than
// the TTL are discarded the next time they are looked at. Run adds an
// optional background sweep on top of that.
package confirm

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/log"
	"github.com/pgm-community/dispatch/internal/usage"
)

// DefaultTTL is how long a pending entry stays valid.
const DefaultTTL = 30 * time.Second

// Action is the deferred invocation run on confirmation.
type Action func(ctx context.Context) error

// Pending describes one entry. The action itself is not exposed.
type Pending struct {
	ID        uuid.UUID
	ActorID   string
	Label     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type entry struct {
	Pending
	action Action
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithLogger(l domain.Logger) Option {
	return func(m *Manager) {
		m.logger = log.OrNop(l)
	}
}

// Manager is the only state shared between requests. Every
// read-check-act sequence on an actor's entry happens under mu.
type Manager struct {
	mu      sync.Mutex
	pending map[string]*entry
	ttl     time.Duration
	now     func() time.Time
	logger  domain.Logger
}

// New creates an empty manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		pending: make(map[string]*entry),
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  log.NopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the validity window of new entries.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Request stores action as the actor's pending entry. It reports whether
// an earlier live entry was superseded; that entry is dropped silently.
func (m *Manager) Request(actorID, label string, action Action) (Pending, bool) {
	now := m.now()
	e := &entry{
		Pending: Pending{
			ID:        uuid.New(),
			ActorID:   actorID,
			Label:     label,
			CreatedAt: now,
			ExpiresAt: now.Add(m.ttl),
		},
		action: action,
	}

	m.mu.Lock()
	prev, had := m.pending[actorID]
	superseded := had && now.Before(prev.ExpiresAt)
	m.pending[actorID] = e
	m.mu.Unlock()

	if superseded {
		m.logger.Debug("confirm: %s superseded %s (%s)", label, prev.Label, actorID)
	}
	return e.Pending, superseded
}

// Confirm removes the actor's live entry and runs its action. The entry is
// taken under the lock, so of two racing confirmations exactly one runs
// the action and the other gets a no-pending failure. The action runs
// outside the lock and its error is returned unchanged.
func (m *Manager) Confirm(ctx context.Context, actorID string) (Pending, error) {
	m.mu.Lock()
	e, ok := m.take(actorID)
	m.mu.Unlock()

	if !ok {
		return Pending{}, usage.NoPending()
	}

	m.logger.Debug("confirm: running %s for %s", e.Label, actorID)
	return e.Pending, e.action(ctx)
}

// Lookup returns the actor's live entry without consuming it.
func (m *Manager) Lookup(actorID string) (Pending, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(actorID)
	if !ok {
		return Pending{}, false
	}
	return e.Pending, true
}

// Cancel drops the actor's entry. It reports whether a live one existed.
func (m *Manager) Cancel(actorID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.take(actorID)
	return ok
}

// Len returns the number of stored entries, expired ones included until
// they are swept or looked up.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Sweep discards every expired entry and returns how many it removed.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.pending {
		if !now.Before(e.ExpiresAt) {
			delete(m.pending, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("confirm: swept %d expired entries", n)
			}
		}
	}
}

// live returns the actor's entry, discarding it when expired. mu must be
// held.
func (m *Manager) live(actorID string) (*entry, bool) {
	e, ok := m.pending[actorID]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.ExpiresAt) {
		delete(m.pending, actorID)
		m.logger.Debug("confirm: %s expired for %s", e.Label, actorID)
		return nil, false
	}
	return e, true
}

// take removes and returns the actor's live entry. mu must be held.
func (m *Manager) take(actorID string) (*entry, bool) {
	e, ok := m.live(actorID)
	if ok {
		delete(m.pending, actorID)
	}
	return e, ok
}
