package testutil

import (
	"sync"

	"github.com/pgm-community/dispatch/internal/domain"
)

// Actor is a plain non-player actor.
type Actor struct {
	Ident string
	Label string
}

func (a Actor) ID() string { return a.Ident }

func (a Actor) Name() string {
	if a.Label == "" {
		return a.Ident
	}
	return a.Label
}

// Player is an actor with the in-game capability.
type Player struct{ Actor }

func (Player) Player() {}

// NewPlayer returns a player whose id and name are both name.
func NewPlayer(name string) Player {
	return Player{Actor{Ident: name, Label: name}}
}

// Sent is one message delivered through a RecordingHost.
type Sent struct {
	ActorID string
	Text    string
}

// RecordingHost is a domain.Host that grants permissions from a set and
// keeps everything it is asked to send.
type RecordingHost struct {
	mu       sync.Mutex
	grants   map[string]map[string]bool
	allowAll bool
	warnings []Sent
	messages []Sent
}

// NewRecordingHost returns a host that denies every permission until
// Grant or AllowAll is called.
func NewRecordingHost() *RecordingHost {
	return &RecordingHost{grants: make(map[string]map[string]bool)}
}

// Grant gives actorID the listed permissions.
func (h *RecordingHost) Grant(actorID string, perms ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.grants[actorID] == nil {
		h.grants[actorID] = make(map[string]bool)
	}
	for _, p := range perms {
		h.grants[actorID][p] = true
	}
}

// AllowAll makes every permission check pass.
func (h *RecordingHost) AllowAll() {
	h.mu.Lock()
	h.allowAll = true
	h.mu.Unlock()
}

func (h *RecordingHost) HasPermission(actor domain.Actor, permission string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.allowAll || h.grants[actor.ID()][permission]
}

func (h *RecordingHost) SendWarning(actor domain.Actor, message string) {
	h.mu.Lock()
	h.warnings = append(h.warnings, Sent{ActorID: actor.ID(), Text: message})
	h.mu.Unlock()
}

func (h *RecordingHost) SendMessage(actor domain.Actor, message string) {
	h.mu.Lock()
	h.messages = append(h.messages, Sent{ActorID: actor.ID(), Text: message})
	h.mu.Unlock()
}

// Warnings returns a copy of the warnings sent so far.
func (h *RecordingHost) Warnings() []Sent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Sent(nil), h.warnings...)
}

// Messages returns a copy of the messages sent so far.
func (h *RecordingHost) Messages() []Sent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Sent(nil), h.messages...)
}

// Texts returns only the text of sent, nil when nothing was sent.
func Texts(sent []Sent) []string {
	if len(sent) == 0 {
		return nil
	}
	out := make([]string, len(sent))
	for i, s := range sent {
		out[i] = s.Text
	}
	return out
}

// Reset forgets everything sent.
func (h *RecordingHost) Reset() {
	h.mu.Lock()
	h.warnings = nil
	h.messages = nil
	h.mu.Unlock()
}

var _ domain.Host = (*RecordingHost)(nil)
