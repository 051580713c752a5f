// Package match holds the in-memory game state the feature commands act
// on: online players, the current match with its teams and mutations, the
// frozen set, punishments and assistance requests.
package match

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pgm-community/dispatch/internal/domain"
)

// DefaultAssistCooldown separates two assistance requests of one player.
const DefaultAssistCooldown = 60 * time.Second

var (
	ErrNoMatch       = errors.New("match: no match is running")
	ErrMatchFinished = errors.New("match: match has finished")
	ErrUnknownPlayer = errors.New("match: player is not online")
	ErrUnknownTeam   = errors.New("match: no such team")
)

// Location is a point in the world.
type Location struct {
	X, Y, Z float64
}

func (l Location) String() string {
	return fmt.Sprintf("%.1f, %.1f, %.1f", l.X, l.Y, l.Z)
}

// Player is a snapshot of an online player.
type Player struct {
	Name     string
	Team     string
	Location Location
	Muted    bool
}

// Team is a snapshot of one team and its members.
type Team struct {
	Name    string
	Members []string
}

// Mutation is a gameplay modifier applied to a match.
type Mutation string

// MutationTypes lists the mutations a match accepts.
var MutationTypes = []Mutation{
	"blitz",
	"bomber",
	"explosion",
	"fly",
	"health",
	"jump",
	"potion",
	"rage",
}

// Match is a snapshot of the running match.
type Match struct {
	ID        string
	Map       string
	Finished  bool
	Teams     []Team
	Mutations []Mutation
}

// PunishmentType names a moderation action.
type PunishmentType string

const (
	PunishmentKick PunishmentType = "kick"
	PunishmentWarn PunishmentType = "warn"
)

// Punishment is one recorded moderation action.
type Punishment struct {
	Type      PunishmentType
	Target    string
	Issuer    string
	Reason    string
	Silent    bool
	OffRecord bool
	At        time.Time
}

// Assist is one help request sent to staff.
type Assist struct {
	Player string
	Reason string
	At     time.Time
}

// CooldownError reports an assistance request made too soon.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("match: assistance on cooldown for %s", e.Remaining.Round(time.Second))
}

type matchState struct {
	id        string
	mapName   string
	finished  bool
	teams     []string
	mutations map[Mutation]bool
}

// Environment is the mutable world. It is safe for concurrent use; every
// accessor returns a copy.
type Environment struct {
	mu          sync.RWMutex
	players     map[string]*Player
	match       *matchState
	frozen      map[string]bool
	punishments []Punishment
	assists     []Assist
	cooldown    time.Duration
	now         func() time.Time
}

// Option configures an Environment.
type Option func(*Environment)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Environment) { e.now = now }
}

// WithAssistCooldown sets the delay between assistance requests.
func WithAssistCooldown(d time.Duration) Option {
	return func(e *Environment) { e.cooldown = d }
}

// NewEnvironment returns an empty world with no match running.
func NewEnvironment(opts ...Option) *Environment {
	e := &Environment{
		players:  make(map[string]*Player),
		frozen:   make(map[string]bool),
		cooldown: DefaultAssistCooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func norm(name string) string { return strings.ToLower(name) }

// Join brings a player online, optionally on a team.
func (e *Environment) Join(name, team string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.players[norm(name)] = &Player{Name: name, Team: team}
}

// Leave takes a player offline. Their frozen state is kept.
func (e *Environment) Leave(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.players, norm(name))
}

// Player looks up an online player case-insensitively.
func (e *Environment) Player(name string) (Player, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.players[norm(name)]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Players returns the names of online players, sorted.
func (e *Environment) Players() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.players))
	for _, p := range e.players {
		names = append(names, p.Name)
	}
	slices.SortFunc(names, func(a, b string) int { return cmp.Compare(norm(a), norm(b)) })
	return names
}

// SetMuted marks a player as muted or not.
func (e *Environment) SetMuted(name string, muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.players[norm(name)]
	if !ok {
		return ErrUnknownPlayer
	}
	p.Muted = muted
	return nil
}

// Start begins a new match on mapName with the given teams, replacing
// any previous one.
func (e *Environment) Start(id, mapName string, teams ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.match = &matchState{
		id:        id,
		mapName:   mapName,
		teams:     slices.Clone(teams),
		mutations: make(map[Mutation]bool),
	}
}

// Finish marks the current match as finished.
func (e *Environment) Finish() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match == nil {
		return ErrNoMatch
	}
	e.match.finished = true
	return nil
}

// Current returns the running match, finished or not.
func (e *Environment) Current() (Match, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.match == nil {
		return Match{}, false
	}
	return e.snapshot(), true
}

// MatchFor returns the match actor takes part in. Players must be online;
// other actors observe the current match.
func (e *Environment) MatchFor(actor domain.Actor) (Match, bool) {
	if _, isPlayer := actor.(domain.Player); isPlayer {
		if _, online := e.Player(actor.Name()); !online {
			return Match{}, false
		}
	}
	return e.Current()
}

func (e *Environment) snapshot() Match {
	m := Match{
		ID:       e.match.id,
		Map:      e.match.mapName,
		Finished: e.match.finished,
	}
	for _, name := range e.match.teams {
		m.Teams = append(m.Teams, e.team(name))
	}
	for _, mt := range MutationTypes {
		if e.match.mutations[mt] {
			m.Mutations = append(m.Mutations, mt)
		}
	}
	return m
}

func (e *Environment) team(name string) Team {
	t := Team{Name: name}
	for _, p := range e.players {
		if strings.EqualFold(p.Team, name) {
			t.Members = append(t.Members, p.Name)
		}
	}
	slices.Sort(t.Members)
	return t
}

// Team looks up a team of the current match case-insensitively.
func (e *Environment) Team(name string) (Team, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.match == nil {
		return Team{}, false
	}
	for _, t := range e.match.teams {
		if strings.EqualFold(t, name) {
			return e.team(t), true
		}
	}
	return Team{}, false
}

// TeamNames returns the team names of the current match.
func (e *Environment) TeamNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.match == nil {
		return nil
	}
	return slices.Clone(e.match.teams)
}

func (e *Environment) adjustable() error {
	if e.match == nil {
		return ErrNoMatch
	}
	if e.match.finished {
		return ErrMatchFinished
	}
	return nil
}

// AddMutation enables m. It reports false when m was already active.
func (e *Environment) AddMutation(m Mutation) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.adjustable(); err != nil {
		return false, err
	}
	if e.match.mutations[m] {
		return false, nil
	}
	e.match.mutations[m] = true
	return true, nil
}

// RemoveMutation disables m. It reports false when m was not active.
func (e *Environment) RemoveMutation(m Mutation) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.adjustable(); err != nil {
		return false, err
	}
	if !e.match.mutations[m] {
		return false, nil
	}
	delete(e.match.mutations, m)
	return true, nil
}

// SetFrozen freezes or thaws name. Offline players can be frozen too.
func (e *Environment) SetFrozen(name string, frozen bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if frozen {
		e.frozen[norm(name)] = true
	} else {
		delete(e.frozen, norm(name))
	}
}

// IsFrozen reports whether name is frozen.
func (e *Environment) IsFrozen(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.frozen[norm(name)]
}

// Frozen splits the frozen players into online display names and offline
// lowercase names, both sorted.
func (e *Environment) Frozen() (online, offline []string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for name := range e.frozen {
		if p, ok := e.players[name]; ok {
			online = append(online, p.Name)
		} else {
			offline = append(offline, name)
		}
	}
	slices.Sort(online)
	slices.Sort(offline)
	return online, offline
}

// Teleport moves each of who to the location of target.
func (e *Environment) Teleport(target string, who ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	to, ok := e.players[norm(target)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, target)
	}
	return e.moveLocked(to.Location, who)
}

// TeleportTo moves each of who to loc.
func (e *Environment) TeleportTo(loc Location, who ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveLocked(loc, who)
}

func (e *Environment) moveLocked(loc Location, who []string) error {
	moving := make([]*Player, 0, len(who))
	for _, name := range who {
		p, ok := e.players[norm(name)]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
		}
		moving = append(moving, p)
	}
	for _, p := range moving {
		p.Location = loc
	}
	return nil
}

// Punish applies a moderation action. Kicked players go offline. Actions
// taken off the record are applied but not kept in the history.
func (e *Environment) Punish(p Punishment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p.At.IsZero() {
		p.At = e.now()
	}
	if p.Type == PunishmentKick {
		delete(e.players, norm(p.Target))
	}
	if !p.OffRecord {
		e.punishments = append(e.punishments, p)
	}
}

// Punishments returns the actions recorded against target, oldest first.
// An empty target returns all of them.
func (e *Environment) Punishments(target string) []Punishment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []Punishment
	for _, p := range e.punishments {
		if target == "" || strings.EqualFold(p.Target, target) {
			out = append(out, p)
		}
	}
	return out
}

// RequestAssist records a help request unless the player is still on
// cooldown, in which case a *CooldownError is returned.
func (e *Environment) RequestAssist(player, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	for i := len(e.assists) - 1; i >= 0; i-- {
		a := e.assists[i]
		if !strings.EqualFold(a.Player, player) {
			continue
		}
		if wait := a.At.Add(e.cooldown).Sub(now); wait > 0 {
			return &CooldownError{Remaining: wait}
		}
		break
	}
	e.assists = append(e.assists, Assist{Player: player, Reason: reason, At: now})
	return nil
}

// Assists returns every help request, oldest first.
func (e *Environment) Assists() []Assist {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.assists)
}
