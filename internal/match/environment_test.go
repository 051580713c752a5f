package match

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pgm-community/dispatch/internal/testutil"
)

func world(t *testing.T) *Environment {
	t.Helper()
	e := NewEnvironment()
	e.Join("Steve", "Red")
	e.Join("Alex", "Blue")
	e.Join("Notch", "Red")
	e.Start("m1", "Airship Battle", "Red", "Blue")
	return e
}

func TestPlayers(t *testing.T) {
	e := world(t)

	require.Equal(t, []string{"Alex", "Notch", "Steve"}, e.Players())

	p, ok := e.Player("steve")
	require.True(t, ok)
	require.Equal(t, "Steve", p.Name)
	require.Equal(t, "Red", p.Team)

	e.Leave("STEVE")
	_, ok = e.Player("Steve")
	require.False(t, ok)

	require.ErrorIs(t, e.SetMuted("Steve", true), ErrUnknownPlayer)
	require.NoError(t, e.SetMuted("Alex", true))
	p, _ = e.Player("Alex")
	require.True(t, p.Muted)
}

func TestMatchSnapshot(t *testing.T) {
	e := world(t)

	m, ok := e.Current()
	require.True(t, ok)
	require.Equal(t, "Airship Battle", m.Map)
	require.Equal(t, []Team{
		{Name: "Red", Members: []string{"Notch", "Steve"}},
		{Name: "Blue", Members: []string{"Alex"}},
	}, m.Teams)

	team, ok := e.Team("blue")
	require.True(t, ok)
	require.Equal(t, []string{"Alex"}, team.Members)

	_, ok = e.Team("green")
	require.False(t, ok)
	require.Equal(t, []string{"Red", "Blue"}, e.TeamNames())
}

func TestMatchFor(t *testing.T) {
	e := world(t)

	_, ok := e.MatchFor(testutil.NewPlayer("Steve"))
	require.True(t, ok)

	_, ok = e.MatchFor(testutil.NewPlayer("Herobrine"))
	require.False(t, ok, "offline players are in no match")

	_, ok = e.MatchFor(testutil.Actor{Ident: "console"})
	require.True(t, ok)

	_, ok = NewEnvironment().MatchFor(testutil.Actor{Ident: "console"})
	require.False(t, ok)
}

func TestMutations(t *testing.T) {
	e := world(t)

	added, err := e.AddMutation("rage")
	require.NoError(t, err)
	require.True(t, added)

	added, err = e.AddMutation("rage")
	require.NoError(t, err)
	require.False(t, added)

	_, _ = e.AddMutation("blitz")
	m, _ := e.Current()
	require.Equal(t, []Mutation{"blitz", "rage"}, m.Mutations)

	removed, err := e.RemoveMutation("fly")
	require.NoError(t, err)
	require.False(t, removed)

	require.NoError(t, e.Finish())
	_, err = e.AddMutation("fly")
	require.ErrorIs(t, err, ErrMatchFinished)

	_, err = NewEnvironment().RemoveMutation("fly")
	require.ErrorIs(t, err, ErrNoMatch)
}

func TestFrozen(t *testing.T) {
	e := world(t)

	e.SetFrozen("steve", true)
	e.SetFrozen("Ghost", true)
	require.True(t, e.IsFrozen("Steve"))

	online, offline := e.Frozen()
	require.Equal(t, []string{"Steve"}, online)
	require.Equal(t, []string{"ghost"}, offline)

	e.SetFrozen("Steve", false)
	require.False(t, e.IsFrozen("steve"))
}

func TestTeleport(t *testing.T) {
	e := world(t)
	dest := Location{X: 10, Y: 64, Z: -3}

	require.NoError(t, e.TeleportTo(dest, "Alex"))
	require.NoError(t, e.Teleport("Alex", "Steve", "Notch"))

	for _, name := range []string{"Steve", "Notch"} {
		p, _ := e.Player(name)
		require.Equal(t, dest, p.Location)
	}

	err := e.Teleport("Alex", "Steve", "Ghost")
	require.ErrorIs(t, err, ErrUnknownPlayer)

	require.Equal(t, "10.0, 64.0, -3.0", dest.String())
}

func TestPunish(t *testing.T) {
	e := world(t)

	e.Punish(Punishment{Type: PunishmentWarn, Target: "Steve", Issuer: "console", Reason: "spam"})
	e.Punish(Punishment{Type: PunishmentKick, Target: "steve", Issuer: "console", Reason: "grief"})

	got := e.Punishments("STEVE")
	require.Len(t, got, 2)
	require.Equal(t, PunishmentWarn, got[0].Type)
	require.False(t, got[1].At.IsZero())

	_, online := e.Player("Steve")
	require.False(t, online, "kicked players go offline")
	require.Len(t, e.Punishments(""), 2)

	e.Punish(Punishment{Type: PunishmentKick, Target: "Alex", Issuer: "console", OffRecord: true})
	_, online = e.Player("Alex")
	require.False(t, online)
	require.Empty(t, e.Punishments("Alex"))
}

func TestRequestAssist(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := NewEnvironment(
		WithClock(func() time.Time { return now }),
		WithAssistCooldown(time.Minute),
	)

	require.NoError(t, e.RequestAssist("Steve", "stuck"))

	now = now.Add(20 * time.Second)
	err := e.RequestAssist("steve", "still stuck")
	var cd *CooldownError
	require.True(t, errors.As(err, &cd))
	require.Equal(t, 40*time.Second, cd.Remaining)

	require.NoError(t, e.RequestAssist("Alex", "help"))

	now = now.Add(40 * time.Second)
	require.NoError(t, e.RequestAssist("Steve", "stuck again"))
	require.Len(t, e.Assists(), 3)
}
