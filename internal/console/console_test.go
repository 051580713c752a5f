package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgm-community/dispatch/internal/domain"
)

const actorsYAML = `
actors:
  - id: console
    permissions: ["*"]
  - id: alice
    name: Alice
    player: true
    team: Red
    permissions:
      - community.teleport.*
      - community.freeze
`

func TestParseActors(t *testing.T) {
	actors, err := ParseActors([]byte(actorsYAML))
	require.NoError(t, err)
	require.Equal(t, []ActorConfig{
		{ID: "console", Permissions: []string{"*"}},
		{ID: "alice", Name: "Alice", Player: true, Team: "Red", Permissions: []string{"community.teleport.*", "community.freeze"}},
	}, actors)
}

func TestParseActors_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not yaml", "actors: [", "parse actors"},
		{"empty", "actors: []", "no actors"},
		{"missing id", "actors:\n  - name: Bob", "actor 1 has no id"},
		{"duplicate", "actors:\n  - id: bob\n  - id: Bob", `duplicate actor "Bob"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseActors([]byte(tt.data))
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadActors(t *testing.T) {
	dir := t.TempDir()

	actors, err := LoadActors(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultActors(), actors)

	data, err := MarshalActors(DefaultActors())
	require.NoError(t, err)
	path := filepath.Join(dir, "actors.yaml")
	require.NoError(t, os.WriteFile(path, data, 0600))

	actors, err = LoadActors(path)
	require.NoError(t, err)
	require.Equal(t, DefaultActors(), actors)
}

func TestActorConfig_Actor(t *testing.T) {
	a := ActorConfig{ID: "console"}.Actor()
	require.Equal(t, "console", a.ID())
	require.Equal(t, "console", a.Name())
	_, isPlayer := a.(domain.Player)
	require.False(t, isPlayer)

	p := ActorConfig{ID: "alice", Name: "Alice", Player: true}.Actor()
	require.Equal(t, "Alice", p.Name())
	_, isPlayer = p.(domain.Player)
	require.True(t, isPlayer)
}

func TestHost_HasPermission(t *testing.T) {
	actors, err := ParseActors([]byte(actorsYAML))
	require.NoError(t, err)
	h := NewHost(&bytes.Buffer{}, &bytes.Buffer{}, nil, actors)

	alice, err := h.Actor("ALICE")
	require.NoError(t, err)
	operator, err := h.Actor("console")
	require.NoError(t, err)

	tests := []struct {
		actor domain.Actor
		perm  string
		want  bool
	}{
		{operator, "community.kick", true},
		{alice, "community.freeze", true},
		{alice, "community.teleport.others", true},
		{alice, "community.teleport", false},
		{alice, "community.teleportation", false},
		{alice, "community.kick", false},
		{ActorConfig{ID: "stranger"}.Actor(), "community.kick", false},
	}
	for _, tt := range tests {
		t.Run(tt.actor.ID()+" "+tt.perm, func(t *testing.T) {
			require.Equal(t, tt.want, h.HasPermission(tt.actor, tt.perm))
		})
	}

	_, err = h.Actor("bob")
	require.ErrorIs(t, err, ErrUnknownActor)
}

func TestHost_Output(t *testing.T) {
	var out, errOut bytes.Buffer
	h := NewHost(&out, &errOut, nil, DefaultActors())
	operator, err := h.Actor(OperatorID)
	require.NoError(t, err)

	h.SendMessage(operator, "hello")
	h.SendWarning(operator, "careful")
	require.Equal(t, "hello\n", out.String())
	require.Equal(t, "careful\n", errOut.String())

	var merged bytes.Buffer
	h.SetOutput(&merged)
	h.SendWarning(operator, "one")
	h.SendMessage(operator, "two")
	require.Equal(t, "one\ntwo\n", merged.String())
	require.Len(t, h.Actors(), 1)
}

func TestRunLines(t *testing.T) {
	var got []string
	submit := func(_ context.Context, line string) { got = append(got, line) }

	var out bytes.Buffer
	in := strings.NewReader("kick Bob spam\n\n  teams  \nquit\nnever\n")
	require.NoError(t, RunLines(context.Background(), in, &out, "> ", submit))
	require.Equal(t, []string{"kick Bob spam", "teams"}, got)
	require.Equal(t, strings.Repeat("> ", 4), out.String())
}

func TestRunLines_StopsAtEOFAndCancel(t *testing.T) {
	var got []string
	submit := func(_ context.Context, line string) { got = append(got, line) }

	require.NoError(t, RunLines(context.Background(), strings.NewReader("a\nb"), &bytes.Buffer{}, "", submit))
	require.Equal(t, []string{"a", "b"}, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got = nil
	require.NoError(t, RunLines(ctx, strings.NewReader("a\n"), &bytes.Buffer{}, "", submit))
	require.Empty(t, got)
}
