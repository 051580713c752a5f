package dispatchers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/params"
)

func TestBuilder(t *testing.T) {
	b := NewCommand("kick|k").
		Describe("Kick a player").
		Permission("community.kick").
		Arg("target", argtype.String).
		Flag("silent", "s").
		ValueFlag("time", argtype.Duration).
		Confirm().
		PlayerOnly().
		Category(CategoryModeration).
		Handler(noop)

	spec := b.Build()
	require.Equal(t, "kick|k", spec.Path)
	require.Equal(t, "Kick a player", spec.Description)
	require.Equal(t, "community.kick", spec.Permission)
	require.True(t, spec.Confirm)
	require.True(t, spec.PlayerOnly)
	require.Equal(t, CategoryModeration, spec.Category)
	require.NotNil(t, spec.Handler)
	require.Len(t, spec.Params, 3)

	silent := spec.Params[1]
	require.True(t, silent.Flag)
	require.True(t, silent.IsBoolFlag())
	require.Equal(t, []string{"s"}, silent.Aliases)

	timeFlag := spec.Params[2]
	require.True(t, timeFlag.Flag)
	require.False(t, timeFlag.IsBoolFlag())

	// Later builder calls do not leak into built specs.
	b.Arg("extra", argtype.String, params.Optional(""))
	require.Len(t, spec.Params, 3)
}

func TestCommand_Matches(t *testing.T) {
	g, _ := newTestGraph(t)
	cmd := g.Find("mutate", "add")

	require.True(t, cmd.Matches([]string{"mutation", "ADD"}))
	require.False(t, cmd.Matches([]string{"mutate"}))
	require.False(t, cmd.Matches([]string{"mutate", "remove"}))
	require.Equal(t, [][]string{{"mutate", "mutation", "mt"}, {"add"}}, cmd.Aliases())
	require.Len(t, cmd.Flags(), 1)
	require.Same(t, cmd, cmd.Node().Command)
}
