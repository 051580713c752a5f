package argtype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNamed_Normalizes(t *testing.T) {
	require.Equal(t, Named("team"), Named(" Team "))
	require.Equal(t, "team", Named("TEAM").String())
	require.False(t, Named("team").Parameterized())
}

func TestOf_KeyedByFullParameterization(t *testing.T) {
	team := Named("team")
	teams := Of("collection", team)

	require.Equal(t, "collection[team]", teams.String())
	require.True(t, teams.Parameterized())
	require.Equal(t, "collection", teams.Name())
	require.NotEqual(t, team, teams)
	require.NotEqual(t, Of("collection", Named("player")), teams)
	require.Equal(t, Of("collection", Named("team")), teams)
}

func TestType_UsableAsMapKey(t *testing.T) {
	m := map[Type]int{
		String:                      1,
		Of("optional", Named("vc")): 2,
	}
	require.Equal(t, 1, m[Named("string")])
	require.Equal(t, 2, m[Of("optional", Named("vc"))])
	require.True(t, Type{}.IsZero())
}
