package dispatchers

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgm-community/dispatch/internal/input"
	"github.com/pgm-community/dispatch/internal/params"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "identical strings", a: "kick", b: "kick", want: 0},
		{name: "case insensitive", a: "KICK", b: "kick", want: 0},
		{name: "one character difference", a: "warn", b: "warns", want: 1},
		{name: "typo - transposition", a: "kick", b: "kcik", want: 2},
		{name: "typo - substitution", a: "freeze", b: "freaze", want: 1},
		{name: "completely different", a: "tp", b: "xyz123", want: 6},
		{name: "empty string a", a: "", b: "kick", want: 4},
		{name: "empty string b", a: "kick", b: "", want: 4},
		{name: "both empty", a: "", b: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, levenshtein(tt.a, tt.b))
		})
	}
}

func TestFindSimilarCommands(t *testing.T) {
	g, _ := newTestGraph(t)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "typo kcik suggests kick", input: "kcik", want: []string{"kick"}},
		{name: "alias typo counts", input: "telport", want: []string{"tp"}},
		{name: "transposed letters", input: "frezee", want: []string{"freeze"}},
		{name: "completely different returns nothing", input: "xyzxyzxyz", want: []string{}},
		{name: "exact match is not a suggestion", input: "frozenlist", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindSimilarCommands(tt.input, g.Root(), 3)
			if len(tt.want) == 0 {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}

	require.Nil(t, FindSimilarCommands("kick", nil, 3))
}

func suggest(t *testing.T, g *Graph, reg Registries, line string, visible func(*Command) bool) []string {
	t.Helper()

	cur, err := input.Tokenize(line)
	require.NoError(t, err)
	ic := params.NewContext(context.Background(), testActor{id: "steve"}, nil, cur, reg.Injectors)
	return slices.Collect(g.Suggest(ic, visible))
}

func TestGraph_Suggest(t *testing.T) {
	g, reg := newTestGraph(t)

	tests := []struct {
		line string
		want []string
	}{
		{"", []string{"kick", "warn", "mutate", "tp", "frozenlist", "community", "freeze"}},
		{"mu", []string{"mutate", "mutation"}},
		{"k", []string{"kick", "k"}},
		{"mutate ", []string{"add"}},
		{"mutate add ", []string{"blitz", "bomber", "rage"}},
		{"mutate add b", []string{"blitz", "bomber"}},
		{"tp ", []string{"Alex", "Notch", "Steve"}},
		{"tp Steve ", []string{"Alex", "Notch", "Steve"}},
		{"tp Steve Alex ", nil},
		{"community c", []string{"confirm"}},
		{"kick Steve spam -", []string{"--silent", "-s", "--off-record", "-o"}},
		{"kick Steve spam -s --", []string{"--off-record"}},
		{"mutate add rage --t", []string{"--time="}},
		{"zzz ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := suggest(t, g, reg, tt.line, nil)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestGraph_SuggestHidesInvisibleCommands(t *testing.T) {
	g, reg := newTestGraph(t)
	noKick := func(c *Command) bool { return c.Label() != "kick" }

	require.NotContains(t, suggest(t, g, reg, "", noKick), "kick")
	require.Empty(t, suggest(t, g, reg, "kick Steve spam -", noKick))

	// mutate stays visible through its subcommand.
	noMutate := func(c *Command) bool { return c.Label() != "mutate" }
	require.Contains(t, suggest(t, g, reg, "", noMutate), "mutate")
}

func TestGraph_SuggestIsRestartable(t *testing.T) {
	g, reg := newTestGraph(t)

	cur, err := input.Tokenize("tp ")
	require.NoError(t, err)
	ic := params.NewContext(context.Background(), testActor{id: "steve"}, nil, cur, reg.Injectors)

	seq := g.Suggest(ic, nil)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.Equal(t, first, second)
	require.Equal(t, 0, cur.Position())

	for s := range seq {
		require.Equal(t, "Alex", s)
		break
	}
}
