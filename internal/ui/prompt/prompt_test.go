package prompt

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/testutil"
)

type fakeSuggester struct {
	mu    sync.Mutex
	lines []string
	items map[string][]string
}

func (f *fakeSuggester) SuggestAsync(_ context.Context, _ domain.Actor, line string) <-chan []string {
	f.mu.Lock()
	f.lines = append(f.lines, line)
	f.mu.Unlock()

	out := make(chan []string, 1)
	if items, ok := f.items[line]; ok {
		out <- items
	}
	close(out)
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(s Suggester, submit func(context.Context, string)) model {
	return newModel(context.Background(), Config{
		Actor:     testutil.Actor{Ident: "console"},
		Suggester: s,
		Submit:    submit,
	})
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		items []string
		want  []string
	}{
		{"first token", "ki", []string{"kick"}, []string{"kick"}},
		{"after space", "kick ", []string{"Steve", "Alex"}, []string{"kick Steve", "kick Alex"}},
		{"partial argument", "kick St", []string{"Steve"}, []string{"kick Steve"}},
		{"nothing", "kick", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, complete(tt.line, tt.items))
		})
	}
}

func TestTypingRequestsSuggestions(t *testing.T) {
	s := &fakeSuggester{items: map[string][]string{"k": {"kick", "k"}}}
	m := newTestModel(s, nil)

	next, cmd := m.Update(runes("k"))
	m = next.(model)
	require.Equal(t, "k", m.input.Value())
	require.NotNil(t, cmd)

	next, _ = m.Update(suggestionsMsg{line: "k", items: []string{"kick", "k"}})
	m = next.(model)
	require.Equal(t, []string{"kick", "k"}, m.candidates)
	require.Contains(t, m.View(), "kick")

	s.mu.Lock()
	require.Contains(t, s.lines, "k")
	s.mu.Unlock()
}

func TestStaleSuggestionsIgnored(t *testing.T) {
	m := newTestModel(&fakeSuggester{}, nil)
	m.input.SetValue("kick")

	next, _ := m.Update(suggestionsMsg{line: "ki", items: []string{"kick"}})
	require.Empty(t, next.(model).candidates)
}

func TestSuggestCmd(t *testing.T) {
	s := &fakeSuggester{items: map[string][]string{"tp ": {"Steve"}}}
	m := newTestModel(s, nil)

	msg := m.suggest("tp ")()
	require.Equal(t, suggestionsMsg{line: "tp ", items: []string{"Steve"}}, msg)

	require.Nil(t, m.suggest("throttled")())
}

func TestSubmit(t *testing.T) {
	var got []string
	m := newTestModel(nil, func(_ context.Context, line string) {
		got = append(got, line)
	})
	m.input.SetValue("kick Steve")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.Empty(t, m.input.Value())
	require.NotNil(t, cmd)

	require.Equal(t, submittedMsg{line: "kick Steve"}, m.run("kick Steve")())
	require.Equal(t, []string{"kick Steve"}, got)
}

func TestSubmitEmptyDoesNothing(t *testing.T) {
	m := newTestModel(nil, func(context.Context, string) { t.Fatal("unexpected submit") })
	m.input.SetValue("   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
}

func TestQuit(t *testing.T) {
	tests := []struct {
		name  string
		value string
		msg   tea.KeyMsg
	}{
		{"ctrl+c", "kick", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"ctrl+d on empty line", "", tea.KeyMsg{Type: tea.KeyCtrlD}},
		{"exit", "exit", tea.KeyMsg{Type: tea.KeyEnter}},
		{"quit", " quit ", tea.KeyMsg{Type: tea.KeyEnter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(nil, nil)
			m.input.SetValue(tt.value)

			next, cmd := m.Update(tt.msg)
			require.True(t, next.(model).quitting)
			require.NotNil(t, cmd)
			require.Equal(t, tea.QuitMsg{}, cmd())
			require.Empty(t, next.(model).View())
		})
	}
}

func TestOutputPrintsAboveInput(t *testing.T) {
	m := newTestModel(nil, nil)
	_, cmd := m.Update(outputMsg("hello"))
	require.NotNil(t, cmd)
}

func TestViewCapsCandidates(t *testing.T) {
	m := newTestModel(nil, nil)
	m.input.SetValue("x ")
	next, _ := m.Update(suggestionsMsg{
		line:  "x ",
		items: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
	})

	view := next.(model).View()
	require.Contains(t, view, "a  b  c  d  e  f")
	require.Contains(t, view, "(+2)")
}
