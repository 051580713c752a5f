// Package prompt is the interactive command line: a single text input with
// live suggestions computed off the UI goroutine.
package prompt

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/ui/style"
)

// maxShown caps the candidates listed under the input.
const maxShown = 6

// Suggester computes suggestions asynchronously. The channel yields at
// most one result.
type Suggester interface {
	SuggestAsync(ctx context.Context, actor domain.Actor, line string) <-chan []string
}

// Config wires the prompt to an engine and actor.
type Config struct {
	Actor     domain.Actor
	Suggester Suggester
	// Submit runs one entered line. It is called off the UI goroutine.
	Submit func(ctx context.Context, line string)
	Prompt string
	Styler domain.Styler
}

type keyMap struct {
	Submit key.Binding
	Quit   key.Binding
	EOF    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit: key.NewBinding(key.WithKeys("enter")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
		EOF:    key.NewBinding(key.WithKeys("ctrl+d")),
	}
}

type (
	suggestionsMsg struct {
		line  string
		items []string
	}
	outputMsg    string
	submittedMsg struct{ line string }
)

type model struct {
	ctx        context.Context
	cfg        Config
	keys       keyMap
	input      textinput.Model
	candidates []string
	quitting   bool
}

func newModel(ctx context.Context, cfg Config) model {
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}
	if cfg.Styler == nil {
		cfg.Styler = style.NopStyler{}
	}

	in := textinput.New()
	in.Prompt = cfg.Prompt
	in.Placeholder = "type a command, tab completes"
	in.ShowSuggestions = true
	in.Focus()

	return model{ctx: ctx, cfg: cfg, keys: defaultKeys(), input: in}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.suggest(""))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.EOF) && m.input.Value() == "":
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			m.candidates = nil
			return m, tea.Batch(cmd, m.suggest(after))
		}
		return m, cmd

	case suggestionsMsg:
		if msg.line != m.input.Value() {
			return m, nil
		}
		m.candidates = complete(msg.line, msg.items)
		m.input.SetSuggestions(m.candidates)
		return m, nil

	case outputMsg:
		return m, tea.Println(string(msg))

	case submittedMsg:
		return m, m.suggest(m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	m.input.SetSuggestions(nil)
	m.candidates = nil

	switch strings.TrimSpace(line) {
	case "":
		return m, nil
	case "exit", "quit":
		m.quitting = true
		return m, tea.Quit
	}

	echo := m.cfg.Styler.Muted(m.cfg.Prompt + line)
	return m, tea.Sequence(tea.Println(echo), m.run(line))
}

func (m model) run(line string) tea.Cmd {
	return func() tea.Msg {
		if m.cfg.Submit != nil {
			m.cfg.Submit(m.ctx, line)
		}
		return submittedMsg{line: line}
	}
}

func (m model) suggest(line string) tea.Cmd {
	if m.cfg.Suggester == nil {
		return nil
	}
	ch := m.cfg.Suggester.SuggestAsync(m.ctx, m.cfg.Actor, line)
	return func() tea.Msg {
		items, ok := <-ch
		if !ok {
			return nil
		}
		return suggestionsMsg{line: line, items: items}
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())

	shown := m.candidates
	if len(shown) > maxShown {
		shown = shown[:maxShown]
	}
	if len(shown) > 0 {
		words := make([]string, len(shown))
		for i, c := range shown {
			words[i] = lastToken(c)
		}
		b.WriteString("\n")
		b.WriteString(m.cfg.Styler.Muted(strings.Join(words, "  ")))
		if extra := len(m.candidates) - len(shown); extra > 0 {
			b.WriteString(m.cfg.Styler.Muted("  (+" + strconv.Itoa(extra) + ")"))
		}
	}
	return b.String()
}

// complete turns last-token candidates into whole-line completions.
func complete(line string, items []string) []string {
	if len(items) == 0 {
		return nil
	}
	head := line[:strings.LastIndexByte(line, ' ')+1]
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, head+it)
	}
	return out
}

func lastToken(line string) string {
	return line[strings.LastIndexByte(line, ' ')+1:]
}

// Prompt is a running interactive command line.
type Prompt struct {
	program *tea.Program
}

// New builds a prompt. Call Run to start it.
func New(ctx context.Context, cfg Config) *Prompt {
	return &Prompt{program: tea.NewProgram(newModel(ctx, cfg), tea.WithContext(ctx))}
}

// Run blocks until the user quits or ctx ends.
func (p *Prompt) Run() error {
	_, err := p.program.Run()
	return err
}

// Writer returns an io.Writer that prints above the input line. Writes
// after the prompt has exited are dropped.
func (p *Prompt) Writer() *Printer {
	return &Printer{program: p.program}
}

// Printer forwards writes to a running prompt.
type Printer struct {
	program *tea.Program
}

func (w *Printer) Write(b []byte) (int, error) {
	w.program.Send(outputMsg(strings.TrimRight(string(b), "\n")))
	return len(b), nil
}
