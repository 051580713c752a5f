// Package style provides semantic terminal styling using lipgloss.
//
// This package is the only place where lipgloss is imported. All styling
// is semantic (Success, Warning, Error, etc.) rather than visual (RedBold, etc.).
//
// When disabled, all helpers return the input string unchanged with no ANSI codes.
package style

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/pgm-community/dispatch/internal/domain"
)

// ColorConfig holds the color of each semantic role.
// Values are ANSI color numbers (0-255) or "bold".
type ColorConfig struct {
	Success string
	Warning string
	Error   string
	Info    string
	Muted   string
	Header  string
}

// Themes contains the built-in color themes.
// Dark themes use bright colors, light themes use dark ones.
var Themes = map[string]ColorConfig{
	"default-dark": {
		Success: "10",  // bright green
		Warning: "11",  // bright yellow
		Error:   "9",   // bright red
		Info:    "14",  // bright cyan
		Muted:   "245", // medium gray
		Header:  "bold",
	},
	"default-light": {
		Success: "28",  // dark green
		Warning: "130", // dark orange
		Error:   "124", // dark red
		Info:    "27",  // dark blue
		Muted:   "243", // medium-dark gray
		Header:  "bold",
	},
	"mono-dark": {
		Success: "255",
		Warning: "252",
		Error:   "bold",
		Info:    "250",
		Muted:   "242",
		Header:  "bold",
	},
	"mono-light": {
		Success: "232",
		Warning: "236",
		Error:   "bold",
		Info:    "238",
		Muted:   "245",
		Header:  "bold",
	},
	"contrast-dark": {
		Success: "46",
		Warning: "226",
		Error:   "196",
		Info:    "51",
		Muted:   "250",
		Header:  "bold",
	},
	"contrast-light": {
		Success: "22",
		Warning: "94",
		Error:   "88",
		Info:    "18",
		Muted:   "238",
		Header:  "bold",
	},
}

// ThemeNames returns every accepted theme name: the base names, which
// follow the terminal background, then the explicit variants.
func ThemeNames() []string {
	var bases, variants []string
	seen := make(map[string]bool)
	for name := range Themes {
		variants = append(variants, name)
		base := strings.TrimSuffix(strings.TrimSuffix(name, "-dark"), "-light")
		if !seen[base] {
			seen[base] = true
			bases = append(bases, base)
		}
	}
	sort.Strings(bases)
	sort.Strings(variants)
	return append(bases, variants...)
}

// colorKeys maps override keys to roles. Overrides come from the config
// map or COMMUNITY_COLOR_* variables, the environment winning.
var colorKeys = []struct {
	key string
	set func(*ColorConfig, string)
}{
	{"color_success", func(c *ColorConfig, v string) { c.Success = v }},
	{"color_warning", func(c *ColorConfig, v string) { c.Warning = v }},
	{"color_error", func(c *ColorConfig, v string) { c.Error = v }},
	{"color_info", func(c *ColorConfig, v string) { c.Info = v }},
	{"color_muted", func(c *ColorConfig, v string) { c.Muted = v }},
	{"color_header", func(c *ColorConfig, v string) { c.Header = v }},
}

// Disabled reports whether NO_COLOR or COMMUNITY_NO_COLOR is set.
func Disabled() bool {
	return os.Getenv("NO_COLOR") != "" || os.Getenv("COMMUNITY_NO_COLOR") != ""
}

// IsDarkBackground reports whether the terminal has a dark background.
// It assumes dark when detection fails.
func IsDarkBackground() bool {
	return termenv.HasDarkBackground()
}

// ResolveThemeName appends -dark or -light to a base theme name based on
// the terminal background. Names that already carry a suffix are kept.
func ResolveThemeName(name string) string {
	if name == "" {
		name = "default"
	}
	if strings.HasSuffix(name, "-dark") || strings.HasSuffix(name, "-light") {
		return name
	}
	if IsDarkBackground() {
		return name + "-dark"
	}
	return name + "-light"
}

// LoadColorConfig resolves theme (falling back to default-dark) and
// applies per-role overrides from cfg and the environment.
func LoadColorConfig(theme string, cfg map[string]string) ColorConfig {
	if env := os.Getenv("COMMUNITY_COLOR_THEME"); env != "" {
		theme = env
	}

	result, ok := Themes[ResolveThemeName(theme)]
	if !ok {
		result = Themes["default-dark"]
	}

	for _, k := range colorKeys {
		if v := os.Getenv("COMMUNITY_" + strings.ToUpper(k.key)); v != "" {
			k.set(&result, v)
			continue
		}
		if v := cfg[k.key]; v != "" {
			k.set(&result, v)
		}
	}
	return result
}

// Styler implements domain.Styler with lipgloss.
type Styler struct {
	enabled bool
	colors  ColorConfig

	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
}

// New returns a Styler for theme. It is disabled when enable is false or
// NO_COLOR / COMMUNITY_NO_COLOR is set.
func New(enable bool, theme string, cfg map[string]string) *Styler {
	if !enable || Disabled() {
		return &Styler{}
	}
	return NewWithColors(LoadColorConfig(theme, cfg), os.Stdout)
}

// NewWithColors returns an enabled Styler rendering colors for w.
func NewWithColors(colors ColorConfig, w io.Writer) *Styler {
	// ANSI256 regardless of TTY detection; the caller already decided.
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)

	makeStyle := func(value string) lipgloss.Style {
		if value == "bold" {
			return r.NewStyle().Bold(true)
		}
		return r.NewStyle().Foreground(lipgloss.Color(value))
	}

	return &Styler{
		enabled: true,
		colors:  colors,
		success: makeStyle(colors.Success),
		warning: makeStyle(colors.Warning),
		err:     makeStyle(colors.Error),
		info:    makeStyle(colors.Info),
		muted:   makeStyle(colors.Muted),
		header:  makeStyle(colors.Header),
	}
}

// Colors returns the active colors, empty when disabled.
func (s *Styler) Colors() ColorConfig { return s.colors }

func (s *Styler) Enabled() bool { return s.enabled }

func (s *Styler) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

// Success styles text for successful operations.
func (s *Styler) Success(text string) string { return s.render(s.success, text) }

// Warning styles text for notices that need attention.
func (s *Styler) Warning(text string) string { return s.render(s.warning, text) }

// Error styles text for failures.
func (s *Styler) Error(text string) string { return s.render(s.err, text) }

// Info styles informational text.
func (s *Styler) Info(text string) string { return s.render(s.info, text) }

// Muted styles secondary text.
func (s *Styler) Muted(text string) string { return s.render(s.muted, text) }

// Header styles section titles.
func (s *Styler) Header(text string) string { return s.render(s.header, text) }

// NopStyler returns text unchanged.
type NopStyler struct{}

func (NopStyler) Enabled() bool              { return false }
func (NopStyler) Success(text string) string { return text }
func (NopStyler) Warning(text string) string { return text }
func (NopStyler) Error(text string) string   { return text }
func (NopStyler) Info(text string) string    { return text }
func (NopStyler) Muted(text string) string   { return text }
func (NopStyler) Header(text string) string  { return text }

var (
	_ domain.Styler = (*Styler)(nil)
	_ domain.Styler = NopStyler{}
)
