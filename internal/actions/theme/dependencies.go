// Package theme implements the theme list and theme set commands.
package theme

import (
	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/ui/style"
)

// ConfigKey is where the chosen theme is stored.
const ConfigKey = "color_theme"

type Deps struct {
	Provider domain.ConfigProvider
	Names    []string
	Themes   map[string]style.ColorConfig
	Resolve  func(string) string

	// Preview renders color samples next to each theme.
	Preview bool
}

func DefaultDeps(provider domain.ConfigProvider, preview bool) Deps {
	return Deps{
		Provider: provider,
		Names:    style.ThemeNames(),
		Themes:   style.Themes,
		Resolve:  style.ResolveThemeName,
		Preview:  preview,
	}
}
