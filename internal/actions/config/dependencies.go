// Package config implements the config get, set, unset and list commands.
package config

import (
	"github.com/pgm-community/dispatch/internal/config"
	"github.com/pgm-community/dispatch/internal/domain"
)

type Deps struct {
	Provider domain.ConfigProvider
	Keys     func() []domain.ConfigKey
}

func DefaultDeps() Deps {
	return Deps{
		Provider: config.NewProvider(),
		Keys:     domain.VisibleConfigKeys,
	}
}

// KeyNames returns the names of every documented key, for parsers and
// completion.
func KeyNames(keys []domain.ConfigKey) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.Name
	}
	return names
}
