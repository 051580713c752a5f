package theme

import (
	"context"

	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/usage"
)

// Set stores the theme. The name has already been checked by the theme
// parser.
func Set(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		name := inv.String("name")
		if err := deps.Provider.Set(ConfigKey, name); err != nil {
			return usage.Message("Could not set theme: %v", err)
		}
		inv.Reply("theme set to %s", name)
		return nil
	}
}
