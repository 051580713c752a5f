package dispatchers

import (
	"context"

	"github.com/pgm-community/dispatch/internal/params"
)

// Handler runs a command with its fully bound arguments.
type Handler func(ctx context.Context, inv *Invocation) error

// CommandSpec is the immutable declaration of one command.
//
// Path is a space separated list of literal segments. Each segment lists
// its aliases separated by '|', the first one being the display name:
// "mutate|mutation|mt add".
type CommandSpec struct {
	Path        string
	Params      []params.Spec
	Permission  string
	Description string
	PlayerOnly  bool
	Confirm     bool
	Category    CommandCategory
	Handler     Handler
}

// Registries is what the graph needs to validate and bind parameters.
type Registries struct {
	Parsers   *params.ParserRegistry
	Injectors *params.InjectorRegistry
}
