package commands

import (
	"fmt"

	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/match"
)

// Register declares the parsers, injectors and commands of every feature
// against r. It must run before r is sealed.
func Register(r Registrar, env *match.Environment) error {
	if err := registerParsers(r.Parsers(), env); err != nil {
		return fmt.Errorf("commands: parsers: %w", err)
	}
	if err := registerInjectors(r.Injectors(), env); err != nil {
		return fmt.Errorf("commands: injectors: %w", err)
	}

	for _, spec := range Specs(env) {
		if err := r.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// Specs returns every feature command bound to env.
func Specs(env *match.Environment) []dispatchers.CommandSpec {
	var specs []dispatchers.CommandSpec
	specs = append(specs, moderation{env}.specs()...)
	specs = append(specs, mutations{env}.specs()...)
	specs = append(specs, teleports{env}.specs()...)
	specs = append(specs, assistance{env}.specs()...)
	return specs
}
