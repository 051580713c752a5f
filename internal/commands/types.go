// Package commands declares the community feature commands and the
// parsers and injectors they depend on.
package commands

import (
	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/params"
)

// Parsed types.
var (
	PlayerType   = argtype.Named("player")
	UsernameType = argtype.Named("username")
	TeamType     = argtype.Named("team")
	TeamsType    = argtype.Of("collection", TeamType)
	MutationType = argtype.Named("mutation")
	LocationType = argtype.Named("location")
	TargetsType  = argtype.Named("targets")
)

// Injected types.
var (
	MatchType    = argtype.Named("match")
	SelfType     = argtype.Named("self")
	AudienceType = argtype.Named("audience")
)

// Permissions checked by the host.
const (
	PermKick             = "community.kick"
	PermWarn             = "community.warn"
	PermFreeze           = "community.freeze"
	PermMutation         = "community.mutation"
	PermTeleport         = "community.teleport"
	PermTeleportOthers   = "community.teleport.others"
	PermTeleportLocation = "community.teleport.location"
)

// Registrar is where commands, parsers and injectors are declared.
type Registrar interface {
	Parsers() *params.ParserRegistry
	Injectors() *params.InjectorRegistry
	Register(spec dispatchers.CommandSpec) error
}
