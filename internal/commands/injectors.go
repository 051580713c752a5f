package commands

import (
	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/match"
	"github.com/pgm-community/dispatch/internal/params"
	"github.com/pgm-community/dispatch/internal/usage"
)

// MsgNoMatch is shown when a command needs a match and none is running.
const MsgNoMatch = "There is no match running."

// Audience sends feedback to the invoking actor.
type Audience struct {
	Actor domain.Actor
	host  domain.Host
}

// Warn sends a warning.
func (a *Audience) Warn(msg string) {
	if a.host != nil {
		a.host.SendWarning(a.Actor, msg)
	}
}

// Send sends a regular message.
func (a *Audience) Send(msg string) {
	if a.host != nil {
		a.host.SendMessage(a.Actor, msg)
	}
}

// IsPlayer reports whether the actor has the player capability.
func (a *Audience) IsPlayer() bool {
	_, ok := a.Actor.(domain.Player)
	return ok
}

func registerInjectors(r *params.InjectorRegistry, env *match.Environment) error {
	injectors := []struct {
		t   argtype.Type
		inj params.Injector
	}{
		{MatchType, matchInjector(env)},
		{SelfType, selfInjector},
		{AudienceType, audienceInjector},
	}
	for _, i := range injectors {
		if err := r.Register(i.t, i.inj); err != nil {
			return err
		}
	}
	return nil
}

func matchInjector(env *match.Environment) params.Injector {
	return func(ic *params.Context) (any, error) {
		m, ok := env.MatchFor(ic.Actor)
		if !ok {
			return nil, usage.Message(MsgNoMatch)
		}
		return m, nil
	}
}

func selfInjector(ic *params.Context) (any, error) {
	p, ok := ic.Actor.(domain.Player)
	if !ok {
		return nil, usage.PlayerOnly()
	}
	return p, nil
}

func audienceInjector(ic *params.Context) (any, error) {
	return &Audience{Actor: ic.Actor, host: ic.Host}, nil
}
