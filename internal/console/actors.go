// Package console hosts the engine on a terminal: actors come from a YAML
// file, output goes to writers and input is read a line at a time.
package console

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pgm-community/dispatch/internal/domain"
)

// OperatorID is the actor used when no actors file exists.
const OperatorID = "console"

// ErrUnknownActor is returned when an actor id is not in the actors file.
var ErrUnknownActor = errors.New("console: unknown actor")

// ActorConfig is one entry of the actors file:
//
//	actors:
//	  - id: console
//	    permissions: ["*"]
//	  - id: alice
//	    name: Alice
//	    player: true
//	    permissions: ["community.teleport", "community.freeze"]
type ActorConfig struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name,omitempty"`
	Player      bool     `yaml:"player,omitempty"`
	Team        string   `yaml:"team,omitempty"`
	Permissions []string `yaml:"permissions,omitempty"`
}

type actorsFile struct {
	Actors []ActorConfig `yaml:"actors"`
}

// DefaultActors is a single operator holding every permission.
func DefaultActors() []ActorConfig {
	return []ActorConfig{{ID: OperatorID, Name: "Console", Permissions: []string{"*"}}}
}

// LoadActors reads the actors file at path. A missing file yields
// DefaultActors.
func LoadActors(path string) ([]ActorConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultActors(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("console: read actors: %w", err)
	}
	return ParseActors(data)
}

// ParseActors decodes and validates an actors file.
func ParseActors(data []byte) ([]ActorConfig, error) {
	var f actorsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("console: parse actors: %w", err)
	}
	if len(f.Actors) == 0 {
		return nil, errors.New("console: actors file lists no actors")
	}

	seen := make(map[string]bool)
	for i, a := range f.Actors {
		id := strings.TrimSpace(a.ID)
		if id == "" {
			return nil, fmt.Errorf("console: actor %d has no id", i+1)
		}
		if seen[strings.ToLower(id)] {
			return nil, fmt.Errorf("console: duplicate actor %q", id)
		}
		seen[strings.ToLower(id)] = true
		f.Actors[i].ID = id
	}
	return f.Actors, nil
}

// MarshalActors encodes actors in the actors file format.
func MarshalActors(actors []ActorConfig) ([]byte, error) {
	return yaml.Marshal(actorsFile{Actors: actors})
}

// Actor returns the engine handle for c. Players carry the player
// capability.
func (c ActorConfig) Actor() domain.Actor {
	a := actor{id: c.ID, name: c.Name}
	if a.name == "" {
		a.name = c.ID
	}
	if c.Player {
		return player{a}
	}
	return a
}

type actor struct {
	id   string
	name string
}

func (a actor) ID() string   { return a.id }
func (a actor) Name() string { return a.name }

type player struct{ actor }

func (player) Player() {}

var (
	_ domain.Actor  = actor{}
	_ domain.Player = player{}
)
