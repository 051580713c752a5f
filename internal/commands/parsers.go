package commands

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/match"
	"github.com/pgm-community/dispatch/internal/params"
	"github.com/pgm-community/dispatch/internal/usage"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,16}$`)

// Selection is the set of online players a targets argument matched.
type Selection struct {
	Players []string
	// Text is the selector as typed, for feedback.
	Text string
}

func registerParsers(r *params.ParserRegistry, env *match.Environment) error {
	mutations := make([]string, len(match.MutationTypes))
	for i, m := range match.MutationTypes {
		mutations[i] = string(m)
	}

	parsers := []struct {
		t argtype.Type
		p params.Parser
	}{
		{PlayerType, playerParser(env)},
		{UsernameType, usernameParser(env)},
		{TeamType, teamParser(env)},
		{TeamsType, teamsParser(env)},
		{MutationType, mutationParser(params.Enum("mutation", mutations...))},
		{LocationType, locationParser(env)},
		{TargetsType, targetsParser(env)},
	}
	for _, p := range parsers {
		if err := r.Register(p.t, p.p); err != nil {
			return err
		}
	}
	return nil
}

func next(ic *params.Context, p params.Spec) (string, error) {
	tok, ok := ic.Cursor.Next()
	if !ok {
		return "", usage.MissingArgument(p.Name, p.Placeholder())
	}
	return tok, nil
}

// playerParser accepts the name of an online player.
func playerParser(env *match.Environment) params.Parser {
	return params.Parser{
		Parse: func(ic *params.Context, p params.Spec) (any, error) {
			tok, err := next(ic, p)
			if err != nil {
				return nil, err
			}
			pl, ok := env.Player(tok)
			if !ok {
				return nil, usage.Parse(tok, "online player")
			}
			return pl, nil
		},
		Suggest: func(_ *params.Context, _ params.Spec, partial string) []string {
			return params.FilterPrefix(env.Players(), partial)
		},
	}
}

// usernameParser accepts any well-formed name, online or not.
func usernameParser(env *match.Environment) params.Parser {
	return params.Parser{
		Parse: func(ic *params.Context, p params.Spec) (any, error) {
			tok, err := next(ic, p)
			if err != nil {
				return nil, err
			}
			if !usernamePattern.MatchString(tok) {
				return nil, usage.Parse(tok, "username")
			}
			if pl, ok := env.Player(tok); ok {
				return pl.Name, nil
			}
			return tok, nil
		},
		Suggest: func(_ *params.Context, _ params.Spec, partial string) []string {
			return params.FilterPrefix(env.Players(), partial)
		},
	}
}

func teamParser(env *match.Environment) params.Parser {
	return params.Parser{
		Parse: func(ic *params.Context, p params.Spec) (any, error) {
			tok, err := next(ic, p)
			if err != nil {
				return nil, err
			}
			t, ok := env.Team(tok)
			if !ok {
				return nil, usage.Parse(tok, "team")
			}
			return t, nil
		},
		Suggest: func(_ *params.Context, _ params.Spec, partial string) []string {
			return params.FilterPrefix(env.TeamNames(), partial)
		},
	}
}

// teamsParser accepts "*" for every team or a comma separated list.
func teamsParser(env *match.Environment) params.Parser {
	return params.Parser{
		Parse: func(ic *params.Context, p params.Spec) (any, error) {
			tok, err := next(ic, p)
			if err != nil {
				return nil, err
			}
			if _, running := env.Current(); !running {
				return nil, usage.Message(MsgNoMatch)
			}

			names := env.TeamNames()
			if tok != "*" {
				names = nil
				for _, n := range strings.Split(tok, ",") {
					if n = strings.TrimSpace(n); n != "" {
						names = append(names, n)
					}
				}
			}

			var out []match.Team
			seen := make(map[string]bool)
			for _, n := range names {
				t, ok := env.Team(n)
				if !ok {
					return nil, usage.Parse(n, "team")
				}
				if !seen[t.Name] {
					seen[t.Name] = true
					out = append(out, t)
				}
			}
			if len(out) == 0 {
				return nil, usage.Parse(tok, "team list")
			}
			return out, nil
		},
		Suggest: func(_ *params.Context, _ params.Spec, partial string) []string {
			head, last := "", partial
			if i := strings.LastIndexByte(partial, ','); i >= 0 {
				head, last = partial[:i+1], partial[i+1:]
			}
			var out []string
			if head == "" {
				out = params.FilterPrefix([]string{"*"}, last)
			}
			for _, n := range params.FilterPrefix(env.TeamNames(), last) {
				out = append(out, head+n)
			}
			return out
		},
	}
}

func mutationParser(enum params.Parser) params.Parser {
	return params.Parser{
		Parse: func(ic *params.Context, p params.Spec) (any, error) {
			v, err := enum.Parse(ic, p)
			if err != nil {
				return nil, err
			}
			return match.Mutation(v.(string)), nil
		},
		Suggest: enum.Suggest,
	}
}

// locationParser takes three coordinates. "~" and "~n" are relative to
// the invoking player's position.
func locationParser(env *match.Environment) params.Parser {
	return params.Parser{
		Tokens: 3,
		Parse: func(ic *params.Context, p params.Spec) (any, error) {
			var origin *match.Location
			if pl, ok := ic.Actor.(domain.Player); ok {
				if online, ok := env.Player(pl.Name()); ok {
					origin = &online.Location
				}
			}

			var coords [3]float64
			for i := range coords {
				tok, err := next(ic, p)
				if err != nil {
					return nil, err
				}
				v, ok := coordinate(tok, origin, i)
				if !ok {
					return nil, usage.Parse(tok, "coordinate")
				}
				coords[i] = v
			}
			return match.Location{X: coords[0], Y: coords[1], Z: coords[2]}, nil
		},
		Suggest: func(ic *params.Context, _ params.Spec, partial string) []string {
			if _, ok := ic.Actor.(domain.Player); !ok {
				return nil
			}
			return params.FilterPrefix([]string{"~"}, partial)
		},
	}
}

func coordinate(tok string, origin *match.Location, axis int) (float64, bool) {
	rel, isRel := strings.CutPrefix(tok, "~")
	if !isRel {
		v, err := strconv.ParseFloat(tok, 64)
		return v, err == nil
	}
	if origin == nil {
		return 0, false
	}

	base := [3]float64{origin.X, origin.Y, origin.Z}[axis]
	if rel == "" {
		return base, true
	}
	off, err := strconv.ParseFloat(rel, 64)
	if err != nil {
		return 0, false
	}
	return base + off, true
}

// targetsParser accepts "*" for everyone, team=<name>, or one player.
func targetsParser(env *match.Environment) params.Parser {
	return params.Parser{
		Parse: func(ic *params.Context, p params.Spec) (any, error) {
			tok, err := next(ic, p)
			if err != nil {
				return nil, err
			}

			sel := Selection{Text: tok}
			switch {
			case tok == "*":
				sel.Players = env.Players()
			case strings.HasPrefix(strings.ToLower(tok), "team="):
				t, ok := env.Team(tok[len("team="):])
				if !ok {
					return nil, usage.Parse(tok[len("team="):], "team")
				}
				sel.Players = t.Members
			default:
				pl, ok := env.Player(tok)
				if !ok {
					return nil, usage.Parse(tok, "online player")
				}
				sel.Players = []string{pl.Name}
				sel.Text = pl.Name
			}

			if len(sel.Players) == 0 {
				return nil, usage.Message("No players matched %s.", tok)
			}
			return sel, nil
		},
		Suggest: func(_ *params.Context, _ params.Spec, partial string) []string {
			options := []string{"*"}
			for _, t := range env.TeamNames() {
				options = append(options, "team="+t)
			}
			options = append(options, env.Players()...)
			return slices.Compact(params.FilterPrefix(options, partial))
		},
	}
}
