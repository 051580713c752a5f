package params

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pgm-community/dispatch/internal/argtype"
	"github.com/pgm-community/dispatch/internal/usage"
)

// ParseFunc consumes tokens from ic.Cursor and returns the typed value.
type ParseFunc func(ic *Context, p Spec) (any, error)

// SuggestFunc lists completions for the partially typed token.
type SuggestFunc func(ic *Context, p Spec, partial string) []string

// Parser turns tokens into a typed value.
//
// Tokens is the fixed number of tokens the parser consumes and is used for
// routing without parsing. Zero means one token. Greedy parameters always
// take the rest of the input.
type Parser struct {
	Parse   ParseFunc
	Suggest SuggestFunc
	Tokens  int
}

// Arity returns the number of tokens consumed by one value.
func (p Parser) Arity() int {
	if p.Tokens <= 0 {
		return 1
	}
	return p.Tokens
}

// Apply runs the parser. On failure the cursor is restored and errors that
// are not already usage failures are wrapped as parse failures.
func (p Parser) Apply(ic *Context, spec Spec) (any, error) {
	pos := ic.Cursor.Position()
	v, err := p.Parse(ic, spec)
	if err != nil {
		ic.Cursor.Seek(pos)
		var ue *usage.Error
		if errors.As(err, &ue) {
			return nil, err
		}
		return nil, usage.ParseCause(spec.Name, err)
	}
	return v, nil
}

// Candidates returns completions, or nil when the parser has none.
func (p Parser) Candidates(ic *Context, spec Spec, partial string) []string {
	if p.Suggest == nil {
		return nil
	}
	return p.Suggest(ic, spec, partial)
}

// RegisterDefaults registers the built-in textual parsers.
func RegisterDefaults(r *ParserRegistry) error {
	defaults := []struct {
		t argtype.Type
		p Parser
	}{
		{argtype.String, StringParser()},
		{argtype.Int, IntRange(minInt, maxInt)},
		{argtype.Bool, BoolParser()},
		{argtype.Duration, DurationParser()},
	}
	for _, d := range defaults {
		if err := r.Register(d.t, d.p); err != nil {
			return err
		}
	}
	return nil
}

const (
	maxInt = int(^uint(0) >> 1)
	minInt = -maxInt - 1
)

func nextToken(ic *Context, p Spec) (string, error) {
	tok, ok := ic.Cursor.Next()
	if !ok {
		return "", usage.MissingArgument(p.Name, p.Placeholder())
	}
	return tok, nil
}

// StringParser accepts one token, or the rest of the input when greedy.
func StringParser() Parser {
	return Parser{
		Parse: func(ic *Context, p Spec) (any, error) {
			if p.Greedy {
				if ic.Cursor.Empty() {
					return nil, usage.MissingArgument(p.Name, p.Placeholder())
				}
				return ic.Cursor.Rest(), nil
			}
			return nextToken(ic, p)
		},
	}
}

// IntRange accepts an integer within [lo, hi].
func IntRange(lo, hi int) Parser {
	return Parser{
		Parse: func(ic *Context, p Spec) (any, error) {
			tok, err := nextToken(ic, p)
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, usage.Parse(tok, "number")
			}
			if n < lo || n > hi {
				return nil, usage.Message("%d is out of range (%d to %d)", n, lo, hi)
			}
			return n, nil
		},
	}
}

var boolWords = map[string]bool{
	"true": true, "yes": true, "on": true,
	"false": false, "no": false, "off": false,
}

// BoolParser accepts true/false, yes/no and on/off.
func BoolParser() Parser {
	return Parser{
		Parse: func(ic *Context, p Spec) (any, error) {
			tok, err := nextToken(ic, p)
			if err != nil {
				return nil, err
			}
			v, ok := boolWords[strings.ToLower(tok)]
			if !ok {
				return nil, usage.Parse(tok, "boolean")
			}
			return v, nil
		},
		Suggest: func(_ *Context, _ Spec, partial string) []string {
			return FilterPrefix([]string{"true", "false"}, partial)
		},
	}
}

var durationUnits = regexp.MustCompile(`^(?:(\d+)w)?(?:(\d+)d)?(.*)$`)

// ParseDuration extends time.ParseDuration with w (week) and d (day) units,
// which must lead the expression: 1w2d, 3d12h, 90m.
func ParseDuration(s string) (time.Duration, bool) {
	m := durationUnits.FindStringSubmatch(strings.ToLower(s))
	if m == nil || s == "" {
		return 0, false
	}

	var total time.Duration
	if m[1] != "" {
		w, _ := strconv.Atoi(m[1])
		total += time.Duration(w) * 7 * 24 * time.Hour
	}
	if m[2] != "" {
		d, _ := strconv.Atoi(m[2])
		total += time.Duration(d) * 24 * time.Hour
	}
	if rest := m[3]; rest != "" {
		d, err := time.ParseDuration(rest)
		if err != nil {
			return 0, false
		}
		total += d
	}
	if total <= 0 {
		return 0, false
	}
	return total, true
}

// DurationParser accepts positive durations such as 30m, 1d or 1w2d.
func DurationParser() Parser {
	return Parser{
		Parse: func(ic *Context, p Spec) (any, error) {
			tok, err := nextToken(ic, p)
			if err != nil {
				return nil, err
			}
			d, ok := ParseDuration(tok)
			if !ok {
				return nil, usage.Parse(tok, "duration")
			}
			return d, nil
		},
		Suggest: func(_ *Context, _ Spec, partial string) []string {
			return FilterPrefix([]string{"1h", "1d", "7d", "30d"}, partial)
		},
	}
}

// Enum accepts one of values, case-insensitively, and yields the canonical
// spelling. expected names the set in parse failures.
func Enum(expected string, values ...string) Parser {
	index := make(map[string]string, len(values))
	for _, v := range values {
		index[strings.ToLower(v)] = v
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)

	return Parser{
		Parse: func(ic *Context, p Spec) (any, error) {
			tok, err := nextToken(ic, p)
			if err != nil {
				return nil, err
			}
			v, ok := index[strings.ToLower(tok)]
			if !ok {
				return nil, usage.Parse(tok, expected)
			}
			return v, nil
		},
		Suggest: func(_ *Context, _ Spec, partial string) []string {
			return FilterPrefix(sorted, partial)
		},
	}
}

// FilterPrefix returns the values starting with partial, case-insensitively.
func FilterPrefix(values []string, partial string) []string {
	partial = strings.ToLower(partial)
	var out []string
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), partial) {
			out = append(out, v)
		}
	}
	return out
}
