package dispatchers

import (
	"slices"
	"strings"

	"github.com/pgm-community/dispatch/internal/input"
)

// ParsedFlags holds the flag tokens of one request, split from the
// positional input before routing.
type ParsedFlags struct {
	raw []string
}

// NewParsedFlags creates a ParsedFlags from a slice of flag tokens.
func NewParsedFlags(flags []string) *ParsedFlags {
	return &ParsedFlags{raw: flags}
}

// Raw returns the underlying flag tokens.
func (f *ParsedFlags) Raw() []string {
	if f == nil {
		return nil
	}
	return f.raw
}

// Has reports whether any of the given spellings is present, e.g.
// Has("--yes", "-y"). Values after '=' are ignored.
func (f *ParsedFlags) Has(names ...string) bool {
	for _, tok := range f.Raw() {
		if slices.Contains(names, flagKey(tok)) {
			return true
		}
	}
	return false
}

// Without returns a copy with every token matching names removed.
func (f *ParsedFlags) Without(names ...string) *ParsedFlags {
	var kept []string
	for _, tok := range f.Raw() {
		if !slices.Contains(names, flagKey(tok)) {
			kept = append(kept, tok)
		}
	}
	return &ParsedFlags{raw: kept}
}

// Value returns the value of --name=value.
func (f *ParsedFlags) Value(name string) (string, bool) {
	for _, tok := range f.Raw() {
		if flagKey(tok) != name {
			continue
		}
		_, v, ok := input.SplitFlag(tok)
		if ok {
			return v, true
		}
	}
	return "", false
}

func flagKey(tok string) string {
	if idx := strings.Index(tok, "="); idx != -1 {
		return strings.ToLower(tok[:idx])
	}
	return strings.ToLower(tok)
}
