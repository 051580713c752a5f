// Package input tokenizes a raw command line and exposes it as a cursor
// that parsers consume from.
package input

import (
	"strings"
	"unicode"

	"github.com/buildkite/shellwords"
)

// Cursor is an ordered view over the tokens of one request with a mutable
// read position. It is not safe for concurrent use; each request owns one.
type Cursor struct {
	tokens   []string
	pos      int
	trailing bool
}

// Tokenize splits line into shell-style tokens (quotes group words).
// Unbalanced quotes are reported as an error.
func Tokenize(line string) (*Cursor, error) {
	tokens, err := shellwords.SplitPosix(line)
	if err != nil {
		return nil, err
	}

	trailing := false
	if line != "" {
		r := rune(line[len(line)-1])
		trailing = unicode.IsSpace(r)
	}

	return &Cursor{tokens: tokens, trailing: trailing}, nil
}

// NewCursor returns a cursor over tokens.
func NewCursor(tokens ...string) *Cursor {
	return &Cursor{tokens: tokens}
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (string, bool) {
	return c.PeekN(0)
}

// PeekN returns the token n positions ahead of the cursor.
func (c *Cursor) PeekN(n int) (string, bool) {
	i := c.pos + n
	if n < 0 || i >= len(c.tokens) {
		return "", false
	}
	return c.tokens[i], true
}

// Next consumes and returns the next token.
func (c *Cursor) Next() (string, bool) {
	tok, ok := c.Peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

// Rest consumes every remaining token and returns them joined by a space.
func (c *Cursor) Rest() string {
	rest := strings.Join(c.tokens[c.pos:], " ")
	c.pos = len(c.tokens)
	return rest
}

// Remaining returns the unconsumed tokens without consuming them.
func (c *Cursor) Remaining() []string {
	out := make([]string, len(c.tokens)-c.pos)
	copy(out, c.tokens[c.pos:])
	return out
}

// Len returns the number of unconsumed tokens.
func (c *Cursor) Len() int {
	return len(c.tokens) - c.pos
}

// Empty reports whether every token has been consumed.
func (c *Cursor) Empty() bool {
	return c.pos >= len(c.tokens)
}

// Position returns the current read position.
func (c *Cursor) Position() int {
	return c.pos
}

// Seek moves the read position, clamped to the token range. Parsers use it
// to restore the cursor after a failed attempt.
func (c *Cursor) Seek(pos int) {
	switch {
	case pos < 0:
		pos = 0
	case pos > len(c.tokens):
		pos = len(c.tokens)
	}
	c.pos = pos
}

// Tokens returns all tokens regardless of position.
func (c *Cursor) Tokens() []string {
	out := make([]string, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// TrailingSpace reports whether the raw line ended in whitespace, meaning
// the last token is complete and a new one has started.
func (c *Cursor) TrailingSpace() bool {
	return c.trailing
}

// Clone returns an independent copy of the cursor.
func (c *Cursor) Clone() *Cursor {
	return &Cursor{tokens: c.Tokens(), pos: c.pos, trailing: c.trailing}
}

// ExtractFlags removes every flag-looking token after the current position
// and returns them in input order. Tokens already consumed are untouched.
func (c *Cursor) ExtractFlags() []string {
	return c.ExtractFlagsFunc(nil)
}

// ExtractFlagsFunc is ExtractFlags limited to the flag tokens match
// accepts. A nil match accepts every flag.
func (c *Cursor) ExtractFlagsFunc(match func(tok string) bool) []string {
	var flags []string
	kept := c.tokens[:c.pos:c.pos]
	for _, tok := range c.tokens[c.pos:] {
		if IsFlag(tok) && (match == nil || match(tok)) {
			flags = append(flags, tok)
			continue
		}
		kept = append(kept, tok)
	}
	c.tokens = kept
	return flags
}

// IsFlag reports whether tok looks like -x, --name or --name=value.
// Negative numbers are not flags.
func IsFlag(tok string) bool {
	name := strings.TrimPrefix(tok, "-")
	if name == tok {
		return false
	}
	name = strings.TrimPrefix(name, "-")
	if name == "" {
		return false
	}
	r := rune(name[0])
	return unicode.IsLetter(r)
}

// SplitFlag splits --name=value into its name (without dashes) and value.
func SplitFlag(tok string) (name, value string, hasValue bool) {
	name = strings.TrimLeft(tok, "-")
	if idx := strings.Index(name, "="); idx != -1 {
		return name[:idx], name[idx+1:], true
	}
	return name, "", false
}
