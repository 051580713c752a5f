package usage

import (
	"fmt"
	"strings"
)

// Syntax is returned when the input does not follow any command path.
// correct is the usage string of the nearest valid continuation.
func Syntax(correct string) *Error {
	return &Error{
		Kind:    ErrSyntax,
		Message: fmt.Sprintf("invalid syntax, expected: %s", correct),
		Usage:   correct,
	}
}

// UnknownCommand is returned when the first token names no command.
func UnknownCommand(command string, suggestions ...string) *Error {
	msg := fmt.Sprintf("unknown command '%s'", command)
	if len(suggestions) > 0 {
		msg += ". Did you mean: " + strings.Join(suggestions, ", ") + "?"
	}
	return &Error{
		Kind:    ErrSyntax,
		Message: msg,
	}
}

// TooManyArguments is returned when tokens remain after binding.
func TooManyArguments(correct string, extra []string) *Error {
	return &Error{
		Kind:    ErrSyntax,
		Message: fmt.Sprintf("unexpected argument '%s'", strings.Join(extra, " ")),
		Usage:   correct,
	}
}

// EmptyInput is returned when the request has no tokens.
func EmptyInput() *Error {
	return &Error{
		Kind:    ErrSyntax,
		Message: "no command given",
	}
}
