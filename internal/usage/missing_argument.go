package usage

import "fmt"

// MissingArgument is returned when input ends before a required argument.
func MissingArgument(arg, correct string) *Error {
	return &Error{
		Kind:    ErrSyntax,
		Message: fmt.Sprintf("missing required argument '%s'", arg),
		Usage:   correct,
	}
}

// Parse is returned by parsers when token is not a valid expected value.
func Parse(token, expected string) *Error {
	return &Error{
		Kind:    ErrParse,
		Message: fmt.Sprintf("'%s' is not a valid %s", token, expected),
	}
}

// ParseCause wraps an arbitrary parser error for argument name.
func ParseCause(name string, cause error) *Error {
	return &Error{
		Kind:    ErrParse,
		Message: fmt.Sprintf("invalid %s: %v", name, cause),
		Cause:   cause,
	}
}
