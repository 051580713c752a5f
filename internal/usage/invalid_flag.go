package usage

import "fmt"

// InvalidFlag is returned when a flag is not declared by the routed command.
func InvalidFlag(flag, correct string) *Error {
	return &Error{
		Kind:    ErrSyntax,
		Message: fmt.Sprintf("invalid flag '%s'", flag),
		Usage:   correct,
	}
}
