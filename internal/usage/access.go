package usage

import "fmt"

// NoPermission is returned when the actor lacks the command's permission.
func NoPermission(permission string) *Error {
	return &Error{
		Kind:    ErrPermissionDenied,
		Message: fmt.Sprintf("missing permission %s", permission),
	}
}

// PlayerOnly is returned when the actor handle is not a player.
func PlayerOnly() *Error {
	return &Error{
		Kind:    ErrSenderType,
		Message: "command requires a player",
	}
}

// NoPending is returned by confirm when the actor has nothing pending.
func NoPending() *Error {
	return &Error{
		Kind:    ErrNoPending,
		Message: "no pending command",
	}
}

// Message is a failure that already carries the text shown to the actor.
func Message(format string, args ...any) *Error {
	return &Error{
		Kind:    ErrMessage,
		Message: fmt.Sprintf(format, args...),
	}
}

// Execution wraps a failure raised by a handler after successful binding.
func Execution(cause error) *Error {
	return &Error{
		Kind:  ErrExecution,
		Cause: cause,
	}
}
