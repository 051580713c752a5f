package usage

import "errors"

// ErrorKind classifies a failed request.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrSyntax
	ErrPermissionDenied
	ErrSenderType
	ErrParse
	ErrExecution
	ErrNoPending
	ErrMessage
)

var kindNames = map[ErrorKind]string{
	ErrUnknown:          "unknown",
	ErrSyntax:           "syntax",
	ErrPermissionDenied: "permission_denied",
	ErrSenderType:       "sender_type",
	ErrParse:            "parse",
	ErrExecution:        "execution",
	ErrNoPending:        "no_pending",
	ErrMessage:          "message",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// PreInvocation reports whether failures of this kind are always detected
// before the handler runs.
func (k ErrorKind) PreInvocation() bool {
	switch k {
	case ErrSyntax, ErrPermissionDenied, ErrSenderType, ErrParse:
		return true
	default:
		return false
	}
}

// Error is a user-facing failure with semantic type information.
//
// Usage is only set for syntax failures and holds the correct usage of the
// nearest matching command. Cause links the chain inspected by the failure
// pipeline.
type Error struct {
	Kind    ErrorKind
	Message string
	Usage   string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// ErrUnknown when there is none.
func KindOf(err error) ErrorKind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ErrUnknown
}

// Find walks err's cause chain and returns the first *Error of the given
// kind.
func Find(err error, kind ErrorKind) *Error {
	for err != nil {
		if ue, ok := err.(*Error); ok && ue.Kind == kind {
			return ue
		}
		err = errors.Unwrap(err)
	}
	return nil
}

// Verify Error implements the error interface.
var _ error = (*Error)(nil)
