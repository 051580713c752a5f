package usage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFind_WalksCauseChain(t *testing.T) {
	msg := Message("Mutations can not be adjusted at this time!")
	wrapped := fmt.Errorf("mutate add: %w", msg)
	exec := Execution(wrapped)

	require.Equal(t, ErrExecution, KindOf(exec))
	require.Same(t, msg, Find(exec, ErrMessage))
	require.Nil(t, Find(exec, ErrParse))
	require.Same(t, exec, Find(exec, ErrExecution))
}

func TestKindOf_PlainError(t *testing.T) {
	require.Equal(t, ErrUnknown, KindOf(errors.New("boom")))
	require.Equal(t, ErrUnknown, KindOf(nil))
}

func TestError_MessageFallsBackToCause(t *testing.T) {
	err := Execution(errors.New("boom"))
	require.Equal(t, "boom", err.Error())
	require.ErrorIs(t, err, err.Cause)
}

func TestErrorKind_PreInvocation(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want bool
	}{
		{ErrSyntax, true},
		{ErrPermissionDenied, true},
		{ErrSenderType, true},
		{ErrParse, true},
		{ErrExecution, false},
		{ErrNoPending, false},
		{ErrMessage, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			require.Equal(t, tt.want, tt.kind.PreInvocation())
		})
	}
}

func TestUnknownCommand_Suggestions(t *testing.T) {
	err := UnknownCommand("kcik", "kick")
	require.Equal(t, ErrSyntax, err.Kind)
	require.Contains(t, err.Error(), "Did you mean: kick?")

	plain := UnknownCommand("zzz")
	require.NotContains(t, plain.Error(), "Did you mean")
}

func TestParse_Message(t *testing.T) {
	err := Parse("abc", "number")
	require.Equal(t, "'abc' is not a valid number", err.Error())
}
