package failures

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgm-community/dispatch/internal/log"
	"github.com/pgm-community/dispatch/internal/usage"
)

func TestPipeline_Render(t *testing.T) {
	p := New()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "syntax with usage", err: usage.Syntax("kick <target> <reason...>"), want: "Usage: /kick <target> <reason...>"},
		{name: "unknown command", err: usage.UnknownCommand("kcik", "kick"), want: "Unknown command 'kcik'. Did you mean: kick?"},
		{name: "permission", err: usage.NoPermission("community.kick"), want: MsgNoPermission},
		{name: "player only", err: usage.PlayerOnly(), want: MsgPlayerOnly},
		{name: "no pending", err: usage.NoPending(), want: MsgNoPending},
		{name: "parse", err: usage.Parse("abc", "number"), want: "'abc' is not a valid number"},
		{name: "parse wrapping message", err: usage.ParseCause("target", usage.Message("Player not found")), want: "Player not found"},
		{name: "execution wrapping message", err: usage.Execution(fmt.Errorf("mutate: %w", usage.Message("Mutations can not be adjusted at this time!"))), want: "Mutations can not be adjusted at this time!"},
		{name: "execution wrapping parse", err: usage.Execution(usage.Parse("x", "duration")), want: "'x' is not a valid duration"},
		{name: "execution plain", err: usage.Execution(errors.New("db down")), want: MsgUnexpected},
		{name: "bare message", err: usage.Message("Nothing to do"), want: "Nothing to do"},
		{name: "plain error", err: errors.New("boom"), want: MsgUnexpected},
		{name: "wrapped usage error", err: fmt.Errorf("dispatch: %w", usage.NoPending()), want: MsgNoPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, p.Render(tt.err))
		})
	}
}

func TestPipeline_LogsUnexpectedCause(t *testing.T) {
	var buf bytes.Buffer
	p := New(WithLogger(log.NewWriter(&buf, log.LevelDebug)))

	require.Equal(t, MsgUnexpected, p.Render(usage.Execution(errors.New("db down"))))
	require.Contains(t, buf.String(), "failures: unexpected error: db down")

	buf.Reset()
	p.Render(usage.Message("handled"))
	require.Empty(t, buf.String())
}

func TestPipeline_HandleOverrides(t *testing.T) {
	p := New(WithPrefix("!"))
	require.Equal(t, "Usage: !warn <target>", p.Render(usage.Syntax("warn <target>")))

	p.Handle(usage.ErrPermissionDenied, func(err *usage.Error, _ error) string {
		return "Denied: " + strings.TrimPrefix(err.Message, "missing permission ")
	})
	require.Equal(t, "Denied: community.freeze", p.Render(usage.NoPermission("community.freeze")))
}

func TestPipeline_HandlerPanicFallsBack(t *testing.T) {
	p := New()
	p.Handle(usage.ErrNoPending, func(*usage.Error, error) string { panic("broken") })
	p.Handle(usage.ErrSenderType, func(*usage.Error, error) string { return "" })

	require.Equal(t, MsgUnexpected, p.Render(usage.NoPending()))
	require.Equal(t, MsgUnexpected, p.Render(usage.PlayerOnly()))
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"unknown command", "Unknown command"},
		{" émoji", "Émoji"},
		{"'quoted'", "'quoted'"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Capitalize(tt.in))
		})
	}
}

func TestRecovered(t *testing.T) {
	boom := errors.New("boom")
	err := Recovered(boom)
	require.Equal(t, usage.ErrExecution, usage.KindOf(err))
	require.ErrorIs(t, err, boom)

	err = Recovered("nil map")
	require.Contains(t, err.Error(), "panic: nil map")
}
