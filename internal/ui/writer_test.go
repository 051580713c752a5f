package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriter_Print(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterTo(&buf)

	_, err := w.Printf("%d pending\n", 2)
	require.NoError(t, err)
	_, err = w.Println("done")
	require.NoError(t, err)
	_, err = w.Write([]byte("raw"))
	require.NoError(t, err)

	require.Equal(t, "2 pending\ndone\nraw", buf.String())
}

func TestWriter_PagerWritesDirectlyWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterTo(&buf,
		WithPagerOverride("less"),
		WithEnvGetter(func(string) string { return "more" }),
	)

	w.Pager("line 1\nline 2\n")
	require.Equal(t, "line 1\nline 2\n", buf.String())
}

func TestWriter_PagerCommand(t *testing.T) {
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		t.Skip("no terminal available")
	}
	defer tty.Close()

	config := func(v string) func(string) (string, bool) {
		return func(string) (string, bool) { return v, v != "" }
	}
	env := func(v string) func(string) string {
		return func(string) string { return v }
	}

	tests := []struct {
		name   string
		opts   []WriterOption
		want   []string
		paging bool
	}{
		{"default", []WriterOption{WithEnvGetter(env(""))}, []string{"less", "-FRSX"}, true},
		{"disabled", []WriterOption{WithPagerDisabled()}, nil, false},
		{"override wins", []WriterOption{WithPagerOverride("most -s"), WithConfigGetter(config("more"))}, []string{"most", "-s"}, true},
		{"config before env", []WriterOption{WithConfigGetter(config("more")), WithEnvGetter(env("less"))}, []string{"more"}, true},
		{"env", []WriterOption{WithConfigGetter(config("")), WithEnvGetter(env("less -R"))}, []string{"less", "-R"}, true},
		{"cat bypasses", []WriterOption{WithEnvGetter(env("cat"))}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriterTo(tty, tt.opts...)
			got, paging := w.pagerCommand()
			require.Equal(t, tt.paging, paging)
			require.Equal(t, tt.want, got)
		})
	}
}
