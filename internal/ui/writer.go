// Package ui holds terminal output helpers shared by the command line
// front ends.
//
// The pager runs whatever command the operator configured through the
// pager key or $PAGER, the way git and man do.
package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// Writer prints command line output, sending long listings through a
// pager when out is a terminal.
type Writer struct {
	out           io.Writer
	pagerDisabled bool
	pagerOverride string
	configGetter  func(string) (string, bool)
	envGetter     func(string) string
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithPagerDisabled prints directly.
func WithPagerDisabled() WriterOption {
	return func(w *Writer) {
		w.pagerDisabled = true
	}
}

// WithPagerOverride takes precedence over the config and $PAGER.
func WithPagerOverride(cmd string) WriterOption {
	return func(w *Writer) {
		w.pagerOverride = cmd
	}
}

// WithConfigGetter reads the pager key through fn.
func WithConfigGetter(fn func(string) (string, bool)) WriterOption {
	return func(w *Writer) {
		w.configGetter = fn
	}
}

func WithEnvGetter(fn func(string) string) WriterOption {
	return func(w *Writer) {
		w.envGetter = fn
	}
}

// NewWriter writes to stdout.
func NewWriter(opts ...WriterOption) *Writer {
	return NewWriterTo(os.Stdout, opts...)
}

func NewWriterTo(out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{
		out:       out,
		envGetter: os.Getenv,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Writer) Write(p []byte) (n int, err error) {
	return w.out.Write(p)
}

func (w *Writer) Printf(format string, args ...any) (int, error) {
	return fmt.Fprintf(w.out, format, args...)
}

func (w *Writer) Println(args ...any) (int, error) {
	return fmt.Fprintln(w.out, args...)
}

// Pager shows content through a pager. Precedence: disabled, not a
// terminal, override, pager config key, $PAGER, then "less -FRSX". The
// pager "cat" prints directly, and so does a pager that fails to run.
func (w *Writer) Pager(content string) {
	cmd, ok := w.pagerCommand()
	if !ok {
		fmt.Fprint(w.out, content)
		return
	}
	w.runPager(cmd, content)
}

func (w *Writer) pagerCommand() ([]string, bool) {
	if w.pagerDisabled || !w.isTerminal() {
		return nil, false
	}

	var configured string
	switch {
	case w.pagerOverride != "":
		configured = w.pagerOverride
	case w.configGetter != nil && w.configValue() != "":
		configured = w.configValue()
	case w.envGetter != nil && w.envGetter("PAGER") != "":
		configured = w.envGetter("PAGER")
	default:
		return []string{"less", "-FRSX"}, true
	}

	parts := strings.Fields(configured)
	if len(parts) == 0 || parts[0] == "cat" {
		return nil, false
	}
	return parts, true
}

func (w *Writer) configValue() string {
	v, _ := w.configGetter("pager")
	return v
}

func (w *Writer) isTerminal() bool {
	f, ok := w.out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (w *Writer) runPager(parts []string, content string) {
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = w.out
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Fprint(w.out, content)
	}
}
