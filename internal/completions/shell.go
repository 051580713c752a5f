// Package completions generates shell completion scripts for the
// community binary. The scripts hold no command list of their own: they
// ask the binary to complete the current line, so they stay in step with
// whatever commands the engine has registered.
package completions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Shell string

const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

var shells = []Shell{ShellBash, ShellZsh, ShellFish}

// ShellNames returns the supported shells.
func ShellNames() []string {
	out := make([]string, len(shells))
	for i, s := range shells {
		out[i] = string(s)
	}
	return out
}

// ParseShell resolves a shell name or path such as /bin/zsh.
func ParseShell(name string) (Shell, error) {
	base := strings.ToLower(filepath.Base(strings.TrimSpace(name)))
	for _, s := range shells {
		if base == string(s) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unsupported shell: %s (use %s)", name, strings.Join(ShellNames(), ", "))
}

// RunningShell guesses the user's shell from $SHELL. It returns "" when
// the shell is unknown.
func RunningShell() Shell {
	s, err := ParseShell(os.Getenv("SHELL"))
	if err != nil {
		return ""
	}
	return s
}

// BinaryName returns the name the binary was invoked as, falling back to
// "community".
func BinaryName() string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		if len(os.Args) == 0 || os.Args[0] == "" {
			return "community"
		}
		exe = os.Args[0]
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Base(exe)
}
