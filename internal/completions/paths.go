package completions

import (
	"os"
	"path/filepath"
)

// RcFile returns the rc file path for the given shell.
func RcFile(shell Shell) string {
	switch shell {
	case ShellBash:
		return "~/.bashrc"
	case ShellZsh:
		return "~/.zshrc"
	case ShellFish:
		return "~/.config/fish/config.fish"
	default:
		return ""
	}
}

var bashCompletionDirs = []string{
	"/usr/share/bash-completion",
	"/usr/local/share/bash-completion",
	"/opt/homebrew/share/bash-completion",
}

// bashCompletionInstalled reports whether the bash-completion package,
// which loads per-user scripts on demand, is present.
func bashCompletionInstalled() bool {
	for _, dir := range bashCompletionDirs {
		if _, err := os.Stat(filepath.Join(dir, "bash_completion")); err == nil {
			return true
		}
	}
	return false
}

// AutoInstallPath returns where the shell loads completions from on its
// own, or "" when the shell has no such directory.
func AutoInstallPath(shell Shell, bin string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch shell {
	case ShellFish:
		return filepath.Join(home, ".config", "fish", "completions", bin+".fish")
	case ShellBash:
		if bashCompletionInstalled() {
			return filepath.Join(home, ".local", "share", "bash-completion", "completions", bin)
		}
		return ""
	default:
		return ""
	}
}
