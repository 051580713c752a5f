package completions

import (
	"fmt"
	"regexp"
	"strings"
)

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Script returns the completion script of shell for the binary bin.
func Script(shell Shell, bin string) (string, error) {
	fn := "_" + nonIdent.ReplaceAllString(bin, "_") + "_complete"

	switch shell {
	case ShellBash:
		return fmt.Sprintf(bashScript, fn, bin), nil
	case ShellZsh:
		return fmt.Sprintf(zshScript, bin, fn, bin), nil
	case ShellFish:
		return fmt.Sprintf(fishScript, fn, bin), nil
	default:
		return "", fmt.Errorf("unsupported shell: %s", shell)
	}
}

// bash hands the partial line, minus the binary itself, to
// "<bin> complete". Completions for the last word come back one per line.
const bashScript = `%[1]s() {
    local line="${COMP_LINE:0:$COMP_POINT}"
    line="${line#* }"
    local IFS=$'\n'
    COMPREPLY=($(%[2]s complete "$line" 2>/dev/null))
}
complete -o default -F %[1]s %[2]s
`

const zshScript = `#compdef %[1]s

%[2]s() {
    local line="${BUFFER[1,$CURSOR]}"
    line="${line#* }"
    local -a out
    out=("${(@f)$(%[3]s complete "$line" 2>/dev/null)}")
    compadd -Q -- "${out[@]}"
}
compdef %[2]s %[3]s
`

const fishScript = `function %[1]s
    set -l line (string replace -r '^\S+\s*' '' -- (commandline -cp))
    %[2]s complete "$line" 2>/dev/null
end
complete -c %[2]s -f -a '(%[1]s)'
`

// SourceLine returns the line a user adds to their rc file to load the
// script on every shell start.
func SourceLine(shell Shell, bin string) string {
	switch shell {
	case ShellFish:
		return fmt.Sprintf("%s completions fish --script | source", bin)
	default:
		return fmt.Sprintf(`eval "$(%s completions %s --script)"`, bin, shell)
	}
}

// Instructions explains how to enable completions for shell.
func Instructions(shell Shell, bin string) string {
	var b strings.Builder
	b.WriteString("To enable completions, choose one of the following:\n\n")

	n := 1
	if path := AutoInstallPath(shell, bin); path != "" {
		fmt.Fprintf(&b, "%d. Write to auto-load directory:\n", n)
		fmt.Fprintf(&b, "   %s completions %s --script > %s\n\n", bin, shell, path)
		n++
	}

	fmt.Fprintf(&b, "%d. Add to %s:\n", n, RcFile(shell))
	fmt.Fprintf(&b, "   %s\n\n", SourceLine(shell, bin))
	b.WriteString("Then restart your shell or run: exec $SHELL")
	return b.String()
}
