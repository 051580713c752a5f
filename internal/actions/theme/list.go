package theme

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/ui/style"
)

func List(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		current, _ := deps.Provider.Get(ConfigKey)
		if current == "" {
			current = "default"
		}

		lines := []string{"Available themes (* = current)", ""}
		for _, name := range deps.Names {
			marker := "  "
			if strings.EqualFold(name, current) {
				marker = "* "
			}
			line := fmt.Sprintf("%s%-14s", marker, name)
			if deps.Preview {
				line += "  " + renderColorPreview(deps.Themes[deps.Resolve(name)])
			}
			lines = append(lines, strings.TrimRight(line, " "))
		}
		lines = append(lines, "", "Base names follow the terminal background.")

		inv.Reply("%s", strings.Join(lines, "\n"))
		return nil
	}
}

// renderColorPreview returns a sample of every role in cfg.
func renderColorPreview(cfg style.ColorConfig) string {
	s := style.NewWithColors(cfg, io.Discard)
	return strings.Join([]string{
		s.Success("success"),
		s.Warning("warning"),
		s.Error("error"),
		s.Info("info"),
		s.Muted("muted"),
	}, " ")
}
