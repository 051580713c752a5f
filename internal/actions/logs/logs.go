package logs

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/pgm-community/dispatch/internal/dispatchers"
	"github.com/pgm-community/dispatch/internal/usage"
)

// DefaultLimit is how many lines show prints without --limit.
const DefaultLimit = 50

// MsgDisabled is the reply of every logs command when no log file is
// configured.
const MsgDisabled = "Logging is disabled. Set log_path to enable it."

// Show prints the last lines of the log file.
func Show(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		if deps.Path == "" {
			return usage.Message(MsgDisabled)
		}
		jsonOutput := inv.Bool("json")

		info, err := deps.Stat(deps.Path)
		if errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0) {
			if jsonOutput {
				inv.Reply("[]")
			} else {
				inv.Reply("Log file is empty.")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("stat log file: %w", err)
		}

		content, err := deps.ReadFile(deps.Path)
		if err != nil {
			return fmt.Errorf("read log file: %w", err)
		}
		lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

		limit := DefaultLimit
		if inv.Has("limit") && inv.Int("limit") > 0 {
			limit = inv.Int("limit")
		}
		if len(lines) > limit {
			lines = lines[len(lines)-limit:]
		}

		if jsonOutput {
			data, err := toJSON(lines)
			if err != nil {
				return err
			}
			inv.Reply("%s", data)
			return nil
		}

		var b strings.Builder
		for _, line := range lines {
			b.WriteString(colorize(deps, line))
			b.WriteByte('\n')
		}
		deps.Pager.Pager(b.String())
		return nil
	}
}

// logLine matches lines like: [2026-01-29 10:30:45] INFO: message
var logLine = regexp.MustCompile(`^\[([^\]]+)\]\s+(DEBUG|INFO|WARN|ERROR):\s*(.*)$`)

type entry struct {
	Timestamp string `json:"timestamp,omitempty"`
	Level     string `json:"level,omitempty"`
	Message   string `json:"message"`
	Raw       bool   `json:"raw,omitempty"`
}

func toJSON(lines []string) (string, error) {
	entries := make([]entry, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if m := logLine.FindStringSubmatch(line); m != nil {
			entries = append(entries, entry{Timestamp: m[1], Level: m[2], Message: m[3]})
		} else {
			entries = append(entries, entry{Message: line, Raw: true})
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Tail follows the log file, replying with every new line until ctx is
// done.
func Tail(deps Deps) dispatchers.Handler {
	return func(ctx context.Context, inv *dispatchers.Invocation) error {
		if deps.Path == "" {
			return usage.Message(MsgDisabled)
		}

		file, err := deps.OpenFile(deps.Path, os.O_RDONLY|os.O_CREATE, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer func() { _ = file.Close() }()

		if _, err := file.Seek(0, io.SeekEnd); err != nil {
			return fmt.Errorf("seek log file: %w", err)
		}

		inv.Reply("Following %s (Ctrl+C to stop)", deps.Path)

		reader := bufio.NewReader(file)
		ticker := time.NewTicker(deps.PollInterval)
		defer ticker.Stop()

		var partial string
		for {
			line, err := reader.ReadString('\n')
			partial += line
			if err == nil {
				inv.Reply("%s", colorize(deps, strings.TrimSuffix(partial, "\n")))
				partial = ""
				continue
			}
			if err != io.EOF {
				return fmt.Errorf("read log file: %w", err)
			}

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	}
}

// Clear empties the log file.
func Clear(deps Deps) dispatchers.Handler {
	return func(_ context.Context, inv *dispatchers.Invocation) error {
		if deps.Path == "" {
			return usage.Message(MsgDisabled)
		}
		if err := deps.WriteFile(deps.Path, []byte{}, 0600); err != nil {
			return fmt.Errorf("clear log file: %w", err)
		}
		inv.Reply("Log file cleared.")
		return nil
	}
}

// colorize styles a line by its level.
func colorize(deps Deps, line string) string {
	m := logLine.FindStringSubmatch(line)
	if m == nil || deps.Styler == nil {
		return line
	}
	switch m[2] {
	case "ERROR":
		return deps.Styler.Error(line)
	case "WARN":
		return deps.Styler.Warning(line)
	case "INFO":
		return deps.Styler.Info(line)
	default:
		return deps.Styler.Muted(line)
	}
}
