package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/log"
	"github.com/pgm-community/dispatch/internal/paths"
)

// ReadLines returns the lines of the config file. A missing or empty file
// is seeded with every visible key at its default.
func ReadLines() ([]string, error) {
	path, err := paths.ConfigFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if len(data) == 0 {
		lines := defaultLines()
		if err := WriteLines(lines); err != nil {
			log.Warn("config: could not write default config: %v", err)
		}
		return lines, nil
	}

	if err := os.Chmod(path, 0600); err != nil {
		log.Warn("config: could not set permissions on %s: %v", path, err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n"), nil
}

func defaultLines() []string {
	lines := []string{
		"# Community dispatch configuration",
		"# Edit values below or use: community config set <key> <value>",
		"# COMMUNITY_<KEY> environment variables override this file.",
	}

	section := ""
	for _, key := range domain.VisibleConfigKeys() {
		if key.Section != section {
			section = key.Section
			lines = append(lines, "", "# "+section)
		}

		value := key.Default
		if fn, ok := Defaults[key.Name]; ok {
			value = fn()
		}
		if strings.Contains(value, " ") {
			value = `"` + value + `"`
		}
		lines = append(lines, "# "+key.Description, key.Name+"="+value)
	}
	return lines
}

// WriteLines replaces the config file through a temp file and rename, so
// readers never see a partial write.
func WriteLines(lines []string) (err error) {
	path, err := paths.ConfigFilePath()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".communityrc.tmp.*")
	if err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	if err = tmp.Chmod(0600); err != nil {
		return err
	}
	if _, err = tmp.Write(buf.Bytes()); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
