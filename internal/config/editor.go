package config

import "strings"

// entryKey returns the key of a key=value line. Blank lines, comments and
// lines without '=' have no key.
func entryKey(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	key, _, ok := strings.Cut(trimmed, "=")
	return strings.TrimSpace(key), ok
}

// Set replaces the first entry for key in lines, keeping a trailing
// "# comment", or appends a new entry. It reports whether an entry was
// replaced.
func Set(lines []string, key, value string) ([]string, bool) {
	for i, line := range lines {
		if k, ok := entryKey(line); !ok || k != key {
			continue
		}
		entry := key + "=" + value
		_, old, _ := strings.Cut(line, "=")
		if _, comment, found := strings.Cut(old, "#"); found {
			entry += " #" + strings.TrimRight(comment, " \t")
		}
		lines[i] = entry
		return lines, true
	}
	return append(lines, key+"="+value), false
}

// Unset drops every entry for key and reports whether there was one.
func Unset(lines []string, key string) ([]string, bool) {
	var out []string
	removed := false
	for _, line := range lines {
		if k, ok := entryKey(line); ok && k == key {
			removed = true
			continue
		}
		out = append(out, line)
	}
	return out, removed
}
