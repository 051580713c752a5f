package config

import (
	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/paths"
)

// Defaults holds the default of every key. Path defaults are computed
// lazily because they depend on the environment.
var Defaults = map[string]func() string{
	"confirm_ttl":     func() string { return "30s" },
	"sweep_interval":  func() string { return "0s" },
	"suggest_workers": func() string { return "4" },
	"suggest_rate":    func() string { return "20" },
	"command_prefix":  func() string { return "/" },
	"actors_path":     func() string { return paths.ActorsFilePath() },
	"color":           func() string { return "true" },
	"color_theme":     func() string { return "default" },
	"display_date":    func() string { return "Jan 02" },
	"display_time":    func() string { return "24h" },
	"pager":           func() string { return "" },
	"db_path":         func() string { return paths.DBPath() },
	"enable_audit":    func() string { return "true" },
	"log_path":        func() string { return paths.LogFilePath() },
	"log_level":       func() string { return "info" },
}

// IsKnown reports whether key is a documented configuration key.
func IsKnown(key string) bool {
	for _, k := range domain.ConfigKeys {
		if k.Name == key {
			return true
		}
	}
	return false
}

// Get returns the value for a config key.
// It checks the config file first, then falls back to the default.
// Returns the value and whether it was found (in file or defaults).
func Get(key string) (string, bool) {
	cfg, err := readFile()
	if err == nil {
		if value, exists := cfg[key]; exists {
			return value, true
		}
	}

	if defaultFn, ok := Defaults[key]; ok {
		return defaultFn(), true
	}
	return "", false
}

// GetAll returns all config values (user overrides merged with defaults).
// A missing or malformed file yields the defaults.
func GetAll() (map[string]string, error) {
	result := make(map[string]string)

	for key, valueFn := range Defaults {
		result[key] = valueFn()
	}

	cfg, err := readFile()
	if err != nil {
		return result, nil
	}

	for key, value := range cfg {
		result[key] = value
	}

	return result, nil
}

func readFile() (map[string]string, error) {
	lines, err := ReadLines()
	if err != nil {
		return nil, err
	}
	return Parse(lines)
}
