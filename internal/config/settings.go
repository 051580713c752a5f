package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/pgm-community/dispatch/internal/paths"
)

// EnvPrefix prefixes every environment override, e.g. COMMUNITY_LOG_LEVEL.
const EnvPrefix = "COMMUNITY_"

// Settings is the typed view of the configuration.
type Settings struct {
	ConfirmTTL     time.Duration `env:"CONFIRM_TTL"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL"`
	SuggestWorkers int           `env:"SUGGEST_WORKERS"`
	SuggestRate    float64       `env:"SUGGEST_RATE"`
	CommandPrefix  string        `env:"COMMAND_PREFIX"`
	ActorsPath     string        `env:"ACTORS_PATH"`
	Color          bool          `env:"COLOR"`
	ColorTheme     string        `env:"COLOR_THEME"`
	DBPath         string        `env:"DB_PATH"`
	EnableAudit    bool          `env:"ENABLE_AUDIT"`
	LogPath        string        `env:"LOG_PATH"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// Load builds Settings from defaults, the config file, the given .env
// files and finally COMMUNITY_* environment variables. With no envFiles
// it reads ./.env and paths.EnvFilePath() when they exist. Variables
// already set in the process take precedence over .env files.
func Load(envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", paths.EnvFilePath()}
	}
	if err := loadDotEnv(envFiles); err != nil {
		return Settings{}, err
	}

	values, err := GetAll()
	if err != nil {
		return Settings{}, err
	}

	s, err := FromMap(values)
	if err != nil {
		return Settings{}, err
	}

	if err := env.ParseWithOptions(&s, env.Options{Prefix: EnvPrefix}); err != nil {
		return Settings{}, fmt.Errorf("config: environment: %w", err)
	}
	return s, s.Validate()
}

func loadDotEnv(files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// FromMap converts raw key=value settings. Keys missing from values keep
// their defaults; unknown keys are ignored.
func FromMap(values map[string]string) (Settings, error) {
	get := func(key string) string {
		if v, ok := values[key]; ok {
			return v
		}
		if fn, ok := Defaults[key]; ok {
			return fn()
		}
		return ""
	}

	var s Settings
	var errs []error
	duration := func(key string) time.Duration {
		d, err := time.ParseDuration(get(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
		}
		return d
	}
	integer := func(key string) int {
		n, err := strconv.Atoi(get(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
		}
		return n
	}
	float := func(key string) float64 {
		f, err := strconv.ParseFloat(get(key), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
		}
		return f
	}
	boolean := func(key string) bool {
		b, err := strconv.ParseBool(get(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
		}
		return b
	}

	s.ConfirmTTL = duration("confirm_ttl")
	s.SweepInterval = duration("sweep_interval")
	s.SuggestWorkers = integer("suggest_workers")
	s.SuggestRate = float("suggest_rate")
	s.CommandPrefix = get("command_prefix")
	s.ActorsPath = get("actors_path")
	s.Color = boolean("color")
	s.ColorTheme = get("color_theme")
	s.DBPath = get("db_path")
	s.EnableAudit = boolean("enable_audit")
	s.LogPath = get("log_path")
	s.LogLevel = get("log_level")

	if err := errors.Join(errs...); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks value ranges that the types alone do not capture.
func (s Settings) Validate() error {
	switch {
	case s.ConfirmTTL <= 0:
		return fmt.Errorf("config: confirm_ttl must be positive, got %s", s.ConfirmTTL)
	case s.SweepInterval < 0:
		return fmt.Errorf("config: sweep_interval must not be negative, got %s", s.SweepInterval)
	case s.SuggestWorkers < 1:
		return fmt.Errorf("config: suggest_workers must be at least 1, got %d", s.SuggestWorkers)
	case s.SuggestRate < 0:
		return fmt.Errorf("config: suggest_rate must not be negative, got %g", s.SuggestRate)
	}
	return nil
}

// validate checks a single raw value before it is written to the file.
func validate(key, value string) error {
	values := map[string]string{key: value}
	s, err := FromMap(values)
	if err != nil {
		return err
	}
	return s.Validate()
}
