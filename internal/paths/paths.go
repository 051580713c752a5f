// Package paths resolves where the community binary keeps its files.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "community"

// AppDataDir is the directory for the actors file, the .env file and the
// log, under os.UserConfigDir. It is created owner-only on first use.
func AppDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	path := filepath.Join(dir, appDirName)
	_ = os.MkdirAll(path, 0700)
	return path
}

// AppLocalDataDir is the directory for the audit database:
// ~/Library/Application Support on macOS, %LOCALAPPDATA% on Windows and
// $XDG_DATA_HOME (default ~/.local/share) elsewhere.
func AppLocalDataDir() string {
	base, ok := localDataBase()
	if !ok {
		return "."
	}
	return filepath.Join(base, appDirName)
}

func localDataBase() (string, bool) {
	var env string
	var fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "LOCALAPPDATA", []string{"AppData", "Local"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}

	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v, true
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(append([]string{home}, fallback...)...), true
}

// ConfigFilePath is the key=value settings file, ~/.communityrc.
func ConfigFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".communityrc"), nil
}

// EnvFilePath is the optional .env file loaded before environment
// overrides.
func EnvFilePath() string { return filepath.Join(AppDataDir(), ".env") }

// ActorsFilePath is the default YAML file listing console actors.
func ActorsFilePath() string { return filepath.Join(AppDataDir(), "actors.yaml") }

// DBPath is the default SQLite audit database.
func DBPath() string { return filepath.Join(AppLocalDataDir(), "community.db") }

// LogFilePath is the default log file.
func LogFilePath() string { return filepath.Join(AppDataDir(), "community.log") }
