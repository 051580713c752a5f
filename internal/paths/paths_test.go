package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", "")
	return home
}

func TestAppDataDir_CreatesOwnerOnlyDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("Test only runs on Linux")
	}
	home := isolate(t)

	dir := AppDataDir()
	require.Equal(t, filepath.Join(home, ".config", "community"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestAppLocalDataDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("Test only runs on Linux")
	}

	t.Run("xdg data home", func(t *testing.T) {
		isolate(t)
		t.Setenv("XDG_DATA_HOME", "/tmp/custom/data")
		require.Equal(t, "/tmp/custom/data/community", AppLocalDataDir())
	})

	t.Run("fallback", func(t *testing.T) {
		home := isolate(t)
		require.Equal(t, filepath.Join(home, ".local", "share", "community"), AppLocalDataDir())
	})
}

func TestFilePaths(t *testing.T) {
	home := isolate(t)

	cfg, err := ConfigFilePath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".communityrc"), cfg)

	tests := []struct {
		name   string
		path   string
		parent string
		base   string
	}{
		{"log file", LogFilePath(), AppDataDir(), "community.log"},
		{"env file", EnvFilePath(), AppDataDir(), ".env"},
		{"actors file", ActorsFilePath(), AppDataDir(), "actors.yaml"},
		{"database", DBPath(), AppLocalDataDir(), "community.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.parent, filepath.Dir(tt.path))
			require.Equal(t, tt.base, filepath.Base(tt.path))
			require.False(t, strings.Contains(tt.path, ".."), "path should not contain '..': %s", tt.path)
			require.True(t, filepath.IsAbs(tt.path), "path should be absolute: %s", tt.path)
		})
	}
}
