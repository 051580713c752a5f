package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pgm-community/dispatch/internal/paths"
)

// ErrLockTimeout is returned when another process holds the config lock
// for longer than lockWait.
var ErrLockTimeout = errors.New("config: lock timeout")

const (
	lockWait  = 5 * time.Second
	lockStale = 30 * time.Second
	lockPoll  = 50 * time.Millisecond
)

// WithLock runs fn while holding an exclusive lock file next to the
// config file. A lock older than lockStale is considered abandoned.
func WithLock(fn func() error) error {
	cfg, err := paths.ConfigFilePath()
	if err != nil {
		return err
	}
	path := cfg + ".lock"
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: lock dir: %w", err)
	}

	f, err := lock(path, time.Now().Add(lockWait))
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(path)
	}()

	return fn()
}

func lock(path string, deadline time.Time) (*os.File, error) {
	for {
		if info, err := os.Stat(path); err == nil && time.Since(info.ModTime()) > lockStale {
			_ = os.Remove(path)
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		switch {
		case err == nil:
			_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
			return f, nil
		case !errors.Is(err, os.ErrExist):
			return nil, fmt.Errorf("config: lock: %w", err)
		case time.Now().After(deadline):
			return nil, ErrLockTimeout
		}
		time.Sleep(lockPoll)
	}
}
