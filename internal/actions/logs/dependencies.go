// Package logs implements the commands that read and clear the log file.
package logs

import (
	"os"
	"time"

	"github.com/pgm-community/dispatch/internal/domain"
)

// Pager shows long output.
type Pager interface {
	Pager(content string)
}

type Deps struct {
	// Path is the log file; empty when logging is disabled.
	Path   string
	Pager  Pager
	Styler domain.Styler

	ReadFile  func(string) ([]byte, error)
	WriteFile func(string, []byte, os.FileMode) error
	Stat      func(string) (os.FileInfo, error)
	OpenFile  func(string, int, os.FileMode) (*os.File, error)

	// PollInterval is how often tail checks the file for new lines.
	PollInterval time.Duration
}

func DefaultDeps(path string, pager Pager, styler domain.Styler) Deps {
	return Deps{
		Path:         path,
		Pager:        pager,
		Styler:       styler,
		ReadFile:     os.ReadFile,
		WriteFile:    os.WriteFile,
		Stat:         os.Stat,
		OpenFile:     os.OpenFile,
		PollInterval: 500 * time.Millisecond,
	}
}
