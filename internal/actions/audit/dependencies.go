// Package audit implements the commands that read and prune the dispatch
// audit log.
package audit

import (
	"time"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/format"
)

// Store is the part of the audit store the commands read.
type Store interface {
	ListDispatches(filter domain.DispatchFilter) ([]domain.DispatchRecord, error)
	Request(requestID string) ([]domain.DispatchRecord, error)
	CountByStatus(filter domain.DispatchFilter) (map[domain.DispatchStatus]int, error)
	Prune(cutoff time.Time) (int64, error)
}

// Pager shows long output.
type Pager interface {
	Pager(content string)
}

type Deps struct {
	Store  Store
	Pager  Pager
	Layout format.Layout
	Now    func() time.Time
}

// DefaultLimit caps audit list when no --limit is given.
const DefaultLimit = 50
