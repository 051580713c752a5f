// Package testutil holds fixtures shared across package tests.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/store"
	"github.com/pgm-community/dispatch/internal/store/migrations"
)

// NewTestDB creates an in-memory SQLite database with migrations applied.
// The database is closed when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err, "failed to open in-memory database")

	// Every pooled connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = db.Close()
	})

	err = migrations.Run(db)
	require.NoError(t, err, "failed to run migrations")

	return db
}

// NewTestStore wraps NewTestDB in a store.Store.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.NewWithDB(NewTestDB(t))
}

// SeedDispatches records each of recs into s.
func SeedDispatches(t *testing.T, s *store.Store, recs []domain.DispatchRecord) {
	t.Helper()

	for _, rec := range recs {
		err := s.RecordDispatch(rec)
		require.NoError(t, err, "failed to seed dispatch: %+v", rec)
	}
}
