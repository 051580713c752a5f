package migrations_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pgm-community/dispatch/internal/store/migrations"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoad(t *testing.T) {
	all, err := migrations.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(all) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(all))
	}

	for i := 1; i < len(all); i++ {
		if all[i].Version <= all[i-1].Version {
			t.Errorf("migration %d (v%d) not after %d (v%d)",
				i, all[i].Version, i-1, all[i-1].Version)
		}
	}

	for _, m := range all {
		if m.Description == "" || m.SQL == "" {
			t.Errorf("migration v%d is incomplete: %+v", m.Version, m)
		}
	}
}

func TestRunIdempotent(t *testing.T) {
	db := openMemory(t)

	if err := migrations.Run(db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	v1, err := migrations.CurrentVersion(db)
	if err != nil {
		t.Fatalf("get version: %v", err)
	}

	if err := migrations.Run(db); err != nil {
		t.Fatalf("second run: %v", err)
	}
	v2, err := migrations.CurrentVersion(db)
	if err != nil {
		t.Fatalf("get version: %v", err)
	}

	if v1 != v2 {
		t.Errorf("version changed: %d -> %d", v1, v2)
	}
}

func TestPending(t *testing.T) {
	db := openMemory(t)

	all, _ := migrations.Load()

	pending, err := migrations.Pending(db)
	if err != nil {
		t.Fatalf("pending before: %v", err)
	}
	if len(pending) != len(all) {
		t.Errorf("expected %d pending, got %d", len(all), len(pending))
	}

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run: %v", err)
	}
	pending, _ = migrations.Pending(db)
	if len(pending) != 0 {
		t.Errorf("expected 0 pending, got %d", len(pending))
	}
}

func TestTablesCreated(t *testing.T) {
	db := openMemory(t)

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, table := range []string{"schema_migrations", "dispatch_status", "dispatches"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			t.Errorf("table %s not created", table)
		} else if err != nil {
			t.Errorf("check %s: %v", table, err)
		}
	}
}

func TestStatusesSeeded(t *testing.T) {
	db := openMemory(t)

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, status := range []string{"executed", "pending", "confirmed", "failed"} {
		var count int
		if err := db.QueryRow(
			"SELECT COUNT(*) FROM dispatch_status WHERE name = ?", status,
		).Scan(&count); err != nil {
			t.Fatalf("check %s: %v", status, err)
		}
		if count != 1 {
			t.Errorf("status %s not seeded", status)
		}
	}
}
