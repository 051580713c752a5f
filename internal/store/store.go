// Package store persists the dispatch audit log in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pgm-community/dispatch/internal/domain"
	"github.com/pgm-community/dispatch/internal/store/migrations"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrInvalidRecord is returned for records missing their identity.
var ErrInvalidRecord = errors.New("store: record needs an id, request id and actor id")

// Store wraps a SQLite connection holding the audit log.
// It implements domain.AuditStore.
type Store struct {
	db   *sql.DB
	path string
}

// New opens the database at path and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	setDBPermissions(path)

	if err = migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// NewWithDB wraps an already migrated connection.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for NewWithDB stores.
func (s *Store) Path() string {
	return s.path
}

// Close closes the connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// setDBPermissions restricts the database and its WAL/SHM files to the owner.
func setDBPermissions(path string) {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return
	}
	_ = os.Chmod(path, 0600)
	_ = os.Chmod(path+"-wal", 0600)
	_ = os.Chmod(path+"-shm", 0600)
}

// RecordDispatch appends one dispatch outcome. A zero CreatedAt is stamped
// with the current time.
func (s *Store) RecordDispatch(rec domain.DispatchRecord) error {
	if rec.ID == "" || rec.RequestID == "" || rec.ActorID == "" {
		return ErrInvalidRecord
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO dispatches
		 (id, request_id, actor_id, actor_name, input, command, status, failure, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.RequestID,
		rec.ActorID,
		rec.ActorName,
		rec.Input,
		rec.Command,
		string(rec.Status),
		rec.Failure,
		rec.Message,
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("store: record dispatch %s: %w", rec.ID, err)
	}
	return nil
}

// ListDispatches returns records matching filter, newest first.
func (s *Store) ListDispatches(filter domain.DispatchFilter) ([]domain.DispatchRecord, error) {
	query := `
		SELECT
			id,
			request_id,
			actor_id,
			actor_name,
			input,
			command,
			status,
			failure,
			message,
			created_at
		FROM dispatches
	`

	clauses, args := filterClauses(filter)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DispatchRecord
	for rows.Next() {
		rec, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Request returns every record of one request in the order written.
func (s *Store) Request(requestID string) ([]domain.DispatchRecord, error) {
	rows, err := s.db.Query(`
		SELECT
			id,
			request_id,
			actor_id,
			actor_name,
			input,
			command,
			status,
			failure,
			message,
			created_at
		FROM dispatches
		WHERE request_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DispatchRecord
	for rows.Next() {
		rec, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountByStatus tallies records matching filter per status. Limit is ignored.
func (s *Store) CountByStatus(filter domain.DispatchFilter) (map[domain.DispatchStatus]int, error) {
	query := "SELECT status, COUNT(*) FROM dispatches"

	clauses, args := filterClauses(filter)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " GROUP BY status"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.DispatchStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.DispatchStatus(status)] = n
	}
	return counts, rows.Err()
}

// Prune deletes records created before cutoff and reports how many.
func (s *Store) Prune(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(
		"DELETE FROM dispatches WHERE created_at < ?",
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("store: prune: %w", err)
	}
	return result.RowsAffected()
}

func filterClauses(filter domain.DispatchFilter) ([]string, []any) {
	var (
		clauses []string
		args    []any
	)

	if filter.ActorID != "" {
		clauses = append(clauses, "actor_id = ?")
		args = append(args, filter.ActorID)
	}

	if filter.Command != "" {
		clauses = append(clauses, "command = ?")
		args = append(args, filter.Command)
	}

	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}

	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	return clauses, args
}

func scanDispatch(rows *sql.Rows) (domain.DispatchRecord, error) {
	var (
		rec    domain.DispatchRecord
		status string
		ts     string
	)

	if err := rows.Scan(
		&rec.ID,
		&rec.RequestID,
		&rec.ActorID,
		&rec.ActorName,
		&rec.Input,
		&rec.Command,
		&status,
		&rec.Failure,
		&rec.Message,
		&ts,
	); err != nil {
		return domain.DispatchRecord{}, err
	}

	t, err := time.Parse(timeLayout, ts)
	if err != nil {
		return domain.DispatchRecord{}, fmt.Errorf("store: parse created_at %q: %w", ts, err)
	}

	rec.Status = domain.DispatchStatus(status)
	rec.CreatedAt = t
	return rec, nil
}

var _ domain.AuditStore = (*Store)(nil)
