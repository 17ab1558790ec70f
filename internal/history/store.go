// Package history keeps a SQLite log of live script runs.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DefaultLimit is the number of runs Recent returns for a non-positive limit.
const DefaultLimit = 20

// Run is one recorded script execution.
type Run struct {
	// ID is assigned by Record when empty.
	ID        string
	Script    string
	Command   string
	ExitCode  int
	Success   bool
	StartedAt time.Time
	Duration  time.Duration
}

// Store manages the run history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens (creating if needed) the database at dbPath. ":memory:" gives
// a private in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive across queries.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA busy_timeout=5000", "PRAGMA synchronous=NORMAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Record stores run, assigning a new ID when run.ID is empty.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	query := `INSERT INTO runs (id, script, command, exit_code, success, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Script,
		run.Command,
		run.ExitCode,
		run.Success,
		run.StartedAt.UnixNano(),
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A script filter of ""
// matches every script.
func (s *Store) Recent(ctx context.Context, script string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `SELECT id, script, command, exit_code, success, started_at, duration_ms
		FROM runs
		WHERE ? = '' OR script = ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, script, script, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, durationMS int64
		if err := rows.Scan(&run.ID, &run.Script, &run.Command, &run.ExitCode, &run.Success, &started, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		run.StartedAt = time.Unix(0, started)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}
