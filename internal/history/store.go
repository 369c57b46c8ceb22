// Package history persists build reports so operators can inspect past runs.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/siteforge/internal/build"
)

// Entry is one persisted build run.
type Entry struct {
	RunID       string
	Start       time.Time
	End         time.Time
	Outcome     build.Outcome
	Units       int
	FailedUnits []string
}

// Store records build reports in SQLite. Use ":memory:" for an in-memory
// database, or a file path for persistent storage.
type Store struct {
	db *sql.DB
}

// Open opens (and initializes) the history database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		units INTEGER NOT NULL,
		failed_units TEXT,
		results BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a finished build report.
func (s *Store) Append(ctx context.Context, report *build.Report) error {
	results, err := json.Marshal(report.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	failed := strings.Join(report.FailedUnits(), ",")
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO runs (run_id, started_at, finished_at, outcome, units, failed_units, results) VALUES (?, ?, ?, ?, ?, ?, ?)",
		report.RunID, report.Start.UnixMilli(), report.End.UnixMilli(), string(report.Outcome), len(report.Results), failed, results,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, started_at, finished_at, outcome, units, failed_units FROM runs ORDER BY started_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var start, end int64
		var outcome, failed string
		if err := rows.Scan(&e.RunID, &start, &end, &outcome, &e.Units, &failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.Start = time.UnixMilli(start)
		e.End = time.UnixMilli(end)
		e.Outcome = build.Outcome(outcome)
		if failed != "" {
			e.FailedUnits = strings.Split(failed, ",")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
