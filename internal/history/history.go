// Package history persists poll outcomes to SQLite for offline analysis
// without slowing the live monitoring path.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Recorder appends run outcomes into a SQLite database.
type Recorder struct {
	db *sql.DB
}

// NewRecorder opens (or creates) the SQLite database at path and ensures
// the schema exists.
func NewRecorder(path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: ensure dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Recorder{db: db}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS run_outcomes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    machine TEXT NOT NULL,
    program_type TEXT NOT NULL,
    status TEXT NOT NULL,
    message TEXT,
    line INTEGER,
    reason TEXT,
    observed_at INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("history: init schema: %w", err)
	}
	return nil
}

// Entry is one recorded outcome.
type Entry struct {
	RunID       string
	Machine     string
	ProgramType string
	Status      string
	Message     string
	Line        *int
	Reason      string
	ObservedAt  time.Time
}

// Record appends one outcome and returns its generated run id.
func (r *Recorder) Record(machine, programType, status, message string, line *int, reason string) (string, error) {
	runID := uuid.NewString()

	var lineVal sql.NullInt64
	if line != nil {
		lineVal = sql.NullInt64{Int64: int64(*line), Valid: true}
	}

	_, err := r.db.Exec(
		`INSERT INTO run_outcomes
		 (run_id, machine, program_type, status, message, line, reason, observed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, machine, programType, status,
		nullIfEmpty(message), lineVal, nullIfEmpty(reason),
		time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("history: insert: %w", err)
	}

	return runID, nil
}

// Recent returns up to limit most recent entries, newest first.
func (r *Recorder) Recent(limit int) ([]Entry, error) {
	rows, err := r.db.Query(
		`SELECT run_id, machine, program_type, status,
		        COALESCE(message, ''), line, COALESCE(reason, ''), observed_at
		 FROM run_outcomes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var line sql.NullInt64
		var at int64
		if err := rows.Scan(&e.RunID, &e.Machine, &e.ProgramType, &e.Status,
			&e.Message, &line, &e.Reason, &at); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if line.Valid {
			n := int(line.Int64)
			e.Line = &n
		}
		e.ObservedAt = time.Unix(at, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
