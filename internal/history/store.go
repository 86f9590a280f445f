// Package history records ranking runs and their top scores in a local
// SQLite database so results can be compared across inputs and settings.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/newsrank/internal/rank"
)

// ErrRunNotFound is returned when a run ID has no record.
var ErrRunNotFound = errors.New("history: run not found")

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id            TEXT PRIMARY KEY,
    started_at    TEXT NOT NULL,
    input         TEXT NOT NULL,
    vertices      INTEGER NOT NULL,
    edges         INTEGER NOT NULL,
    teleport_rate REAL NOT NULL,
    iterations    INTEGER NOT NULL,
    converged     INTEGER NOT NULL,
    delta         REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
    run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position  INTEGER NOT NULL,
    vertex_id INTEGER NOT NULL,
    name      TEXT NOT NULL,
    score     REAL NOT NULL,
    PRIMARY KEY (run_id, position)
);
`

// tsLayout is fixed-width so started_at sorts chronologically as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run summarises one pipeline execution.
type Run struct {
	ID           string
	StartedAt    time.Time
	Input        string
	Vertices     int
	Edges        int
	TeleportRate float64
	Iterations   int
	Converged    bool
	Delta        float64
	Leader       string // top-ranked name, filled by Runs
}

// Store persists runs in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, enables WAL mode and a
// busy timeout, and creates the schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	// SQLite allows a single writer; one pooled connection keeps the
	// pragmas below in effect for every statement.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores run and the ranked entries in one transaction. An empty
// run.ID is replaced with a new UUID; the stored ID is returned.
func (s *Store) Record(ctx context.Context, run Run, entries rank.List) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const insertRun = `
		INSERT INTO runs (id, started_at, input, vertices, edges, teleport_rate, iterations, converged, delta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertRun,
		run.ID, run.StartedAt.UTC().Format(tsLayout), run.Input,
		run.Vertices, run.Edges, run.TeleportRate, run.Iterations, run.Converged, run.Delta,
	); err != nil {
		return "", fmt.Errorf("history: insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scores (run_id, position, vertex_id, name, score) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("history: prepare score insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, run.ID, i+1, e.ID, e.Name, e.Score); err != nil {
			return "", fmt.Errorf("history: insert score %d of run %s: %w", i+1, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("history: commit run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

// Runs returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT r.id, r.started_at, r.input, r.vertices, r.edges, r.teleport_rate,
			r.iterations, r.converged, r.delta, COALESCE(sc.name, '')
		FROM runs r
		LEFT JOIN scores sc ON sc.run_id = r.id AND sc.position = 1
		ORDER BY r.started_at DESC, r.id`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.Input, &r.Vertices, &r.Edges, &r.TeleportRate,
			&r.Iterations, &r.Converged, &r.Delta, &r.Leader); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(tsLayout, ts); err != nil {
			return nil, fmt.Errorf("history: parse run timestamp: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}

// Scores returns the stored ranking for a run in rank order.
func (s *Store) Scores(ctx context.Context, runID string) (rank.List, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("history: lookup run %s: %w", runID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT vertex_id, name, score FROM scores WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: query scores: %w", err)
	}
	defer rows.Close()

	var list rank.List
	for rows.Next() {
		var e rank.Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Score); err != nil {
			return nil, fmt.Errorf("history: scan score: %w", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate scores: %w", err)
	}
	return list, nil
}
