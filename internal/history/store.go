// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists the outcome of processing runs: which tool ran,
// when, and its change log. History is audit data only; nothing in the
// pipeline ever reads it back into processing state.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citeworks/pkg/types"
)

const dbFile = "citeworks.db"

// defaultKeep is the number of most recent runs Prune retains when the
// config does not say otherwise.
const defaultKeep = 100

// Run is one recorded processing pass.
type Run struct {
	ID        int64                  `json:"id" yaml:"id"`
	Tool      string                 `json:"tool" yaml:"tool"`
	StartedAt time.Time              `json:"started_at" yaml:"started_at"`
	Added     int                    `json:"added" yaml:"added"`
	Removed   int                    `json:"removed" yaml:"removed"`
	Relabeled int                    `json:"relabeled" yaml:"relabeled"`
	Unchanged int                    `json:"unchanged" yaml:"unchanged"`
	Orphaned  int                    `json:"orphaned" yaml:"orphaned"`
	Entries   []types.ChangeLogEntry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// Store manages the history SQLite database.
type Store struct {
	db   *sql.DB
	keep int
}

// Open opens or creates the history database at cfg.Dir/citeworks.db,
// creating the schema if needed.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("history directory not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	keep := cfg.Keep
	if keep <= 0 {
		keep = defaultKeep
	}

	s := &Store{db: db, keep: keep}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool TEXT NOT NULL,
			started_at TEXT NOT NULL,
			added INTEGER NOT NULL,
			removed INTEGER NOT NULL,
			relabeled INTEGER NOT NULL,
			unchanged INTEGER NOT NULL,
			orphaned INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			old_label TEXT,
			new_label TEXT,
			old_id TEXT,
			new_id TEXT,
			class TEXT NOT NULL,
			preview TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_run_id ON entries(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_tool ON runs(tool)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one run with its change log and returns the run id.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (tool, started_at, added, removed, relabeled, unchanged, orphaned)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Tool, started.UTC().Format(time.RFC3339Nano),
		run.Added, run.Removed, run.Relabeled, run.Unchanged, run.Orphaned,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (run_id, seq, old_label, new_label, old_id, new_id, class, preview)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range run.Entries {
		if _, err := stmt.ExecContext(ctx,
			runID, i, e.OldLabel, e.NewLabel, e.OldID, e.NewID, string(e.Class), e.Preview,
		); err != nil {
			return 0, fmt.Errorf("inserting entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// List returns the most recent runs, newest first, optionally filtered by
// tool name. Entries are not loaded; use Get for one run's change log.
func (s *Store) List(ctx context.Context, tool string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, tool, started_at, added, removed, relabeled, unchanged, orphaned
		 FROM runs`
	args := []any{}
	if tool != "" {
		query += ` WHERE tool = ?`
		args = append(args, tool)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Tool, &started, &r.Added, &r.Removed, &r.Relabeled, &r.Unchanged, &r.Orphaned); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get loads one run including its change-log entries.
func (s *Store) Get(ctx context.Context, runID int64) (Run, error) {
	var r Run
	var started string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, tool, started_at, added, removed, relabeled, unchanged, orphaned
		 FROM runs WHERE id = ?`, runID,
	).Scan(&r.ID, &r.Tool, &started, &r.Added, &r.Removed, &r.Relabeled, &r.Unchanged, &r.Orphaned)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("querying run: %w", err)
	}
	r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)

	rows, err := s.db.QueryContext(ctx,
		`SELECT old_label, new_label, old_id, new_id, class, preview
		 FROM entries WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return Run{}, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e types.ChangeLogEntry
		var class string
		if err := rows.Scan(&e.OldLabel, &e.NewLabel, &e.OldID, &e.NewID, &class, &e.Preview); err != nil {
			return Run{}, fmt.Errorf("scanning entry: %w", err)
		}
		e.Class = types.Classification(class)
		r.Entries = append(r.Entries, e)
	}
	return r, rows.Err()
}

// Prune deletes all but the most recent keep runs (cascade removes their
// entries) and returns the number of runs deleted.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY id DESC LIMIT ?)`,
		s.keep,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
