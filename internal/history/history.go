// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists run outcomes in a local SQLite database so past
// harness runs can be inspected. Recording is advisory: a history failure
// never changes a run's exit code.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/markcheck/pkg/types"
)

// DefaultPath is the history database location relative to the working
// directory.
const DefaultPath = ".markcheck/history.db"

// Store manages the run history SQLite database.
type Store struct {
	db *sql.DB
}

// RunRecord is one recorded harness run.
type RunRecord struct {
	ID        int64
	StartedAt time.Time
	Image     string
	Passed    int
	Failed    int
	Skipped   int
	Blocked   int
	ExitCode  int
}

// TargetRecord is one target outcome within a recorded run.
type TargetRecord struct {
	Target   string
	Status   types.Status
	Reason   string
	Duration time.Duration
}

// Open opens or creates the history database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
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
			started_at TEXT NOT NULL,
			image TEXT NOT NULL,
			passed INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			blocked INTEGER NOT NULL,
			exit_code INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_targets (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			target TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_targets_run_id ON run_targets(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a completed run and its per-target results.
func (s *Store) Record(ctx context.Context, image string, startedAt time.Time, sum types.Summary) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning history transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, image, passed, failed, skipped, blocked, exit_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), image,
		sum.Count(types.StatusPass), sum.Count(types.StatusFail),
		sum.Count(types.StatusSkip), sum.Count(types.StatusBlocked),
		sum.ExitCode())
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, r := range sum.Results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_targets (run_id, target, status, reason, duration_ms)
			 VALUES (?, ?, ?, ?, ?)`,
			runID, r.Target, string(r.Status), r.Reason, r.Duration.Milliseconds()); err != nil {
			return 0, fmt.Errorf("inserting target result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing history transaction: %w", err)
	}
	return runID, nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, image, passed, failed, skipped, blocked, exit_code
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Image, &r.Passed, &r.Failed, &r.Skipped, &r.Blocked, &r.ExitCode); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = ts
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Targets returns the per-target outcomes for a recorded run.
func (s *Store) Targets(ctx context.Context, runID int64) ([]TargetRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT target, status, reason, duration_ms FROM run_targets WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run targets: %w", err)
	}
	defer rows.Close()

	var records []TargetRecord
	for rows.Next() {
		var r TargetRecord
		var status string
		var ms int64
		if err := rows.Scan(&r.Target, &status, &r.Reason, &ms); err != nil {
			return nil, fmt.Errorf("scanning target result: %w", err)
		}
		r.Status = types.Status(status)
		r.Duration = time.Duration(ms) * time.Millisecond
		records = append(records, r)
	}
	return records, rows.Err()
}
