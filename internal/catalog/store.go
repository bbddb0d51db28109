// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists segmentation run history in a SQLite ledger so
// past runs and their per-segment outcomes can be inspected and compared
// against re-runs of the same source.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/budget-engine/pkg/types"
)

const dbFile = "catalog.db"

// Store manages the run catalog SQLite database.
type Store struct {
	db *sql.DB
}

// RunSummary is one catalog row describing a complete run.
type RunSummary struct {
	ID         int64
	Source     string
	OutputDir  string
	Pages      int
	Workers    int
	Segments   int
	Failed     int
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// SegmentRecord is one per-segment outcome within a recorded run.
type SegmentRecord struct {
	OrderIndex int
	Label      string
	Category   string
	StartPage  int
	EndPage    int
	Status     string
	Error      string
}

// NewStore opens or creates the catalog database under cfg.StateDir,
// creating the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	stateDir := cfg.StateDir
	if stateDir == "" {
		stateDir = types.DefaultStateDir
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	s := &Store{db: db}
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
			source TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			pages INTEGER NOT NULL,
			workers INTEGER NOT NULL,
			segments INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			status TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS segments (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			order_index INTEGER NOT NULL,
			label TEXT NOT NULL,
			category TEXT NOT NULL,
			start_page INTEGER NOT NULL,
			end_page INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			PRIMARY KEY (run_id, order_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run report and its per-segment results, returning the new
// run's catalog ID.
func (s *Store) Record(ctx context.Context, report *types.RunReport) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	status := "ok"
	if report.HasFailures() {
		status = "failed"
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, output_dir, pages, workers, segments, failed, status, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.Source, report.OutputDir, report.Pages, report.Workers,
		len(report.Results), report.Failed(), status,
		report.StartedAt.Format(time.RFC3339), report.FinishedAt.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, r := range report.Results {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO segments (run_id, order_index, label, category, start_page, end_page, status, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, r.Segment.OrderIndex, r.Segment.Label, string(r.Segment.Category),
			r.Segment.StartPage, r.Segment.EndPage, string(r.Status), r.Error)
		if err != nil {
			return 0, fmt.Errorf("inserting segment %s: %w", r.Segment.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// List returns recorded runs, most recent first.
func (s *Store) List(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, output_dir, pages, workers, segments, failed, status, started_at, finished_at
		 FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Show returns one recorded run and its segments in order.
func (s *Store) Show(ctx context.Context, id int64) (*RunSummary, []SegmentRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, output_dir, pages, workers, segments, failed, status, started_at, finished_at
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT order_index, label, category, start_page, end_page, status, COALESCE(error, '')
		 FROM segments WHERE run_id = ? ORDER BY order_index`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("querying segments: %w", err)
	}
	defer rows.Close()

	var segments []SegmentRecord
	for rows.Next() {
		var rec SegmentRecord
		if err := rows.Scan(&rec.OrderIndex, &rec.Label, &rec.Category,
			&rec.StartPage, &rec.EndPage, &rec.Status, &rec.Error); err != nil {
			return nil, nil, fmt.Errorf("scanning segment: %w", err)
		}
		segments = append(segments, rec)
	}
	return &run, segments, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunSummary, error) {
	var (
		r                     RunSummary
		startedAt, finishedAt string
	)
	err := sc.Scan(&r.ID, &r.Source, &r.OutputDir, &r.Pages, &r.Workers,
		&r.Segments, &r.Failed, &r.Status, &startedAt, &finishedAt)
	if err == sql.ErrNoRows {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("scanning run: %w", err)
	}
	if t, parseErr := time.Parse(time.RFC3339, startedAt); parseErr == nil {
		r.StartedAt = t
	}
	if t, parseErr := time.Parse(time.RFC3339, finishedAt); parseErr == nil {
		r.FinishedAt = t
	}
	return r, nil
}
