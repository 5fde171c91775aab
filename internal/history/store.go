// SPDX-License-Identifier: MIT

// Package history persists one row per normalize run in SQLite. The
// store is advisory: a nil *Store is valid and records nothing, so a
// missing or broken database never blocks normalization.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go driver
)

const schemaVersion = 1

// Run is one normalize run as stored.
type Run struct {
	ID              int64         `json:"id"`
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"-"`
	DurationMS      int64         `json:"duration_ms"`
	Trigger         string        `json:"trigger"`
	Channels        int           `json:"channels"`
	ProgrammesIn    int           `json:"programmes_in"`
	ProgrammesOut   int           `json:"programmes_out"`
	Duplicates      int           `json:"duplicates"`
	StopsInferred   int           `json:"stops_inferred"`
	Overlaps        int           `json:"overlaps"`
	Warnings        int           `json:"warnings"`
	UnresolvedStops int           `json:"unresolved_stops"`
	Outcome         string        `json:"outcome"`
	Error           string        `json:"error,omitempty"`
	OutputBytes     int64         `json:"output_bytes"`
}

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and migrates the
// schema. WAL mode and busy timeout are set through the DSN so they
// apply to every pooled connection.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		path, (5 * time.Second).Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	var currentVersion int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&currentVersion); err != nil {
		return err
	}
	if currentVersion >= schemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		source TEXT NOT NULL,
		channels INTEGER NOT NULL,
		programmes_in INTEGER NOT NULL,
		programmes_out INTEGER NOT NULL,
		duplicates INTEGER NOT NULL,
		stops_inferred INTEGER NOT NULL,
		overlaps INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		unresolved_stops INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		output_bytes INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// Record inserts a run and returns its id. A nil store records
// nothing.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	if s == nil {
		return 0, nil
	}
	query := `
	INSERT INTO runs (started_at, duration_ms, source, channels,
		programmes_in, programmes_out, duplicates, stops_inferred,
		overlaps, warnings, unresolved_stops, outcome, error, output_bytes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Duration.Milliseconds(),
		run.Trigger,
		run.Channels,
		run.ProgrammesIn,
		run.ProgrammesOut,
		run.Duplicates,
		run.StopsInferred,
		run.Overlaps,
		run.Warnings,
		run.UnresolvedStops,
		run.Outcome,
		run.Error,
		run.OutputBytes,
	)
	if err != nil {
		return 0, fmt.Errorf("history: record run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit runs, newest first. A nil store returns
// no runs.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	query := `
	SELECT id, started_at, duration_ms, source, channels,
		programmes_in, programmes_out, duplicates, stops_inferred,
		overlaps, warnings, unresolved_stops, outcome, error, output_bytes
	FROM runs ORDER BY id DESC LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		if err := rows.Scan(
			&run.ID, &startedAt, &run.DurationMS, &run.Trigger,
			&run.Channels, &run.ProgrammesIn, &run.ProgrammesOut,
			&run.Duplicates, &run.StopsInferred, &run.Overlaps,
			&run.Warnings, &run.UnresolvedStops, &run.Outcome,
			&run.Error, &run.OutputBytes,
		); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		run.Duration = time.Duration(run.DurationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune deletes all but the newest keep runs.
func (s *Store) Prune(ctx context.Context, keep int) error {
	if s == nil || keep <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("history: prune: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable. A nil store is
// always unreachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return errors.New("history: store disabled")
	}
	return s.db.PingContext(ctx)
}

// Close closes the database. Safe on a nil store.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}
