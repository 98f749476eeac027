// Package history keeps a SQLite record of every generation run and the
// scores it emitted, so standings can be queried after the datapack is gone.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/mcscoreboards/internal/emit"
)

// ErrNoRuns is returned by queries that need at least one recorded run.
var ErrNoRuns = errors.New("no runs recorded")

// schema contains the DDL executed on every open.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    version      TEXT NOT NULL,
    generated_at TEXT NOT NULL,
    players      INTEGER NOT NULL,
    scores       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
    run_id    INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    player    TEXT NOT NULL,
    objective TEXT NOT NULL,
    value     INTEGER NOT NULL,
    PRIMARY KEY (run_id, player, objective)
);

CREATE INDEX IF NOT EXISTS scores_objective ON scores(run_id, objective, value);
`

// Run summarizes one recorded generation.
type Run struct {
	ID          int64
	Version     string
	GeneratedAt time.Time
	Players     int
	Scores      int
}

// Standing is one player's position on an objective.
type Standing struct {
	Rank   int
	Player string
	Value  int64
}

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// A single connection keeps PRAGMAs applied to every statement.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", "PRAGMA foreign_keys=ON"} {
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

// RecordRun stores a run and all of its scores in one transaction and
// returns the new run ID.
func (s *Store) RecordRun(ctx context.Context, version string, at time.Time, scores []emit.Score) (int64, error) {
	players := make(map[string]bool)
	for _, sc := range scores {
		players[sc.Player] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("history: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (version, generated_at, players, scores) VALUES (?, ?, ?, ?)`,
		version, at.UTC().Format(time.RFC3339Nano), len(players), len(scores))
	if err != nil {
		return 0, fmt.Errorf("history: insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scores (run_id, player, objective, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT(run_id, player, objective) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return 0, fmt.Errorf("history: prepare score insert: %w", err)
	}
	defer stmt.Close()

	for _, sc := range scores {
		if _, err := stmt.ExecContext(ctx, runID, sc.Player, sc.Objective, int64(sc.Value)); err != nil {
			return 0, fmt.Errorf("history: insert score %s/%s: %w", sc.Player, sc.Objective, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("history: commit: %w", err)
	}
	return runID, nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, version, generated_at, players, scores FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r  Run
			at string
		)
		if err := rows.Scan(&r.ID, &r.Version, &at, &r.Players, &r.Scores); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.GeneratedAt, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("history: run %d: bad timestamp %q: %w", r.ID, at, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Top ranks players on an objective in the latest run. Ties share a rank and
// are ordered by player name.
func (s *Store) Top(ctx context.Context, objective string, limit int) ([]Standing, error) {
	var runID sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(id) FROM runs`).Scan(&runID); err != nil {
		return nil, fmt.Errorf("history: latest run: %w", err)
	}
	if !runID.Valid {
		return nil, ErrNoRuns
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT player, value FROM scores
		 WHERE run_id = ? AND objective = ?
		 ORDER BY value DESC, player ASC
		 LIMIT ?`, runID.Int64, objective, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query standings: %w", err)
	}
	defer rows.Close()

	var standings []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Player, &st.Value); err != nil {
			return nil, fmt.Errorf("history: scan standing: %w", err)
		}
		st.Rank = len(standings) + 1
		if n := len(standings); n > 0 && standings[n-1].Value == st.Value {
			st.Rank = standings[n-1].Rank
		}
		standings = append(standings, st)
	}
	return standings, rows.Err()
}
