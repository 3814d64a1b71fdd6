// Package store keeps a small SQLite history of runs and their per-phase
// counters. It is operator telemetry only; the checkpoint file remains the
// single source of truth for item state.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID         string
	Worklist   string
	Model      string
	Status     string
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// PhaseCount is the recorded counter set of one executed phase.
type PhaseCount struct {
	RunID     string
	Name      string
	Completed int
	Skipped   int
	Failed    int
}

// History is a SQLite-backed run log.
type History struct {
	db *sql.DB
}

// Open opens (and migrates) the history database at path.
func Open(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "history: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "history: exec %s", pragma)
		}
	}

	h := &History{db: db}
	if err := h.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	worklist    TEXT NOT NULL,
	model       TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS run_phases (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	name      TEXT NOT NULL,
	completed INTEGER NOT NULL,
	skipped   INTEGER NOT NULL,
	failed    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_run_phases_run_id ON run_phases(run_id);
`

func (h *History) migrate() error {
	_, err := h.db.Exec(migration)
	return eris.Wrap(err, "history: migrate")
}

// Close releases the database handle.
func (h *History) Close() error {
	return h.db.Close()
}

// StartRun records a new run and returns its id.
func (h *History) StartRun(ctx context.Context, worklist, model string) (string, error) {
	id := uuid.New().String()
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO runs (id, worklist, model, status, started_at) VALUES (?, ?, ?, 'running', ?)`,
		id, worklist, model, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "history: start run")
	}
	return id, nil
}

// RecordPhase stores the counters of one executed phase.
func (h *History) RecordPhase(ctx context.Context, runID, name string, completed, skipped, failed int) error {
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO run_phases (run_id, name, completed, skipped, failed) VALUES (?, ?, ?, ?, ?)`,
		runID, name, completed, skipped, failed,
	)
	return eris.Wrap(err, "history: record phase")
}

// FinishRun marks the run finished with the given status.
func (h *History) FinishRun(ctx context.Context, runID, status string) error {
	_, err := h.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		status, time.Now().UTC(), runID,
	)
	return eris.Wrap(err, "history: finish run")
}

// RecentRuns lists the most recent runs, newest first.
func (h *History) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, worklist, model, status, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "history: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Worklist, &r.Model, &r.Status, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "history: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "history: iterate runs")
}

// Phases lists the recorded phase counters of one run.
func (h *History) Phases(ctx context.Context, runID string) ([]PhaseCount, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT run_id, name, completed, skipped, failed FROM run_phases WHERE run_id = ?`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "history: list phases")
	}
	defer rows.Close()

	var phases []PhaseCount
	for rows.Next() {
		var p PhaseCount
		if err := rows.Scan(&p.RunID, &p.Name, &p.Completed, &p.Skipped, &p.Failed); err != nil {
			return nil, eris.Wrap(err, "history: scan phase")
		}
		phases = append(phases, p)
	}
	return phases, eris.Wrap(rows.Err(), "history: iterate phases")
}
