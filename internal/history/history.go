// Package history keeps an append-only audit log of step outcomes in a
// SQLite database. Every invocation of the runner opens a run, and each
// committed step result lands as one event row under that run, so the
// full execution timeline of a checklist survives across sessions and
// operators.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"

	"github.com/chainrun/chainrun/internal/model"
)

// Store wraps the audit database. Open creates the schema on first use.
type Store struct {
	db *sql.DB
}

// Run is one runner invocation's recording handle. It satisfies the
// runner's Recorder contract.
type Run struct {
	ID    string
	store *Store
}

// Event is one recorded step outcome.
type Event struct {
	RunID      string
	StepID     string
	Kind       model.Kind
	Success    bool
	Value      string
	RecordedAt time.Time
}

// Open opens (or creates) the audit database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			checklist TEXT,
			requester TEXT,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			step_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			success INTEGER NOT NULL,
			value TEXT,
			recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, fmt.Errorf("init history schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun registers a new run for the given checklist and returns its
// recording handle.
func (s *Store) BeginRun(ctx context.Context, checklist, requester string) (*Run, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, checklist, requester) VALUES (?, ?, ?)`,
		id, checklist, requester)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return &Run{ID: id, store: s}, nil
}

// Record appends one step outcome to the run.
func (r *Run) Record(ctx context.Context, stepID string, kind model.Kind, res model.StepResult) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO events (run_id, step_id, kind, success, value) VALUES (?, ?, ?, ?, ?)`,
		r.ID, stepID, string(kind), res.Success, res.Value)
	if err != nil {
		return fmt.Errorf("record step %q: %w", stepID, err)
	}
	return nil
}

// Events returns the run's recorded outcomes in chronological order.
func (s *Store) Events(ctx context.Context, runID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, step_id, kind, success, value, recorded_at
		 FROM events WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev   Event
			kind string
		)
		if err := rows.Scan(&ev.RunID, &ev.StepID, &kind, &ev.Success, &ev.Value, &ev.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = model.Kind(kind)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// RunIDs returns the IDs of all runs recorded for the given checklist,
// oldest first.
func (s *Store) RunIDs(ctx context.Context, checklist string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE checklist = ? ORDER BY rowid`, checklist)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
