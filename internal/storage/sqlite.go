// Package storage provides SQLite-based persistence for recorded input
// journals. Only the inputs of a run are stored; scores are recomputed by
// replaying them and are never persisted.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrRunNotFound is returned by LoadRun for unknown IDs.
var ErrRunNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for run journals.
type Store struct {
	db *sql.DB
}

// Run is one recorded session: everything needed to replay it.
type Run struct {
	ID          int64
	Seed        int64
	Mode        string
	KeyReleases bool
	Engine      string
	TickRate    int
	Ticks       uint64
	ConfigYAML  string
	StartedAt   time.Time
	Events      []RunEvent
}

// RunEvent is one input event, stamped with the tick it was applied before.
type RunEvent struct {
	Tick uint64
	Kind int
	Code int
}

// RunSummary is a Run without its events, for listings.
type RunSummary struct {
	ID         int64
	Seed       int64
	Mode       string
	Engine     string
	TickRate   int
	Ticks      uint64
	EventCount int
	StartedAt  time.Time
}

// Duration returns the simulated length of the run.
func (r RunSummary) Duration() time.Duration {
	if r.TickRate <= 0 {
		return 0
	}
	return time.Duration(int64(r.Ticks) * int64(time.Second) / int64(r.TickRate))
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			mode TEXT NOT NULL,
			key_releases INTEGER NOT NULL DEFAULT 0,
			engine TEXT NOT NULL,
			tick_rate INTEGER NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			config_yaml TEXT NOT NULL DEFAULT '',
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS run_events (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			kind INTEGER NOT NULL,
			code INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun stores a run and its events in one transaction.
// Returns the ID of the inserted run.
func (s *Store) SaveRun(run Run) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	res, err := tx.Exec(
		`INSERT INTO runs (seed, mode, key_releases, engine, tick_rate, ticks, config_yaml, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Seed, run.Mode, run.KeyReleases, run.Engine, run.TickRate, int64(run.Ticks), run.ConfigYAML,
		startedAt.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO run_events (run_id, seq, tick, kind, code) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prepare event insert: %w", err)
	}
	defer stmt.Close()

	for i, ev := range run.Events {
		if _, err := stmt.Exec(id, i, int64(ev.Tick), ev.Kind, ev.Code); err != nil {
			return 0, fmt.Errorf("storage: cannot save event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

// LoadRun retrieves a run with all of its events in recording order.
func (s *Store) LoadRun(id int64) (Run, error) {
	var run Run
	var ticks int64
	var startedAt any

	err := s.db.QueryRow(
		`SELECT id, seed, mode, key_releases, engine, tick_rate, ticks, config_yaml, started_at
		 FROM runs WHERE id = ?`,
		id,
	).Scan(&run.ID, &run.Seed, &run.Mode, &run.KeyReleases, &run.Engine, &run.TickRate, &ticks, &run.ConfigYAML, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot query run: %w", err)
	}
	run.Ticks = uint64(ticks)
	run.StartedAt = parseTime(startedAt)

	rows, err := s.db.Query(
		`SELECT tick, kind, code FROM run_events WHERE run_id = ? ORDER BY seq`,
		id,
	)
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev RunEvent
		var tick int64
		if err := rows.Scan(&tick, &ev.Kind, &ev.Code); err != nil {
			return Run{}, fmt.Errorf("storage: cannot scan event: %w", err)
		}
		ev.Tick = uint64(tick)
		run.Events = append(run.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT r.id, r.seed, r.mode, r.engine, r.tick_rate, r.ticks, r.started_at,
		        (SELECT COUNT(*) FROM run_events e WHERE e.run_id = r.id)
		 FROM runs r
		 ORDER BY r.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var ticks int64
		var startedAt any
		if err := rows.Scan(&r.ID, &r.Seed, &r.Mode, &r.Engine, &r.TickRate, &ticks, &startedAt, &r.EventCount); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Ticks = uint64(ticks)
		r.StartedAt = parseTime(startedAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// DeleteRun removes a run and its events.
func (s *Store) DeleteRun(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.Exec("DELETE FROM run_events WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete events: %w", err)
	}
	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.DateTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
