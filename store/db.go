// Package store provides a SQLite registry of completed simulation runs.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/fermi/config"
	"github.com/pthm-cable/fermi/telemetry"
)

// ErrNotFound is returned when no run matches a lookup.
var ErrNotFound = errors.New("run not found")

// DB wraps a SQLite connection for the run registry.
type DB struct {
	conn *sqlx.DB
}

// Run is one registered simulation run.
type Run struct {
	ID         string  `db:"id"`
	Seed       int64   `db:"seed"`
	StartedAt  int64   `db:"started_at"`  // unix milliseconds
	FinishedAt int64   `db:"finished_at"` // unix milliseconds
	Steps      int     `db:"steps"`
	Population int     `db:"population"`
	Radius     float64 `db:"radius"`
	Complete   bool    `db:"complete"`

	Detections int `db:"detections"`
	Signals    int `db:"signals"`
	Contacts   int `db:"contacts"`
	Visits     int `db:"visits"`

	SignalRate    float64 `db:"signal_rate"`
	DetectionRate float64 `db:"detection_rate"`
	NoDetections  bool    `db:"no_detections"`

	OutputDir  string `db:"output_dir"`
	ConfigYAML string `db:"config_yaml"`
}

// Started returns the start time of the run.
func (r *Run) Started() time.Time {
	return time.UnixMilli(r.StartedAt)
}

// Duration returns the wall-clock duration of the run.
func (r *Run) Duration() time.Duration {
	return time.Duration(r.FinishedAt-r.StartedAt) * time.Millisecond
}

// Totals returns the run's counters.
func (r *Run) Totals() telemetry.Counters {
	return telemetry.Counters{
		Detections: r.Detections,
		Signals:    r.Signals,
		Contacts:   r.Contacts,
		Visits:     r.Visits,
	}
}

// Config parses the configuration recorded with the run.
func (r *Run) Config() (*config.Config, error) {
	return config.Parse([]byte(r.ConfigYAML))
}

// Summary rebuilds a run summary from the record and its samples.
// The report is refit from the samples.
func (r *Run) Summary(samples []telemetry.Sample, yearsPerStep int) *telemetry.Summary {
	return &telemetry.Summary{
		RunID:      r.ID,
		Seed:       r.Seed,
		StartedAt:  time.UnixMilli(r.StartedAt),
		FinishedAt: time.UnixMilli(r.FinishedAt),
		Steps:      r.Steps,
		Complete:   r.Complete,
		Totals:     r.Totals(),
		Report:     telemetry.NewReport(samples, yearsPerStep),
		Samples:    samples,
	}
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// NewRun builds a registry record from a run summary.
func NewRun(s *telemetry.Summary, cfg *config.Config, outputDir string) (Run, error) {
	id := s.RunID
	if id == "" {
		id = NewRunID()
	}
	cfgYAML, err := cfg.MarshalYAMLString()
	if err != nil {
		return Run{}, err
	}
	return Run{
		ID:            id,
		Seed:          s.Seed,
		StartedAt:     s.StartedAt.UnixMilli(),
		FinishedAt:    s.FinishedAt.UnixMilli(),
		Steps:         s.Steps,
		Population:    cfg.Galaxy.Population,
		Radius:        cfg.Galaxy.Radius,
		Complete:      s.Complete,
		Detections:    s.Totals.Detections,
		Signals:       s.Totals.Signals,
		Contacts:      s.Totals.Contacts,
		Visits:        s.Totals.Visits,
		SignalRate:    s.Report.Rates.Signal,
		DetectionRate: s.Report.Rates.Detection,
		NoDetections:  s.Report.NoDetections,
		OutputDir:     outputDir,
		ConfigYAML:    cfgYAML,
	}, nil
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		population INTEGER NOT NULL,
		radius REAL NOT NULL,
		complete INTEGER NOT NULL,
		detections INTEGER NOT NULL,
		signals INTEGER NOT NULL,
		contacts INTEGER NOT NULL,
		visits INTEGER NOT NULL,
		signal_rate REAL NOT NULL,
		detection_rate REAL NOT NULL,
		no_detections INTEGER NOT NULL,
		output_dir TEXT NOT NULL,
		config_yaml TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		step INTEGER NOT NULL,
		signals INTEGER NOT NULL,
		detections INTEGER NOT NULL,
		PRIMARY KEY (run_id, step)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun writes a run and its samples, replacing any previous record
// with the same ID.
func (db *DB) SaveRun(run Run, samples []telemetry.Sample) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM samples WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clear samples: %w", err)
	}

	_, err = tx.NamedExec(`INSERT OR REPLACE INTO runs
		(id, seed, started_at, finished_at, steps, population, radius, complete,
		 detections, signals, contacts, visits, signal_rate, detection_rate,
		 no_detections, output_dir, config_yaml)
		VALUES (:id, :seed, :started_at, :finished_at, :steps, :population, :radius, :complete,
		 :detections, :signals, :contacts, :visits, :signal_rate, :detection_rate,
		 :no_detections, :output_dir, :config_yaml)`, &run)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO samples (run_id, step, signals, detections) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.Exec(run.ID, s.Step, s.Signals, s.Detections); err != nil {
			return fmt.Errorf("save sample %d: %w", s.Step, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	return runs, err
}

// FindRun returns the run whose ID equals or starts with idPrefix.
// An ambiguous prefix is an error.
func (db *DB) FindRun(idPrefix string) (*Run, error) {
	var runs []Run
	if err := db.conn.Select(&runs, "SELECT * FROM runs WHERE id LIKE ? || '%' LIMIT 2", idPrefix); err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idPrefix)
	case 1:
		return &runs[0], nil
	default:
		// An exact match wins over longer IDs sharing the prefix
		var run Run
		err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", idPrefix)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ambiguous run id prefix %q", idPrefix)
		}
		if err != nil {
			return nil, err
		}
		return &run, nil
	}
}

// Samples returns the recorded samples of a run in step order.
func (db *DB) Samples(runID string) ([]telemetry.Sample, error) {
	var samples []telemetry.Sample
	err := db.conn.Select(&samples,
		"SELECT step, signals, detections FROM samples WHERE run_id = ? ORDER BY step",
		runID,
	)
	return samples, err
}
