package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/fermi/config"
	"github.com/pthm-cable/fermi/telemetry"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testSummary(id string, started time.Time) *telemetry.Summary {
	samples := []telemetry.Sample{
		{Step: 0, Signals: 0, Detections: 0},
		{Step: 10, Signals: 20, Detections: 5},
		{Step: 20, Signals: 40, Detections: 10},
	}
	return &telemetry.Summary{
		RunID:      id,
		Seed:       42,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Steps:      21,
		Complete:   true,
		Totals:     telemetry.Counters{Detections: 10, Signals: 40, Contacts: 2, Visits: 6},
		Report:     telemetry.NewReport(samples, 1000),
		Samples:    samples,
	}
}

func TestSaveAndFindRun(t *testing.T) {
	db := openTestDB(t)
	cfg := config.Default()

	started := time.UnixMilli(1_700_000_000_000)
	summary := testSummary("5f0c1e2a-aaaa-bbbb-cccc-000000000001", started)
	run, err := NewRun(summary, cfg, "/tmp/out")
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	if err := db.SaveRun(run, summary.Samples); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := db.FindRun("5f0c1e2a")
	if err != nil {
		t.Fatalf("FindRun: %v", err)
	}
	if got.ID != run.ID || got.Seed != 42 || !got.Complete {
		t.Errorf("run = %+v", got)
	}
	if got.Totals() != summary.Totals {
		t.Errorf("totals = %+v, want %+v", got.Totals(), summary.Totals)
	}
	if got.Duration() != 3*time.Second {
		t.Errorf("duration = %v, want 3s", got.Duration())
	}
	if got.Population != cfg.Galaxy.Population || got.ConfigYAML == "" {
		t.Errorf("config not recorded: population %d", got.Population)
	}

	samples, err := db.Samples(run.ID)
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if len(samples) != 3 || samples[2] != summary.Samples[2] {
		t.Errorf("samples = %+v", samples)
	}

	// Saving again replaces instead of duplicating
	if err := db.SaveRun(run, summary.Samples[:2]); err != nil {
		t.Fatalf("SaveRun again: %v", err)
	}
	samples, _ = db.Samples(run.ID)
	if len(samples) != 2 {
		t.Errorf("samples after resave = %d, want 2", len(samples))
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	cfg := config.Default()
	base := time.UnixMilli(1_700_000_000_000)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run, err := NewRun(testSummary(id, base.Add(time.Duration(i)*time.Minute)), cfg, "")
		if err != nil {
			t.Fatal(err)
		}
		if err := db.SaveRun(run, nil); err != nil {
			t.Fatalf("SaveRun %s: %v", id, err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Errorf("runs = %v", runs)
	}
}

func TestFindRunErrors(t *testing.T) {
	db := openTestDB(t)
	cfg := config.Default()

	for _, id := range []string{"abc-1", "abc-2"} {
		run, _ := NewRun(testSummary(id, time.Now()), cfg, "")
		if err := db.SaveRun(run, nil); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := db.FindRun("zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindRun(zzz) error = %v, want ErrNotFound", err)
	}
	if _, err := db.FindRun("abc"); err == nil {
		t.Error("expected ambiguous prefix error")
	}
	if run, err := db.FindRun("abc-2"); err != nil || run.ID != "abc-2" {
		t.Errorf("FindRun(abc-2) = %v, %v", run, err)
	}
}

func TestNewRunAssignsID(t *testing.T) {
	run, err := NewRun(testSummary("", time.Now()), config.Default(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(run.ID) != 36 {
		t.Errorf("generated id %q is not a uuid", run.ID)
	}
}

func TestRunConfigAndSummary(t *testing.T) {
	cfg := config.Default()
	cfg.Galaxy.Population = 77
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	summary := testSummary("run-x", time.UnixMilli(1_700_000_000_000))
	run, err := NewRun(summary, cfg, "")
	if err != nil {
		t.Fatal(err)
	}

	got, err := run.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if got.Galaxy.Population != 77 || got.Derived.FoundingCount != 770 {
		t.Errorf("config population = %d, founding = %d", got.Galaxy.Population, got.Derived.FoundingCount)
	}

	rebuilt := run.Summary(summary.Samples, got.Evolution.Acceleration)
	if rebuilt.RunID != "run-x" || rebuilt.Steps != summary.Steps || rebuilt.Totals != summary.Totals {
		t.Errorf("rebuilt summary = %+v", rebuilt)
	}
	if rebuilt.Report.Rates != summary.Report.Rates {
		t.Errorf("rates = %+v, want %+v", rebuilt.Report.Rates, summary.Report.Rates)
	}
	if !rebuilt.StartedAt.Equal(summary.StartedAt) {
		t.Errorf("started = %v, want %v", rebuilt.StartedAt, summary.StartedAt)
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	db := openTestDB(t)

	var mode string
	if err := db.conn.Get(&mode, "PRAGMA journal_mode"); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := db.conn.Get(&timeout, "PRAGMA busy_timeout"); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}
