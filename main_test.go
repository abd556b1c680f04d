package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/fermi/telemetry"
)

const smallConfig = `
galaxy:
  population: 10
  radius: 30
  founding_multiplier: 2
evolution:
  acceleration: 1
  lifetime_years: [200, 400]
  initial_age_years: [0, 20]
  intel_delay_years: [5, 10]
signal:
  thickness: 3
  lifetime: 40
spaceship:
  speed: 1
sampling:
  start: 0
  stop: 60
  stride: 10
telemetry:
  window: 20
  perf_window: 10
`

// writeTestConfig writes a small, fast configuration into dir.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fermi.yaml")
	if err := os.WriteFile(path, []byte(smallConfig), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCmd()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--log-level", "warn"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNewRootCmdSubcommands(t *testing.T) {
	rootCmd := newRootCmd()
	want := []string{"version", "run", "report", "runs"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		level   string
		wantErr bool
	}{
		{"json info", "json", "info", false},
		{"text debug", "text", "debug", false},
		{"upper case format", "TEXT", "warn", false},
		{"bad format", "xml", "info", true},
		{"bad level", "json", "loud", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := newLogger(&buf, tt.format, tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && logger == nil {
				t.Error("newLogger() returned nil logger")
			}
		})
	}
}

func TestVersionCmdJSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("version output %q is not JSON: %v", out, err)
	}
	if got["version"] != version {
		t.Errorf("version = %q, want %q", got["version"], version)
	}
}

func TestRunReportAndRuns(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := writeTestConfig(t, tmpDir)
	outDir := filepath.Join(tmpDir, "out")
	dbPath := filepath.Join(tmpDir, "runs.db")

	out, err := execute(t, "run",
		"--config", cfgPath,
		"--output-dir", outDir,
		"--db", dbPath,
		"--seed", "7",
		"--json",
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var summary telemetry.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("run output is not a summary: %v", err)
	}
	if !summary.Complete || len(summary.Samples) != 7 {
		t.Errorf("complete = %v, samples = %d, want complete with 7", summary.Complete, len(summary.Samples))
	}
	if summary.Seed != 7 || summary.RunID == "" {
		t.Errorf("seed = %d, run id = %q", summary.Seed, summary.RunID)
	}

	for _, name := range []string{telemetry.SeriesFile, telemetry.SummaryFile, telemetry.ConfigFile, telemetry.TelemetryFile} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	// Report from the output directory
	out, err = execute(t, "report", outDir)
	if err != nil {
		t.Fatalf("report dir: %v", err)
	}
	if !strings.Contains(out, summary.RunID) || !strings.Contains(out, "signal rate") {
		t.Errorf("report output missing run id or rates:\n%s", out)
	}

	// Registry listing and lookup by prefix
	out, err = execute(t, "runs", "--db", dbPath, "--json")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	var listed struct {
		Runs []struct {
			ID string
		} `json:"runs"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("runs output is not JSON: %v", err)
	}
	if listed.Count != 1 || listed.Runs[0].ID != summary.RunID {
		t.Fatalf("runs = %+v, want the single run %s", listed, summary.RunID)
	}

	out, err = execute(t, "report", "--db", dbPath, "--run", summary.RunID[:8], "--json")
	if err != nil {
		t.Fatalf("report db: %v", err)
	}
	var fromDB telemetry.Summary
	if err := json.Unmarshal([]byte(out), &fromDB); err != nil {
		t.Fatalf("report output is not a summary: %v", err)
	}
	if fromDB.Totals != summary.Totals || fromDB.Report.Rates != summary.Report.Rates {
		t.Errorf("registry summary = %+v, want totals %+v rates %+v", fromDB, summary.Totals, summary.Report.Rates)
	}
}

func TestRunFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"snapshot without output", []string{"run", "--snapshot-every", "5"}},
		{"invalid population", []string{"run", "--population", "0"}},
		{"missing config", []string{"run", "--config", "does-not-exist.yaml"}},
		{"report without source", []string{"report"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}
