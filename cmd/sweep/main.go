// Command sweep runs the simulation headless over many seeds and reports
// the spread of the fitted signal and detection rates.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/fermi/config"
	"github.com/pthm-cable/fermi/report"
	"github.com/pthm-cable/fermi/store"
)

// SweepFile is the per-seed results table written to the output directory.
const SweepFile = "sweep.csv"

func main() {
	if err := newSweepCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sweep",
		Short:        "Run the simulation over many seeds in parallel",
		SilenceUsage: true,
		RunE:         runSweep,
	}

	cmd.Flags().String("config", "", "Base config YAML file (empty = use defaults)")
	cmd.Flags().Int("seeds", 8, "Number of seeds to evaluate")
	cmd.Flags().Int64("seed-base", 42, "First seed; later seeds are spaced by 1000")
	cmd.Flags().Int("workers", 0, "Concurrent simulations (0 = one per seed)")
	cmd.Flags().Int("max-steps", 0, "Stop each run after N steps (0 = end of sampling window)")
	cmd.Flags().String("output-dir", "", "Directory for sweep.csv")
	cmd.Flags().String("db", "", "SQLite run registry to record every run in")
	cmd.Flags().String("log-level", "warn", "Log level for the simulations")

	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	n, _ := cmd.Flags().GetInt("seeds")
	base, _ := cmd.Flags().GetInt64("seed-base")
	workers, _ := cmd.Flags().GetInt("workers")
	maxSteps, _ := cmd.Flags().GetInt("max-steps")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	dbPath, _ := cmd.Flags().GetString("db")
	levelName, _ := cmd.Flags().GetString("log-level")

	if n < 1 {
		return errors.New("--seeds must be at least 1")
	}
	seeds, err := Seeds(base, n)
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	evaluator := NewEvaluator(cfg, maxSteps, workers, logger)
	results := evaluator.Evaluate(ctx, seeds)
	agg := Summarize(results)

	if outputDir != "" {
		if err := writeResults(outputDir, results); err != nil {
			return err
		}
	}
	if dbPath != "" {
		if err := recordRuns(dbPath, cfg, results); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderAggregate(agg, len(seeds), time.Since(start)))

	if agg.Runs == 0 {
		return fmt.Errorf("all %d runs failed: %w", agg.Failed, firstErr(results))
	}
	return nil
}

// writeResults writes the per-seed table.
func writeResults(dir string, results []SeedResult) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, SweepFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", SweepFile, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&results, f); err != nil {
		return fmt.Errorf("writing %s: %w", SweepFile, err)
	}
	return nil
}

// recordRuns stores every finished run in the registry.
func recordRuns(path string, cfg *config.Config, results []SeedResult) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, r := range results {
		if r.Err != nil || r.Summary == nil {
			continue
		}
		run, err := store.NewRun(r.Summary, cfg, "")
		if err != nil {
			return err
		}
		if err := db.SaveRun(run, r.Summary.Samples); err != nil {
			return fmt.Errorf("recording seed %d: %w", r.Seed, err)
		}
	}
	return nil
}

func renderAggregate(agg Aggregate, seeds int, elapsed time.Duration) string {
	lines := []string{
		report.StyleTitle.Render(fmt.Sprintf("Sweep over %d seeds", seeds)),
		"",
		fmt.Sprintf("%s%s", report.StyleLabel.Render("completed runs"), report.StyleValue.Render(fmt.Sprintf("%d (%d failed)", agg.Runs, agg.Failed))),
		fmt.Sprintf("%s%s", report.StyleLabel.Render("runs with detections"), report.StyleDetections.Render(fmt.Sprint(agg.WithDetections))),
		fmt.Sprintf("%s%s", report.StyleLabel.Render("total detections"), report.StyleDetections.Render(fmt.Sprintf("%d (%d contacts, %d visits)", agg.Totals.Detections, agg.Totals.Contacts, agg.Totals.Visits))),
		fmt.Sprintf("%s%s", report.StyleLabel.Render("signal rate"), report.StyleSignals.Render(fmt.Sprintf("%.6f ± %.6f", agg.SignalRateMean, agg.SignalRateStd))),
		fmt.Sprintf("%s%s", report.StyleLabel.Render("detection rate"), report.StyleDetections.Render(fmt.Sprintf("%.6f ± %.6f", agg.DetectionRateMean, agg.DetectionRateStd))),
		fmt.Sprintf("%s%s", report.StyleLabel.Render("elapsed"), report.StyleValue.Render(elapsed.Round(time.Millisecond).String())),
	}
	return report.StylePanel.Render(strings.Join(lines, "\n"))
}

func firstErr(results []SeedResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
