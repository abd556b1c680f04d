package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/fermi/config"
	"github.com/pthm-cable/fermi/report"
	"github.com/pthm-cable/fermi/sim"
	"github.com/pthm-cable/fermi/store"
	"github.com/pthm-cable/fermi/telemetry"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and report the fitted detection rates",
		Long: `Run a simulation until the sampling window closes (or --max-steps),
then fit the cumulative signal and detection series through the origin.

With --output-dir the run writes series.csv, summary.json, telemetry.csv,
perf.csv, bookmarks.csv and the effective config.yaml. With --db the run is
recorded in a SQLite registry listed by 'fermi runs'.`,
		RunE: runSimulation,
	}

	cmd.Flags().String("config", "", "Path to config.yaml (empty = use defaults)")
	cmd.Flags().String("output-dir", "", "Output directory for CSV logs, summary and config snapshot")
	cmd.Flags().String("db", "", "SQLite run registry to record the run in")
	cmd.Flags().Int64("seed", 0, "RNG seed (0 = time-based)")
	cmd.Flags().Int("max-steps", 0, "Stop after N steps (0 = end of sampling window)")
	cmd.Flags().Int("population", 0, "Override galaxy.population")
	cmd.Flags().Float64("radius", 0, "Override galaxy.radius")
	cmd.Flags().Bool("log-stats", false, "Log window stats, perf and bookmarks")
	cmd.Flags().Int("snapshot-every", 0, "Write a frame snapshot every N steps (requires --output-dir)")

	return cmd
}

// loadRunConfig loads the config file and applies flag overrides.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	changed := false
	if cmd.Flags().Changed("population") {
		cfg.Galaxy.Population, _ = cmd.Flags().GetInt("population")
		changed = true
	}
	if cmd.Flags().Changed("radius") {
		cfg.Galaxy.Radius, _ = cmd.Flags().GetFloat64("radius")
		changed = true
	}
	if changed {
		if err := cfg.Finalize(); err != nil {
			return nil, fmt.Errorf("applying flags: %w", err)
		}
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	dbPath, _ := cmd.Flags().GetString("db")
	seed, _ := cmd.Flags().GetInt64("seed")
	maxSteps, _ := cmd.Flags().GetInt("max-steps")
	logStats, _ := cmd.Flags().GetBool("log-stats")
	snapshotEvery, _ := cmd.Flags().GetInt("snapshot-every")
	jsonOut, _ := cmd.Flags().GetBool("json")

	if snapshotEvery > 0 && outputDir == "" {
		return errors.New("--snapshot-every requires --output-dir")
	}

	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()
	if err := out.WriteConfig(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	s := sim.New(cfg, sim.Options{
		Seed:   seed,
		Logger: slog.Default(),
		Perf:   telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	})

	runner := sim.NewRunner(s, sim.RunOptions{
		RunID:         store.NewRunID(),
		MaxSteps:      maxSteps,
		Output:        out,
		LogStats:      logStats,
		SnapshotEvery: snapshotEvery,
		FramesDir:     out.FramesDir(),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := runner.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if logStats {
		s.Perf().Stats().LogStats(slog.Default())
	}

	if dbPath != "" {
		if err := recordRun(dbPath, summary, cfg, outputDir); err != nil {
			return err
		}
	}

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.Render(summary, cfg.Evolution.Acceleration))
	return nil
}

// recordRun stores a finished run in the registry.
func recordRun(path string, summary *telemetry.Summary, cfg *config.Config, outputDir string) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := store.NewRun(summary, cfg, outputDir)
	if err != nil {
		return fmt.Errorf("building run record: %w", err)
	}
	if err := db.SaveRun(run, summary.Samples); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	slog.Info("run recorded", "run_id", run.ID, "db", path)
	return nil
}
