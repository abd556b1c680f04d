package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/fermi/config"
	"github.com/pthm-cable/fermi/report"
	"github.com/pthm-cable/fermi/store"
	"github.com/pthm-cable/fermi/telemetry"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [run-dir]",
		Short: "Render the report of a finished run",
		Long: `Render the report of a finished run, either from its output directory
or, with --db and --run, from the run registry.

The regression is refit from the recorded samples.`,
		Example: `  fermi report out/
  fermi report --db runs.db --run 5f0c1e2a`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			runID, _ := cmd.Flags().GetString("run")
			jsonOut, _ := cmd.Flags().GetBool("json")

			var (
				summary      *telemetry.Summary
				yearsPerStep int
				err          error
			)
			switch {
			case len(args) == 1:
				summary, yearsPerStep, err = summaryFromDir(args[0])
			case dbPath != "" && runID != "":
				summary, yearsPerStep, err = summaryFromDB(dbPath, runID)
			default:
				return errors.New("either a run directory or --db with --run is required")
			}
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Render(summary, yearsPerStep))
			return nil
		},
	}

	cmd.Flags().String("db", "", "SQLite run registry")
	cmd.Flags().String("run", "", "Run ID or unique ID prefix (requires --db)")

	return cmd
}

// summaryFromDir loads a run output directory. The config snapshot in the
// directory supplies the years per step; defaults are used without one.
func summaryFromDir(dir string) (*telemetry.Summary, int, error) {
	cfgPath := filepath.Join(dir, telemetry.ConfigFile)
	if _, err := os.Stat(cfgPath); err != nil {
		cfgPath = ""
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, 0, err
	}

	yearsPerStep := cfg.Evolution.Acceleration
	res, err := telemetry.LoadResults(dir, yearsPerStep)
	if err != nil {
		return nil, 0, err
	}

	// Refit from the series so the report reflects what is on disk
	res.Summary.Report = telemetry.NewReport(res.Samples, yearsPerStep)
	res.Summary.Samples = res.Samples
	return res.Summary, yearsPerStep, nil
}

func summaryFromDB(path, runID string) (*telemetry.Summary, int, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer db.Close()

	run, err := db.FindRun(runID)
	if err != nil {
		return nil, 0, err
	}
	cfg, err := run.Config()
	if err != nil {
		return nil, 0, fmt.Errorf("run %s: %w", run.ID, err)
	}
	samples, err := db.Samples(run.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("loading samples: %w", err)
	}

	yearsPerStep := cfg.Evolution.Acceleration
	return run.Summary(samples, yearsPerStep), yearsPerStep, nil
}
