package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/fermi/config"
	"github.com/pthm-cable/fermi/sim"
	"github.com/pthm-cable/fermi/store"
	"github.com/pthm-cable/fermi/telemetry"
)

// SeedResult is the outcome of one headless run. It is also a sweep.csv row.
type SeedResult struct {
	Seed          int64   `csv:"seed"`
	RunID         string  `csv:"run_id"`
	Steps         int     `csv:"steps"`
	Complete      bool    `csv:"complete"`
	Signals       int     `csv:"signals"`
	Detections    int     `csv:"detections"`
	Contacts      int     `csv:"contacts"`
	Visits        int     `csv:"visits"`
	SignalRate    float64 `csv:"signal_rate"`
	DetectionRate float64 `csv:"detection_rate"`
	NoDetections  bool    `csv:"no_detections"`
	WallMillis    int64   `csv:"wall_ms"`

	Summary *telemetry.Summary `csv:"-"`
	Err     error              `csv:"-"`
}

// Aggregate holds statistics across the successful seeds of a sweep.
type Aggregate struct {
	Runs           int
	Failed         int
	WithDetections int

	// Totals sums the counters of the successful runs.
	Totals telemetry.Counters

	SignalRateMean    float64
	SignalRateStd     float64
	DetectionRateMean float64
	DetectionRateStd  float64
}

// Evaluator runs headless simulations for a list of seeds.
type Evaluator struct {
	cfg      *config.Config
	maxSteps int
	workers  int
	logger   *slog.Logger
}

// NewEvaluator creates an evaluator. workers <= 0 runs every seed at once.
func NewEvaluator(cfg *config.Config, maxSteps, workers int, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		cfg:      cfg,
		maxSteps: maxSteps,
		workers:  workers,
		logger:   logger,
	}
}

// Evaluate runs one simulation per seed in parallel. Results are in seed order.
// Each simulation owns its world, rng and a copy of the config.
func (e *Evaluator) Evaluate(ctx context.Context, seeds []int64) []SeedResult {
	results := make([]SeedResult, len(seeds))

	workers := e.workers
	if workers <= 0 || workers > len(seeds) {
		workers = len(seeds)
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, seed := range seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = e.runSeed(ctx, s)
		}(i, seed)
	}
	wg.Wait()

	return results
}

// runSeed executes a single headless run.
func (e *Evaluator) runSeed(ctx context.Context, seed int64) SeedResult {
	start := time.Now()
	s := sim.New(e.cfg.Clone(), sim.Options{
		Seed:   seed,
		Logger: e.logger.With("seed", seed),
	})
	runner := sim.NewRunner(s, sim.RunOptions{
		RunID:    store.NewRunID(),
		MaxSteps: e.maxSteps,
	})

	summary, err := runner.Run(ctx)
	res := SeedResult{
		Seed:       seed,
		WallMillis: time.Since(start).Milliseconds(),
		Summary:    summary,
		Err:        err,
	}
	if summary != nil {
		res.RunID = summary.RunID
		res.Steps = summary.Steps
		res.Complete = summary.Complete
		res.Signals = summary.Totals.Signals
		res.Detections = summary.Totals.Detections
		res.Contacts = summary.Totals.Contacts
		res.Visits = summary.Totals.Visits
		res.SignalRate = summary.Report.Rates.Signal
		res.DetectionRate = summary.Report.Rates.Detection
		res.NoDetections = summary.Report.NoDetections
	}
	return res
}

// Summarize computes mean and standard deviation of the fitted rates over
// the seeds that finished without error.
func Summarize(results []SeedResult) Aggregate {
	var agg Aggregate
	var sig, det []float64
	for _, r := range results {
		if r.Err != nil {
			agg.Failed++
			continue
		}
		agg.Runs++
		if r.Summary != nil {
			agg.Totals = agg.Totals.Add(r.Summary.Totals)
		}
		if !r.NoDetections {
			agg.WithDetections++
		}
		sig = append(sig, r.SignalRate)
		det = append(det, r.DetectionRate)
	}

	agg.SignalRateMean, agg.SignalRateStd = meanStd(sig)
	agg.DetectionRateMean, agg.DetectionRateStd = meanStd(det)
	return agg
}

// meanStd returns the mean and sample standard deviation. A single value
// has zero spread.
func meanStd(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	mean, std = stat.MeanStdDev(x, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// Seeds returns n evaluation seeds derived from base. Seed 0 would select a
// time-based seed, so a sequence that reaches it is rejected.
func Seeds(base int64, n int) ([]int64, error) {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = base + int64(i)*1000
		if seeds[i] == 0 {
			return nil, fmt.Errorf("seed %d of %d is 0 (base %d); choose a base that keeps every seed non-zero", i+1, n, base)
		}
	}
	return seeds, nil
}
