package sim

import (
	"context"
	"time"

	"github.com/pthm-cable/fermi/systems"
	"github.com/pthm-cable/fermi/telemetry"
)

// RunOptions controls a hosted run.
type RunOptions struct {
	RunID string

	// MaxSteps stops the run after this many steps. Zero runs until the
	// sampling window is complete.
	MaxSteps int

	Output   *telemetry.OutputManager // nil disables file output
	LogStats bool                     // log window stats and bookmarks

	// SnapshotEvery writes a frame every K steps to FramesDir (0 = off).
	SnapshotEvery int
	FramesDir     string

	// OnWindow is called with every flushed window.
	OnWindow func(telemetry.WindowStats)
}

// Runner drives a Simulation and feeds its results to telemetry.
type Runner struct {
	sim       *Simulation
	opts      RunOptions
	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
}

// NewRunner creates a runner for the simulation.
func NewRunner(s *Simulation, opts RunOptions) *Runner {
	return &Runner{
		sim:       s,
		opts:      opts,
		collector: telemetry.NewCollector(s.cfg.Telemetry.Window),
		bookmarks: telemetry.NewBookmarkDetector(10),
	}
}

// Run steps the simulation until MaxSteps or the end of the sampling window,
// or until ctx is cancelled. The summary covers every completed step and is
// returned together with ctx.Err() on cancellation.
func (r *Runner) Run(ctx context.Context) (*telemetry.Summary, error) {
	s := r.sim
	started := time.Now()

	s.logger.Info("starting simulation",
		"run_id", r.opts.RunID,
		"seed", s.seed,
		"population", s.cfg.Galaxy.Population,
		"radius", s.cfg.Galaxy.Radius,
		"max_steps", r.opts.MaxSteps,
		"samples", s.series.Capacity(),
	)

	var runErr error
	for !r.done() {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("run cancelled", "step", s.step, "error", err)
			runErr = err
			break
		}

		res := s.Advance()
		r.record(&res)
	}

	summary := &telemetry.Summary{
		RunID:      r.opts.RunID,
		Seed:       s.seed,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Steps:      s.step,
		Complete:   s.series.Complete(),
		Totals:     s.totals,
		Report:     telemetry.NewReport(s.series.Samples(), s.cfg.Evolution.Acceleration),
		Samples:    append([]telemetry.Sample(nil), s.series.Samples()...),
	}

	if err := r.opts.Output.WriteSummary(summary); err != nil {
		s.logger.Error("failed to write summary", "error", err)
	}

	s.logger.Info("simulation finished",
		"steps", summary.Steps,
		"totals", summary.Totals,
		"report", summary.Report,
		"elapsed", summary.FinishedAt.Sub(started).String(),
	)
	return summary, runErr
}

// done reports whether the run reached its stopping condition.
func (r *Runner) done() bool {
	if r.opts.MaxSteps > 0 {
		return r.sim.step >= r.opts.MaxSteps
	}
	return r.sim.series.Complete()
}

// record feeds one step into the collector, output and frame writer.
func (r *Runner) record(res *StepResult) {
	s := r.sim

	r.collector.RecordBirths(res.Births)
	r.collector.RecordDeaths(res.Deaths)
	r.collector.RecordSignals(res.Signals)
	for range res.Detections {
		r.collector.RecordDetection()
	}
	for _, a := range res.Arrivals {
		switch a.Kind {
		case systems.ArrivalContact:
			r.collector.RecordContact()
		case systems.ArrivalVisit:
			r.collector.RecordVisit()
		}
	}

	if res.Sampled {
		samples := s.series.Samples()
		if err := r.opts.Output.WriteSample(samples[len(samples)-1]); err != nil {
			s.logger.Error("failed to write sample", "error", err)
		}
	}

	if k := r.opts.SnapshotEvery; k > 0 && r.opts.FramesDir != "" && res.Step%k == 0 {
		if _, err := telemetry.SaveFrame(s.Frame(), r.opts.FramesDir); err != nil {
			s.logger.Error("failed to save frame", "error", err)
		}
	}

	r.flushTelemetry(res.Step + 1)
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (r *Runner) flushTelemetry(completed int) {
	if !r.collector.ShouldFlush(completed) {
		return
	}
	s := r.sim

	stats := r.collector.Flush(completed, s.Gauges())
	perfStats := s.perf.Stats()

	if r.opts.OnWindow != nil {
		r.opts.OnWindow(stats)
	}

	if r.opts.LogStats {
		stats.LogStats(s.logger)
		if s.perf != nil {
			perfStats.LogStats(s.logger)
		}
	}
	s.logger.Info("progress",
		"step", completed,
		"recorded_pct", int(s.series.Progress(completed)*100),
		"detections", s.totals.Detections,
		"signals", s.totals.Signals,
	)

	if err := r.opts.Output.WriteTelemetry(stats); err != nil {
		s.logger.Error("failed to write telemetry", "error", err)
	}
	if s.perf != nil {
		if err := r.opts.Output.WritePerf(perfStats, stats.WindowEndStep); err != nil {
			s.logger.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range r.bookmarks.Check(stats) {
		if r.opts.LogStats {
			bm.LogBookmark(s.logger)
		}
		if err := r.opts.Output.WriteBookmark(bm); err != nil {
			s.logger.Error("failed to write bookmark", "error", err)
		}
	}
}
