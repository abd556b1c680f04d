package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a step window.
type WindowStats struct {
	WindowStartStep int `csv:"-"`
	WindowEndStep   int `csv:"window_end"`

	// Population state at window end
	Population    int     `csv:"population"`
	ActiveSignals int     `csv:"active_signals"`
	ShipsInFlight int     `csv:"ships_in_flight"`
	CapableFrac   float64 `csv:"capable_frac"`

	// Events during window
	Births     int `csv:"births"`
	Deaths     int `csv:"deaths"`
	Signals    int `csv:"signals"`
	Detections int `csv:"detections"`
	Launches   int `csv:"launches"`
	Contacts   int `csv:"contacts"`
	Visits     int `csv:"visits"`

	// Age distribution in steps (sampled at window end)
	AgeMean float64 `csv:"age_mean"`
	AgeStd  float64 `csv:"age_std"`
	AgeP50  float64 `csv:"age_p50"`
	AgeP90  float64 `csv:"age_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeAgeStats calculates mean, population std, and percentiles from age values.
func ComputeAgeStats(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	std = stat.PopStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartStep),
		slog.Int("window_end", s.WindowEndStep),
		slog.Int("population", s.Population),
		slog.Int("active_signals", s.ActiveSignals),
		slog.Int("ships_in_flight", s.ShipsInFlight),
		slog.Float64("capable_frac", s.CapableFrac),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("signals", s.Signals),
		slog.Int("detections", s.Detections),
		slog.Int("contacts", s.Contacts),
		slog.Int("visits", s.Visits),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_p50", s.AgeP50),
		slog.Float64("age_p90", s.AgeP90),
	)
}

// LogStats logs the window stats to the given logger.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats",
		"window_end", s.WindowEndStep,
		"population", s.Population,
		"births", s.Births,
		"deaths", s.Deaths,
		"signals", s.Signals,
		"detections", s.Detections,
		"contacts", s.Contacts,
		"visits", s.Visits,
		"ships_in_flight", s.ShipsInFlight,
		"active_signals", s.ActiveSignals,
		"age_mean", s.AgeMean,
	)
}
