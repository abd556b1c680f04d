package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Rates holds the fitted slopes of the cumulative series, per step.
type Rates struct {
	Signal    float64 `json:"signal_rate"`
	Detection float64 `json:"detection_rate"`
}

// FitThroughOrigin returns the least-squares slope of y against x with no
// intercept term. A series with no spread in x (all zero) has slope 0.
func FitThroughOrigin(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	if floats.Dot(x, x) == 0 {
		return 0
	}
	_, beta := stat.LinearRegression(x, y, nil, true)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0
	}
	return beta
}

// FitRates fits both cumulative series against the sample steps.
func FitRates(samples []Sample) Rates {
	steps, signals, detections := SampleColumns(samples)
	return Rates{
		Signal:    FitThroughOrigin(steps, signals),
		Detection: FitThroughOrigin(steps, detections),
	}
}

// Report is the end-of-run interpretation of the fitted rates.
type Report struct {
	Rates Rates `json:"rates"`

	// NoDetections is set when either rate is zero; the derived values
	// below are then left at zero.
	NoDetections bool `json:"no_detections"`

	StepsPerDetection     float64 `json:"steps_per_detection"`     // 1 / k_det
	YearsPerDetection     float64 `json:"years_per_detection"`     // StepsPerDetection * acceleration
	SignalsPerDetection   float64 `json:"signals_per_detection"`   // k_sig / k_det
	DetectionShare        float64 `json:"detection_share"`         // k_det / k_sig
	DetectionShareClamped float64 `json:"detection_share_clamped"` // min(DetectionShare, 1)
	SamplesUsed           int     `json:"samples_used"`
}

// NewReport fits the samples and derives the report. yearsPerStep scales the
// detection period to years (the evolution acceleration factor).
func NewReport(samples []Sample, yearsPerStep int) Report {
	rates := FitRates(samples)
	r := Report{Rates: rates, SamplesUsed: len(samples)}

	// Never divide by a zero slope
	if rates.Detection*rates.Signal == 0 {
		r.NoDetections = true
		return r
	}

	r.StepsPerDetection = 1 / rates.Detection
	r.YearsPerDetection = r.StepsPerDetection * float64(yearsPerStep)
	r.SignalsPerDetection = rates.Signal / rates.Detection
	r.DetectionShare = rates.Detection / rates.Signal
	r.DetectionShareClamped = math.Min(r.DetectionShare, 1)
	return r
}

// Lines renders the report as human-readable text lines.
func (r Report) Lines() []string {
	if r.NoDetections {
		return []string{"no detections occurred over the sampled time range"}
	}
	return []string{
		fmt.Sprintf("one detection every %.4f steps (%.4g years)", r.StepsPerDetection, r.YearsPerDetection),
		fmt.Sprintf("signals emitted per detection: %.4f", r.SignalsPerDetection),
		fmt.Sprintf("mean detections per emitting civilization: %.4f", r.DetectionShareClamped),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (r Report) LogValue() slog.Value {
	if r.NoDetections {
		return slog.GroupValue(
			slog.Bool("no_detections", true),
			slog.Float64("signal_rate", r.Rates.Signal),
			slog.Int("samples", r.SamplesUsed),
		)
	}
	return slog.GroupValue(
		slog.Float64("signal_rate", r.Rates.Signal),
		slog.Float64("detection_rate", r.Rates.Detection),
		slog.Float64("steps_per_detection", r.StepsPerDetection),
		slog.Float64("signals_per_detection", r.SignalsPerDetection),
		slog.Float64("detection_share", r.DetectionShare),
		slog.Int("samples", r.SamplesUsed),
	)
}
