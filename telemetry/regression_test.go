package telemetry

import (
	"math"
	"testing"
)

func linearSamples(n, stride int, sigRate, detRate int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		step := i * stride
		samples[i] = Sample{Step: step, Signals: sigRate * step, Detections: detRate * step}
	}
	return samples
}

func TestFitThroughOrigin(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"exact line", []float64{1, 2, 3}, []float64{2, 4, 6}, 2},
		{"ignores intercept", []float64{1, 2}, []float64{1, 3}, 1.4}, // (1+6)/(1+4)
		{"all zero x", []float64{0, 0}, []float64{1, 2}, 0},
		{"empty", nil, nil, 0},
		{"length mismatch", []float64{1, 2}, []float64{1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitThroughOrigin(tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FitThroughOrigin = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewReport(t *testing.T) {
	r := NewReport(linearSamples(5, 10, 2, 1), 1000)

	if r.NoDetections {
		t.Fatal("NoDetections set for a positive detection rate")
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"signal rate", r.Rates.Signal, 2},
		{"detection rate", r.Rates.Detection, 1},
		{"steps per detection", r.StepsPerDetection, 1},
		{"years per detection", r.YearsPerDetection, 1000},
		{"signals per detection", r.SignalsPerDetection, 2},
		{"detection share", r.DetectionShare, 0.5},
		{"clamped share", r.DetectionShareClamped, 0.5},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if r.SamplesUsed != 5 {
		t.Errorf("samples used = %d, want 5", r.SamplesUsed)
	}
}

func TestNewReportClampsShare(t *testing.T) {
	r := NewReport(linearSamples(4, 1, 1, 3), 1)
	if math.Abs(r.DetectionShare-3) > 1e-9 {
		t.Errorf("raw share = %v, want 3", r.DetectionShare)
	}
	if r.DetectionShareClamped != 1 {
		t.Errorf("clamped share = %v, want 1", r.DetectionShareClamped)
	}
}

func TestNewReportNoDetections(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
	}{
		{"no detections", linearSamples(5, 10, 3, 0)},
		{"no signals", linearSamples(5, 10, 0, 0)},
		{"single sample at zero", []Sample{{Step: 0, Signals: 4, Detections: 1}}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport(tt.samples, 1000)
			if !r.NoDetections {
				t.Errorf("NoDetections = false, report %+v", r)
			}
			if r.StepsPerDetection != 0 || r.SignalsPerDetection != 0 {
				t.Errorf("derived values set on empty report: %+v", r)
			}
			lines := r.Lines()
			if len(lines) != 1 {
				t.Errorf("Lines() = %v, want single no-detections line", lines)
			}
		})
	}
}

func TestSeriesSampling(t *testing.T) {
	s := NewSeries(5, 25, 10)
	if s.Capacity() != 3 {
		t.Fatalf("capacity = %d, want 3", s.Capacity())
	}

	var c Counters
	for step := 0; step <= 40; step++ {
		c.Signals = step
		c.Detections = step / 2
		s.Record(step, c)
	}

	got := s.Samples()
	wantSteps := []int{5, 15, 25}
	if len(got) != len(wantSteps) {
		t.Fatalf("got %d samples, want %d", len(got), len(wantSteps))
	}
	for i, want := range wantSteps {
		if got[i].Step != want || got[i].Signals != want || got[i].Detections != want/2 {
			t.Errorf("sample %d = %+v", i, got[i])
		}
	}
	if !s.Complete() {
		t.Error("series not complete after stop")
	}

	steps, signals, _ := s.Columns()
	if len(steps) != 3 || steps[2] != 25 || signals[1] != 15 {
		t.Errorf("columns = %v %v", steps, signals)
	}
}

func TestSeriesProgress(t *testing.T) {
	s := NewSeries(100, 200, 10)
	tests := []struct {
		step int
		want float64
	}{
		{0, 0},
		{100, 0},
		{150, 0.5},
		{200, 1},
		{500, 1},
	}
	for _, tt := range tests {
		if got := s.Progress(tt.step); got != tt.want {
			t.Errorf("Progress(%d) = %v, want %v", tt.step, got, tt.want)
		}
	}
}
