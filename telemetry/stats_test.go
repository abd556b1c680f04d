package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeAgeStats(t *testing.T) {
	values := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}
	mean, std, p50, p90 := ComputeAgeStats(values)

	if math.Abs(mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	// Population std of 1..10
	if math.Abs(std-math.Sqrt(8.25)) > 0.001 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(8.25))
	}
	if math.Abs(p50-5.5) > 0.001 {
		t.Errorf("p50 = %v, want 5.5", p50)
	}
	if math.Abs(p90-9.1) > 0.001 {
		t.Errorf("p90 = %v, want 9.1", p90)
	}

	// Input must not be reordered
	if values[0] != 10 {
		t.Error("ComputeAgeStats sorted its input in place")
	}
}

func TestComputeAgeStatsEmpty(t *testing.T) {
	mean, std, p50, p90 := ComputeAgeStats(nil)
	if mean != 0 || std != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10)

	c.RecordBirths(3)
	c.RecordDeaths(2)
	c.RecordSignals(4)
	c.RecordDetection()
	c.RecordDetection()
	c.RecordContact()
	c.RecordVisit()

	if c.ShouldFlush(9) {
		t.Error("ShouldFlush(9) = true before window elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Fatal("ShouldFlush(10) = false at window end")
	}

	stats := c.Flush(10, Gauges{
		Population:    4,
		Capable:       1,
		ActiveSignals: 2,
		ShipsInFlight: 1,
		Ages:          []float64{1, 2, 3, 4},
	})

	if stats.Births != 3 || stats.Deaths != 2 || stats.Signals != 4 {
		t.Errorf("population events = %+v", stats)
	}
	if stats.Detections != 2 || stats.Launches != 2 {
		t.Errorf("detections = %d launches = %d, want 2 and 2", stats.Detections, stats.Launches)
	}
	// Contacts are also visits
	if stats.Contacts != 1 || stats.Visits != 2 {
		t.Errorf("contacts = %d visits = %d, want 1 and 2", stats.Contacts, stats.Visits)
	}
	if stats.CapableFrac != 0.25 {
		t.Errorf("capable frac = %v, want 0.25", stats.CapableFrac)
	}
	if stats.AgeMean != 2.5 {
		t.Errorf("age mean = %v, want 2.5", stats.AgeMean)
	}

	// Counters reset and the next window starts at the flush step
	next := c.Flush(20, Gauges{})
	if next.Detections != 0 || next.Births != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.WindowStartStep != 10 {
		t.Errorf("window start = %d, want 10", next.WindowStartStep)
	}
}
