package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseUpdate)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDetection)
		time.Sleep(200 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()

	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration")
	}
	if _, ok := stats.PhaseAvg[PhaseUpdate]; !ok {
		t.Error("expected update phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseDetection]; !ok {
		t.Error("expected detection phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartStep()
		pc.StartPhase(PhasePrune)
		pc.EndStep()
	}

	stats := pc.Stats()
	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration after window filled")
	}
	if stats.StepsPerSecond <= 0 {
		t.Error("expected positive steps per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseSampling)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseDetection)
		time.Sleep(200 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()
	fast := stats.PhasePct[PhaseSampling]
	slow := stats.PhasePct[PhaseDetection]
	if slow <= fast {
		t.Errorf("expected detection (%v%%) > sampling (%v%%)", slow, fast)
	}

	csv := stats.ToCSV(100)
	if csv.WindowEnd != 100 || csv.DetectionPct != slow {
		t.Errorf("ToCSV = %+v", csv)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)
	stats := pc.Stats()

	if stats.AvgStepDuration != 0 {
		t.Error("expected zero avg step duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_Nil(t *testing.T) {
	var pc *PerfCollector

	// A nil collector disables timing
	pc.StartStep()
	pc.StartPhase(PhasePrune)
	pc.EndStep()
	if stats := pc.Stats(); stats.AvgStepDuration != 0 {
		t.Error("nil collector reported timing")
	}
}
