package telemetry

// Sample is one recorded point of the regression series.
type Sample struct {
	Step       int `csv:"step" json:"step"`
	Signals    int `csv:"signals" json:"signals"`
	Detections int `csv:"detections" json:"detections"`
}

// Series records cumulative counts at fixed steps between start and stop.
// Its capacity is fixed at construction.
type Series struct {
	start, stop, stride int
	next                int
	samples             []Sample
}

// NewSeries creates a series sampling at start, start+stride, ... <= stop.
func NewSeries(start, stop, stride int) *Series {
	if stride < 1 {
		stride = 1
	}
	n := 0
	if stop >= start {
		n = (stop-start)/stride + 1
	}
	return &Series{
		start:   start,
		stop:    stop,
		stride:  stride,
		next:    start,
		samples: make([]Sample, 0, n),
	}
}

// Due reports whether step is the next sampling point.
func (s *Series) Due(step int) bool {
	return step == s.next && step <= s.stop
}

// Record stores the counters for step if it is a sampling point.
// Returns true if a sample was taken.
func (s *Series) Record(step int, c Counters) bool {
	if !s.Due(step) {
		return false
	}
	s.samples = append(s.samples, Sample{Step: step, Signals: c.Signals, Detections: c.Detections})
	s.next += s.stride
	return true
}

// Complete reports whether every sampling point has been recorded.
func (s *Series) Complete() bool {
	return len(s.samples) == cap(s.samples)
}

// Capacity returns the number of sampling points.
func (s *Series) Capacity() int {
	return cap(s.samples)
}

// Progress returns the fraction of the sampling window covered at step, in [0, 1].
func (s *Series) Progress(step int) float64 {
	if step >= s.stop {
		return 1
	}
	if step <= s.start || s.stop == s.start {
		return 0
	}
	return float64(step-s.start) / float64(s.stop-s.start)
}

// Samples returns the recorded samples. The slice must not be modified.
func (s *Series) Samples() []Sample {
	return s.samples
}

// Columns returns the three equal-length sequences: steps, cumulative
// signals and cumulative detections.
func (s *Series) Columns() (steps, signals, detections []float64) {
	return SampleColumns(s.samples)
}

// SampleColumns splits samples into float columns for fitting and plotting.
func SampleColumns(samples []Sample) (steps, signals, detections []float64) {
	steps = make([]float64, len(samples))
	signals = make([]float64, len(samples))
	detections = make([]float64, len(samples))
	for i, smp := range samples {
		steps[i] = float64(smp.Step)
		signals[i] = float64(smp.Signals)
		detections[i] = float64(smp.Detections)
	}
	return steps, signals, detections
}
