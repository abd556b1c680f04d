package telemetry

// Collector accumulates events within step windows and produces WindowStats.
type Collector struct {
	windowSteps int

	// Current window tracking
	windowStart int

	// Event counters for current window
	births     int
	deaths     int
	signals    int
	detections int
	contacts   int
	visits     int
	launches   int
}

// NewCollector creates a new stats collector that flushes every windowSteps steps.
func NewCollector(windowSteps int) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Collector{windowSteps: windowSteps}
}

// RecordBirths records civilizations created by replenishment.
func (c *Collector) RecordBirths(n int) {
	c.births += n
}

// RecordDeaths records civilizations removed by pruning.
func (c *Collector) RecordDeaths(n int) {
	c.deaths += n
}

// RecordSignals records newly emitting signals.
func (c *Collector) RecordSignals(n int) {
	c.signals += n
}

// RecordDetection records a detection event; each one launches a spaceship.
func (c *Collector) RecordDetection() {
	c.detections++
	c.launches++
}

// RecordContact records a contact arrival. A contact is also a visit.
func (c *Collector) RecordContact() {
	c.contacts++
	c.visits++
}

// RecordVisit records a visit-only arrival.
func (c *Collector) RecordVisit() {
	c.visits++
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(step int) bool {
	return step-c.windowStart >= c.windowSteps
}

// Gauges holds the population state sampled at the end of a window.
type Gauges struct {
	Population    int
	Capable       int       // civilizations with t_intel > t_0
	ActiveSignals int       // civilizations with an active signal
	ShipsInFlight int       // spaceships not yet arrived
	Ages          []float64 // t - t_0 per live civilization
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(step int, g Gauges) WindowStats {
	var capableFrac float64
	if g.Population > 0 {
		capableFrac = float64(g.Capable) / float64(g.Population)
	}
	ageMean, ageStd, ageP50, ageP90 := ComputeAgeStats(g.Ages)

	stats := WindowStats{
		WindowStartStep: c.windowStart,
		WindowEndStep:   step,

		Population:    g.Population,
		ActiveSignals: g.ActiveSignals,
		ShipsInFlight: g.ShipsInFlight,
		CapableFrac:   capableFrac,

		Births:     c.births,
		Deaths:     c.deaths,
		Signals:    c.signals,
		Detections: c.detections,
		Launches:   c.launches,
		Contacts:   c.contacts,
		Visits:     c.visits,

		AgeMean: ageMean,
		AgeStd:  ageStd,
		AgeP50:  ageP50,
		AgeP90:  ageP90,
	}

	// Reset for next window
	c.windowStart = step
	c.births = 0
	c.deaths = 0
	c.signals = 0
	c.detections = 0
	c.contacts = 0
	c.visits = 0
	c.launches = 0

	return stats
}
