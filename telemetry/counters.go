// Package telemetry provides run statistics: cumulative counters, the sampled
// regression series, windowed stats, bookmarks, perf timing and file output.
package telemetry

import "log/slog"

// Counters holds the cumulative event totals of a run.
type Counters struct {
	Detections int `json:"detections" csv:"detections"`
	Signals    int `json:"signals" csv:"signals"`
	Contacts   int `json:"contacts" csv:"contacts"`
	Visits     int `json:"visits" csv:"visits"`
}

// Add returns the element-wise sum of two counter sets.
func (c Counters) Add(o Counters) Counters {
	return Counters{
		Detections: c.Detections + o.Detections,
		Signals:    c.Signals + o.Signals,
		Contacts:   c.Contacts + o.Contacts,
		Visits:     c.Visits + o.Visits,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (c Counters) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("detections", c.Detections),
		slog.Int("signals", c.Signals),
		slog.Int("contacts", c.Contacts),
		slog.Int("visits", c.Visits),
	)
}
