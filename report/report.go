// Package report renders run results for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/fermi/store"
	"github.com/pthm-cable/fermi/telemetry"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a single line of block characters scaled to
// the largest value. At most width values are shown; longer series are
// downsampled by taking evenly spaced points.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		picked := make([]float64, width)
		for i := range picked {
			picked[i] = values[i*(len(values)-1)/max(width-1, 1)]
		}
		values = picked
	}

	var top float64
	for _, v := range values {
		if v > top {
			top = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if top > 0 {
			idx = int(v / top * float64(len(sparkBlocks)-1))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, StyleLabel.Render(label), value)
}

// Render formats a run summary as a bordered panel.
func Render(s *telemetry.Summary, yearsPerStep int) string {
	var lines []string

	title := "Run"
	if s.RunID != "" {
		title = "Run " + s.RunID
	}
	lines = append(lines, StyleTitle.Render(title), "")

	lines = append(lines,
		row("seed", StyleValue.Render(fmt.Sprint(s.Seed))),
		row("steps", StyleValue.Render(fmt.Sprintf("%d (%d years)", s.Steps, s.Steps*yearsPerStep))),
		row("signals emitted", StyleSignals.Render(fmt.Sprint(s.Totals.Signals))),
		row("detections", StyleDetections.Render(fmt.Sprint(s.Totals.Detections))),
		row("contacts", StyleContacts.Render(fmt.Sprint(s.Totals.Contacts))),
		row("visits", StyleVisits.Render(fmt.Sprint(s.Totals.Visits))),
		"",
	)

	r := s.Report
	lines = append(lines,
		row("signal rate", StyleValue.Render(fmt.Sprintf("%.6f / step", r.Rates.Signal))),
		row("detection rate", StyleValue.Render(fmt.Sprintf("%.6f / step", r.Rates.Detection))),
	)
	if r.NoDetections {
		lines = append(lines, "", StyleWarning.Render(r.Lines()[0]))
	} else {
		lines = append(lines,
			row("steps per detection", StyleValue.Render(fmt.Sprintf("%.4f", r.StepsPerDetection))),
			row("years per detection", StyleValue.Render(fmt.Sprintf("%.4g", r.YearsPerDetection))),
			row("signals per detection", StyleValue.Render(fmt.Sprintf("%.4f", r.SignalsPerDetection))),
			row("detection share", StyleValue.Render(fmt.Sprintf("%.4f (clamped %.4f)", r.DetectionShare, r.DetectionShareClamped))),
		)
	}

	if len(s.Samples) > 1 {
		_, signals, detections := telemetry.SampleColumns(s.Samples)
		lines = append(lines, "",
			row("signals", StyleSignals.Render(Sparkline(signals, 48))),
			row("detections", StyleDetections.Render(Sparkline(detections, 48))),
		)
	}
	if !s.Complete {
		lines = append(lines, "", StyleWarning.Render(fmt.Sprintf("sampling incomplete: %d samples recorded", len(s.Samples))))
	}

	return StylePanel.Render(strings.Join(lines, "\n"))
}

// RenderRuns formats registered runs as a table.
func RenderRuns(runs []store.Run) string {
	if len(runs) == 0 {
		return StyleWarning.Render("no runs recorded")
	}

	header := fmt.Sprintf("%-8s  %-19s  %6s  %8s  %9s  %8s  %10s  %10s",
		"ID", "STARTED", "N", "STEPS", "SIGNALS", "DETECT", "K_SIG", "K_DET")
	lines := []string{StyleHeader.Render(header)}
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		kDet := fmt.Sprintf("%10.5f", r.DetectionRate)
		if r.NoDetections {
			kDet = fmt.Sprintf("%10s", "none")
		}
		lines = append(lines, fmt.Sprintf("%-8s  %-19s  %6d  %8d  %9d  %8d  %10.5f  %s",
			id,
			r.Started().Format(time.DateTime),
			r.Population,
			r.Steps,
			r.Signals,
			r.Detections,
			r.SignalRate,
			kDet,
		))
	}
	return strings.Join(lines, "\n")
}
