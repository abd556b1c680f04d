package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

// Summary is the serializable end-of-run output.
type Summary struct {
	RunID      string    `json:"run_id"`
	Seed       int64     `json:"seed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Steps      int       `json:"steps"`
	Complete   bool      `json:"complete"` // every sampling point was recorded

	Totals Counters `json:"totals"`
	Report Report   `json:"report"`

	Samples []Sample `json:"samples"`
}

// Results is a run loaded back from its output directory.
type Results struct {
	Dir     string
	Summary *Summary
	Samples []Sample
}

// LoadResults reads series.csv and summary.json from a run directory.
// The summary is optional; the report is recomputed from the series
// when it is missing.
func LoadResults(dir string, yearsPerStep int) (*Results, error) {
	f, err := os.Open(filepath.Join(dir, SeriesFile))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", SeriesFile, err)
	}
	defer f.Close()

	var samples []Sample
	if err := gocsv.UnmarshalFile(f, &samples); err != nil {
		return nil, fmt.Errorf("reading %s: %w", SeriesFile, err)
	}

	res := &Results{Dir: dir, Samples: samples}

	data, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	switch {
	case err == nil:
		var s Summary
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", SummaryFile, err)
		}
		res.Summary = &s
	case os.IsNotExist(err):
		res.Summary = &Summary{Report: NewReport(samples, yearsPerStep), Samples: samples}
	default:
		return nil, fmt.Errorf("reading %s: %w", SummaryFile, err)
	}

	return res, nil
}
