package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstDetection BookmarkType = "first_detection"
	BookmarkFirstContact   BookmarkType = "first_contact"
	BookmarkDetectionBurst BookmarkType = "detection_burst"
	BookmarkSilence        BookmarkType = "silence"
	BookmarkSteadyRate     BookmarkType = "steady_rate"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Step        int          `csv:"step" json:"step"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark to the given logger.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("bookmark",
		"type", string(b.Type),
		"step", b.Step,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in a run from window stats.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	sawDetection   bool
	sawContact     bool
	steadyWindows  int
	lastActive     int
	steadyReported bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady rate detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if !bd.sawDetection && stats.Detections > 0 {
		bd.sawDetection = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFirstDetection,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("First detections: %d in window ending at step %d", stats.Detections, stats.WindowEndStep),
		})
	}
	if !bd.sawContact && stats.Contacts > 0 {
		bd.sawContact = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFirstContact,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("First contact: %d in window ending at step %d", stats.Contacts, stats.WindowEndStep),
		})
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkDetectionBurst(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSilence(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSteadyRate(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	bd.lastActive = stats.ActiveSignals

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkDetectionBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Detections
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Detections) > avg*2.0 && stats.Detections >= 3 {
		return &Bookmark{
			Type:        BookmarkDetectionBurst,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("%d detections is %.1fx average (%.2f)", stats.Detections, float64(stats.Detections)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSilence(stats WindowStats) *Bookmark {
	if bd.lastActive > 0 && stats.ActiveSignals == 0 {
		return &Bookmark{
			Type:        BookmarkSilence,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("No active signals (previous window had %d)", bd.lastActive),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyRate(stats WindowStats) *Bookmark {
	if bd.steadyReported || stats.Detections == 0 {
		bd.steadyWindows = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Detections)
	}
	mean := sum / 4
	if mean == 0 {
		bd.steadyWindows = 0
		return nil
	}

	var variance float64
	for _, h := range recent {
		d := float64(h.Detections) - mean
		variance += d * d
	}
	variance /= 4

	// CV^2 < 0.04 means CV < 0.2
	if variance/(mean*mean) < 0.04 {
		bd.steadyWindows++
	} else {
		bd.steadyWindows = 0
	}

	if bd.steadyWindows == 5 {
		bd.steadyReported = true
		return &Bookmark{
			Type:        BookmarkSteadyRate,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("Detection rate steady near %.1f per window over 5+ windows", mean),
		}
	}
	return nil
}
