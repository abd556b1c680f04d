package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FirstEventsOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if got := bd.Check(WindowStats{WindowEndStep: 100}); len(got) != 0 {
		t.Fatalf("quiet window produced bookmarks: %v", got)
	}

	got := bd.Check(WindowStats{WindowEndStep: 200, Detections: 2})
	if !hasBookmark(got, BookmarkFirstDetection) {
		t.Error("expected first_detection bookmark")
	}
	if hasBookmark(got, BookmarkFirstContact) {
		t.Error("first_contact before any contact")
	}

	got = bd.Check(WindowStats{WindowEndStep: 300, Detections: 2, Contacts: 1})
	if hasBookmark(got, BookmarkFirstDetection) {
		t.Error("first_detection reported twice")
	}
	if !hasBookmark(got, BookmarkFirstContact) {
		t.Error("expected first_contact bookmark")
	}
}

func TestBookmarkDetector_DetectionBurst(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndStep: i * 100, Detections: 2})
	}

	got := bd.Check(WindowStats{WindowEndStep: 600, Detections: 9})
	if !hasBookmark(got, BookmarkDetectionBurst) {
		t.Error("expected detection_burst bookmark")
	}
}

func TestBookmarkDetector_Silence(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndStep: 100, ActiveSignals: 4})
	got := bd.Check(WindowStats{WindowEndStep: 200, ActiveSignals: 0})
	if !hasBookmark(got, BookmarkSilence) {
		t.Error("expected silence bookmark")
	}

	// Staying silent does not repeat the bookmark
	got = bd.Check(WindowStats{WindowEndStep: 300, ActiveSignals: 0})
	if hasBookmark(got, BookmarkSilence) {
		t.Error("silence reported twice")
	}
}

func TestBookmarkDetector_SteadyRate(t *testing.T) {
	bd := NewBookmarkDetector(10)

	count := 0
	for i := 0; i < 20; i++ {
		got := bd.Check(WindowStats{WindowEndStep: i * 100, Detections: 10})
		if hasBookmark(got, BookmarkSteadyRate) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("steady_rate reported %d times, want 1", count)
	}
}
