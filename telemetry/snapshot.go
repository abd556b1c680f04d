package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FrameVersion is incremented when the frame format changes.
const FrameVersion = 1

// Frame is the read-only view of the simulation state at one step.
type Frame struct {
	Version int      `json:"version"`
	Step    int      `json:"step"`
	Radius  float64  `json:"radius"`
	Totals  Counters `json:"totals"`

	Civilizations []CivState  `json:"civilizations"`
	Ships         []ShipState `json:"ships"`
}

// CivState holds one civilization's observable state.
type CivState struct {
	ID   uint32  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Age  int     `json:"age"` // t - t_0
	T    int     `json:"t"`
	TEnd int     `json:"t_end"`
	TInt int     `json:"t_intel"`

	Capable      bool `json:"capable"`
	SignalActive bool `json:"signal_active"`
	SignalRadius int  `json:"signal_radius"`
	Detected     int  `json:"detected"` // size of the detected set
	WasDetected  bool `json:"was_detected"`
}

// ShipState holds one in-flight spaceship.
type ShipState struct {
	Owner   uint32  `json:"owner"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	TargetX float64 `json:"target_x"`
	TargetY float64 `json:"target_y"`
	Heading float64 `json:"heading"` // radians
}

// SaveFrame writes a frame to dir as frame_<step>.json.
// Returns the filepath where it was saved.
func SaveFrame(frame *Frame, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create frame dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("frame_%08d.json", frame.Step))

	data, err := json.MarshalIndent(frame, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal frame: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write frame: %w", err)
	}
	return path, nil
}

// LoadFrame reads a frame from disk.
func LoadFrame(path string) (*Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}

	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}
	if frame.Version != FrameVersion {
		return nil, fmt.Errorf("frame version %d, want %d", frame.Version, FrameVersion)
	}
	return &frame, nil
}
