package director

import (
	"sort"

	"github.com/jdshortiss/uber-camera/internal/registry"
	"github.com/jdshortiss/uber-camera/internal/scene"
)

// Attributes are the transform channels copied onto the composite camera,
// in snapshot order.
var Attributes = [9]string{
	"translateX", "translateY", "translateZ",
	"rotateX", "rotateY", "rotateZ",
	"scaleX", "scaleY", "scaleZ",
}

// Snapshot holds the values of Attributes sampled at one frame.
type Snapshot [9]float64

// Table maps absolute frames to the snapshot sampled there.
type Table map[int]Snapshot

// Frames returns the frames of t in ascending order.
func (t Table) Frames() []int {
	frames := make([]int, 0, len(t))
	for f := range t {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames
}

// Report describes one composite camera build
type Report struct {
	Version     string   `yaml:"version"`
	Destination string   `yaml:"destination"`
	Sources     []Source `yaml:"sources"`
}

// Source is the part of a build contributed by one camera
type Source struct {
	Camera string               `yaml:"camera"`
	Window registry.FrameWindow `yaml:"window"`
	Frames []Frame              `yaml:"frames"`
}

// Frame is one sampled frame with its channel values
type Frame struct {
	Frame  int                `yaml:"frame"`
	Values map[string]float64 `yaml:"values"`
}

// NewReport describes the build of dest from assignments and table.
// Each sampled frame is listed under the camera whose window holds it.
func NewReport(dest scene.NodeID, assignments []registry.Assignment, table Table) *Report {
	report := &Report{Version: "1.0", Destination: string(dest)}
	frames := table.Frames()

	for _, a := range assignments {
		src := Source{Camera: string(a.Camera), Window: a.Window}
		for _, f := range frames {
			if !a.Window.Contains(f) {
				continue
			}
			snap := table[f]
			values := make(map[string]float64, len(Attributes))
			for i, attr := range Attributes {
				values[attr] = snap[i]
			}
			src.Frames = append(src.Frames, Frame{Frame: f, Values: values})
		}
		report.Sources = append(report.Sources, src)
	}

	return report
}
