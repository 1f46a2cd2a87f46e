package director

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jdshortiss/uber-camera/internal/registry"
	"github.com/jdshortiss/uber-camera/internal/scene"
)

// DefaultCameraName is the requested name of the composite camera.
const DefaultCameraName = "uber_camera"

// ErrNothingToBuild is returned when no camera has an assigned window.
var ErrNothingToBuild = errors.New("no frames have been set")

// Director samples source cameras and writes the composite camera
type Director struct {
	Animation  scene.Animation
	Factory    scene.Factory
	CameraName string
	// RestoreTime moves the time cursor back after sampling.
	RestoreTime bool
	Logger      *slog.Logger
}

// NewDirector creates a new Director working on host with default settings
func NewDirector(host scene.Host) *Director {
	return &Director{
		Animation:   host,
		Factory:     host,
		CameraName:  DefaultCameraName,
		RestoreTime: true,
		Logger:      slog.Default(),
	}
}

// Extract samples every assigned camera at its window bounds and at every
// existing key inside its window. All cameras share one table keyed by
// absolute frame, so windows must not overlap.
func (d *Director) Extract(assignments []registry.Assignment) (Table, error) {
	table := make(Table)

	if d.RestoreTime {
		defer d.Animation.SetTimeCursor(d.Animation.CurrentTime())
	}

	for _, a := range assignments {
		if !a.Window.Assigned() {
			continue
		}

		frames, err := d.framesFor(a)
		if err != nil {
			return nil, err
		}

		for _, frame := range frames {
			d.Animation.SetTimeCursor(frame)
			var snap Snapshot
			for i, attr := range Attributes {
				v, err := d.Animation.GetAttribute(a.Camera, attr, frame)
				if err != nil {
					return nil, fmt.Errorf("sample %s.%s at %d: %w", a.Camera, attr, frame, err)
				}
				snap[i] = v
			}
			// Duplicate frames sample the same values and overwrite.
			table[frame] = snap
		}

		d.logger().Debug("camera sampled",
			"camera", a.Camera, "window", a.Window.String(), "frames", len(frames))
	}

	return table, nil
}

// framesFor returns the window bounds followed by every keyed time inside
// the window, duplicates included.
func (d *Director) framesFor(a registry.Assignment) ([]int, error) {
	frames := []int{a.Window.Start, a.Window.End}

	curves, err := d.Animation.CurvesDriving(a.Camera)
	if err != nil {
		return nil, fmt.Errorf("curves of %s: %w", a.Camera, err)
	}
	for _, curve := range curves {
		times, err := d.Animation.KeyedTimes(curve)
		if err != nil {
			return nil, fmt.Errorf("keyed times of %s: %w", curve, err)
		}
		for _, t := range times {
			if a.Window.Contains(t) {
				frames = append(frames, t)
			}
		}
	}

	return frames, nil
}

// Apply keys every channel of dest at every frame of table.
// Applying the same table twice leaves the same keys.
func (d *Director) Apply(dest scene.NodeID, table Table) error {
	for _, frame := range table.Frames() {
		snap := table[frame]
		for i, attr := range Attributes {
			if err := d.Animation.SetKeyframe(dest, attr, frame, snap[i]); err != nil {
				return fmt.Errorf("key %s.%s at %d: %w", dest, attr, frame, err)
			}
		}
	}
	return nil
}

// CreateComposite builds a new camera from every assigned window. No camera
// is created when nothing is assigned.
func (d *Director) CreateComposite(assignments []registry.Assignment) (scene.NodeID, Table, error) {
	var active []registry.Assignment
	for _, a := range assignments {
		if a.Window.Assigned() {
			active = append(active, a)
		}
	}
	if len(active) == 0 {
		return "", nil, ErrNothingToBuild
	}

	name := d.CameraName
	if name == "" {
		name = DefaultCameraName
	}
	dest, err := d.Factory.CreateCamera(name)
	if err != nil {
		return "", nil, fmt.Errorf("create camera %s: %w", name, err)
	}

	table, err := d.Extract(active)
	if err != nil {
		return dest, nil, err
	}
	if err := d.Apply(dest, table); err != nil {
		return dest, table, err
	}

	d.logger().Info("composite camera created",
		"camera", dest, "sources", len(active), "frames", len(table))
	return dest, table, nil
}

func (d *Director) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
