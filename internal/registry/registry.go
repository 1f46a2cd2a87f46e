// Package registry keeps the frame window assigned to every source camera
// and refuses assignments that would let two cameras claim the same frame.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jdshortiss/uber-camera/internal/scene"
)

var (
	ErrInvalidWindow = errors.New("frame in must not be after frame out")
	ErrUnknownCamera = errors.New("camera is not registered")
)

// FrameWindow is an inclusive frame range. End == 0 means unassigned.
type FrameWindow struct {
	Start int `yaml:"in"`
	End   int `yaml:"out"`
}

// Unassigned is the sentinel window every camera starts with.
var Unassigned = FrameWindow{}

// Assigned reports whether w is a real window rather than the sentinel.
func (w FrameWindow) Assigned() bool {
	return w.End != 0
}

// Contains reports whether frame lies inside w.
func (w FrameWindow) Contains(frame int) bool {
	return w.Start <= frame && frame <= w.End
}

// Overlaps reports whether w starts or ends inside o, or fully contains o.
func (w FrameWindow) Overlaps(o FrameWindow) bool {
	return o.Contains(w.Start) ||
		o.Contains(w.End) ||
		(o.Start >= w.Start && w.End >= o.End)
}

func (w FrameWindow) String() string {
	return fmt.Sprintf("%d-%d", w.Start, w.End)
}

// Assignment pairs a camera with its window.
type Assignment struct {
	Camera scene.NodeID
	Window FrameWindow
}

// Conflict names a camera whose window collides with a proposed one.
type Conflict struct {
	Camera scene.NodeID
	Window FrameWindow
}

// ConflictError is returned when a proposed window overlaps the windows of
// other cameras. It lists every conflicting camera.
type ConflictError struct {
	Camera    scene.NodeID
	Proposed  FrameWindow
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	return "frame range overlaps previously set frame range"
}

// Detail describes each conflicting camera, one per line.
func (e *ConflictError) Detail() string {
	lines := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		lines[i] = fmt.Sprintf("%s %s overlaps %s %s", e.Camera, e.Proposed, c.Camera, c.Window)
	}
	return strings.Join(lines, "\n")
}

// ListUserCameras returns the transforms of every camera in the scene that
// is not a startup camera.
func ListUserCameras(q scene.Query) ([]scene.NodeID, error) {
	shapes, err := q.ListCameras(true)
	if err != nil {
		return nil, fmt.Errorf("list cameras: %w", err)
	}

	transforms := make([]scene.NodeID, 0, len(shapes))
	for _, shape := range shapes {
		parent, err := q.TransformParent(shape)
		if err != nil {
			return nil, fmt.Errorf("camera %s: %w", shape, err)
		}
		transforms = append(transforms, parent)
	}
	return transforms, nil
}

// Registry maps cameras to frame windows in insertion order.
// It is not safe for concurrent use.
type Registry struct {
	order   []scene.NodeID
	windows map[scene.NodeID]FrameWindow
}

// New registers every camera with the unassigned window.
func New(cameras []scene.NodeID) *Registry {
	r := &Registry{windows: make(map[scene.NodeID]FrameWindow, len(cameras))}
	for _, cam := range cameras {
		if _, ok := r.windows[cam]; ok {
			continue
		}
		r.order = append(r.order, cam)
		r.windows[cam] = Unassigned
	}
	return r
}

// Len returns the number of registered cameras.
func (r *Registry) Len() int {
	return len(r.order)
}

// Cameras returns the registered cameras in insertion order.
func (r *Registry) Cameras() []scene.NodeID {
	return append([]scene.NodeID(nil), r.order...)
}

// Window returns the window of camera.
func (r *Registry) Window(camera scene.NodeID) (FrameWindow, bool) {
	w, ok := r.windows[camera]
	return w, ok
}

// Conflicts returns every other camera whose assigned window overlaps w.
func (r *Registry) Conflicts(camera scene.NodeID, w FrameWindow) []Conflict {
	var conflicts []Conflict
	for _, other := range r.order {
		if other == camera {
			continue
		}
		ow := r.windows[other]
		if ow.Assigned() && w.Overlaps(ow) {
			conflicts = append(conflicts, Conflict{Camera: other, Window: ow})
		}
	}
	return conflicts
}

// Assign validates w against the other cameras and stores it for camera.
// The registry is left untouched when an error is returned. Assigning
// Unassigned clears the camera.
func (r *Registry) Assign(camera scene.NodeID, w FrameWindow) error {
	if _, ok := r.windows[camera]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCamera, camera)
	}
	if w == Unassigned {
		r.windows[camera] = w
		return nil
	}
	if w.Start > w.End {
		return fmt.Errorf("%w: %s", ErrInvalidWindow, w)
	}

	if conflicts := r.Conflicts(camera, w); len(conflicts) > 0 {
		return &ConflictError{Camera: camera, Proposed: w, Conflicts: conflicts}
	}

	r.windows[camera] = w
	return nil
}

// Assignments returns the cameras with assigned windows in insertion order.
func (r *Registry) Assignments() []Assignment {
	var out []Assignment
	for _, cam := range r.order {
		if w := r.windows[cam]; w.Assigned() {
			out = append(out, Assignment{Camera: cam, Window: w})
		}
	}
	return out
}
