// Package engine holds the session that ties the frame range registry, the
// composite camera director and the host scene together for one dialog.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jdshortiss/uber-camera/internal/config"
	"github.com/jdshortiss/uber-camera/internal/director"
	"github.com/jdshortiss/uber-camera/internal/registry"
	"github.com/jdshortiss/uber-camera/internal/scene"
)

// Message titles and bodies shown to the user.
const (
	TitleUpdateFailed = "Frame Range Update Failed"
	TitleUpdated      = "Frame Range Updated"
	TitleCreated      = "Uber Camera Created"
	TitleCreateFailed = "Uber Camera Failed"

	MsgSelectCamera = "Please select a camera to submit a frame range"
	MsgNothingSet   = "Cannot create Uber Camera - No frames have been set."
)

// ErrMissingSelection is returned when a range is submitted with no camera selected.
var ErrMissingSelection = errors.New("no camera selected")

// RangeError reports a window outside the accepted frame bounds.
type RangeError struct {
	Window   registry.FrameWindow
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("frame range %s is outside %d-%d", e.Window, e.Min, e.Max)
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Notify(title, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, message string)

func (f NotifierFunc) Notify(title, message string) { f(title, message) }

// Build is the result of one composite camera build.
type Build struct {
	Camera      scene.NodeID
	Assignments []registry.Assignment
	Table       director.Table
}

// Report describes b in its YAML report form.
func (b *Build) Report() *director.Report {
	return director.NewReport(b.Camera, b.Assignments, b.Table)
}

// Session is the state of one dialog: the cameras found in the host scene,
// their frame windows and the current selection. It is not safe for
// concurrent use.
type Session struct {
	Config   *config.Config
	Host     scene.Host
	Notifier Notifier
	Logger   *slog.Logger

	director *director.Director
	registry *registry.Registry
	selected scene.NodeID
}

// NewSession creates a session over host and loads its cameras.
func NewSession(cfg *config.Config, host scene.Host, notifier Notifier) (*Session, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.Defaults()

	d := director.NewDirector(host)
	d.CameraName = cfg.CameraName
	d.RestoreTime = !cfg.KeepTime

	s := &Session{
		Config:   cfg,
		Host:     host,
		Notifier: notifier,
		Logger:   slog.Default(),
		director: d,
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// WithLogger sets the logger used by the session and its director.
func (s *Session) WithLogger(l *slog.Logger) *Session {
	s.Logger = l
	s.director.Logger = l
	return s
}

// Refresh reloads the user cameras from the host, dropping every window and
// the selection.
func (s *Session) Refresh() error {
	cams, err := registry.ListUserCameras(s.Host)
	if err != nil {
		return err
	}
	s.registry = registry.New(cams)
	s.selected = ""
	s.log().Info("cameras loaded", "count", len(cams))
	return nil
}

// Cameras returns the user cameras in list order.
func (s *Session) Cameras() []scene.NodeID {
	return s.registry.Cameras()
}

// Window returns the window assigned to camera.
func (s *Session) Window(camera scene.NodeID) registry.FrameWindow {
	w, _ := s.registry.Window(camera)
	return w
}

// Assignments returns every assigned camera in list order.
func (s *Session) Assignments() []registry.Assignment {
	return s.registry.Assignments()
}

// Select makes camera current and returns its window.
func (s *Session) Select(camera scene.NodeID) (registry.FrameWindow, error) {
	w, ok := s.registry.Window(camera)
	if !ok {
		return registry.Unassigned, fmt.Errorf("%w: %s", registry.ErrUnknownCamera, camera)
	}
	s.selected = camera
	return w, nil
}

// Selected returns the current camera, or "" when none is selected.
func (s *Session) Selected() scene.NodeID {
	return s.selected
}

// SubmitFrameRange assigns [in, out] to the selected camera. Every outcome
// is reported through the notifier; on error nothing changes.
func (s *Session) SubmitFrameRange(in, out int) error {
	if s.selected == "" {
		s.notify(TitleUpdateFailed, MsgSelectCamera)
		return ErrMissingSelection
	}
	return s.Assign(s.selected, in, out)
}

// Assign assigns [in, out] to camera regardless of the selection.
func (s *Session) Assign(camera scene.NodeID, in, out int) error {
	w := registry.FrameWindow{Start: in, End: out}

	if err := s.checkBounds(w); err != nil {
		s.notify(TitleUpdateFailed, err.Error())
		return err
	}

	if err := s.registry.Assign(camera, w); err != nil {
		msg := err.Error()
		var conflict *registry.ConflictError
		if errors.As(err, &conflict) {
			msg = msg + "\n" + conflict.Detail()
		}
		s.log().Warn("frame range rejected", "camera", camera, "window", w.String(), "err", err)
		s.notify(TitleUpdateFailed, msg)
		return err
	}

	s.log().Info("frame range updated", "camera", camera, "window", w.String())
	s.notify(TitleUpdated, "Frame range updated for "+string(camera))
	return nil
}

// Clear returns camera to the unassigned window.
func (s *Session) Clear(camera scene.NodeID) error {
	if err := s.registry.Assign(camera, registry.Unassigned); err != nil {
		return err
	}
	s.log().Info("frame range cleared", "camera", camera)
	return nil
}

func (s *Session) checkBounds(w registry.FrameWindow) error {
	lo, hi := s.Config.FrameMin, s.Config.FrameMax
	if w.Start < lo || w.Start > hi || w.End < lo || w.End > hi {
		return &RangeError{Window: w, Min: lo, Max: hi}
	}
	return nil
}

// Build creates the composite camera from every assigned window.
func (s *Session) Build() (*Build, error) {
	assignments := s.registry.Assignments()

	dest, table, err := s.director.CreateComposite(assignments)
	if errors.Is(err, director.ErrNothingToBuild) {
		s.notify(TitleUpdateFailed, MsgNothingSet)
		return nil, err
	}
	if err != nil {
		s.log().Error("composite camera failed", "err", err)
		s.notify(TitleCreateFailed, err.Error())
		return nil, err
	}

	s.notify(TitleCreated, fmt.Sprintf("Created %s from %d frames", dest, len(table)))
	return &Build{Camera: dest, Assignments: assignments, Table: table}, nil
}

func (s *Session) notify(title, message string) {
	if s.Notifier != nil {
		s.Notifier.Notify(title, message)
	}
}

func (s *Session) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
