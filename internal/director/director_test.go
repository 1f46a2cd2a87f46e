package director

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jdshortiss/uber-camera/internal/registry"
	"github.com/jdshortiss/uber-camera/internal/scene"
)

func newTestScene(t *testing.T, cameras ...scene.NodeID) *scene.Scene {
	t.Helper()
	s := scene.New()
	for _, cam := range cameras {
		if _, err := s.AddCamera(cam); err != nil {
			t.Fatalf("AddCamera(%s) failed: %v", cam, err)
		}
	}
	return s
}

func TestExtractWindowBoundsOnly(t *testing.T) {
	s := newTestScene(t, "camA")
	d := NewDirector(s)

	table, err := d.Extract([]registry.Assignment{
		{Camera: "camA", Window: registry.FrameWindow{Start: 1010, End: 1020}},
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	frames := table.Frames()
	if len(frames) != 2 || frames[0] != 1010 || frames[1] != 1020 {
		t.Errorf("Expected frames [1010 1020], got %v", frames)
	}
}

func TestExtractIncludesInteriorKeys(t *testing.T) {
	s := newTestScene(t, "camA")
	s.SetKeyframe("camA", "rotateY", 1015, 45)
	s.SetKeyframe("camA", "rotateY", 1030, 90) // Outside the window

	d := NewDirector(s)
	table, err := d.Extract([]registry.Assignment{
		{Camera: "camA", Window: registry.FrameWindow{Start: 1010, End: 1020}},
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	frames := table.Frames()
	if len(frames) != 3 || frames[1] != 1015 {
		t.Fatalf("Expected frames [1010 1015 1020], got %v", frames)
	}

	if got := table[1015][4]; got != 45 {
		t.Errorf("Expected rotateY 45 at 1015, got %v", got)
	}
	if got := table[1015][6]; got != 1 {
		t.Errorf("Expected rest scaleX 1 at 1015, got %v", got)
	}
}

func TestExtractReadsEveryCurve(t *testing.T) {
	s := newTestScene(t, "camA")
	s.SetKeyframe("camA", "translateX", 1012, 1)
	s.SetKeyframe("camA", "scaleZ", 1018, 2)
	s.SetKeyframe("camA", "translateZ", 1012, 3) // Same frame on another curve

	d := NewDirector(s)
	table, err := d.Extract([]registry.Assignment{
		{Camera: "camA", Window: registry.FrameWindow{Start: 1010, End: 1020}},
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []int{1010, 1012, 1018, 1020}
	frames := table.Frames()
	if len(frames) != len(want) {
		t.Fatalf("Expected frames %v, got %v", want, frames)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("Frame %d: expected %d, got %d", i, want[i], frames[i])
		}
	}
}

func TestExtractSkipsUnassigned(t *testing.T) {
	s := newTestScene(t, "camA")
	d := NewDirector(s)

	table, err := d.Extract([]registry.Assignment{{Camera: "camA"}})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(table) != 0 {
		t.Errorf("Expected empty table, got %d frames", len(table))
	}
}

func TestExtractRestoresTimeCursor(t *testing.T) {
	s := newTestScene(t, "camA")
	s.SetTimeCursor(1100)

	d := NewDirector(s)
	if _, err := d.Extract([]registry.Assignment{
		{Camera: "camA", Window: registry.FrameWindow{Start: 1010, End: 1020}},
	}); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if s.CurrentTime() != 1100 {
		t.Errorf("Expected time cursor 1100, got %d", s.CurrentTime())
	}

	d.RestoreTime = false
	d.Extract([]registry.Assignment{
		{Camera: "camA", Window: registry.FrameWindow{Start: 1010, End: 1020}},
	})
	if s.CurrentTime() != 1020 {
		t.Errorf("Expected time cursor left at 1020, got %d", s.CurrentTime())
	}
}

func TestExtractUnknownCamera(t *testing.T) {
	d := NewDirector(newTestScene(t))
	_, err := d.Extract([]registry.Assignment{
		{Camera: "ghost", Window: registry.FrameWindow{Start: 1010, End: 1020}},
	})
	if !errors.Is(err, scene.ErrUnknownNode) {
		t.Errorf("Expected ErrUnknownNode, got %v", err)
	}
}

func TestApplyIdempotent(t *testing.T) {
	s := newTestScene(t, "dest")
	d := NewDirector(s)

	table := Table{
		1001: {1, 2, 3, 4, 5, 6, 7, 8, 9},
		1005: {9, 8, 7, 6, 5, 4, 3, 2, 1},
	}

	if err := d.Apply("dest", table); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	first := append([]scene.Key(nil), s.Keys("dest", "translateY")...)

	if err := d.Apply("dest", table); err != nil {
		t.Fatalf("Second Apply failed: %v", err)
	}
	second := s.Keys("dest", "translateY")

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("Expected 2 keys both times, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Key %d changed: %v -> %v", i, first[i], second[i])
		}
	}

	for i, attr := range Attributes {
		v, _ := s.GetAttribute("dest", attr, 1005)
		if v != table[1005][i] {
			t.Errorf("%s at 1005: expected %v, got %v", attr, table[1005][i], v)
		}
	}
}

func TestCreateCompositeNothingToBuild(t *testing.T) {
	s := newTestScene(t, "camA", "camB")
	d := NewDirector(s)

	_, _, err := d.CreateComposite([]registry.Assignment{{Camera: "camA"}, {Camera: "camB"}})
	if !errors.Is(err, ErrNothingToBuild) {
		t.Fatalf("Expected ErrNothingToBuild, got %v", err)
	}

	if _, ok := s.Camera(DefaultCameraName); ok {
		t.Error("No camera should have been created")
	}
}

func TestCreateCompositeMergesCameras(t *testing.T) {
	s := newTestScene(t, "camA", "camB")
	s.SetKeyframe("camA", "translateX", 1001, 1)
	s.SetKeyframe("camA", "translateX", 1010, 10)
	s.SetKeyframe("camB", "rotateY", 1011, 30)
	s.SetKeyframe("camB", "rotateY", 1020, 60)

	d := NewDirector(s)
	dest, table, err := d.CreateComposite([]registry.Assignment{
		{Camera: "camA", Window: registry.FrameWindow{Start: 1001, End: 1010}},
		{Camera: "camB", Window: registry.FrameWindow{Start: 1011, End: 1020}},
	})
	if err != nil {
		t.Fatalf("CreateComposite failed: %v", err)
	}

	if dest != DefaultCameraName {
		t.Errorf("Expected destination %s, got %s", DefaultCameraName, dest)
	}
	if len(table) != 4 {
		t.Errorf("Expected 4 sampled frames, got %d", len(table))
	}

	for _, attr := range Attributes {
		if keys := s.Keys(dest, attr); len(keys) != 4 {
			t.Errorf("%s: expected 4 keys, got %d", attr, len(keys))
		}
	}

	tests := []struct {
		attr  string
		frame int
		want  float64
	}{
		{"translateX", 1001, 1},
		{"translateX", 1010, 10},
		{"translateX", 1011, 0},
		{"rotateY", 1010, 0},
		{"rotateY", 1011, 30},
		{"rotateY", 1020, 60},
	}
	keys := map[string]map[int]float64{}
	for _, attr := range []string{"translateX", "rotateY"} {
		keys[attr] = map[int]float64{}
		for _, k := range s.Keys(dest, attr) {
			keys[attr][k.Frame] = k.Value
		}
	}
	for _, tt := range tests {
		if got := keys[tt.attr][tt.frame]; got != tt.want {
			t.Errorf("%s key at %d: expected %v, got %v", tt.attr, tt.frame, tt.want, got)
		}
	}

	t.Logf("Composite %s keyed at frames %v", dest, table.Frames())
}

func TestReportWriteRead(t *testing.T) {
	assignments := []registry.Assignment{
		{Camera: "camA", Window: registry.FrameWindow{Start: 1001, End: 1010}},
		{Camera: "camB", Window: registry.FrameWindow{Start: 1011, End: 1020}},
	}
	table := Table{
		1001: {1, 0, 0, 0, 0, 0, 1, 1, 1},
		1010: {2, 0, 0, 0, 0, 0, 1, 1, 1},
		1011: {3, 0, 0, 0, 0, 0, 1, 1, 1},
		1020: {4, 0, 0, 0, 0, 0, 1, 1, 1},
	}

	report := NewReport("uber_camera", assignments, table)
	if len(report.Sources) != 2 || len(report.Sources[1].Frames) != 2 {
		t.Fatalf("Unexpected report layout: %+v", report)
	}

	path := filepath.Join(t.TempDir(), "report.yaml")
	if err := WriteReport(report, path); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	read, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport failed: %v", err)
	}

	if read.Destination != "uber_camera" {
		t.Errorf("Destination mismatch: got %s", read.Destination)
	}
	if read.Sources[1].Window != assignments[1].Window {
		t.Errorf("Window mismatch: expected %v, got %v", assignments[1].Window, read.Sources[1].Window)
	}
	if got := read.Sources[1].Frames[1].Values["translateX"]; got != 4 {
		t.Errorf("Expected translateX 4 at 1020, got %v", got)
	}
}

func TestReadReportErrors(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.yaml")
	if _, err := ReadReport(missing); err == nil || !strings.Contains(err.Error(), missing) {
		t.Errorf("Expected error naming %s, got %v", missing, err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("sources: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadReport(bad); err == nil || !strings.Contains(err.Error(), "parse report") {
		t.Errorf("Expected parse error, got %v", err)
	}

	noVersion := filepath.Join(dir, "noversion.yaml")
	if err := os.WriteFile(noVersion, []byte("destination: uber_camera\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadReport(noVersion); err == nil {
		t.Error("Expected error for report without version")
	}
}
