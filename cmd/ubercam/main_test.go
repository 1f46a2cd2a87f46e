package main

import (
	"strings"
	"testing"

	"github.com/jdshortiss/uber-camera/internal/config"
	"github.com/jdshortiss/uber-camera/internal/director"
	"github.com/jdshortiss/uber-camera/internal/engine"
	"github.com/jdshortiss/uber-camera/internal/scene"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in      string
		want    config.Assignment
		wantErr bool
	}{
		{"cam:1001-1010", config.Assignment{Camera: "cam", In: 1001, Out: 1010}, false},
		{"ns:cam:1001-1010", config.Assignment{Camera: "ns:cam", In: 1001, Out: 1010}, false},
		{"cam1001-1010", config.Assignment{}, true},
		{":1001-1010", config.Assignment{}, true},
		{"cam:1001", config.Assignment{}, true},
		{"cam:abc-1010", config.Assignment{}, true},
		{"cam:1001-", config.Assignment{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAssignment(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got %+v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAssignment(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestAssignFlags(t *testing.T) {
	var a assignFlags
	for _, v := range []string{"camA:1001-1010", "camB:1011-1020"} {
		if err := a.Set(v); err != nil {
			t.Fatalf("Set(%q) failed: %v", v, err)
		}
	}
	if err := a.Set("bad"); err == nil {
		t.Error("Expected error for malformed value")
	}

	if got := a.String(); got != "camA:1001-1010,camB:1011-1020" {
		t.Errorf("Unexpected String(): %s", got)
	}
}

func TestPrefillReportsRejected(t *testing.T) {
	s := scene.New()
	for _, cam := range []scene.NodeID{"camA", "camB"} {
		if _, err := s.AddCamera(cam); err != nil {
			t.Fatal(err)
		}
	}
	sess, err := engine.NewSession(&config.Config{}, s, nil)
	if err != nil {
		t.Fatal(err)
	}

	skipped := prefill(sess, []config.Assignment{
		{Camera: "camA", In: 1001, Out: 1010},
		{Camera: "camB", In: 1005, Out: 1020}, // overlaps camA
		{Camera: "ghost", In: 1030, Out: 1040},
	})

	if len(skipped) != 2 {
		t.Fatalf("Expected 2 skipped ranges, got %v", skipped)
	}
	if !strings.Contains(skipped[0], "camB:1005-1020") || !strings.Contains(skipped[1], "ghost") {
		t.Errorf("Unexpected messages: %v", skipped)
	}
	if got := len(sess.Assignments()); got != 1 {
		t.Errorf("Expected 1 accepted range, got %d", got)
	}
}

func TestBuildSummary(t *testing.T) {
	if lines := buildSummary(nil); lines != nil {
		t.Errorf("Expected no lines, got %v", lines)
	}

	builds := []*engine.Build{
		{Camera: "uber_camera", Table: director.Table{1001: {}}},
		{Camera: "uber_camera1", Table: director.Table{1001: {}, 1010: {}}},
	}
	lines := buildSummary(builds)
	t.Logf("Summary: %v", lines)

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %v", lines)
	}
	if strings.Contains(lines[0], "Success") || !strings.Contains(lines[0], "uber_camera ") {
		t.Errorf("Earlier build should not be reported as exported: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[+++] Success! uber_camera1: 2 frames") {
		t.Errorf("Unexpected result line: %s", lines[1])
	}
	if n := strings.Count(strings.Join(lines, "\n"), "Success"); n != 1 {
		t.Errorf("Expected exactly one success line, got %d", n)
	}
}
