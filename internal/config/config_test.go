package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Defaults()

	if cfg.CameraName != "uber_camera" {
		t.Errorf("Expected camera name uber_camera, got %s", cfg.CameraName)
	}
	if cfg.FrameMin != 1001 || cfg.FrameMax != 9999 {
		t.Errorf("Expected frame bounds 1001-9999, got %d-%d", cfg.FrameMin, cfg.FrameMax)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ubercam.yaml")
	data := `
scene: input/scenes/shot010.yaml
camera_name: shot010_uber
frame_max: 2000
assignments:
  - camera: camA
    in: 1001
    out: 1010
  - camera: camB
    in: 1011
    out: 1020
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.ScenePath != "input/scenes/shot010.yaml" {
		t.Errorf("Unexpected scene path: %s", cfg.ScenePath)
	}
	if cfg.CameraName != "shot010_uber" {
		t.Errorf("Unexpected camera name: %s", cfg.CameraName)
	}
	if cfg.FrameMin != 1001 || cfg.FrameMax != 2000 {
		t.Errorf("Unexpected frame bounds: %d-%d", cfg.FrameMin, cfg.FrameMax)
	}
	if len(cfg.Assignments) != 2 || cfg.Assignments[1].Out != 1020 {
		t.Errorf("Unexpected assignments: %+v", cfg.Assignments)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{FrameMin: 1001, FrameMax: 9999}, false},
		{"inverted bounds", Config{FrameMin: 2000, FrameMax: 1001}, true},
		{"missing camera", Config{FrameMin: 1001, FrameMax: 9999, Assignments: []Assignment{{In: 1001, Out: 1002}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvScene, "input/scenes/shot020.yaml")
	t.Setenv(EnvFrameMax, "3000")

	cfg := &Config{CameraName: "from_file"}
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.ScenePath != "input/scenes/shot020.yaml" {
		t.Errorf("Expected scene from env, got %s", cfg.ScenePath)
	}
	if cfg.FrameMax != 3000 {
		t.Errorf("Expected frame max 3000, got %d", cfg.FrameMax)
	}
	// Unset variables leave fields alone
	if cfg.CameraName != "from_file" {
		t.Errorf("Expected camera name from_file, got %s", cfg.CameraName)
	}

	t.Setenv(EnvFrameMin, "abc")
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("Expected error for non-numeric frame min")
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	data := EnvCameraName + "=shot030_uber\n" + EnvLogFile + "=ubercam.log\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv(EnvCameraName)
		os.Unsetenv(EnvLogFile)
	})

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	cfg := &Config{}
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.CameraName != "shot030_uber" || cfg.LogFile != "ubercam.log" {
		t.Errorf("Expected values from .env, got %q and %q", cfg.CameraName, cfg.LogFile)
	}

	if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Expected error for missing .env file")
	}
}
