package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Frame bounds accepted by the frame range inputs.
const (
	DefaultFrameMin = 1001
	DefaultFrameMax = 9999
)

type Config struct {
	ScenePath   string `yaml:"scene"`
	OutputScene string `yaml:"output_scene"`
	ReportPath  string `yaml:"report"`
	PreviewPath string `yaml:"preview"`
	CameraName  string `yaml:"camera_name"`
	FrameMin    int    `yaml:"frame_min"`
	FrameMax    int    `yaml:"frame_max"`
	// KeepTime leaves the time cursor on the last sampled frame.
	KeepTime    bool         `yaml:"keep_time"`
	Interactive bool         `yaml:"interactive"`
	LogFile     string       `yaml:"log_file"`
	Verbose     bool         `yaml:"verbose"`
	Assignments []Assignment `yaml:"assignments"`
}

// Assignment is a frame range requested for one camera in batch mode.
type Assignment struct {
	Camera string `yaml:"camera"`
	In     int    `yaml:"in"`
	Out    int    `yaml:"out"`
}

// Defaults fills unset fields.
func (c *Config) Defaults() {
	if c.CameraName == "" {
		c.CameraName = "uber_camera"
	}
	if c.FrameMin <= 0 {
		c.FrameMin = DefaultFrameMin
	}
	if c.FrameMax <= 0 {
		c.FrameMax = DefaultFrameMax
	}
}

// Validate checks the fields Defaults cannot repair.
func (c *Config) Validate() error {
	if c.FrameMin > c.FrameMax {
		return fmt.Errorf("frame_min %d is greater than frame_max %d", c.FrameMin, c.FrameMax)
	}
	for _, a := range c.Assignments {
		if a.Camera == "" {
			return fmt.Errorf("assignment %d-%d has no camera", a.In, a.Out)
		}
	}
	return nil
}

// LoadFile reads a YAML config file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Defaults()
	return cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvScene      = "UBERCAM_SCENE"
	EnvCameraName = "UBERCAM_CAMERA_NAME"
	EnvLogFile    = "UBERCAM_LOG_FILE"
	EnvFrameMin   = "UBERCAM_FRAME_MIN"
	EnvFrameMax   = "UBERCAM_FRAME_MAX"
)

// LoadEnv loads KEY=value pairs from .env files into the environment. With
// no paths it reads ./.env. Variables already set are kept.
func LoadEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// ApplyEnv overrides fields from UBERCAM_* environment variables that are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvScene); v != "" {
		c.ScenePath = v
	}
	if v := os.Getenv(EnvCameraName); v != "" {
		c.CameraName = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	for name, dst := range map[string]*int{EnvFrameMin: &c.FrameMin, EnvFrameMax: &c.FrameMax} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
	}
	return nil
}
