package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Working directories used when no explicit paths are given.
const (
	ScenesDir  = "input/scenes"
	ConfigDir  = "input"
	OutputDir  = "output"
	ReportsDir = "output/reports"
)

// ConfigFile is the config file name looked up in ConfigDir.
const ConfigFile = "ubercam.yaml"

var sceneExtensions = []string{".yaml", ".yml"}

// EnsureDirs creates every directory in dirs that does not exist yet.
func EnsureDirs(dirs ...string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

// FindConfig returns the path of ConfigFile in dir when it exists.
func FindConfig(dir string) (string, bool) {
	path := filepath.Join(dir, ConfigFile)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// FindLatestScene returns the most recently modified scene file in dir.
func FindLatestScene(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !isScene(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no scene files found in %s", dir)
	}

	return latestFile, nil
}

func isScene(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range sceneExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// OutputPath builds a timestamped path in dir named after source, e.g.
// "output/shot 010.yaml" becomes "output/shot_010_uber_2006-01-02_15-04-05.yaml".
func OutputPath(dir, source, suffix, ext string) string {
	baseName := filepath.Base(source)
	nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	cleanName := strings.ReplaceAll(nameOnly, " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s%s", cleanName, suffix, timestamp, ext))
}
