package director

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GenerateReportPath creates a timestamped report filename inside dir
func GenerateReportPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("uber_camera_%s.yaml", timestamp))
}

// FindLatestReport finds the most recent report file in dir. Entries that
// cannot be stat'ed are skipped.
func FindLatestReport(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read reports directory: %w", err)
	}

	var latest string
	var latestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		// Follow symlinks so a dangling link is skipped, not picked
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = path
			latestTime = info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no report files found in %s", dir)
	}

	return latest, nil
}
