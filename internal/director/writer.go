package director

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteReport writes a build report to a YAML file
func WriteReport(report *Report, path string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// ReadReport reads a build report from a YAML file
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}

	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	if report.Version == "" {
		return nil, fmt.Errorf("parse report %s: missing version", path)
	}

	return &report, nil
}
