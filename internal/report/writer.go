package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Write writes a report to a YAML file, creating its directory
func Write(report *Report, path string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Read reads a report from a YAML file
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	if report.Version != Version {
		return nil, fmt.Errorf("unsupported report version %q", report.Version)
	}

	for i, p := range report.Pages {
		if p.Index != i {
			return nil, fmt.Errorf("report page %d has index %d", i, p.Index)
		}
	}

	return &report, nil
}
