package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultDir is where reports go when no path is given
var DefaultDir = filepath.Join("output", "reports")

// GeneratePath creates a timestamped report filename inside dir
func GeneratePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("report_%s.yaml", timestamp))
}

// FindLatest finds the most recent report file in dir
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read reports directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var reports []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		reports = append(reports, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(reports) == 0 {
		return "", fmt.Errorf("no report files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].modTime.After(reports[j].modTime)
	})

	return reports[0].path, nil
}
