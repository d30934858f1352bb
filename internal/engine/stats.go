package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PerformanceReport formats the timings of a finished run.
func PerformanceReport(o Outcome, build string) string {
	pps := 0.0
	if secs := o.Timings.Total.Seconds(); secs > 0 {
		pps = float64(o.Pages) / secs
	}
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Run: %s\n"+
			"Total Time: %.2fs\n"+
			"Rasterizing: %.2fs\n"+
			"Recognition: %.2fs\n"+
			"Writing: %.2fs\n"+
			"Pages/s: %.2f\n"+
			"----------------------------\n",
		build, o.RunID, o.Timings.Total.Seconds(), o.Timings.Rasterize.Seconds(),
		o.Timings.Recognize.Seconds(), o.Timings.Write.Seconds(), pps,
	)
}

// AppendBenchmarkLog adds one line per run to the log at path.
func AppendBenchmarkLog(path, build, input string, o Outcome) error {
	entry := fmt.Sprintf("[%s] Build: %s | Input: %s | Pages: %d | Paragraphs: %d | Total: %.2fs | Raster: %.2fs | OCR: %.2fs | Status: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		build,
		filepath.Base(input),
		o.Pages,
		o.Paragraphs,
		o.Timings.Total.Seconds(),
		o.Timings.Rasterize.Seconds(),
		o.Timings.Recognize.Seconds(),
		o.State,
	)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(entry)
	return err
}
