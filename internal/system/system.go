package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

func FindLatestPDF(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(strings.ToLower(f.Name()), ".pdf") {
			info, err := f.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(latestTime) {
				latestTime = info.ModTime()
				latestFile = filepath.Join(dir, f.Name())
			}
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено PDF-файлов", dir)
	}

	return latestFile, nil
}

// HostInfo is what the -stats report prints about the machine.
type HostInfo struct {
	LogicalCPUs     int
	TotalMemory     uint64
	AvailableMemory uint64
	UsedPercent     float64
}

func DescribeHost() (HostInfo, error) {
	var info HostInfo

	n, err := cpu.Counts(true)
	if err != nil {
		return info, fmt.Errorf("cpu counts: %w", err)
	}
	info.LogicalCPUs = n

	vm, err := mem.VirtualMemory()
	if err != nil {
		return info, fmt.Errorf("virtual memory: %w", err)
	}
	info.TotalMemory = vm.Total
	info.AvailableMemory = vm.Available
	info.UsedPercent = vm.UsedPercent
	return info, nil
}

func (h HostInfo) String() string {
	return fmt.Sprintf("CPU: %d | RAM: %.1f/%.1f GiB свободно (%.0f%% занято)",
		h.LogicalCPUs, gib(h.AvailableMemory), gib(h.TotalMemory), h.UsedPercent)
}

func gib(b uint64) float64 {
	return float64(b) / (1 << 30)
}

// DefaultWorkers returns the render worker count for this machine.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}
