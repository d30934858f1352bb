package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestPDF(t *testing.T) {
	dir := t.TempDir()
	files := []string{"old.pdf", "newest.PDF", "middle.pdf", "ignored.txt"}
	for i, name := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("%PDF"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(-time.Duration(10-i) * time.Hour)
		if name == "newest.PDF" {
			modTime = time.Now()
		}
		os.Chtimes(p, modTime, modTime)
	}

	latest, err := FindLatestPDF(dir)
	if err != nil {
		t.Fatalf("FindLatestPDF failed: %v", err)
	}
	if filepath.Base(latest) != "newest.PDF" {
		t.Errorf("Expected newest.PDF, got %s", latest)
	}
}

func TestFindLatestPDFEmpty(t *testing.T) {
	if _, err := FindLatestPDF(t.TempDir()); err == nil {
		t.Fatal("Expected error for directory without PDFs")
	}
}

func TestGrayPool(t *testing.T) {
	p := NewGrayPool()
	rect := image.Rect(0, 0, 8, 4)

	img := p.Get(rect)
	if img.Rect != rect {
		t.Fatalf("Expected rect %v, got %v", rect, img.Rect)
	}
	p.Put(img)
	p.Put(nil)
	// Unknown sizes are dropped silently.
	p.Put(image.NewGray(image.Rect(0, 0, 1, 1)))

	again := p.Get(rect)
	if again.Rect != rect {
		t.Errorf("Expected rect %v, got %v", rect, again.Rect)
	}
}

func TestDescribeHost(t *testing.T) {
	info, err := DescribeHost()
	if err != nil {
		t.Skipf("host metrics unavailable: %v", err)
	}
	if info.LogicalCPUs < 1 {
		t.Errorf("Expected at least one CPU, got %d", info.LogicalCPUs)
	}
	if DefaultWorkers() < 1 {
		t.Error("Expected at least one worker")
	}
	t.Log(info.String())
}
