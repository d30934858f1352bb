package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("dpi: 300\nlanguages: [eng]\nposition_hints: true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PDF2DOCX_LANGS", "")
	t.Setenv("PDF2DOCX_DPI", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DPI != 300 {
		t.Errorf("Expected dpi 300, got %d", cfg.DPI)
	}
	if diff := cmp.Diff([]string{"eng"}, cfg.Languages); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}
	if !cfg.PositionHints {
		t.Error("Expected position hints to be enabled")
	}
	if cfg.FontSize != 12 {
		t.Errorf("Expected default font size 12, got %v", cfg.FontSize)
	}
	if cfg.Rasterizer != RasterizerFitz {
		t.Errorf("Expected default rasterizer %s, got %s", RasterizerFitz, cfg.Rasterizer)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PDF2DOCX_POPPLER_PATH", "/opt/poppler/bin")
	t.Setenv("PDF2DOCX_LANGS", "deu, eng,,")
	t.Setenv("PDF2DOCX_DPI", "150")
	t.Setenv("TESSDATA_PREFIX", "/usr/share/tessdata")

	cfg := Default()
	cfg.ApplyEnv()

	want := Default()
	want.PopplerPath = "/opt/poppler/bin"
	want.Languages = []string{"deu", "eng"}
	want.DPI = 150
	want.TessdataPath = "/usr/share/tessdata"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero dpi", func(c *Config) { c.DPI = 0 }, true},
		{"zero font", func(c *Config) { c.FontSize = 0 }, true},
		{"poppler", func(c *Config) { c.Rasterizer = RasterizerPoppler }, false},
		{"unknown rasterizer", func(c *Config) { c.Rasterizer = "ghostscript" }, true},
		{"no languages", func(c *Config) { c.Languages = nil }, true},
		{"no languages with report", func(c *Config) { c.Languages = nil; c.ReportInput = "r.yaml" }, false},
		{"confidence above one", func(c *Config) { c.MinConfidence = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
