package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	InputPath  string `yaml:"input"`
	OutputPath string `yaml:"output"`

	// Rasterizer selects the PDF backend: "fitz" (MuPDF) or "poppler".
	Rasterizer string `yaml:"rasterizer"`
	// PopplerPath is the directory holding pdftoppm/pdfinfo. Empty means PATH lookup.
	PopplerPath string `yaml:"poppler_path"`
	DPI         int    `yaml:"dpi"`
	Workers     int    `yaml:"workers"`

	Engine       string   `yaml:"engine"`
	Languages    []string `yaml:"languages"`
	TessdataPath string   `yaml:"tessdata_path"`
	MaxImageSide int      `yaml:"max_image_side"`
	Grayscale    bool     `yaml:"grayscale"`

	FontSize       float64 `yaml:"font_size"`
	PositionHints  bool    `yaml:"position_hints"`
	MinConfidence  float64 `yaml:"min_confidence"`
	SkipBlankPages bool    `yaml:"skip_blank_pages"`

	ReportOutput string `yaml:"report_output"`
	ReportInput  string `yaml:"report_input"`
	// OverlayDir receives page images with the recognized boxes drawn on them.
	OverlayDir string `yaml:"overlay_dir"`

	ShowStats    bool   `yaml:"show_stats"`
	BuildVersion string `yaml:"-"`
}

const (
	RasterizerFitz    = "fitz"
	RasterizerPoppler = "poppler"
)

func Default() *Config {
	return &Config{
		Rasterizer:   RasterizerFitz,
		DPI:          200,
		Workers:      4,
		Engine:       "tesseract",
		Languages:    []string{"rus", "eng"},
		MaxImageSide: 4000,
		Grayscale:    true,
		FontSize:     12,
	}
}

// Load reads a YAML config on top of Default and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadDotEnv loads .env from the working directory if there is one.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[!] Не удалось прочитать .env: %v", err)
	}
}

func (c *Config) ApplyEnv() {
	if p := os.Getenv("PDF2DOCX_POPPLER_PATH"); p != "" {
		c.PopplerPath = p
	}
	if p := os.Getenv("TESSDATA_PREFIX"); p != "" && c.TessdataPath == "" {
		c.TessdataPath = p
	}
	if langs := os.Getenv("PDF2DOCX_LANGS"); langs != "" {
		c.Languages = SplitList(langs)
	}
	if dpi := os.Getenv("PDF2DOCX_DPI"); dpi != "" {
		if v, err := strconv.Atoi(dpi); err == nil {
			c.DPI = v
		} else {
			log.Printf("[!] PDF2DOCX_DPI=%q не число, игнорируется", dpi)
		}
	}
}

func (c *Config) Validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %v", c.FontSize)
	}
	switch c.Rasterizer {
	case RasterizerFitz, RasterizerPoppler:
	default:
		return fmt.Errorf("unknown rasterizer: %s", c.Rasterizer)
	}
	if c.ReportInput == "" && len(c.Languages) == 0 {
		return fmt.Errorf("at least one OCR language is required")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min confidence must be within [0,1], got %v", c.MinConfidence)
	}
	return nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
