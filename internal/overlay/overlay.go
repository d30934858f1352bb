// Package overlay draws recognized text boxes on top of a page image, which
// makes detection order and confidence visible when tuning DPI or languages.
package overlay

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/ivlev/pdf2docx/internal/ocr"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	lowColor  = colorful.Color{R: 0.9, G: 0.1, B: 0.1}
	highColor = colorful.Color{R: 0.1, G: 0.7, B: 0.2}
)

// ConfidenceColor blends from red at 0 to green at 1.
func ConfidenceColor(conf float64) colorful.Color {
	conf = max(0, min(1, conf))
	return lowColor.BlendHcl(highColor, conf).Clamped()
}

// Draw returns a copy of img with every result outlined and numbered in
// detection order.
func Draw(img image.Image, results []ocr.Result) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetLineWidth(2)

	for i, r := range results {
		dc.SetColor(ConfidenceColor(r.Confidence))
		dc.MoveTo(float64(r.Box[0].X), float64(r.Box[0].Y))
		for _, p := range r.Box[1:] {
			dc.LineTo(float64(p.X), float64(p.Y))
		}
		dc.ClosePath()
		dc.Stroke()

		label := fmt.Sprintf("%d %.0f%%", i+1, r.Confidence*100)
		dc.DrawString(label, float64(r.Box[0].X), float64(r.Box[0].Y)-3)
	}
	return dc.Image()
}

// PagePath is the file the overlay of page index is written to.
func PagePath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("page_%03d.png", index+1))
}

// SavePage draws the overlay for one page and writes it as PNG into dir.
func SavePage(dir string, index int, img image.Image, results []ocr.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return gg.SavePNG(PagePath(dir, index), Draw(img, results))
}
