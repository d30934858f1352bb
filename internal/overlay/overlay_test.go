package overlay

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/pdf2docx/internal/ocr"
)

func whitePage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func TestConfidenceColor(t *testing.T) {
	low := ConfidenceColor(0)
	high := ConfidenceColor(1)
	if low.R <= low.G {
		t.Errorf("Expected red for low confidence, got %v", low.Hex())
	}
	if high.G <= high.R {
		t.Errorf("Expected green for high confidence, got %v", high.Hex())
	}
	if ConfidenceColor(-3) != low || ConfidenceColor(7) != high {
		t.Error("Expected out of range confidence to clamp")
	}
}

func TestDraw(t *testing.T) {
	page := whitePage(200, 100)
	results := []ocr.Result{
		{Box: ocr.BoxFromRect(image.Rect(20, 30, 120, 60)), Text: "a", Confidence: 0.95},
	}

	out := Draw(page, results)
	if out.Bounds().Size() != page.Bounds().Size() {
		t.Fatalf("Expected same size, got %v", out.Bounds())
	}

	// Outline pixels are colored, the box interior stays white.
	edge := color.RGBAModel.Convert(out.At(70, 30)).(color.RGBA)
	if edge.R == 255 && edge.G == 255 && edge.B == 255 {
		t.Error("Expected box outline at top edge")
	}
	inside := color.RGBAModel.Convert(out.At(70, 45)).(color.RGBA)
	if inside.R != 255 || inside.G != 255 || inside.B != 255 {
		t.Errorf("Expected untouched interior, got %v", inside)
	}
	if page.GrayAt(70, 30).Y != 255 {
		t.Error("source image was modified")
	}
}

func TestSavePage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "overlay")
	if err := SavePage(dir, 1, whitePage(50, 50), nil); err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}

	path := PagePath(dir, 1)
	if filepath.Base(path) != "page_002.png" {
		t.Errorf("Unexpected file name %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if img.Bounds().Dx() != 50 {
		t.Errorf("Expected width 50, got %d", img.Bounds().Dx())
	}
}
