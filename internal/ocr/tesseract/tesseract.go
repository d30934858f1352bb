// Package tesseract registers the gosseract backed OCR engine. Import it for
// its side effect to make "tesseract" available to ocr.NewRecognizer.
package tesseract

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"
	"sync"

	"github.com/ivlev/pdf2docx/internal/ocr"
	"github.com/otiai10/gosseract/v2"
)

func init() {
	ocr.Register("tesseract", func(opts ocr.Options) (ocr.Recognizer, error) {
		return NewRecognizer(opts)
	})
}

// Recognizer wraps one gosseract client. Tesseract loads its models on the
// first call, so a Recognizer is meant to live for a whole conversion.
type Recognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
	pre    *ocr.Preprocessor
}

func NewRecognizer(opts ocr.Options) (*Recognizer, error) {
	c := gosseract.NewClient()
	if opts.TessdataPath != "" {
		if err := c.SetTessdataPrefix(opts.TessdataPath); err != nil {
			c.Close()
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if len(opts.Languages) > 0 {
		if err := c.SetLanguage(opts.Languages...); err != nil {
			c.Close()
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	return &Recognizer{
		client: c,
		pre:    ocr.NewPreprocessor(opts.MaxImageSide, opts.Grayscale),
	}, nil
}

// Recognize returns one result per text line, in the order tesseract
// iterates them.
func (r *Recognizer) Recognize(ctx context.Context, img image.Image) ([]ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared, scale, release := r.pre.Prepare(img)
	data, err := ocr.EncodePNG(prepared)
	release()
	if err != nil {
		return nil, fmt.Errorf("encode page: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}
	return toResults(boxes, scale, img.Bounds().Min), nil
}

func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}

// toResults maps tesseract line boxes back into page coordinates.
func toResults(boxes []gosseract.BoundingBox, scale float64, origin image.Point) []ocr.Result {
	results := make([]ocr.Result, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		rect := image.Rect(
			unscale(b.Box.Min.X, scale), unscale(b.Box.Min.Y, scale),
			unscale(b.Box.Max.X, scale), unscale(b.Box.Max.Y, scale),
		).Add(origin)
		results = append(results, ocr.Result{
			Box:        ocr.BoxFromRect(rect),
			Text:       text,
			Confidence: clamp01(b.Confidence / 100.0),
		})
	}
	return results
}

func unscale(v int, scale float64) int {
	if scale == 0 || scale == 1 {
		return v
	}
	return int(math.Round(float64(v) / scale))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
