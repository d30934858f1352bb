// Package ocr turns page images into positioned text fragments. Engines plug
// in through Register; the tesseract subpackage registers the default one.
package ocr

import (
	"context"
	"image"
)

type Point struct {
	X int
	Y int
}

// Box holds the four corners of a fragment: top-left, top-right,
// bottom-right, bottom-left.
type Box [4]Point

func BoxFromRect(r image.Rectangle) Box {
	return Box{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// Left is the x of the top-left corner.
func (b Box) Left() int {
	return b[0].X
}

func (b Box) Rect() image.Rectangle {
	return image.Rect(b[0].X, b[0].Y, b[2].X, b[2].Y)
}

// Result is one recognized fragment. Confidence is within [0,1].
type Result struct {
	Box        Box
	Text       string
	Confidence float64
}

// Recognizer is expensive to build; callers reuse one instance for every
// page of a run and Close it afterwards.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]Result, error)
	Close() error
}

// FilterByConfidence drops results below min. A zero min keeps everything.
func FilterByConfidence(results []Result, min float64) []Result {
	if min <= 0 {
		return results
	}
	kept := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Confidence >= min {
			kept = append(kept, r)
		}
	}
	return kept
}
