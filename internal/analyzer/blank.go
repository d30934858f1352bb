package analyzer

import (
	"image"
	"image/color"
	"math"
)

// BlankDetector decides whether a scanned page carries any content by
// measuring the share of pixels on a Sobel edge.
type BlankDetector struct {
	EdgeThreshold float64 // Gradient magnitude threshold
	MinEdgeRatio  float64 // Below this share of edge pixels the page is blank
	Step          int     // Sample every Step-th pixel in each direction
}

// NewBlankDetector creates a detector tuned for 150-300 DPI scans
func NewBlankDetector() *BlankDetector {
	return &BlankDetector{
		EdgeThreshold: 60.0, // Ignores paper texture and JPEG noise
		MinEdgeRatio:  0.001,
		Step:          2,
	}
}

// IsBlank reports whether img has no content, together with the measured edge ratio.
func (d *BlankDetector) IsBlank(img image.Image) (bool, float64) {
	ratio := d.EdgeRatio(toGrayscale(img))
	return ratio < d.MinEdgeRatio, ratio
}

// EdgeRatio returns the share of sampled interior pixels whose Sobel
// magnitude exceeds EdgeThreshold.
func (d *BlankDetector) EdgeRatio(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	step := d.Step
	if step < 1 {
		step = 1
	}

	var sampled, edges int
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y += step {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x += step {
			sampled++
			if sobelMagnitude(gray, x, y) > d.EdgeThreshold {
				edges++
			}
		}
	}

	if sampled == 0 {
		return 0
	}
	return float64(edges) / float64(sampled)
}

// toGrayscale converts an image to grayscale
func toGrayscale(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}

	return gray
}

var (
	sobelX = [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// sobelMagnitude applies the Sobel operator at (x, y), which must not lie on the border
func sobelMagnitude(gray *image.Gray, x, y int) float64 {
	var sumX, sumY float64
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			pixel := float64(gray.GrayAt(x+kx, y+ky).Y)
			sumX += pixel * float64(sobelX[ky+1][kx+1])
			sumY += pixel * float64(sobelY[ky+1][kx+1])
		}
	}
	return math.Sqrt(sumX*sumX + sumY*sumY)
}
