package ocr

import (
	"bytes"
	"image"
	"image/png"

	"github.com/ivlev/pdf2docx/internal/system"
	"golang.org/x/image/draw"
)

// Preprocessor prepares page bitmaps for the OCR engine: pages larger than
// MaxSide are downscaled, and Grayscale drops color.
type Preprocessor struct {
	MaxSide   int
	Grayscale bool
}

func NewPreprocessor(maxSide int, grayscale bool) *Preprocessor {
	return &Preprocessor{MaxSide: maxSide, Grayscale: grayscale}
}

// Prepare returns the image to feed the engine, the factor applied to its
// size, and a release func to call once the image is no longer used.
// Coordinates found in the prepared image map back by dividing by scale.
func (p *Preprocessor) Prepare(img image.Image) (image.Image, float64, func()) {
	src := img.Bounds()
	scale := 1.0
	if p.MaxSide > 0 {
		longest := max(src.Dx(), src.Dy())
		if longest > p.MaxSide {
			scale = float64(p.MaxSide) / float64(longest)
		}
	}

	if scale == 1.0 && !p.Grayscale {
		return img, 1.0, func() {}
	}

	dr := image.Rect(0, 0, max(1, int(float64(src.Dx())*scale)), max(1, int(float64(src.Dy())*scale)))

	var dst draw.Image
	release := func() {}
	if p.Grayscale {
		gray := system.GetGray(dr)
		dst = gray
		release = func() { system.PutGray(gray) }
	} else {
		dst = image.NewRGBA(dr)
	}

	if scale == 1.0 {
		draw.Draw(dst, dr, img, src.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dr, img, src, draw.Src, nil)
	}
	return dst, scale, release
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
