package report

import (
	"time"

	"github.com/ivlev/pdf2docx/internal/ocr"
)

const Version = "1.0"

// Report is everything OCR found in one conversion, kept so the document
// can be rebuilt later without rasterizing and recognizing again.
type Report struct {
	Version   string    `yaml:"version"`
	RunID     string    `yaml:"run_id"`
	Input     string    `yaml:"input"`
	DPI       int       `yaml:"dpi"`
	Languages []string  `yaml:"languages,flow"`
	CreatedAt time.Time `yaml:"created_at"`
	Pages     []Page    `yaml:"pages"`
}

// Page represents a single rendered page and its fragments in detection order
type Page struct {
	Index     int        `yaml:"index"`
	Width     int        `yaml:"width"`
	Height    int        `yaml:"height"`
	Blank     bool       `yaml:"blank,omitempty"`
	Fragments []Fragment `yaml:"fragments"`
}

// Fragment represents one recognized text fragment
type Fragment struct {
	Text       string   `yaml:"text"`
	Box        []Corner `yaml:"box,flow"`   // top-left, top-right, bottom-right, bottom-left
	Confidence float64  `yaml:"confidence"` // 0.0-1.0
}

// Corner is a pixel position on the rendered page
type Corner struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func FragmentFromResult(r ocr.Result) Fragment {
	box := make([]Corner, len(r.Box))
	for i, p := range r.Box {
		box[i] = Corner{X: p.X, Y: p.Y}
	}
	return Fragment{Text: r.Text, Box: box, Confidence: r.Confidence}
}

// Result converts back; a box with fewer than four corners leaves the rest zero.
func (f Fragment) Result() ocr.Result {
	var box ocr.Box
	for i := 0; i < len(box) && i < len(f.Box); i++ {
		box[i] = ocr.Point{X: f.Box[i].X, Y: f.Box[i].Y}
	}
	return ocr.Result{Box: box, Text: f.Text, Confidence: f.Confidence}
}

// Results returns the fragments of every page, page by page.
func (r *Report) Results() [][]ocr.Result {
	out := make([][]ocr.Result, len(r.Pages))
	for i, p := range r.Pages {
		page := make([]ocr.Result, len(p.Fragments))
		for j, f := range p.Fragments {
			page[j] = f.Result()
		}
		out[i] = page
	}
	return out
}

func (r *Report) FragmentCount() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Fragments)
	}
	return n
}
