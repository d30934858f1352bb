package engine

import (
	"github.com/ivlev/pdf2docx/internal/docx"
	"github.com/ivlev/pdf2docx/internal/ocr"
)

type WriterOptions struct {
	FontSize      float64
	PositionHints bool
	// DPI the pages were rendered at; converts position hints from pixels.
	DPI int
}

// BuildDocument emits one paragraph per result, page by page, keeping the
// detection order inside each page.
func BuildDocument(pages [][]ocr.Result, opts WriterOptions) *docx.Document {
	doc := docx.New()

	for _, results := range pages {
		for _, r := range results {
			style := docx.Style{FontSize: opts.FontSize}
			if opts.PositionHints {
				indent := docx.PixelsToTwips(max(0, r.Box.Left()), opts.DPI)
				style.Indent = &indent
			}
			doc.AddParagraph(r.Text, style)
		}
	}
	return doc
}
