// Package docx keeps the paragraphs produced by a conversion and persists
// them as a WordprocessingML package: single-run paragraphs with a font
// size and an optional left indent.
package docx

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	godocx "github.com/fumiama/go-docx"
)

// Twips per inch; WordprocessingML measures indents in twentieths of a point.
const twipsPerInch = 1440

// Mode of saved documents.
const fileMode os.FileMode = 0644

type Paragraph struct {
	Text string
	// FontSize in points.
	FontSize float64
	// Indent is the left indent in twips. Nil leaves the paragraph unindented.
	Indent *int
}

type Style struct {
	FontSize float64
	Indent   *int
}

type Document struct {
	Paragraphs []Paragraph
}

func New() *Document {
	return &Document{}
}

// AddParagraph appends a paragraph holding text; paragraphs keep insertion order.
func (d *Document) AddParagraph(text string, style Style) {
	d.Paragraphs = append(d.Paragraphs, Paragraph{
		Text:     text,
		FontSize: style.FontSize,
		Indent:   style.Indent,
	})
}

// PixelsToTwips converts a horizontal pixel offset on a page rendered at dpi.
func PixelsToTwips(px, dpi int) int {
	if dpi <= 0 {
		return 0
	}
	return px * twipsPerInch / dpi
}

// halfPoints converts a point size to the w:sz unit.
func halfPoints(pt float64) string {
	return strconv.Itoa(int(pt*2 + 0.5))
}

func (d *Document) build() *godocx.Docx {
	f := godocx.New().WithDefaultTheme()
	for _, p := range d.Paragraphs {
		para := f.AddParagraph()
		if p.Indent != nil {
			para.Properties = &godocx.ParagraphProperties{
				Ind: &godocx.Ind{Left: *p.Indent},
			}
		}
		run := para.AddText(p.Text)
		if p.FontSize > 0 {
			sz := halfPoints(p.FontSize)
			run.Size(sz).SizeCs(sz)
		}
		for _, c := range run.Children {
			if t, ok := c.(*godocx.Text); ok {
				t.XMLSpace = "preserve"
			}
		}
	}
	return f.WithA4Page()
}

// WriteTo writes the .docx package to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if _, err := d.build().WriteTo(cw); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// Save writes the document to path through a temporary file in the same
// directory, so a failed save never leaves a truncated document behind.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pdf2docx-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := d.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	// CreateTemp makes the file owner-only
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
