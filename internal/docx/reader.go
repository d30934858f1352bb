package docx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	godocx "github.com/fumiama/go-docx"
)

func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read parses a .docx package. The font size of a paragraph is taken from
// its first sized run; the text joins all runs. Tables and other body
// items are skipped.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	f, err := godocx.Parse(r, size)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	doc := &Document{}
	for _, item := range f.Document.Body.Items {
		para, ok := item.(*godocx.Paragraph)
		if !ok {
			continue
		}
		doc.Paragraphs = append(doc.Paragraphs, fromParagraph(para))
	}
	return doc, nil
}

func fromParagraph(para *godocx.Paragraph) Paragraph {
	var p Paragraph
	var text strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*godocx.Run)
		if !ok {
			continue
		}
		for _, c := range run.Children {
			switch x := c.(type) {
			case *godocx.Text:
				text.WriteString(x.Text)
			case *godocx.Tab:
				text.WriteByte('\t')
			}
		}
		if p.FontSize == 0 && run.RunProperties != nil && run.RunProperties.Size != nil {
			if hp, err := strconv.Atoi(run.RunProperties.Size.Val); err == nil {
				p.FontSize = float64(hp) / 2
			}
		}
	}
	p.Text = text.String()
	if para.Properties != nil && para.Properties.Ind != nil {
		left := para.Properties.Ind.Left
		p.Indent = &left
	}
	return p
}
