package source

import (
	"context"
	"errors"
	"image"
	"strings"

	"github.com/gen2brain/go-fitz"
)

var ErrNoPages = errors.New("source has no pages")

type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(ctx context.Context, index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a backend for path. PDFs go through the named rasterizer,
// anything else is read as an image file or a directory of images.
func Open(ctx context.Context, path, rasterizer, popplerPath string) (Source, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return NewImageSource(path)
	}
	if rasterizer == "poppler" {
		return NewPopplerSource(ctx, path, popplerPath)
	}
	return NewFitzPDFSource(path)
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// RenderPage opens its own document handle so pages can render in parallel.
func (f *FitzPDFSource) RenderPage(ctx context.Context, index int, dpi int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
