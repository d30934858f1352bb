package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// writeTestPDF writes a minimal PDF with the given number of blank A6 pages.
func writeTestPDF(t *testing.T, path string, pages int) {
	t.Helper()

	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 298 420] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestFitzPDFSourceRasterize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "three.pdf")
	writeTestPDF(t, path, 3)

	src, err := Open(context.Background(), path, "fitz", "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if src.PageCount() != 3 {
		t.Fatalf("Expected 3 pages, got %d", src.PageCount())
	}

	pages, err := Rasterize(context.Background(), src, 72, 2, nil)
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("Expected 3 images, got %d", len(pages))
	}
	for i, p := range pages {
		if p.Index != i {
			t.Errorf("Page %d has index %d", i, p.Index)
		}
		if p.Image == nil || p.Image.Bounds().Empty() {
			t.Errorf("Page %d has no image", i)
		}
	}
}

func TestOpenMissingPDF(t *testing.T) {
	if _, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), "fitz", ""); err == nil {
		t.Fatal("Expected error for missing PDF")
	}
}

func TestImageSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 20, 10, color.White)
	writePNG(t, filepath.Join(dir, "a.PNG"), 30, 15, color.Black)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644)

	src, err := Open(context.Background(), dir, "fitz", "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if src.PageCount() != 2 {
		t.Fatalf("Expected 2 pages, got %d", src.PageCount())
	}

	w, h, err := src.GetPageDimensions(0)
	if err != nil {
		t.Fatalf("GetPageDimensions failed: %v", err)
	}
	if w != 30 || h != 15 {
		t.Errorf("Expected a.PNG first (30x15), got %vx%v", w, h)
	}

	img, err := src.RenderPage(context.Background(), 1, 300)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("Expected width 20, got %d", img.Bounds().Dx())
	}
}

// fakeSource renders solid pages whose width encodes the page index.
type fakeSource struct {
	pages  int
	failAt int
	mu     sync.Mutex
	calls  []int
}

func (f *fakeSource) PageCount() int { return f.pages }

func (f *fakeSource) GetPageDimensions(index int) (float64, float64, error) {
	return float64(index + 1), 1, nil
}

func (f *fakeSource) RenderPage(ctx context.Context, index int, dpi int) (image.Image, error) {
	f.mu.Lock()
	f.calls = append(f.calls, index)
	f.mu.Unlock()
	if index == f.failAt {
		return nil, errors.New("boom")
	}
	return image.NewGray(image.Rect(0, 0, index+1, 1)), nil
}

func (f *fakeSource) Close() error { return nil }

func TestRasterizeKeepsPageOrder(t *testing.T) {
	src := &fakeSource{pages: 17, failAt: -1}

	var mu sync.Mutex
	var progress []int
	pages, err := Rasterize(context.Background(), src, 100, 4, func(done, total int) {
		mu.Lock()
		progress = append(progress, done)
		mu.Unlock()
		if total != 17 {
			t.Errorf("Expected total 17, got %d", total)
		}
	})
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	if len(pages) != 17 {
		t.Fatalf("Expected 17 pages, got %d", len(pages))
	}
	for i, p := range pages {
		if p.Index != i || p.Image.Bounds().Dx() != i+1 {
			t.Errorf("Page %d out of order: index=%d width=%d", i, p.Index, p.Image.Bounds().Dx())
		}
	}
	if len(progress) != 17 {
		t.Errorf("Expected 17 progress callbacks, got %d", len(progress))
	}
}

func TestRasterizeFailure(t *testing.T) {
	src := &fakeSource{pages: 5, failAt: 3}
	pages, err := Rasterize(context.Background(), src, 100, 1, nil)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if pages != nil {
		t.Errorf("Expected no partial results, got %d pages", len(pages))
	}
}

func TestRasterizeEmpty(t *testing.T) {
	_, err := Rasterize(context.Background(), &fakeSource{failAt: -1}, 100, 2, nil)
	if !errors.Is(err, ErrNoPages) {
		t.Fatalf("Expected ErrNoPages, got %v", err)
	}
}

func TestPopplerHelpers(t *testing.T) {
	sizes, err := parsePageSizes([]byte("Page    1 size: 595.276 x 841.89 pts (A4)\nPage    1 rot:  0\nPage    2 size: 420 x 595 pts (A5)\n"))
	if err != nil {
		t.Fatalf("parsePageSizes failed: %v", err)
	}
	want := map[int][2]float64{0: {595.276, 841.89}, 1: {420, 595}}
	if fmt.Sprint(sizes) != fmt.Sprint(want) {
		t.Errorf("Expected %v, got %v", want, sizes)
	}

	if _, err := parsePageSizes([]byte("garbage")); err == nil {
		t.Error("Expected error for missing size")
	}

	args := renderArgs("in.pdf", "/tmp/p0", 0, 200)
	wantArgs := []string{"-f", "1", "-l", "1", "-r", "200", "-png", "-singlefile", "in.pdf", "/tmp/p0"}
	if fmt.Sprint(args) != fmt.Sprint(wantArgs) {
		t.Errorf("Expected %v, got %v", wantArgs, args)
	}

	s := &PopplerSource{binDir: filepath.Join("opt", "poppler")}
	if got := s.tool("pdftoppm"); filepath.Dir(got) != s.binDir {
		t.Errorf("Expected tool inside %s, got %s", s.binDir, got)
	}
}
