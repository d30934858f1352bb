package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
)

var (
	pagesRe = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)
	sizeRe  = regexp.MustCompile(`(?m)^Page\s+(\d+) size:\s+([\d.]+) x ([\d.]+) pts`)
)

// PopplerSource rasterizes through the poppler command line tools.
// binDir points at the directory holding pdftoppm and pdfinfo; the process
// environment is never modified.
type PopplerSource struct {
	path   string
	binDir string
	pages  int
	sizes  map[int][2]float64
	tmpDir string
}

// NewPopplerSource reads the page count and every page size up front; ctx
// bounds those pdfinfo calls.
func NewPopplerSource(ctx context.Context, path, binDir string) (*PopplerSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	s := &PopplerSource{path: path, binDir: binDir}

	out, err := s.run(ctx, "pdfinfo", path)
	if err != nil {
		return nil, err
	}
	m := pagesRe.FindSubmatch(out)
	if m == nil {
		return nil, fmt.Errorf("pdfinfo: page count not found in output")
	}
	s.pages, _ = strconv.Atoi(string(m[1]))

	if s.pages > 0 {
		out, err = s.run(ctx, "pdfinfo", "-f", "1", "-l", strconv.Itoa(s.pages), path)
		if err != nil {
			return nil, err
		}
		s.sizes, err = parsePageSizes(out)
		if err != nil {
			return nil, err
		}
	}

	s.tmpDir, err = os.MkdirTemp("", "pdf2docx_poppler_")
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PopplerSource) tool(name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	if s.binDir == "" {
		return name
	}
	return filepath.Join(s.binDir, name)
}

func (s *PopplerSource) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.tool(name), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s error: %w, output: %s", name, err, stderr.String())
	}
	return out, nil
}

func (s *PopplerSource) PageCount() int {
	return s.pages
}

func (s *PopplerSource) GetPageDimensions(index int) (float64, float64, error) {
	size, ok := s.sizes[index]
	if !ok {
		return 0, 0, fmt.Errorf("page %d out of range", index)
	}
	return size[0], size[1], nil
}

// parsePageSizes reads "Page N size: W x H pts" lines, keyed by zero-based index.
func parsePageSizes(out []byte) (map[int][2]float64, error) {
	matches := sizeRe.FindAllSubmatch(out, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdfinfo: page size not found in output")
	}
	sizes := make(map[int][2]float64, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(string(m[1]))
		if err != nil {
			return nil, err
		}
		w, err := strconv.ParseFloat(string(m[2]), 64)
		if err != nil {
			return nil, err
		}
		h, err := strconv.ParseFloat(string(m[3]), 64)
		if err != nil {
			return nil, err
		}
		sizes[n-1] = [2]float64{w, h}
	}
	return sizes, nil
}

func (s *PopplerSource) RenderPage(ctx context.Context, index int, dpi int) (image.Image, error) {
	root := filepath.Join(s.tmpDir, fmt.Sprintf("p%d", index))
	defer os.Remove(root + ".png")

	if _, err := s.run(ctx, "pdftoppm", renderArgs(s.path, root, index, dpi)...); err != nil {
		return nil, err
	}

	f, err := os.Open(root + ".png")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode page %d: %w", index, err)
	}
	return img, nil
}

func renderArgs(pdfPath, root string, index, dpi int) []string {
	n := strconv.Itoa(index + 1)
	return []string{
		"-f", n, "-l", n,
		"-r", strconv.Itoa(dpi),
		"-png", "-singlefile",
		pdfPath, root,
	}
}

func (s *PopplerSource) Close() error {
	return os.RemoveAll(s.tmpDir)
}
