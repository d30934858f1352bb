package source

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

type Page struct {
	Index int
	Image image.Image
}

// Rasterize renders every page of src and returns them in page order.
// Up to workers pages render at once. onPage may be called from several
// goroutines; done counts finished pages, not the page index.
func Rasterize(ctx context.Context, src Source, dpi, workers int, onPage func(done, total int)) ([]Page, error) {
	count := src.PageCount()
	if count == 0 {
		return nil, ErrNoPages
	}
	if workers < 1 {
		workers = 1
	}
	if workers > count {
		workers = count
	}

	pages := make([]Page, count)
	var done atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			img, err := src.RenderPage(gctx, i, dpi)
			if err != nil {
				return fmt.Errorf("render page %d: %w", i, err)
			}
			pages[i] = Page{Index: i, Image: img}
			if onPage != nil {
				onPage(int(done.Add(1)), count)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}
