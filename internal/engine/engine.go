package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/ivlev/pdf2docx/internal/analyzer"
	"github.com/ivlev/pdf2docx/internal/config"
	"github.com/ivlev/pdf2docx/internal/ocr"
	"github.com/ivlev/pdf2docx/internal/overlay"
	"github.com/ivlev/pdf2docx/internal/report"
	"github.com/ivlev/pdf2docx/internal/source"
)

// Event reports progress inside a stage. Rasterize events may arrive from
// several goroutines at once.
type Event struct {
	Stage Stage
	Done  int
	Total int
}

// Converter runs PDF → images → OCR → .docx for one Config.
type Converter struct {
	Config        *config.Config
	OpenSource    func(ctx context.Context, path string) (source.Source, error)
	NewRecognizer func() (ocr.Recognizer, error)
	Blank         *analyzer.BlankDetector
	Progress      func(Event)

	// Save is retried while the target stays locked, e.g. open in Word.
	SaveRetries    uint64
	SaveRetryDelay time.Duration

	mu    sync.Mutex
	state State
}

func NewConverter(cfg *config.Config) *Converter {
	return &Converter{
		Config: cfg,
		OpenSource: func(ctx context.Context, path string) (source.Source, error) {
			return source.Open(ctx, path, cfg.Rasterizer, cfg.PopplerPath)
		},
		NewRecognizer: func() (ocr.Recognizer, error) {
			return ocr.NewRecognizer(cfg.Engine, ocr.Options{
				Languages:    cfg.Languages,
				TessdataPath: cfg.TessdataPath,
				MaxImageSide: cfg.MaxImageSide,
				Grayscale:    cfg.Grayscale,
			})
		},
		Blank:          analyzer.NewBlankDetector(),
		SaveRetries:    4,
		SaveRetryDelay: 500 * time.Millisecond,
	}
}

func (c *Converter) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Converter) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Converting {
		return false
	}
	c.state = Converting
	return true
}

func (c *Converter) end(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Converter) emit(stage Stage, done, total int) {
	if c.Progress != nil {
		c.Progress(Event{Stage: stage, Done: done, Total: total})
	}
}

// stageError carries the stage a step failed in up to Run.
type stageError struct {
	stage Stage
	err   error
}

func (e *stageError) Error() string { return fmt.Sprintf("%s: %v", e.stage, e.err) }
func (e *stageError) Unwrap() error { return e.err }

func fail(stage Stage, err error) *stageError {
	return &stageError{stage: stage, err: err}
}

// Run converts synchronously and reports how it went. It never panics on
// bad input; every failure comes back in the Outcome with its stage.
func (c *Converter) Run(ctx context.Context) Outcome {
	out := Outcome{RunID: uuid.NewString()}
	if !c.begin() {
		out.State = Failed
		out.Stage = StageInput
		out.Err = ErrBusy
		return out
	}

	start := time.Now()
	err := c.run(ctx, &out)
	out.Timings.Total = time.Since(start)

	if err != nil {
		out.State = Failed
		out.Stage = err.stage
		out.Err = err.err
		c.end(Failed)
		return out
	}
	out.State = Finished
	c.end(Finished)
	return out
}

func (c *Converter) run(ctx context.Context, out *Outcome) *stageError {
	cfg := c.Config
	if err := cfg.Validate(); err != nil {
		return fail(StageInput, err)
	}
	if cfg.OutputPath == "" {
		return fail(StageInput, fmt.Errorf("output path is empty"))
	}

	var rep *report.Report
	if cfg.ReportInput != "" {
		var err error
		rep, err = report.Read(cfg.ReportInput)
		if err != nil {
			return fail(StageInput, fmt.Errorf("read report: %w", err))
		}
	} else {
		if _, err := os.Stat(cfg.InputPath); err != nil {
			return fail(StageInput, err)
		}
		var serr *stageError
		rep, serr = c.recognize(ctx, out)
		if serr != nil {
			return serr
		}
		if cfg.ReportOutput != "" {
			if err := report.Write(rep, cfg.ReportOutput); err != nil {
				return fail(StageReport, err)
			}
			out.Report = cfg.ReportOutput
		}
	}
	out.Pages = len(rep.Pages)

	writeStart := time.Now()
	if err := ctx.Err(); err != nil {
		return fail(StageWrite, err)
	}
	doc := BuildDocument(rep.Results(), WriterOptions{
		FontSize:      cfg.FontSize,
		PositionHints: cfg.PositionHints,
		DPI:           rep.DPI,
	})
	out.Paragraphs = len(doc.Paragraphs)
	c.emit(StageWrite, out.Paragraphs, out.Paragraphs)

	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0755); err != nil {
		return fail(StageSave, err)
	}
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		if attempt > 1 {
			log.Printf("[!] Повторная попытка сохранения %s (%d)", cfg.OutputPath, attempt)
		}
		if err := doc.Save(cfg.OutputPath); err != nil {
			if !transientSaveError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.SaveRetryDelay), c.SaveRetries), ctx))
	if err != nil {
		return fail(StageSave, err)
	}
	out.Output = cfg.OutputPath
	out.Timings.Write = time.Since(writeStart)
	c.emit(StageSave, 1, 1)
	return nil
}

// transientSaveError reports whether a failed save may succeed later, as when
// another program holds the target open.
func transientSaveError(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EBUSY)
}

// recognize rasterizes every page, then runs OCR over the pages in order
// with a single recognizer.
func (c *Converter) recognize(ctx context.Context, out *Outcome) (*report.Report, *stageError) {
	cfg := c.Config
	rep := &report.Report{
		Version:   report.Version,
		RunID:     out.RunID,
		Input:     cfg.InputPath,
		DPI:       cfg.DPI,
		Languages: cfg.Languages,
		CreatedAt: time.Now().UTC(),
	}

	rasterStart := time.Now()
	src, err := c.OpenSource(ctx, cfg.InputPath)
	if err != nil {
		return nil, fail(StageRasterize, fmt.Errorf("open source: %w", err))
	}
	defer src.Close()

	pages, err := source.Rasterize(ctx, src, cfg.DPI, cfg.Workers, func(done, total int) {
		c.emit(StageRasterize, done, total)
	})
	if err != nil {
		return nil, fail(StageRasterize, err)
	}
	out.Timings.Rasterize = time.Since(rasterStart)

	recogStart := time.Now()
	rec, err := c.NewRecognizer()
	if err != nil {
		return nil, fail(StageRecognize, fmt.Errorf("init recognizer: %w", err))
	}
	defer func() {
		if err := rec.Close(); err != nil {
			log.Printf("[!] Ошибка закрытия OCR движка: %v", err)
		}
	}()

	for i := range pages {
		img := pages[i].Image
		bounds := img.Bounds()
		page := report.Page{Index: i, Width: bounds.Dx(), Height: bounds.Dy()}

		if c.Config.SkipBlankPages && c.Blank != nil {
			page.Blank, _ = c.Blank.IsBlank(img)
		}
		if !page.Blank {
			results, err := rec.Recognize(ctx, img)
			if err != nil {
				return nil, fail(StageRecognize, fmt.Errorf("page %d: %w", i, err))
			}
			results = ocr.FilterByConfidence(results, cfg.MinConfidence)
			for _, r := range results {
				page.Fragments = append(page.Fragments, report.FragmentFromResult(r))
			}
			if cfg.OverlayDir != "" {
				if err := overlay.SavePage(cfg.OverlayDir, i, img, results); err != nil {
					log.Printf("[!] Не удалось сохранить разметку страницы %d: %v", i+1, err)
				}
			}
		}

		rep.Pages = append(rep.Pages, page)
		pages[i].Image = nil
		c.emit(StageRecognize, i+1, len(pages))
	}
	out.Timings.Recognize = time.Since(recogStart)

	return rep, nil
}
