package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ivlev/pdf2docx/internal/config"
	"github.com/ivlev/pdf2docx/internal/docx"
	"github.com/ivlev/pdf2docx/internal/engine"
	_ "github.com/ivlev/pdf2docx/internal/ocr/tesseract"
	"github.com/ivlev/pdf2docx/internal/report"
	"github.com/ivlev/pdf2docx/internal/system"
)

var buildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	dirs := []string{"input/pdf", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	def := config.Default()

	inputPtr := flag.String("input", "", "Путь к PDF или папке с изображениями (по умолчанию: самый свежий файл в input/pdf/)")
	outputPtr := flag.String("output", "", "Путь к .docx (если пусто, генерируется автоматически в output/)")
	configPtr := flag.String("config", "", "YAML файл конфигурации")
	rasterizerPtr := flag.String("rasterizer", def.Rasterizer, "Растеризатор PDF: fitz, poppler")
	popplerPtr := flag.String("poppler-path", "", "Папка с pdftoppm/pdfinfo")
	dpiPtr := flag.Int("dpi", def.DPI, "DPI")
	workersPtr := flag.Int("workers", system.DefaultWorkers(), "Потоки растеризации")
	enginePtr := flag.String("engine", def.Engine, "OCR движок: tesseract, noop")
	langPtr := flag.String("lang", strings.Join(def.Languages, ","), "Языки OCR через запятую")
	tessdataPtr := flag.String("tessdata", "", "Папка tessdata")
	positionPtr := flag.Bool("position", false, "Сохранять горизонтальную позицию фрагментов отступом")
	confidencePtr := flag.Float64("min-confidence", 0, "Минимальная уверенность OCR (0..1)")
	skipBlankPtr := flag.Bool("skip-blank", false, "Пропускать пустые страницы")
	reportPtr := flag.String("report", "", "Сохранить отчет распознавания (путь или auto)")
	fromReportPtr := flag.String("from-report", "", "Собрать документ из отчета без OCR (путь или latest)")
	overlayPtr := flag.String("overlay", "", "Папка для страниц с разметкой найденных фрагментов")
	statsPtr := flag.Bool("stats", false, "Показать статистику и записать benchmark.log")
	inspectPtr := flag.String("inspect", "", "Показать абзацы существующего .docx и выйти")

	flag.Parse()

	if *inspectPtr != "" {
		if err := inspect(*inspectPtr); err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		return
	}

	config.LoadDotEnv()

	var cfg *config.Config
	if *configPtr != "" {
		var err error
		cfg, err = config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка загрузки конфигурации: %v", err)
		}
	} else {
		cfg = config.Default()
		cfg.ApplyEnv()
		cfg.Workers = *workersPtr
	}
	cfg.BuildVersion = buildVersion

	// Флаги, заданные явно, важнее файла конфигурации
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *inputPtr
		case "output":
			cfg.OutputPath = *outputPtr
		case "rasterizer":
			cfg.Rasterizer = *rasterizerPtr
		case "poppler-path":
			cfg.PopplerPath = *popplerPtr
		case "dpi":
			cfg.DPI = *dpiPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "engine":
			cfg.Engine = *enginePtr
		case "lang":
			cfg.Languages = config.SplitList(*langPtr)
		case "tessdata":
			cfg.TessdataPath = *tessdataPtr
		case "position":
			cfg.PositionHints = *positionPtr
		case "min-confidence":
			cfg.MinConfidence = *confidencePtr
		case "skip-blank":
			cfg.SkipBlankPages = *skipBlankPtr
		case "report":
			cfg.ReportOutput = *reportPtr
		case "from-report":
			cfg.ReportInput = *fromReportPtr
		case "overlay":
			cfg.OverlayDir = *overlayPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		}
	})

	if cfg.ReportOutput == "auto" {
		cfg.ReportOutput = report.GeneratePath(report.DefaultDir)
	}
	if cfg.ReportInput == "latest" {
		latest, err := report.FindLatest(report.DefaultDir)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		cfg.ReportInput = latest
		fmt.Printf("[*] Выбран отчет: %s\n", latest)
	}

	if cfg.InputPath == "" && cfg.ReportInput == "" {
		latest, err := system.FindLatestPDF("input/pdf")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите PDF в input/pdf/", err)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Выбран файл: %s\n", cfg.InputPath)
	}

	if cfg.OutputPath == "" {
		cfg.OutputPath = defaultOutput(cfg)
	}

	if cfg.ShowStats {
		if host, err := system.DescribeHost(); err == nil {
			fmt.Printf("[*] %s\n", host)
		} else {
			log.Printf("[!] Не удалось получить информацию о системе: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conv := engine.NewConverter(cfg)
	conv.Progress = func(ev engine.Event) {
		switch ev.Stage {
		case engine.StageRasterize:
			fmt.Printf("[>] Страница растеризована: %d/%d\n", ev.Done, ev.Total)
		case engine.StageRecognize:
			fmt.Printf("[>] Ready: %d/%d\n", ev.Done, ev.Total)
		case engine.StageWrite:
			fmt.Printf("[*] Абзацев: %d\n", ev.Total)
		}
	}

	fmt.Println("Status: " + engine.Converting.String())
	outcome := conv.Run(ctx)
	fmt.Println(outcome)

	if cfg.ShowStats {
		fmt.Print(engine.PerformanceReport(outcome, cfg.BuildVersion))
		input := cfg.InputPath
		if cfg.ReportInput != "" {
			input = cfg.ReportInput
		}
		if err := engine.AppendBenchmarkLog("benchmark.log", cfg.BuildVersion, input, outcome); err != nil {
			fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
		}
	}

	if !outcome.Succeeded() {
		os.Exit(1)
	}
	if outcome.Report != "" {
		fmt.Printf("[*] Отчет распознавания: %s\n", outcome.Report)
	}
	fmt.Printf("[+++] Успех! Результат: %s\n", outcome.Output)
}

func defaultOutput(cfg *config.Config) string {
	nameSource := cfg.InputPath
	if nameSource == "" {
		nameSource = cfg.ReportInput
	}
	baseName := filepath.Base(nameSource)
	ext := filepath.Ext(baseName)
	nameOnly := strings.TrimSuffix(baseName, ext)
	cleanName := strings.ReplaceAll(nameOnly, " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join("output", fmt.Sprintf("%s_%s.docx", cleanName, timestamp))
}

func inspect(path string) error {
	doc, err := docx.Open(path)
	if err != nil {
		return err
	}
	for i, p := range doc.Paragraphs {
		indent := ""
		if p.Indent != nil {
			indent = fmt.Sprintf(" indent=%d", *p.Indent)
		}
		fmt.Printf("%4d [%.1fpt%s] %s\n", i+1, p.FontSize, indent, p.Text)
	}
	fmt.Printf("[*] Всего абзацев: %d\n", len(doc.Paragraphs))
	return nil
}
