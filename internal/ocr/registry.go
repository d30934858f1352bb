package ocr

import (
	"context"
	"fmt"
	"image"
	"sort"
	"sync"
)

const DefaultEngine = "tesseract"

type Options struct {
	Languages    []string
	TessdataPath string
	MaxImageSide int
	Grayscale    bool
}

type Factory func(opts Options) (Recognizer, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"noop": func(Options) (Recognizer, error) { return noopRecognizer{}, nil },
	}
)

// Register makes an engine available to NewRecognizer under name.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Engines lists registered engine names.
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRecognizer creates a recognizer for the named engine; "" means DefaultEngine.
func NewRecognizer(variant string, opts Options) (Recognizer, error) {
	if variant == "" {
		variant = DefaultEngine
	}
	registryMu.RLock()
	f, ok := registry[variant]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown OCR engine: %s (available: %v)", variant, Engines())
	}
	return f(opts)
}

type noopRecognizer struct{}

func (noopRecognizer) Recognize(ctx context.Context, img image.Image) ([]Result, error) {
	return nil, ctx.Err()
}

func (noopRecognizer) Close() error { return nil }
