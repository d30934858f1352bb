package ocr

import (
	"context"
	"image"
	"sync"
)

// StaticRecognizer returns Pages[i] on its i-th call and nothing after the
// list runs out. It stands in for a real engine where output must be fixed.
type StaticRecognizer struct {
	Pages [][]Result

	mu     sync.Mutex
	calls  int
	closed bool
}

func (s *StaticRecognizer) Recognize(ctx context.Context, img image.Image) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i >= len(s.Pages) {
		return nil, nil
	}
	return append([]Result(nil), s.Pages[i]...), nil
}

func (s *StaticRecognizer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *StaticRecognizer) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *StaticRecognizer) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
