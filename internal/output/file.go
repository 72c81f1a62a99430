package output

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// FileSink writes canvases as PNG. It backs --test and headless runs.
type FileSink struct {
	Path   string
	Width  int
	Height int
}

func (s FileSink) Size() image.Point { return image.Pt(s.Width, s.Height) }

func (s FileSink) Write(_ context.Context, img *image.Paletted) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("output: %w", err)
		}
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := png.Encode(w, img); err != nil {
		f.Close()
		return fmt.Errorf("output: encode %s: %w", s.Path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("output: %w", err)
	}
	return f.Close()
}
