package render

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// loadFace opens a TrueType font at path, or the embedded fallback when path is empty.
// Sizes are in pixels.
func loadFace(path string, fallback []byte, size float64) (font.Face, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("render: read font: %w", err)
		}
		data = b
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("render: parse font %q: %w", path, err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

var (
	regularTTF = goregular.TTF
	boldTTF    = gobold.TTF
)

// faceMeasurer measures strings in whole pixels for the reflow engine.
type faceMeasurer struct{ face font.Face }

func (m faceMeasurer) Measure(s string) int {
	return font.MeasureString(m.face, s).Ceil()
}

// fontHeight is the height of the face's glyph box (ascent + descent).
func fontHeight(f font.Face) int {
	m := f.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}
