// Package output delivers a rendered canvas to a PNG file or an e-ink panel.
package output

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Sink receives finished canvases. Size is the canvas the sink expects.
type Sink interface {
	Size() image.Point
	Write(ctx context.Context, img *image.Paletted) error
}

// Display is the minimal surface of an e-ink panel driver.
type Display interface {
	Bounds() image.Rectangle
	SetImage(img image.Image) error
	SetBorder(c color.Color)
	Show(ctx context.Context) error
}

// ParseBorder maps a border name to its colour. Empty means white.
func ParseBorder(s string) (color.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "white":
		return color.White, nil
	case "black":
		return color.Black, nil
	case "red":
		return color.RGBA{0xff, 0x00, 0x00, 0xff}, nil
	case "yellow":
		return color.RGBA{0xff, 0xff, 0x00, 0xff}, nil
	}
	return nil, fmt.Errorf("output: unknown border colour %q", s)
}

// DisplaySink pushes canvases to a Display. A nil Border is white.
type DisplaySink struct {
	Display Display
	Border  color.Color
}

func (s DisplaySink) Size() image.Point { return s.Display.Bounds().Size() }

func (s DisplaySink) Write(ctx context.Context, img *image.Paletted) error {
	if err := s.Display.SetImage(img); err != nil {
		return err
	}
	border := s.Border
	if border == nil {
		border = color.White
	}
	s.Display.SetBorder(border)
	return s.Display.Show(ctx)
}
