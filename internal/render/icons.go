package render

import (
	"fmt"
	"image"
	"image/color"
	"os"

	xdraw "golang.org/x/image/draw"
)

const iconCanvas = 64

// loadIcon reads an icon from path, or draws the built-in glyph when path is
// empty, resizes it to size x size with nearest-neighbour sampling and
// quantizes it onto the body colours. Index 0 is transparent.
func loadIcon(path string, builtin func() image.Image, size int) (*image.Paletted, error) {
	var src image.Image
	if path == "" {
		src = builtin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("render: open icon: %w", err)
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("%w: icon %s: %v", ErrDecode, path, err)
		}
		src = img
	}
	scaled := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return quantizeIcon(scaled), nil
}

// quantizeIcon maps pixels at least half opaque to the nearest body colour
// and everything else to transparent, so pasted icons never take the accent.
func quantizeIcon(src *image.NRGBA) *image.Paletted {
	body := bodyPalette()
	pal := append(color.Palette{color.Transparent}, body...)
	dst := image.NewPaletted(src.Bounds(), pal)
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.NRGBAAt(x, y)
			if c.A < 0x80 {
				continue
			}
			c.A = 0xff
			dst.SetColorIndex(x, y, uint8(body.Index(c)+1))
		}
	}
	return dst
}

// heartIcon draws a filled heart on a transparent square.
func heartIcon() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, iconCanvas, iconCanvas))
	for py := 0; py < iconCanvas; py++ {
		for px := 0; px < iconCanvas; px++ {
			// map to [-1.3, 1.3] with y up
			x := (float64(px)+0.5)/iconCanvas*2.6 - 1.3
			y := 1.3 - (float64(py)+0.5)/iconCanvas*2.6
			a := x*x + y*y - 1
			if a*a*a-x*x*y*y*y <= 0 {
				img.Set(px, py, color.NRGBA{0, 0, 0, 0xff})
			}
		}
	}
	return img
}

// retweetIcon draws two looping arrows on a transparent square.
func retweetIcon() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, iconCanvas, iconCanvas))
	ink := color.NRGBA{0, 0, 0, 0xff}
	fill := func(x0, y0, x1, y1 int) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				img.Set(x, y, ink)
			}
		}
	}
	// upper loop: left leg with a downward head
	fill(12, 14, 46, 21)
	fill(12, 14, 19, 40)
	arrowHead(img, ink, 15, 52, 40, false)
	// lower loop: right leg with an upward head
	fill(18, 43, 52, 50)
	fill(45, 24, 52, 50)
	arrowHead(img, ink, 48, 12, 24, true)
	return img
}

// arrowHead fills a triangle centred on cx between rows y0 and y1, pointing up
// (apex at y0) or down (apex at y1).
func arrowHead(img *image.NRGBA, c color.Color, cx, y0, y1 int, up bool) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	h := y1 - y0
	for y := y0; y < y1; y++ {
		dist := y - y0
		if !up {
			dist = y1 - 1 - y
		}
		half := dist * 10 / h
		for x := cx - half; x <= cx+half; x++ {
			img.Set(x, y, c)
		}
	}
}
