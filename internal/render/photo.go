package render

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// ScaleToFill computes the nearest-neighbour resize of a src-sized image for
// a canvas and the top-left offset of the centred crop window inside it.
// Landscape and square sources are scaled to the canvas height, portrait
// sources to the canvas width. A negative offset means the scaled image is
// smaller than the canvas on that axis and is centred with white margins.
func ScaleToFill(src, canvas image.Point) (scaled, offset image.Point) {
	if src.X >= src.Y {
		scaled.Y = canvas.Y
		scaled.X = int(float64(src.X) / float64(src.Y) * float64(canvas.Y))
		offset.X = (scaled.X - canvas.X) / 2
		return scaled, offset
	}
	scaled.X = canvas.X
	scaled.Y = int(float64(src.Y) / float64(src.X) * float64(canvas.X))
	offset.Y = (scaled.Y - canvas.Y) / 2
	return scaled, offset
}

// FitPhoto scales, crops and quantizes src to a canvas for l.
// Photo pixels only use white, black and red.
func FitPhoto(src image.Image, l *Layout) *image.Paletted {
	b := l.Bounds()
	size, off := ScaleToFill(src.Bounds().Size(), b.Size())

	// transparent pixels show the white page underneath
	scaled := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(scaled, scaled.Bounds(), image.NewUniform(White), image.Point{}, draw.Src)
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	canvas := image.NewPaletted(b, bodyPalette())
	draw.Draw(canvas, b, image.NewUniform(White), image.Point{}, draw.Src)
	if l.Dither {
		draw.FloydSteinberg.Draw(canvas, b, scaled, off)
	} else {
		draw.Draw(canvas, b, scaled, off, draw.Src)
	}
	// indices 0-2 are shared; slot 3 becomes the accent for the banner
	canvas.Palette = l.Palette()
	return canvas
}
