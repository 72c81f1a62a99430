// Package render composes a tweet into a fixed-size, 4-colour canvas for an
// e-ink display: a photo or reflowed text body with a statistics banner below.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"tweetink/internal/model"
	"tweetink/internal/util"
)

// ErrDecode is returned when fetched bytes are not a decodable image.
var ErrDecode = errors.New("render: image decode failed")

// ImageFetcher downloads the bytes behind a media URL.
type ImageFetcher interface {
	GetMedia(ctx context.Context, url string) ([]byte, error)
}

// Compositor draws classified content using a fixed layout.
type Compositor struct {
	Layout  *Layout
	Fetcher ImageFetcher
}

// NewCompositor returns a compositor; fetcher may be nil when only text
// content will be drawn.
func NewCompositor(l *Layout, f ImageFetcher) *Compositor {
	return &Compositor{Layout: l, Fetcher: f}
}

// Compose renders the body for c (photo or text) and overlays the banner
// with the counts and @username. Photo fetch or decode failures are returned
// as is; there is no fallback to the text body.
func (cp *Compositor) Compose(ctx context.Context, c model.Content, username string) (*image.Paletted, error) {
	var (
		canvas *image.Paletted
		err    error
	)
	if c.IsPhoto() {
		canvas, err = cp.photoBody(ctx, c.Photo.URL)
		if err != nil {
			return nil, err
		}
	} else {
		canvas = cp.textBody(c.Text)
	}
	cp.drawBanner(canvas, util.HumanFormat(c.RetweetCount), util.HumanFormat(c.LikeCount), "@"+username)
	return canvas, nil
}

func (cp *Compositor) photoBody(ctx context.Context, url string) (*image.Paletted, error) {
	if cp.Fetcher == nil {
		return nil, errors.New("render: no image fetcher configured")
	}
	raw, err := cp.Fetcher.GetMedia(ctx, url)
	if err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, url, err)
	}
	return FitPhoto(src, cp.Layout), nil
}

func (cp *Compositor) textBody(text string) *image.Paletted {
	l := cp.Layout
	canvas := image.NewPaletted(l.Bounds(), l.Palette())
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(White), image.Point{}, draw.Src)
	reflowed := util.Reflow(text, l.Width, faceMeasurer{l.TweetFace})
	drawText(canvas, l.TweetFace, IndexBlack, image.Pt(0, 0), reflowed)
	return canvas
}

// drawText draws possibly multi-line s with its top-left corner at pt.
func drawText(dst *image.Paletted, face font.Face, idx uint8, pt image.Point, s string) {
	m := face.Metrics()
	lineHeight := m.Height
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(dst.Palette[idx]),
		Face: face,
	}
	for i, line := range strings.Split(s, "\n") {
		d.Dot = fixed.Point26_6{
			X: fixed.I(pt.X),
			Y: fixed.I(pt.Y) + m.Ascent + lineHeight*fixed.Int26_6(i),
		}
		d.DrawString(line)
	}
}
