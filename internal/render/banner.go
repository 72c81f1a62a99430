package render

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
)

// drawBanner overlays the statistics strip on the bottom BannerHeight rows:
// a white strip topped by a BorderThickness black rule, the retweet and like
// icons with their counts, and the right-aligned handle.
func (cp *Compositor) drawBanner(canvas *image.Paletted, retweets, likes, handle string) {
	l := cp.Layout
	w, h := l.Width, l.Height
	top := h - l.BannerHeight

	draw.Draw(canvas, image.Rect(0, top, w, h), image.NewUniform(White), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, top, w, h-(l.BannerHeight-l.BorderThickness)), image.NewUniform(Black), image.Point{}, draw.Src)

	iconY := h - l.BannerHeight/2 - l.IconSize/2
	textOffset := l.IconSize * 5 / 4
	statsY := h - l.BannerHeight/2 - fontHeight(l.StatsFace)*2/3

	rtX := l.Padding
	pasteIcon(canvas, l.RetweetIcon, image.Pt(rtX, iconY))
	drawText(canvas, l.StatsFace, IndexAccent, image.Pt(rtX+textOffset, statsY), retweets)

	likeX := w/3 + l.Padding
	pasteIcon(canvas, l.LikeIcon, image.Pt(likeX, iconY))
	drawText(canvas, l.StatsFace, IndexAccent, image.Pt(likeX+textOffset, statsY), likes)

	accW := font.MeasureString(l.AccountFace, handle).Ceil()
	accY := h - l.BannerHeight/2 - fontHeight(l.AccountFace)/2
	drawText(canvas, l.AccountFace, IndexAccent, image.Pt(w-accW-l.Padding, accY), handle)
}

// pasteIcon composites icon at pt; the paletted canvas snaps every blended
// pixel to its own palette.
func pasteIcon(dst *image.Paletted, icon image.Image, pt image.Point) {
	r := image.Rectangle{Min: pt, Max: pt.Add(icon.Bounds().Size())}
	draw.Draw(dst, r, icon, icon.Bounds().Min, draw.Over)
}
