package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
)

// Options describe the look of a composed canvas. Zero values fall back to
// the defaults from DefaultOptions.
type Options struct {
	TweetFont       string  // path to a TTF; empty uses Go Regular
	AccountFont     string  // empty uses Go Bold
	StatsFont       string  // empty uses Go Bold
	TweetFontSize   float64 // pixels
	AccountFontSize float64
	StatsFontSize   float64
	BannerHeight    int
	BorderThickness int
	Padding         int
	RetweetIcon     string // path to an image; empty uses the built-in glyph
	LikeIcon        string
	Accent          Accent
	Dither          bool // Floyd-Steinberg when quantizing photos
}

// DefaultOptions matches a 400x300 Inky wHAT.
func DefaultOptions() Options {
	return Options{
		TweetFontSize:   16,
		AccountFontSize: 20,
		StatsFontSize:   24,
		BannerHeight:    40,
		BorderThickness: 1,
		Padding:         5,
		Accent:          AccentYellow,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TweetFontSize <= 0 {
		o.TweetFontSize = d.TweetFontSize
	}
	if o.AccountFontSize <= 0 {
		o.AccountFontSize = d.AccountFontSize
	}
	if o.StatsFontSize <= 0 {
		o.StatsFontSize = d.StatsFontSize
	}
	if o.BannerHeight <= 0 {
		o.BannerHeight = d.BannerHeight
	}
	if o.BorderThickness <= 0 {
		o.BorderThickness = d.BorderThickness
	}
	if o.Padding <= 0 {
		o.Padding = d.Padding
	}
	if o.Accent == "" {
		o.Accent = d.Accent
	}
	return o
}

// Layout holds everything computed once per run from the options and the
// canvas size handed over by the output sink. It is read-only after NewLayout.
type Layout struct {
	Width, Height   int
	BannerHeight    int
	BorderThickness int
	Padding         int
	IconSize        int
	Accent          Accent
	Dither          bool

	TweetFace   font.Face
	AccountFace font.Face
	StatsFace   font.Face

	RetweetIcon image.Image
	LikeIcon    image.Image
}

// NewLayout loads fonts and icons and derives the banner geometry for a
// canvas of the given size.
func NewLayout(o Options, size image.Point) (*Layout, error) {
	o = o.withDefaults()
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("render: invalid canvas size %dx%d", size.X, size.Y)
	}
	if _, err := ParseAccent(string(o.Accent)); err != nil {
		return nil, err
	}
	l := &Layout{
		Width:           size.X,
		Height:          size.Y,
		BannerHeight:    o.BannerHeight,
		BorderThickness: o.BorderThickness,
		Padding:         o.Padding,
		IconSize:        o.BannerHeight - 4*o.Padding,
		Accent:          o.Accent,
		Dither:          o.Dither,
	}
	if l.IconSize <= 0 {
		return nil, fmt.Errorf("render: banner height %d too small for padding %d", o.BannerHeight, o.Padding)
	}
	if l.BannerHeight > l.Height {
		return nil, fmt.Errorf("render: banner height %d exceeds canvas height %d", l.BannerHeight, l.Height)
	}

	var err error
	if l.TweetFace, err = loadFace(o.TweetFont, regularTTF, o.TweetFontSize); err != nil {
		return nil, err
	}
	if l.AccountFace, err = loadFace(o.AccountFont, boldTTF, o.AccountFontSize); err != nil {
		return nil, err
	}
	if l.StatsFace, err = loadFace(o.StatsFont, boldTTF, o.StatsFontSize); err != nil {
		return nil, err
	}
	if l.RetweetIcon, err = loadIcon(o.RetweetIcon, retweetIcon, l.IconSize); err != nil {
		return nil, err
	}
	if l.LikeIcon, err = loadIcon(o.LikeIcon, heartIcon, l.IconSize); err != nil {
		return nil, err
	}
	return l, nil
}

// Bounds is the canvas rectangle.
func (l *Layout) Bounds() image.Rectangle { return image.Rect(0, 0, l.Width, l.Height) }

// BannerRect is the strip at the bottom of the canvas occupied by the banner.
func (l *Layout) BannerRect() image.Rectangle {
	return image.Rect(0, l.Height-l.BannerHeight, l.Width, l.Height)
}

// Palette is the canvas palette for this layout's accent.
func (l *Layout) Palette() color.Palette { return Palette(l.Accent) }
