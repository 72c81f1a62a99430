package render

import (
	"fmt"
	"image/color"
	"strings"
)

// Accent selects the third display colour used for counts and the handle.
type Accent string

const (
	AccentRed    Accent = "red"
	AccentYellow Accent = "yellow"
)

var (
	White  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	Black  = color.RGBA{0x00, 0x00, 0x00, 0xff}
	Red    = color.RGBA{0xff, 0x00, 0x00, 0xff}
	Yellow = color.RGBA{0xff, 0xff, 0x00, 0xff}
)

// Palette indexes shared by every composed canvas.
const (
	IndexWhite uint8 = iota
	IndexBlack
	IndexRed
	IndexAccent
)

// ParseAccent accepts "red" or "yellow", case-insensitively.
func ParseAccent(s string) (Accent, error) {
	switch a := Accent(strings.ToLower(strings.TrimSpace(s))); a {
	case AccentRed, AccentYellow:
		return a, nil
	default:
		return "", fmt.Errorf("render: unknown accent colour %q (want red or yellow)", s)
	}
}

// Color returns the RGB value of the accent.
func (a Accent) Color() color.RGBA {
	if a == AccentYellow {
		return Yellow
	}
	return Red
}

// Palette returns the 4-entry canvas palette {white, black, red, accent}.
func Palette(a Accent) color.Palette {
	return color.Palette{White, Black, Red, a.Color()}
}

// bodyPalette is used to quantize photos; the last slot is a black filler so
// photo pixels never land on the accent.
func bodyPalette() color.Palette {
	return color.Palette{White, Black, Red, Black}
}
