package theme

import (
	"fmt"
	"io"
)

// Banner returns a small e-ink panel drawn in the display's colours.
func Banner(accent string) string {
	const reset = "\033[0m"
	hi := "\033[33m"
	if accent == "red" {
		hi = "\033[31m"
	}
	return "" +
		"  ┌──────────────────────────┐\n" +
		"  │ " + hi + "TWEETINK" + reset + "                 │\n" +
		"  │ your nth tweet, on paper │\n" +
		"  ├──────────────────────────┤\n" +
		"  │ ⟲ 12.5K   " + hi + "♥" + reset + " 3     @you │\n" +
		"  └──────────────────────────┘\n"
}

// PrintBanner writes the banner to w.
func PrintBanner(w io.Writer, accent string) {
	fmt.Fprint(w, Banner(accent))
}
