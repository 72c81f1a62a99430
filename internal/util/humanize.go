package util

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

var magnitudes = []string{"", "K", "M", "B", "T"}

// HumanFormat abbreviates a count to three significant figures with a
// thousands suffix, e.g. 1500 -> "1.5K", 1000000 -> "1M".
func HumanFormat(n int) string {
	num, _ := strconv.ParseFloat(strconv.FormatFloat(float64(n), 'g', 3, 64), 64)
	mag := 0
	for math.Abs(num) >= 1000 && mag < len(magnitudes)-1 {
		mag++
		num /= 1000
	}
	return humanize.Ftoa(num) + magnitudes[mag]
}
