package xclient

import (
	"os"
	"strconv"

	"golang.org/x/time/rate"
)

// NewLimiter returns a token bucket of rps and burst, overridable through
// <prefix>_RPS and <prefix>_BURST. Invalid or non-positive overrides are ignored.
func NewLimiter(prefix string, rps float64, burst int) *rate.Limiter {
	if f, err := strconv.ParseFloat(os.Getenv(prefix+"_RPS"), 64); err == nil && f > 0 {
		rps = f
	}
	if n, err := strconv.Atoi(os.Getenv(prefix + "_BURST")); err == nil && n > 0 {
		burst = n
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// X API calls from one run: a timeline page and maybe a photo.
func newDefaultLimiter() *rate.Limiter { return NewLimiter("X_API", 1, 2) }
