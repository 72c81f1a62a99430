package cmdlog

import (
	"time"

	"tweetink/internal/logging"
	"tweetink/internal/metrics"
)

// Run executes f as command cmd, logging the outcome and its duration.
func Run(cmd string, f func() error) error {
	start := time.Now()
	err := f()
	fields := map[string]any{"elapsed_ms": time.Since(start).Milliseconds()}
	if err != nil {
		fields["error"] = err.Error()
		logging.Error(cmd+"_error", fields)
	} else {
		logging.Info(cmd+"_ok", fields)
	}
	return err
}

// Flush writes the metrics textfile, logging rather than failing on error.
func Flush(textfile string) {
	if err := metrics.WriteTextfile(textfile); err != nil {
		logging.Warn("metrics_textfile_error", map[string]any{"path": textfile, "error": err.Error()})
	}
}
